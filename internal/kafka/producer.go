package kafka

import (
	"context"
	"log"
	"time"

	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/events"
	kafkago "github.com/segmentio/kafka-go"
)

// Producer buffers envelopes and writes them asynchronously so request
// handlers never block on the broker.
type Producer struct {
	w       *kafkago.Writer
	inbox   chan kafkago.Message
	closeCh chan struct{}
	logger  *log.Logger
}

func NewProducer(brokers []string, topic string, buf int, logger *log.Logger) *Producer {
	if logger == nil {
		logger = log.Default()
	}
	return &Producer{
		w: &kafkago.Writer{
			Addr:         kafkago.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafkago.Hash{},
			RequiredAcks: kafkago.RequireAll,
			Async:        true,
		},
		inbox:   make(chan kafkago.Message, buf),
		closeCh: make(chan struct{}),
		logger:  logger,
	}
}

// Start drains the inbox until ctx is cancelled, then flushes what is left.
func (p *Producer) Start(ctx context.Context) {
	go func() {
		defer close(p.closeCh)
		for {
			select {
			case <-ctx.Done():
				// Flush what is buffered. The inbox is never closed:
				// handlers may still publish while the server drains,
				// and those late events just stay behind.
				for {
					select {
					case m := <-p.inbox:
						p.write(m)
					default:
						_ = p.w.Close()
						return
					}
				}
			case m := <-p.inbox:
				p.write(m)
			}
		}
	}()
}

func (p *Producer) write(m kafkago.Message) {
	if err := p.w.WriteMessages(context.Background(), m); err != nil {
		p.logger.Printf("WARN: kafka write failed topic=%s: %v", p.w.Topic, err)
	}
}

// Publish implements events.Publisher. Drops the event when the inbox is
// full rather than stalling the caller.
func (p *Producer) Publish(_ context.Context, key string, env events.Envelope) {
	msg := kafkago.Message{
		Key:   events.PartitionKey(key),
		Value: MustMarshal(env),
		Time:  time.Now(),
		Headers: []kafkago.Header{
			{Key: "x-event-type", Value: []byte(env.EventType)},
			{Key: "x-event-version", Value: []byte("1")},
		},
	}
	select {
	case p.inbox <- msg:
	default:
		p.logger.Printf("WARN: kafka inbox full, dropping event type=%s", env.EventType)
	}
}

// WaitClosed blocks until the drain goroutine has flushed and exited.
func (p *Producer) WaitClosed() { <-p.closeCh }
