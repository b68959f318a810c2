package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/app"
	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/cache"
	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/clock"
	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/config"
	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/events"
	kafkax "github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/kafka"
	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/redisx"
	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/storage/postgres"
	transporthttp "github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/transport/http"
	"github.com/Arvin-Samuel-A/EcoFinds-sub000/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := log.Default()
	cfg := config.Load(logger)

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to db: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		log.Fatalf("db ping: %v", err)
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redisx.New(cfg.RedisAddr)
		if err := rdb.Ping(startupCtx).Err(); err != nil {
			logger.Printf("WARN: redis unreachable, running without cache: %v", err)
			rdb = nil
		}
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var auctionPub, orderPub events.Publisher = events.NopPublisher{}, events.NopPublisher{}
	var producers []*kafkax.Producer
	if len(cfg.KafkaBrokers) > 0 {
		ap := kafkax.NewProducer(cfg.KafkaBrokers, cfg.AuctionTopic, 256, logger)
		op := kafkax.NewProducer(cfg.KafkaBrokers, cfg.OrderTopic, 256, logger)
		ap.Start(stopCtx)
		op.Start(stopCtx)
		auctionPub, orderPub = ap, op
		producers = append(producers, ap, op)
	}

	clk := clock.NewSystem()
	auctionRepo := postgres.NewAuctionRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	cartRepo := postgres.NewCartRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)

	auctionSvc := app.NewAuctionService(auctionRepo, clk, auctionPub)
	bidSvc := app.NewBidService(auctionRepo, clk, auctionPub)
	inventorySvc := app.NewInventoryService(productRepo, clk)
	cartSvc := app.NewCartService(cartRepo, productRepo, clk)
	checkoutSvc := app.NewCheckoutService(cartRepo, orderRepo, inventorySvc, clk, orderPub)
	orderSvc := app.NewOrderService(orderRepo, clk)
	auctionCache := cache.NewAuctionCache(rdb, auctionSvc, clk)
	sweeper := app.NewSweeper(auctionRepo, auctionSvc, clk, logger)

	handler := transporthttp.NewRouter(transporthttp.RouterDeps{
		Auctions:    auctionSvc,
		AuctionRead: auctionCache,
		Canceller:   auctionSvc,
		BidList:     auctionSvc,
		Bids:        bidSvc,
		Invalidator: auctionCache,
		Cart:        cartSvc,
		Checkout:    checkoutSvc,
		Orders:      orderSvc,
		Products:    productRepo,
		Redis:       rdb,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
	})

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler,
	}

	g, gctx := errgroup.WithContext(stopCtx)

	g.Go(func() error {
		log.Printf("api listening on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return sweeper.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Printf("server error: %v", err)
	}
	for _, p := range producers {
		p.WaitClosed()
	}
	log.Printf("server stopped")
}
