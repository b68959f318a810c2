package events

const (
	TopicAuctions = "marketplace.auctions"
	TopicOrders   = "marketplace.orders"
)

// PartitionKey keeps all events for one entity on one partition so
// per-auction and per-order ordering survives the broker.
func PartitionKey(entityID string) []byte { return []byte(entityID) }
