package http

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
)

const userIDHeader = "X-User-ID"

// RouterDeps bundles everything the routing layer forwards commands into.
type RouterDeps struct {
	Auctions    AuctionCreator
	AuctionRead AuctionReader
	Canceller   AuctionCanceller
	BidList     BidLister
	Bids        BidPlacer
	Invalidator SnapshotInvalidator
	Cart        CartManager
	Checkout    CheckoutRunner
	Orders      OrderAdvancer
	Products    ProductReader
	Redis       *redis.Client
	CORSOrigins []string
	Logger      *log.Logger
}

// NewRouter wires the chi router. Everything here is glue: authentication
// is assumed done upstream, the actor arrives in the X-User-ID header.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP)
	r.Use(middleware.Timeout(15 * time.Second))

	r.Get("/health", HealthHandler)

	r.Post("/auctions", HandleCreateAuction(deps.Auctions))
	r.Get("/auctions/{auctionID}", HandleGetAuction(deps.AuctionRead))
	r.Get("/auctions/{auctionID}/bids", HandleListBids(deps.BidList))
	r.Post("/auctions/{auctionID}/bids", HandlePlaceBid(deps.Bids, deps.Invalidator))
	r.Post("/auctions/{auctionID}/cancel", HandleCancelAuction(deps.Canceller, deps.Invalidator))

	r.Get("/products/{productID}", HandleGetProduct(deps.Products))

	r.Get("/cart", HandleGetCart(deps.Cart))
	r.Post("/cart/items", HandleAddCartItem(deps.Cart))
	r.Patch("/cart/items/{productID}", HandleUpdateCartItem(deps.Cart))
	r.Delete("/cart/items/{productID}", HandleRemoveCartItem(deps.Cart))

	r.Post("/checkout", HandleCheckout(deps.Checkout, deps.Orders, deps.Cart, deps.Redis))

	r.Get("/orders/{orderID}", HandleGetOrder(deps.Orders))
	r.Post("/orders/{orderID}/pay", HandleMarkOrderPaid(deps.Orders))
	r.Post("/orders/{orderID}/deliver", HandleMarkOrderDelivered(deps.Orders))

	r.NotFound(NotFoundHandler().ServeHTTP)
	r.MethodNotAllowed(MethodNotAllowedHandler().ServeHTTP)

	return RequestLogger(CORS(deps.CORSOrigins, r), deps.Logger)
}
