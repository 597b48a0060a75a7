package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/edulingo/backend/api/handler"
)

type Handlers struct {
	User    *apiHandler.UserHandler
	Listing *apiHandler.ListingHandler
	Token   *apiHandler.TokenHandler
	Feed    *apiHandler.FeedHandler
	Health  *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Discovery surfaces: no caller identity required.
	r.GET("/api/v1/feed", handlers.Feed.Feed)
	r.GET("/api/v1/discover", handlers.Feed.Discover)
	r.GET("/api/v1/users/{address}", handlers.User.GetProfile)
	r.GET("/api/v1/listings/{creator}", handlers.Listing.GetUserListings)
	r.GET("/api/v1/listings/{creator}/{id}", handlers.Listing.GetListing)
	r.GET("/api/v1/token/allowance", handlers.Token.Allowance)
	r.GET("/api/v1/token/balance/{owner}", handlers.Token.Balance)

	// Mutations require a resolved identity.
	r.POST("/api/v1/users", authMiddleware(handlers.User.CreateUser))
	r.POST("/api/v1/listings", authMiddleware(handlers.Listing.CreateListing))
	r.POST("/api/v1/listings/{creator}/{id}/purchase", authMiddleware(handlers.Listing.PurchaseListing))
	r.POST("/api/v1/token/approve", authMiddleware(handlers.Token.Approve))
	r.POST("/api/v1/token/mint", authMiddleware(handlers.Token.Mint))

	return r
}
