package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/arbitex/marketplace/internal/api/handler"
	"github.com/arbitex/marketplace/internal/api/middleware"
	"github.com/arbitex/marketplace/internal/core/domain"
	"github.com/arbitex/marketplace/internal/core/ports"
	"github.com/arbitex/marketplace/internal/core/service"
	"github.com/arbitex/marketplace/internal/infrastructure/config"
	mongodb "github.com/arbitex/marketplace/internal/infrastructure/db/mongo"
	redisdb "github.com/arbitex/marketplace/internal/infrastructure/db/redis"
	"github.com/arbitex/marketplace/internal/infrastructure/session"
	"github.com/arbitex/marketplace/internal/infrastructure/wallet"
	"github.com/arbitex/marketplace/internal/pkg/keymutex"
)

// NewRouter builds the Echo instance with all dependencies wired and routes
// registered.
func NewRouter(
	cfg *config.Config,
	db *mongo.Database,
	rdb *redis.Client,
	publisher ports.EventPublisher,
	codec *session.Codec,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("marketplace"))

	// --- Repositories ---
	identities := mongodb.NewIdentityRepository(db)
	disputes := mongodb.NewDisputeRepository(db)
	votes := mongodb.NewVoteRepository(db)
	evidence := mongodb.NewEvidenceRepository(db)
	products := mongodb.NewProductRepository(db)
	carts := mongodb.NewCartRepository(db)
	orders := mongodb.NewOrderRepository(db)
	sessions := redisdb.NewSessionStore(rdb, cfg.Session.TTL)

	// One pool per key space: operations on the same session or the same
	// dispute must hit the same mutex across services.
	sessionLocks := keymutex.New(256)
	disputeLocks := keymutex.New(256)

	// --- Services ---
	verifier := wallet.NewVerifier()
	authService := service.NewAuthService(sessions, identities, verifier, sessionLocks, service.AuthConfig{
		Domain:       cfg.Auth.Domain,
		Statement:    cfg.Auth.Statement,
		AdminWallets: cfg.Auth.AdminWallets,
		NonceTTL:     cfg.Auth.NonceTTL,
		JWTSecret:    cfg.Auth.JWTSecret,
		TokenTTL:     cfg.Auth.TokenTTL,
	}, log)
	disputeService := service.NewDisputeService(disputes, orders, votes, publisher, disputeLocks, cfg.Dispute.EvidencePublic, log)
	arbitrationService := service.NewArbitrationService(disputes, votes, publisher, disputeLocks, log)
	evidenceService := service.NewEvidenceService(disputes, evidence, cfg.Dispute.EvidencePublic, log)
	catalogService := service.NewCatalogService(products, log)
	cartService := service.NewCartService(carts, products, log)
	orderService := service.NewOrderService(orders, carts, products, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService, codec, cfg.Session.CookieName, cfg.Session.TTL, cfg.Env == "production")
	disputeHandler := handler.NewDisputeHandler(disputeService, arbitrationService, evidenceService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	cartHandler := handler.NewCartHandler(cartService)
	orderHandler := handler.NewOrderHandler(orderService)

	authRequired := middleware.Auth(cfg.Auth.JWTSecret, cfg.Session.CookieName, codec, authService)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Sign-in protocol ---
	e.POST("/auth/challenge", authHandler.Challenge)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)

	// --- Catalog browsing is public; creation is admin-gated ---
	e.GET("/api/v1/products", catalogHandler.List)
	e.GET("/api/v1/products/:id", catalogHandler.Get)

	v1 := e.Group("/api/v1", authRequired)
	v1.GET("/me", authHandler.Me)
	v1.POST("/products", catalogHandler.Create, adminOnly)

	v1.GET("/cart", cartHandler.Get)
	v1.POST("/cart/items", cartHandler.AddItem)
	v1.DELETE("/cart/items/:productId", cartHandler.RemoveItem)

	v1.POST("/orders", orderHandler.Checkout)
	v1.GET("/orders", orderHandler.List)
	v1.GET("/orders/:id", orderHandler.Get)
	v1.POST("/orders/:id/complete", orderHandler.Complete)

	v1.POST("/disputes", disputeHandler.Create)
	v1.GET("/disputes", disputeHandler.List)
	v1.GET("/disputes/:id", disputeHandler.Get)
	v1.POST("/disputes/:id/jurors", disputeHandler.AssignJurors, adminOnly)
	v1.POST("/disputes/:id/votes", disputeHandler.SubmitVote)
	v1.POST("/disputes/:id/evidence", disputeHandler.PostEvidence)
	v1.GET("/disputes/:id/evidence", disputeHandler.ListEvidence)

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())

	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	return e
}
