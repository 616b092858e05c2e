package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/basetishop/shop_api/internal/cache"
	"github.com/basetishop/shop_api/internal/config"
	"github.com/basetishop/shop_api/internal/database"
	"github.com/basetishop/shop_api/internal/handler"
	"github.com/basetishop/shop_api/internal/middleware"
	"github.com/basetishop/shop_api/internal/models"
	"github.com/basetishop/shop_api/internal/repository"
	"github.com/basetishop/shop_api/internal/service"
	"github.com/basetishop/shop_api/internal/sse"
	"github.com/basetishop/shop_api/internal/utils"
	"github.com/basetishop/shop_api/internal/worker"
	"github.com/basetishop/shop_api/pkg/llm"
	"github.com/basetishop/shop_api/pkg/payfast"
)

// main is the application entrypoint for the shop API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting shop api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := database.RunMigrations(db.DB, database.DefaultMigrationsURL); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis, or fall back to an in-process store
	var (
		store       cache.Store
		redisPinger handler.Pinger
	)
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Error().Err(err).Msg("redis connection failed")
			fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		store, redisPinger = redisClient, redisClient
		log.Info().Msg("redis connected successfully")
	} else {
		store = cache.NewMemoryStore()
		log.Warn().Msg("redis disabled, using in-process store (single instance only)")
	}

	queryCache := cache.NewQueryCache(store, cfg.Cache.TTL)
	sessionStore := cache.NewSessionStore(store)

	// 3c. Real-time events
	hub := sse.NewHub()
	notifier := sse.NewHubNotifier(hub)

	// 4. External clients
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	completer, keyEnv, err := newCompleter(ctx, &cfg.AI)
	if err != nil {
		log.Error().Err(err).Msg("LLM client initialization failed")
		fmt.Fprintf(os.Stderr, "LLM client initialization failed: %v\n", err)
		os.Exit(1)
	}

	payfastClient := payfast.NewClient(payfast.Config{
		MerchantID:  cfg.PayFast.MerchantID,
		MerchantKey: cfg.PayFast.MerchantKey,
		Passphrase:  cfg.PayFast.Passphrase,
		ProcessURL:  cfg.PayFast.ProcessURL,
	})
	if cfg.PayFast.Passphrase == "" {
		log.Warn().Msg("PayFast passphrase not configured - checkout forms are unsigned")
	}

	// 5. Initialize repositories
	profileRepo := repository.NewBusinessProfileRepository(db)
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	socialRepo := repository.NewSocialConnectionRepository(db)
	contentPlanRepo := repository.NewContentPlanRepository(db)

	// 6. Initialize services
	tenantSvc := service.NewTenantService(profileRepo, profileRepo, sessionStore, notifier)
	productSvc := service.NewProductService(productRepo, profileRepo, queryCache, notifier)
	customerSvc := service.NewCustomerService(customerRepo, queryCache)
	orderSvc := service.NewOrderService(orderRepo, customerRepo, queryCache)
	profileSvc := service.NewBusinessProfileService(profileRepo, queryCache)
	dashboardSvc := service.NewDashboardService(productRepo, orderRepo, customerRepo, queryCache)
	contentPlanSvc := service.NewContentPlanService(contentPlanRepo, queryCache)
	storefrontSvc := service.NewStorefrontService(profileRepo, productRepo, queryCache, cfg.SiteURL)
	contentSvc := service.NewContentService(completer, keyEnv)
	flowSvc := service.NewFlowService(completer, keyEnv)
	subscriptionSvc := service.NewSubscriptionService(
		profileRepo, subscriptionRepo, payfastClient, queryCache, notifier,
		service.SubscriptionURLs{SiteURL: cfg.SiteURL, APIURL: cfg.APIURL},
		cfg.PayFast.Currency,
	)

	socialSvc, err := newSocialService(socialRepo, queryCache, cfg.Security.TokenSealKey)
	if err != nil {
		log.Error().Err(err).Msg("invalid TOKEN_SEAL_KEY")
		fmt.Fprintf(os.Stderr, "invalid TOKEN_SEAL_KEY: %v\n", err)
		os.Exit(1)
	}

	mediaSvc, err := newMediaService(ctx, &cfg.Media)
	if err != nil {
		log.Error().Err(err).Msg("media storage initialization failed")
		fmt.Fprintf(os.Stderr, "media storage initialization failed: %v\n", err)
		os.Exit(1)
	}

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:          handler.NewHealthHandler(dbPinger(db), redisPinger),
		Auth:            handler.NewAuthHandler(sessionStore, notifier),
		Tenant:          handler.NewTenantHandler(tenantSvc),
		Product:         handler.NewProductHandler(productSvc, mediaSvc),
		Customer:        handler.NewCustomerHandler(customerSvc),
		Order:           handler.NewOrderHandler(orderSvc),
		BusinessProfile: handler.NewBusinessProfileHandler(profileSvc, storefrontSvc),
		Dashboard:       handler.NewDashboardHandler(dashboardSvc),
		ContentPlan:     handler.NewContentPlanHandler(contentPlanSvc),
		Social:          handler.NewSocialHandler(socialSvc),
		Storefront:      handler.NewStorefrontHandler(storefrontSvc),
		Subscription:    handler.NewSubscriptionHandler(subscriptionSvc),
		Webhook:         handler.NewWebhookHandler(subscriptionSvc),
		Functions:       handler.NewFunctionsHandler(contentSvc, flowSvc),
		SSE:             handler.NewSSEHandler(hub),
		Page:            handler.NewPageHandler(cfg.StaticDir),
	}

	// 8. Initialize middleware
	rateLimiter := middleware.NewInvalidAuthRateLimiter()
	defer rateLimiter.Close()
	sessionMw := middleware.NewSessionMiddleware(
		utils.NewSessionVerifier(cfg.Session.JWTSecret, cfg.Session.Issuer),
		sessionStore,
		cfg.Session.Cookie,
		rateLimiter,
	)
	tenantMw := middleware.NewTenantMiddleware(tenantSvc)

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.SiteURL))
	router.Use(middleware.LoggingMiddleware())
	if cfg.StaticDir != "" {
		router.Static("/assets", filepath.Join(cfg.StaticDir, "assets"))
	}
	setupRoutes(router, handlers, sessionMw, tenantMw)

	// 10. Start workers
	go worker.NewSubscriptionExpiryWorker(subscriptionSvc, cfg.Worker.SubscriptionExpiryInterval).Start(ctx)

	// 11. Start HTTP server
	srv := newServer(ctx, ":"+cfg.Port, router)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 12. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 13. Cancel context to stop workers and open event streams; request
	// contexts derive from it through BaseContext.
	cancel()

	// 14. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// newServer builds the HTTP server. Request contexts derive from ctx so that
// cancelling it ends long-lived event streams before Shutdown waits on them.
func newServer(ctx context.Context, addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health          *handler.HealthHandler
	Auth            *handler.AuthHandler
	Tenant          *handler.TenantHandler
	Product         *handler.ProductHandler
	Customer        *handler.CustomerHandler
	Order           *handler.OrderHandler
	BusinessProfile *handler.BusinessProfileHandler
	Dashboard       *handler.DashboardHandler
	ContentPlan     *handler.ContentPlanHandler
	Social          *handler.SocialHandler
	Storefront      *handler.StorefrontHandler
	Subscription    *handler.SubscriptionHandler
	Webhook         *handler.WebhookHandler
	Functions       *handler.FunctionsHandler
	SSE             *handler.SSEHandler
	Page            *handler.PageHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, sessionMw *middleware.SessionMiddleware, tenantMw *middleware.TenantMiddleware) {
	perm := middleware.RequirePermission

	// Payment gateway notifications
	router.POST("/webhook/payfast", handlers.Webhook.HandlePayFast)

	router.GET("/v1/health", handlers.Health.GetHealth)

	// AI functions (public, CORS *)
	functions := router.Group("/functions/v1")
	functions.Use(middleware.FunctionsCORS())
	{
		preflight := func(*gin.Context) {}
		functions.OPTIONS("/generate-content", preflight)
		functions.POST("/generate-content", handlers.Functions.GenerateContent)
		functions.OPTIONS("/genkit-flows", preflight)
		functions.POST("/genkit-flows", handlers.Functions.RunFlow)
	}

	// Public storefront
	store := router.Group("/v1/store/:businessId")
	{
		store.GET("", handlers.Storefront.GetStore)
		store.GET("/category/:categoryName", handlers.Storefront.GetCategory)
		store.GET("/products/:productId", handlers.Storefront.GetProduct)
	}

	// Session endpoints need no tenant
	auth := router.Group("/v1/auth")
	auth.Use(sessionMw.RequireAPI())
	{
		auth.GET("/session", handlers.Auth.Session)
		auth.POST("/signout", handlers.Auth.SignOut)
	}

	// Live updates; EventSource passes the token as ?token=
	router.GET("/v1/events", sessionMw.RequireStream(), tenantMw.Handle(), handlers.SSE.Stream)

	// Tenant-scoped dashboard API
	api := router.Group("/v1")
	api.Use(sessionMw.RequireAPI(), tenantMw.Handle())
	{
		api.GET("/tenant", handlers.Tenant.Current)
		api.POST("/tenant/switch", middleware.RequireAdmin(), handlers.Tenant.Switch)
		api.GET("/admin/tenants", middleware.RequireAdmin(), handlers.Tenant.List)

		api.GET("/dashboard/summary", handlers.Dashboard.GetSummary)

		api.GET("/business-profile", handlers.BusinessProfile.GetProfile)
		api.PUT("/business-profile", perm(models.PermManageSettings), handlers.BusinessProfile.UpsertProfile)
		api.PUT("/business-profile/settings", perm(models.PermManageSettings), handlers.BusinessProfile.UpdateSettings)

		// Products
		api.GET("/products", perm(models.PermViewProducts), handlers.Product.GetProducts)
		api.GET("/products/stats", perm(models.PermViewProducts), handlers.Product.GetStats)
		api.GET("/products/:id", perm(models.PermViewProducts), handlers.Product.GetProduct)
		api.POST("/products", perm(models.PermManageProducts), handlers.Product.CreateProduct)
		api.PUT("/products/:id", perm(models.PermManageProducts), handlers.Product.UpdateProduct)
		api.DELETE("/products/:id", perm(models.PermManageProducts), handlers.Product.DeleteProduct)
		api.POST("/media/product-images", perm(models.PermManageProducts), handlers.Product.UploadImage)

		// Customers
		api.GET("/customers", perm(models.PermViewCustomers), handlers.Customer.GetCustomers)
		api.GET("/customers/:id", perm(models.PermViewCustomers), handlers.Customer.GetCustomer)
		api.POST("/customers", perm(models.PermManageCustomers), handlers.Customer.CreateCustomer)
		api.PUT("/customers/:id", perm(models.PermManageCustomers), handlers.Customer.UpdateCustomer)
		api.DELETE("/customers/:id", perm(models.PermManageCustomers), handlers.Customer.DeleteCustomer)

		// Orders
		api.GET("/orders", perm(models.PermViewOrders), handlers.Order.GetOrders)
		api.GET("/orders/:id", perm(models.PermViewOrders), handlers.Order.GetOrder)
		api.POST("/orders", perm(models.PermManageOrders), handlers.Order.CreateOrder)
		api.PATCH("/orders/:id/status", perm(models.PermManageOrders), handlers.Order.UpdateOrderStatus)
		api.DELETE("/orders/:id", perm(models.PermManageOrders), handlers.Order.DeleteOrder)

		// Content calendar and social accounts
		content := api.Group("", perm(models.PermManageContent))
		content.GET("/content-plans", handlers.ContentPlan.GetPlans)
		content.GET("/content-plans/:id", handlers.ContentPlan.GetPlan)
		content.POST("/content-plans", handlers.ContentPlan.CreatePlan)
		content.PUT("/content-plans/:id", handlers.ContentPlan.UpdatePlan)
		content.DELETE("/content-plans/:id", handlers.ContentPlan.DeletePlan)
		content.GET("/social-connections", handlers.Social.GetConnections)
		content.PUT("/social-connections", handlers.Social.Connect)
		content.DELETE("/social-connections/:id", handlers.Social.Disconnect)
		content.POST("/ai/generate-content", handlers.Functions.AIGenerateContent)
		content.POST("/ai/flows", handlers.Functions.AIRunFlow)

		// Subscription
		api.GET("/subscription/plans", handlers.Subscription.GetPlans)
		billing := api.Group("/subscription", perm(models.PermManageSubscription))
		billing.GET("", handlers.Subscription.GetStatus)
		billing.GET("/history", handlers.Subscription.GetHistory)
		billing.POST("/checkout", handlers.Subscription.Checkout)
		billing.GET("/checkout/:plan/form", handlers.Subscription.CheckoutForm)
	}

	// Pages
	router.GET("/", sessionMw.RedirectIfAuthenticated(), handlers.Page.Index)
	router.GET("/auth", sessionMw.RedirectIfAuthenticated(), handlers.Page.Index)
	dashboard := router.Group("/dashboard", sessionMw.RequirePage())
	{
		dashboard.GET("", handlers.Page.Index)
		dashboard.GET("/*path", handlers.Page.Index)
	}
	router.GET("/shopapp/*path", handlers.Page.Index)

	// Legacy page redirects
	router.GET("/store/:businessId", handlers.Page.LegacyStore)
	router.GET("/store/:businessId/product/:productId", handlers.Page.LegacyStoreProduct)
	router.GET("/webstore", handlers.Page.LegacyWebstore)

	router.NoRoute(handlers.Page.NotFound)
}

// newCompleter builds the LLM client and names the env var holding its key.
func newCompleter(ctx context.Context, cfg *config.AIConfig) (llm.Completer, string, error) {
	llmCfg := llm.Config{
		Provider:    cfg.Provider,
		APIKey:      cfg.APIKey(),
		BaseURL:     cfg.OpenAIBaseURL,
		Model:       cfg.OpenAIModel,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     cfg.Timeout,
	}
	keyEnv := "OPENAI_API_KEY"
	if cfg.Provider == llm.ProviderGemini {
		llmCfg.BaseURL = cfg.GeminiBaseURL
		llmCfg.Model = cfg.GeminiModel
		keyEnv = "GEMINI_API_KEY"
	}
	if llmCfg.APIKey == "" {
		log.Warn().Str("provider", cfg.Provider).Msg(keyEnv + " not configured - AI endpoints will fail")
	}

	completer, err := llm.New(ctx, llmCfg)
	return completer, keyEnv, err
}

// newSocialService enables token sealing only when a key is configured.
func newSocialService(repo *repository.SocialConnectionRepository, qc *cache.QueryCache, sealKey string) (*service.SocialService, error) {
	if sealKey == "" {
		log.Warn().Msg("TOKEN_SEAL_KEY not configured - social accounts cannot store OAuth tokens")
		return service.NewSocialService(repo, nil, qc), nil
	}
	sealer, err := utils.NewSealer(sealKey)
	if err != nil {
		return nil, err
	}
	return service.NewSocialService(repo, sealer, qc), nil
}

// newMediaService connects to S3 only when a bucket is configured.
func newMediaService(ctx context.Context, cfg *config.MediaConfig) (*service.MediaService, error) {
	if cfg.Bucket == "" {
		log.Warn().Msg("MEDIA_S3_BUCKET not configured - product image uploads are disabled")
		return service.NewMediaService(nil, cfg), nil
	}
	client, err := service.NewS3Client(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Info().Str("bucket", cfg.Bucket).Msg("media storage configured")
	return service.NewMediaService(client, cfg), nil
}

func dbPinger(db *sqlx.DB) handler.Pinger {
	return handler.PingerFunc(func(ctx context.Context) error {
		return database.Ping(ctx, db)
	})
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
