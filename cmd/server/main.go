package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"knowledgegate/internal/analytics"
	"knowledgegate/internal/config"
	"knowledgegate/internal/content"
	"knowledgegate/internal/database"
	"knowledgegate/internal/handlers"
	"knowledgegate/internal/repository"
	"knowledgegate/internal/security"
	"knowledgegate/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize the analytics database (supports sqlite, postgres, mysql)
	db, err := database.Open(cfg.DatabaseType, cfg.DatabasePath, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Load the content pool and collection configs; both are fatal when
	// broken, the game cannot run without them.
	items, err := content.LoadItems(cfg.ItemsPath)
	if err != nil {
		log.Fatalf("Failed to load item pool: %v", err)
	}
	log.Printf("Loaded %d items", len(items))

	collections, err := config.LoadCollections(cfg.CollectionsPath)
	if err != nil {
		log.Fatalf("Failed to load collections: %v", err)
	}

	if cfg.GatePassSecret == "" {
		log.Println("Warning: GATE_PASS_SECRET not set, gate pass verification disabled")
	}

	// Initialize repositories and services
	analyticsRepo := repository.NewAnalyticsRepository(db)
	reporter := analytics.NewStoreReporter(analyticsRepo)
	gateService := service.NewGateService(cfg, items, collections, reporter, analyticsRepo)
	defer gateService.Close()

	// Initialize handlers
	rateLimiter := security.NewRateLimiter(60, time.Minute)
	middleware := handlers.NewMiddleware(rateLimiter)
	gameHandler := handlers.NewGameHandler(gateService, cfg)
	analyticsHandler := handlers.NewAnalyticsHandler(reporter)
	redirectHandler := handlers.NewRedirectHandler(gateService)
	textHandler := handlers.NewTextHandler(cfg.TextsPath)

	// Setup routes
	mux := http.NewServeMux()

	// Static files (the single-page frontend)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticFilesPath))))

	// Game routes
	mux.HandleFunc("POST /api/game/start", middleware.VisitorID(middleware.RateLimit(gameHandler.StartGame)))
	mux.HandleFunc("GET /api/game/{sessionId}", gameHandler.GetState)
	mux.HandleFunc("POST /api/game/{sessionId}/challenge", middleware.RateLimit(gameHandler.StartChallenge))
	mux.HandleFunc("POST /api/game/{sessionId}/select", middleware.RateLimit(gameHandler.SelectItem))
	mux.HandleFunc("POST /api/game/{sessionId}/restart", middleware.VisitorID(middleware.RateLimit(gameHandler.RestartGame)))

	// Analytics and redirect routes
	mux.HandleFunc("POST /api/analytics", middleware.VisitorID(analyticsHandler.Ingest))
	mux.HandleFunc("POST /api/success-redirect", middleware.RateLimit(redirectHandler.SuccessRedirect))

	// Localized text
	mux.HandleFunc("GET /api/text", textHandler.GetText)

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background session cleanup
	go sweepExpiredSessions(gateService)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
}

// sweepExpiredSessions periodically reclaims abandoned game sessions so their
// timers and memory don't pile up.
func sweepExpiredSessions(gateService *service.GateService) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		gateService.SweepExpired()
	}
}
