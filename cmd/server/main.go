package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"github.com/swaroop-public12/dresscatalogue/internal/admins"
	"github.com/swaroop-public12/dresscatalogue/internal/auth"
	"github.com/swaroop-public12/dresscatalogue/internal/catalog"
	"github.com/swaroop-public12/dresscatalogue/internal/config"
	"github.com/swaroop-public12/dresscatalogue/internal/github"
	"github.com/swaroop-public12/dresscatalogue/internal/handlers"
	"github.com/swaroop-public12/dresscatalogue/internal/images"
	"github.com/swaroop-public12/dresscatalogue/internal/sheets"
	"github.com/swaroop-public12/dresscatalogue/internal/shop"
)

func main() {
	// Configure slog as early as possible in main.
	handlerOpts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	// TextHandler for console readability; for production JSONHandler might be preferred.
	logger := slog.New(slog.NewTextHandler(os.Stdout, handlerOpts))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Spreadsheet client and adapters
	sheetClient, err := sheets.NewClient(context.Background(), cfg.SheetID, cfg.CredentialsFile)
	if err != nil {
		slog.Error("Failed to connect to the catalogue spreadsheet", "error", err)
		os.Exit(1)
	}
	catalogAdapter := catalog.NewAdapter(sheetClient, cfg.CatalogueTable)
	directory := admins.NewDirectory(sheetClient, cfg.AdminsTable)

	// 3. Image repository and pipeline
	publisher := github.NewPublisher(cfg.GitHubOwner, cfg.GitHubRepo, cfg.GitHubBranch, cfg.ImagesDir, cfg.GitHubToken)
	pipeline := images.NewPipeline(cfg.ImageMaxWidth, cfg.JPEGQuality)

	shopService := &shop.Service{
		Catalog:        catalogAdapter,
		Publisher:      publisher,
		Pipeline:       pipeline,
		PlaceholderURL: cfg.PlaceholderImageURL,
		MaxFolderBytes: cfg.MaxFolderBytes,
	}

	tokens := auth.Tokens{Secret: cfg.TokenSecret, TTL: cfg.TokenTTL}

	// 4. Session Setup
	sessionStore := sessions.NewCookieStore(cfg.SessionKey)
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.CookieSecure
	sessionStore.Options.SameSite = http.SameSiteLaxMode
	sessionStore.Options.Path = "/"
	if cfg.CookieDomain != "" {
		sessionStore.Options.Domain = cfg.CookieDomain
	}

	// 5. Init Templates
	templates := handlers.NewTemplateCache()
	if err := templates.Load("templates"); err != nil {
		slog.Error("Failed to load templates", "error", err)
		os.Exit(1)
	}

	// 6. Setup Handlers
	adminHandler := &handlers.AdminHandler{
		Shop:         shopService,
		Admins:       directory,
		SessionStore: sessionStore,
		Templates:    templates,
		Tokens:       tokens,
	}
	homeHandler := &handlers.HomeHandler{
		Shop:         shopService,
		Templates:    templates,
		SessionStore: sessionStore,
		Tokens:       tokens,
		SoldStampURL: cfg.SoldStampURL,
	}

	mux := http.NewServeMux()

	// Static Files
	fileServer := http.FileServer(http.Dir("./static"))
	mux.Handle("/static/", http.StripPrefix("/static", fileServer))

	// Rate Limiter for anonymous POSTs
	rateLimiter := handlers.NewRateLimiter(10 * time.Second)

	// Public Routes
	mux.HandleFunc("/", homeHandler.Index)
	mux.HandleFunc("POST /like", rateLimiter.Middleware(homeHandler.Like))

	mux.HandleFunc("/login", adminHandler.LoginGet)
	mux.HandleFunc("POST /login", adminHandler.LoginPost)
	mux.HandleFunc("/signup", adminHandler.SignupGet)
	mux.HandleFunc("POST /signup", rateLimiter.Middleware(adminHandler.SignupPost))
	mux.HandleFunc("/logout", adminHandler.Logout)

	// Protected Routes
	mux.HandleFunc("/admin", adminHandler.AuthMiddleware(adminHandler.Dashboard))
	mux.HandleFunc("/admin/items/new", adminHandler.AuthMiddleware(adminHandler.AddItemForm))
	mux.HandleFunc("POST /admin/items", adminHandler.AuthMiddleware(adminHandler.CreateItem))
	mux.HandleFunc("POST /admin/items/sold", adminHandler.AuthMiddleware(adminHandler.ToggleSold))

	// 7. Middleware Setup
	CSRF := csrf.Protect(
		cfg.CSRFKey,
		csrf.Secure(cfg.CookieSecure),
		csrf.TrustedOrigins([]string{"localhost:" + cfg.Port, "127.0.0.1:" + cfg.Port, "localhost", "127.0.0.1"}),
	)

	// Chain: Logger -> Security Headers -> CSRF -> Mux
	handler := handlers.LoggingMiddleware(
		handlers.SecurityHeadersMiddleware(
			CSRF(mux),
		),
	)

	// 8. Start Server with Graceful Shutdown
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	<-stop

	slog.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited gracefully.")
}
