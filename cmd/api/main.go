package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crmforge/orderbench/internal/config"
	"github.com/crmforge/orderbench/internal/database"
	"github.com/crmforge/orderbench/internal/handlers"
	"github.com/crmforge/orderbench/internal/models"
	"github.com/crmforge/orderbench/internal/render"
	"github.com/crmforge/orderbench/internal/services/audit"
	"github.com/crmforge/orderbench/internal/services/crm"
	"github.com/crmforge/orderbench/internal/websocket"
	"github.com/crmforge/orderbench/internal/workbench"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize database (Detects Embedded vs External automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// Note: db.Close() is called manually in shutdown handler below

	// 3. Auto-Migrate Schema
	log.Println("🚀 Synchronizing database schema...")
	err = db.AutoMigrate(
		&models.UserAuth{},
		&models.BarcodeRecord{},
	)
	if err != nil {
		log.Printf("⚠️ Migration warning: %v\n", err)
	} else {
		log.Println("✅ Schema synchronized successfully")
	}

	// 4. Connect to the order platform
	source, err := crm.NewService(crm.Config{
		URL:      cfg.Platform.URL,
		Database: cfg.Platform.Database,
		Username: cfg.Platform.Username,
		Password: cfg.Platform.Password,
	})
	if err != nil {
		log.Fatalf("Failed to connect to order platform: %v", err)
	}
	log.Println("✅ Order platform connected")

	// 5. Wire the workbench
	hub := websocket.NewHub()
	go hub.Run()

	store := workbench.NewStore(source)
	loader := render.NewLoader(render.SelfTestLoad)
	resolver := render.NewMemoryResolver()
	recorder := audit.NewRecorder(db)
	flow := workbench.NewWorkflow(store, source, loader, render.Engine{}, resolver, hub, recorder)

	// Warm the renderer so the first Generate doesn't pay for it.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := loader.EnsureReady(ctx); err != nil {
			log.Printf("⚠️ Renderer warm-up failed (will retry on demand): %v", err)
		} else {
			log.Println("✅ Renderer ready")
		}
	}()

	// 6. Set up HTTP router
	router := handlers.NewRouter(handlers.Deps{
		DB:       db,
		Config:   cfg,
		Source:   source,
		Store:    store,
		Flow:     flow,
		Resolver: resolver,
		Recorder: recorder,
		Hub:      hub,
	})

	// 7. Start server with graceful shutdown
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		log.Printf("🚀 Order Barcode Workbench starting on port %s\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	sig := <-shutdown
	log.Printf("\n⚠️  Received signal: %v. Shutting down gracefully...\n", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("🛑 Closing database connection...")
	if err := db.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
