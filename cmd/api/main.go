package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/HarshithPancheru/PSG-Hackathon/internal/adapter/handler"
	"github.com/HarshithPancheru/PSG-Hackathon/internal/adapter/repository"
	"github.com/HarshithPancheru/PSG-Hackathon/internal/usecase/session"
	"github.com/HarshithPancheru/PSG-Hackathon/internal/usecase/summarizer"
	pkgai "github.com/HarshithPancheru/PSG-Hackathon/pkg/ai"
	"github.com/HarshithPancheru/PSG-Hackathon/pkg/config"
	pkgvalidator "github.com/HarshithPancheru/PSG-Hackathon/pkg/validator"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Echo instance. The validator instance is shared with the
	// websocket gateway so both boundaries apply identical rules.
	e := echo.New()
	validate := pkgvalidator.New()
	e.Validator = validate
	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
	}))

	log.Println("🔧 Initializing dependencies...")

	// Room store: the single shared mutable resource
	store := repository.NewRoomStore(cfg.Room.TranscriptCap)

	// Summarization port, selected at startup via configuration
	log.Println("🤖 Initializing summarizer...")
	var port summarizer.Port
	if cfg.Summarizer.Provider == "groq" {
		port = summarizer.NewGroqPort(pkgai.NewGroqClient(&cfg.Summarizer))
		log.Println("✅ Using Groq summarizer with rule-based fallback")
	} else {
		log.Println("✅ Using built-in rule-based summarizer")
	}
	sumService := summarizer.NewService(port, logger)

	// Notifier, session event router, websocket gateway
	hub := handler.NewHub(store, logger)
	sessions := session.NewService(store, sumService, hub, logger)
	ws := handler.NewWS(hub, sessions, validate, logger)

	// Periodic summarizer scheduler
	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	scheduler := summarizer.NewScheduler(store, cfg.Summarizer.Interval, func(ctx context.Context, room string) {
		sessions.GenerateMOM(ctx, room)
	}, logger)
	go scheduler.Run(schedulerCtx)
	log.Printf("⏱️  Summarizer scheduler running every %s", cfg.Summarizer.Interval)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	rooms := handler.NewRoomsHandler(store, sessions, logger)
	router := handler.NewRouter(cfg, rooms, ws)
	router.Setup(e)

	// Start server
	go func() {
		addr := cfg.GetAddr()
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	stopScheduler()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
