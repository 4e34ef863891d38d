package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go-signshop-api/internal/config"
	"go-signshop-api/internal/handler"
	"go-signshop-api/internal/metrics"
	"go-signshop-api/internal/middleware"
	"go-signshop-api/internal/repository"
	"go-signshop-api/internal/service"
	"go-signshop-api/internal/ws"
	"go-signshop-api/pkg/database"
	"go-signshop-api/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// 1. Load Env
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	appLog := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	// 2. Setup Database
	db, err := database.Connect(database.Config{
		Driver: cfg.DBDriver,
		DSN:    cfg.DSN(),
		Logger: appLog.With().Str("component", "gorm").Logger(),
	})
	if err != nil {
		appLog.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("Failed to connect to database")
	}
	if err := repository.Migrate(db); err != nil {
		appLog.Fatal().Err(err).Msg("Migration failed")
	}

	// 3. Demo data (opsional)
	if cfg.SeedDemo {
		if _, err := repository.SeedDemoData(db); err != nil {
			appLog.Warn().Err(err).Msg("Failed to seed demo data")
		} else {
			appLog.Info().Msg("Demo data ready")
		}
	}

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub(appLog)
	go wsHub.Run()
	defer wsHub.Stop()

	// 5. Dependency Injection (Wiring Layers)
	priceRepo := repository.NewPriceRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	productRepo := repository.NewProductRepo(db)
	extraRepo := repository.NewExtraProductRepo(db)
	invoiceRepo := repository.NewInvoiceRepo(db)
	reportRepo := repository.NewReportRepo(db)

	priceService := service.NewPriceService(priceRepo, wsHub)
	customerService := service.NewCustomerService(customerRepo, priceRepo, wsHub)
	productService := service.NewProductService(productRepo, extraRepo, priceRepo, db, wsHub)
	extraService := service.NewExtraProductService(extraRepo, priceRepo, db, wsHub)
	invoiceService := service.NewInvoiceService(invoiceRepo, customerRepo, productRepo, priceRepo, db, wsHub, appLog)
	reportService := service.NewReportService(reportRepo, productRepo, extraRepo, customerRepo, invoiceRepo)

	handlers := &handler.Handlers{
		Price:        handler.NewPriceHandler(priceService),
		Customer:     handler.NewCustomerHandler(customerService),
		Product:      handler.NewProductHandler(productService),
		ExtraProduct: handler.NewExtraProductHandler(extraService),
		Invoice:      handler.NewInvoiceHandler(invoiceService),
		Report:       handler.NewReportHandler(reportService),
	}

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ErrorHandler: handler.ErrorHandler,
	})

	// Middleware
	app.Use(fiberlogger.New()) // Logging request
	app.Use(recover.New())     // Panic recovery
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSAllowOrigins}))
	app.Use(middleware.Metrics())

	// 7. Routes
	handlers.Register(app.Group("/api"))
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	if cfg.StaticDir != "" {
		serveClient(app, cfg.StaticDir, appLog)
	}

	// 8. Graceful Shutdown
	go func() {
		appLog.Info().Str("addr", cfg.Addr()).Msg("Server listening")
		if err := app.Listen(cfg.Addr()); err != nil {
			appLog.Panic().Err(err).Msg("Server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLog.Error().Err(err).Msg("Server forced to shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	appLog.Info().Msg("Server exited")
}

// serveClient serves the built web client. Unknown paths outside /api fall
// back to index.html so client side routing works on reload.
func serveClient(app *fiber.App, dir string, log zerolog.Logger) {
	index := filepath.Join(dir, "index.html")
	if _, err := os.Stat(index); err != nil {
		log.Warn().Str("dir", dir).Msg("STATIC_DIR has no index.html, client not served")
		return
	}

	app.Static("/", dir, fiber.Static{
		Compress:      true,
		CacheDuration: time.Hour,
	})
	app.Get("/*", func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), "/api") {
			return fiber.ErrNotFound
		}
		return c.SendFile(index)
	})
}
