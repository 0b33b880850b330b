package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feed-sync/core/database"
	"feed-sync/core/loader"
	"feed-sync/core/logger"
	"feed-sync/core/metrics"
	"feed-sync/core/middleware/auth"
	"feed-sync/core/middleware/rayid"
	"feed-sync/core/poller"
	"feed-sync/feature/history"
	"feed-sync/feature/status"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "feed-sync/docs/swagger"
)

// shutdownGrace bounds how long shutdown waits for an in-flight pass.
const shutdownGrace = 5 * time.Minute

// @title Feed Sync API
// @version 1.0
// @description Status and control API for the package feed sync service.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the sync poller and the status server",
	Long: `Starts the poller that mirrors new package versions from the feed to the
deployment target on a fixed interval, and the HTTP status API.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Configuration and Logger
		cfg, logg, err := loadApp()
		if err != nil {
			if logg != nil {
				logg.Fatal("Startup failed", zap.Error(err))
			}
			log.Fatalf("Startup failed: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 2. Engine
		engine, err := buildEngine(context.Background(), cfg, logg)
		if err != nil {
			logg.Fatal("Failed to build sync engine", zap.Error(err))
		}

		// 3. Run History (Optional) and Metrics
		hooks := []func(poller.Result){metrics.RecordPass}
		var hist status.History
		if cfg.Database.Enabled() {
			if db, err := database.Connect(cfg.Database); err != nil {
				logg.Warn("Optional database connection failed, run history disabled", zap.Error(err))
			} else {
				store := history.NewStore(db, logg)
				if err := store.Migrate(); err != nil {
					logg.Warn("Run history migration failed, run history disabled", zap.Error(err))
				} else {
					hooks = append(hooks, store.OnComplete)
					hist = store
					logg.Info("Connected to run history database")
				}
			}
		}
		opts := []poller.Option{poller.WithOnComplete(func(res poller.Result) {
			for _, hook := range hooks {
				hook(res)
			}
		})}
		if cfg.Sync.RunOnStart {
			opts = append(opts, poller.WithRunOnStart())
		}

		// 4. Poller
		p := poller.New(cfg.Sync.Interval(), engine, logg, opts...)
		metrics.RegisterMetrics()
		if err := metrics.RegisterPoller(prometheus.DefaultRegisterer, p); err != nil {
			logg.Warn("Failed to register poller metrics", zap.Error(err))
		}
		if err := p.Start(); err != nil {
			logg.Fatal("Failed to start poller", zap.Error(err))
		}

		// 5. Status Server
		var app *fiber.App
		if cfg.Server.Enabled {
			app = newStatusApp(cfg.Server.ApiKey, logg, status.NewFeature(p, engine, hist, logg))

			go func() {
				logg.Info("Starting status server", zap.String("port", cfg.Server.Port))
				if err := app.Listen(cfg.Server.Addr()); err != nil {
					logg.Fatal("Server failed to start", zap.Error(err))
				}
			}()
		}

		// 6. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down...")

		if app != nil {
			_ = app.Shutdown()
		}
		p.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := p.Wait(ctx); err != nil {
			logg.Warn("Sync pass still running at shutdown", zap.Error(err))
		}
	},
}

// newStatusApp builds the Fiber app serving the given features.
func newStatusApp(apiKey string, logg *zap.Logger, features ...loader.Feature) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true, // We log our own startup message
	})

	// RayID must be first to trace everything
	app.Use(rayid.New())

	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Debug("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	// Swagger Documentation and Metrics (Public)
	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/metrics", metrics.Handler())

	app.Use(auth.New(auth.Config{ApiKey: apiKey}))

	mgr := loader.NewManager(logg)
	for _, f := range features {
		mgr.Register(f)
	}
	if err := mgr.LoadAll(app); err != nil {
		logg.Fatal("Failed to load features", zap.Error(err))
	}

	return app
}

func init() {
	RootCmd.AddCommand(startCmd)
}
