package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/fintrack-be/internal/api"
	"github.com/isdelr/fintrack-be/internal/auth"
	"github.com/isdelr/fintrack-be/internal/monitoring"
	"github.com/isdelr/fintrack-be/internal/tasks"
	"github.com/isdelr/fintrack-be/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the daily balance check",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	a, err := newApp(ctx, cfg, hub)
	if err != nil {
		return err
	}
	defer a.Close()

	queue := tasks.NewQueue(cfg.Tasks.Workers, cfg.Tasks.QueueLen, time.Minute)

	limiter := api.NewMemoryRateLimiter()
	if cfg.RateLimit.RedisAddr != "" {
		redisLimiter, err := api.NewRedisRateLimiter(ctx, cfg.RateLimit.RedisAddr, cfg.RateLimit.RedisPassword, cfg.RateLimit.RedisDB)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.RateLimit.RedisAddr).Msg("Redis rate limiter unavailable, using in-memory limiter")
		} else {
			limiter.Close()
			limiter = redisLimiter
		}
	}
	defer limiter.Close()

	// Set up and run the daily balance check
	var scheduler *monitoring.Scheduler
	if cfg.Alerts.Enabled {
		scheduler, err = monitoring.NewScheduler(a.checker, cfg.Alerts.Schedule, cfg.Alerts.Location, 30*time.Minute)
		if err != nil {
			return err
		}
		go scheduler.Run()
	} else {
		log.Warn().Msg("Scheduled balance alerts are disabled")
	}

	router := api.NewRouter(api.Dependencies{
		DB:             a.db,
		Tokens:         auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Users:          a.users,
		Expenses:       a.expenses,
		Events:         a.events,
		Seed:           a.seed,
		Checker:        a.checker,
		Mailer:         a.mailer,
		Queue:          queue,
		Hub:            hub,
		Limiter:        limiter,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		SecureCookies:  cfg.App.IsProduction(),
		AuthRateLimit:  cfg.RateLimit.AuthLimit,
		AuthRateWindow: cfg.RateLimit.Window,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	serveErr := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("env", cfg.App.Env).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	}
	log.Info().Msg("Shutting down server...")

	if scheduler != nil {
		scheduler.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := queue.Stop(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("Background tasks did not finish in time")
	}
	hub.Stop()

	log.Info().Msg("Server exiting")
	return nil
}
