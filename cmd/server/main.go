package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	router "github.com/dkeye/Huddle/internal/adapters/http"
	"github.com/dkeye/Huddle/internal/adapters/signal"
	"github.com/dkeye/Huddle/internal/adapters/store"
	"github.com/dkeye/Huddle/internal/app"
	"github.com/dkeye/Huddle/internal/app/orch"
	"github.com/dkeye/Huddle/internal/config"
)

func main() {
	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("huddle exited")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "huddle",
		Short:         "Real-time rooms, chat and WebRTC signaling hub",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			setupLogger(cfg)
			code, err := run(cfg)
			if err != nil {
				return err
			}
			if code != 0 {
				return fmt.Errorf("shutdown finished with code %d", code)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.String("config", "", "config file (default config/config.$CONFIG_ENV.yaml)")
	f.Int("port", 8080, "HTTP listen port")
	f.String("mode", "release", "gin mode: debug, release or test")
	f.String("log-level", "info", "trace, debug, info, warn or error")
	f.String("db", "huddle.db", "SQLite DSN")
	return cmd
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Mode == "release" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}

func run(cfg *config.Config) (int, error) {
	db, err := store.Open(cfg.Database.DSN, cfg.Mode == "debug")
	if err != nil {
		return 1, err
	}

	var (
		limiter signal.Limiter = signal.NopLimiter{}
		rdb     *redis.Client
	)
	switch cfg.RateLimit.Backend {
	case "memory":
		limiter = signal.NewRoomRateLimiter(cfg.RateLimit.Events, cfg.RateLimit.Window)
	case "redis":
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable, rate limiter fails open until it is back")
		}
		cancel()
		limiter = signal.NewRedisRateLimiter(rdb, "huddle:rl:", cfg.RateLimit.Events, cfg.RateLimit.Window)
	}

	hub := orch.New(
		app.NewRegistry(),
		app.NewPresenceTable(),
		app.NewRoomResolver(store.NewRoomRepository(db)),
		store.NewMessageRepository(db),
		app.SimplePolicy{},
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r, err := router.SetupRouter(ctx, cfg, router.Deps{
		Orch:    hub,
		Limiter: limiter,
		Ping:    func(ctx context.Context) error { return store.Ping(ctx, db) },
	})
	if err != nil {
		return 1, err
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Huddle server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
		}
	}()

	ops := map[string]gfshutdown.Operation{
		"http": func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
		"hub": func(context.Context) error {
			cancel()
			n := hub.Shutdown()
			log.Info().Int("connections", n).Msg("hub closed")
			return nil
		},
		"database": func(context.Context) error {
			return store.Close(db)
		},
	}
	if rdb != nil {
		ops["redis"] = func(context.Context) error {
			return rdb.Close()
		}
	}

	wait := gfshutdown.GracefulShutdown(context.Background(), cfg.ShutdownTimeout, ops)
	code := <-wait
	log.Info().Int("code", code).Msg("Server exited")
	return code, nil
}
