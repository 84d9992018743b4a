package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/suntzu974/zevis/internal/auth"
	"github.com/suntzu974/zevis/internal/cache"
	"github.com/suntzu974/zevis/internal/event"
	"github.com/suntzu974/zevis/internal/hub"
	"github.com/suntzu974/zevis/internal/notify"
	"github.com/suntzu974/zevis/internal/platform/config"
	"github.com/suntzu974/zevis/internal/platform/httpserver"
	"github.com/suntzu974/zevis/internal/platform/logger"
	"github.com/suntzu974/zevis/internal/platform/metrics"
	"github.com/suntzu974/zevis/internal/platform/postgres"
	"github.com/suntzu974/zevis/internal/platform/redis"
	"github.com/suntzu974/zevis/internal/ratelimit"
	"github.com/suntzu974/zevis/internal/token"
	transporthttp "github.com/suntzu974/zevis/internal/transport/http"
	"github.com/suntzu974/zevis/internal/user"
	"github.com/suntzu974/zevis/internal/ws"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// registrarFunc adapts a mount function to the router's Registrar.
type registrarFunc func(chi.Router)

func (f registrarFunc) Register(r chi.Router) { f(r) }

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	m := metrics.New(prometheus.DefaultRegisterer)

	broadcast := hub.New(cfg.BroadcastBuffer, log, hub.WithDropHandler(m.BroadcastDropped.Inc))
	limiter := ratelimit.New(cfg.RateLimitWindow, cfg.RateLimitMax)
	codec := token.NewCodec(cfg.JWTSigningKey, cfg.JWTIssuer)

	var (
		userStore user.Store
		eventLog  event.Log
		deps      = transporthttp.Deps{Logger: log, Metrics: m, Limiter: limiter, Auth: codec}
	)

	pool, err := postgres.New(ctx, cfg.PostgresURL)
	if err != nil {
		return err
	}
	if pool != nil {
		defer pool.Close()
		userStore = user.NewPostgresStore(pool)
		eventLog = event.NewPostgresLog(pool)
		deps.Postgres = transporthttp.PingerFunc(pool.Ping)
		log.Info("user store backed by postgres")
	} else {
		userStore = user.NewMemoryStore()
		eventLog = event.NewMemoryLog()
		log.Info("no database configured, using in-memory stores")
	}

	var cacheStore cache.Store
	rdb, err := redis.New(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		cacheStore = cache.NewRedisStore(rdb.Client)
		deps.Redis = transporthttp.PingerFunc(rdb.Health)
		log.Info("cache backed by redis")
	} else {
		cacheStore = cache.NewMemoryStore()
		log.Info("no redis configured, using in-memory cache")
	}

	notifier := notify.New(eventLog, broadcast, log, m)
	users := user.NewService(userStore, notifier, log)
	authHandler := auth.NewHandler(users, codec, cfg.TokenTTL, log)

	deps.Public = []transporthttp.Registrar{
		authHandler,
		ws.NewHandler(broadcast, m, log),
	}
	deps.Protected = []transporthttp.Registrar{
		user.NewHandler(users, log),
		cache.NewHandler(cacheStore, log),
		registrarFunc(authHandler.RegisterProtected),
	}

	srv := httpserver.New(cfg.Addr, transporthttp.New(deps))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return limiter.Run(gctx)
	})

	g.Go(func() error {
		log.Info("listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down", "timeout", cfg.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
