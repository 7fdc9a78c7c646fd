package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	zlog "github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/baechuer/alchies-rsvp/internal/application/event"
	"github.com/baechuer/alchies-rsvp/internal/config"
	redisclient "github.com/baechuer/alchies-rsvp/internal/infrastructure/caching/redis"
	"github.com/baechuer/alchies-rsvp/internal/infrastructure/db/memory"
	mongorepo "github.com/baechuer/alchies-rsvp/internal/infrastructure/db/mongo"
	"github.com/baechuer/alchies-rsvp/internal/infrastructure/db/postgres"
	s3host "github.com/baechuer/alchies-rsvp/internal/infrastructure/imagehost/s3"
	"github.com/baechuer/alchies-rsvp/internal/infrastructure/imagehost/stock"
	rabbitpub "github.com/baechuer/alchies-rsvp/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/alchies-rsvp/internal/logger"
	"github.com/baechuer/alchies-rsvp/internal/tracing"
	"github.com/baechuer/alchies-rsvp/internal/transport/http/handlers"
	authmw "github.com/baechuer/alchies-rsvp/internal/transport/http/middleware"
	"github.com/baechuer/alchies-rsvp/internal/transport/http/router"
)

// set with -ldflags "-X main.version=..."
var version = "dev"

// App holds all dependencies for the gateway.
type App struct {
	Config *config.Config
	Server *http.Server

	closers []func(context.Context) error
}

func main() {
	logger.Init("rsvp-gateway")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.Init(ctx, tracing.Config{
		ServiceName:    "rsvp-gateway",
		ServiceVersion: version,
		OTLPEndpoint:   cfg.OTelEndpoint,
		Enabled:        cfg.OTelEnabled,
	})
	if err != nil {
		zlog.Fatal().Err(err).Msg("tracing init failed")
	}

	app, err := NewApp(ctx, cfg)
	if err != nil {
		zlog.Fatal().Err(err).Msg("app init failed")
	}

	errCh := make(chan error, 1)
	go func() {
		zlog.Info().Str("addr", cfg.HTTPAddr).Str("store", cfg.StoreDriver).Msg("listening")
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		zlog.Info().Msg("shutting down")
	case err := <-errCh:
		zlog.Error().Err(err).Msg("server crashed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Err(err).Msg("http shutdown failed")
	}
	app.Close(shutdownCtx)
	if err := tp.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Err(err).Msg("tracing shutdown failed")
	}
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}
	checks := map[string]handlers.Check{}

	// 1) Infrastructure
	repo, err := app.openRepository(ctx, cfg, checks)
	if err != nil {
		app.Close(ctx)
		return nil, err
	}
	if cfg.SeedSampleEvents && cfg.StoreDriver != config.DriverMemory {
		seedIfEmpty(ctx, repo)
	}

	var cache event.Cache
	if cfg.RedisURL != "" {
		c, err := redisclient.New(cfg.RedisURL)
		if err != nil {
			app.Close(ctx)
			return nil, err
		}
		cache = c
		checks["redis"] = c.Ping
		app.closers = append(app.closers, func(context.Context) error { return c.Close() })
		zlog.Info().Dur("ttl", cfg.CacheTTLDetails).Msg("event cache ready")
	}

	var pub event.EventPublisher
	if cfg.RabbitURL != "" {
		p, err := rabbitpub.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			app.Close(ctx)
			return nil, err
		}
		pub = p
		app.closers = append(app.closers, func(context.Context) error { return p.Close() })
		zlog.Info().Str("exchange", cfg.RabbitExchange).Msg("rabbit publisher ready")
	} else {
		zlog.Warn().Msg("RABBIT_URL empty: domain events will not be published")
	}

	var images event.ImageHost
	if cfg.ImageHostEnabled() {
		h, err := s3host.NewHost(cfg, zlog.Logger)
		if err != nil {
			app.Close(ctx)
			return nil, err
		}
		images = h
		zlog.Info().Str("bucket", cfg.S3Bucket).Msg("image host ready")
	} else {
		zlog.Warn().Msg("S3 not configured: uploads fall back to stock photos")
	}

	// 2) Application
	svc := event.New(repo, event.SystemClock{}, pub, cache, images, stock.New(), cfg.PublicOrigin, cfg.CacheTTLDetails)

	// 3) Transport
	h := handlers.NewEventsHandler(svc)
	up := handlers.NewUploadHandler(svc)
	z := handlers.NewHealthHandler(checks)
	auth := authmw.NewAuth(cfg.JWTSecret, cfg.JWTIssuer)
	if !auth.Enabled() {
		zlog.Warn().Msg("JWT_SECRET empty: mutating routes are open")
	}

	// 4) Server
	app.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router.New(h, up, z, auth, cfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
	return app, nil
}

func (a *App) openRepository(ctx context.Context, cfg *config.Config, checks map[string]handlers.Check) (event.Repository, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
			return nil, err
		}
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		checks["postgres"] = db.PingContext
		a.closers = append(a.closers, func(context.Context) error { return db.Close() })
		return postgres.New(db), nil

	case config.DriverMongo:
		client, err := mongorepo.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		checks["mongo"] = func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) }
		a.closers = append(a.closers, client.Disconnect)
		repo := mongorepo.New(client.Database(cfg.MongoDatabase))
		if err := repo.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		return repo, nil

	default:
		if cfg.SeedSampleEvents {
			return memory.New(event.SampleEvents()...), nil
		}
		return memory.New(), nil
	}
}

func seedIfEmpty(ctx context.Context, repo event.Repository) {
	existing, err := repo.List(ctx)
	if err != nil {
		zlog.Warn().Err(err).Msg("seed: list failed")
		return
	}
	if len(existing) > 0 {
		return
	}
	for _, e := range event.SampleEvents() {
		if err := repo.Insert(ctx, e); err != nil {
			zlog.Warn().Err(err).Str("event_id", e.ID).Msg("seed: insert failed")
		}
	}
	zlog.Info().Msg("sample events seeded")
}

// Close releases infrastructure in reverse order of acquisition.
func (a *App) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			zlog.Warn().Err(err).Msg("close failed")
		}
	}
	a.closers = nil
}
