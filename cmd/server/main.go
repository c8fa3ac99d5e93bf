// Command server runs the posts/comments HTTP API.
//
// @title       Posts Backend API
// @version     1.0
// @description Posts and comments with owner-only post mutations.
// @BasePath    /
package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/xlab/closer"
	"gorm.io/gorm"

	"github.com/tbourn/go-posts-backend/internal/config"
	httpapi "github.com/tbourn/go-posts-backend/internal/http"
	"github.com/tbourn/go-posts-backend/internal/observability"
	"github.com/tbourn/go-posts-backend/internal/repo"
	"github.com/tbourn/go-posts-backend/internal/sysutil"
)

var version = "dev"

// purgeEvery is how often expired idempotency records are removed.
const purgeEvery = 10 * time.Minute

func main() {
	defer closer.Close()

	cfg := config.MustLoad()
	sysutil.InitLogger(cfg.LogLevel, cfg.LogPretty, nil)
	gin.SetMode(cfg.GinMode)

	closer.Bind(func() {
		log.Info().Msg("shutdown")
	})

	ctx, cancel := context.WithCancel(context.Background())
	closer.Bind(cancel)

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("can't init tracing")
	}
	closer.Bind(func() {
		sctx, c := context.WithTimeout(context.Background(), 5*time.Second)
		defer c()
		if err := shutdownOTel(sctx); err != nil {
			log.Error().Err(err).Msg("tracer shutdown")
		}
	})

	db, err := initDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("can't init database")
	}

	var rdb redis.Cmdable
	if client := initRedis(ctx, cfg.RedisURL); client != nil {
		rdb = client
		closer.Bind(func() { _ = client.Close() })
	}

	go purgeIdempotency(ctx, db)

	r := gin.New()
	httpapi.RegisterRoutes(r, db, rdb, cfg)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}
	closer.Bind(func() {
		sctx, c := context.WithTimeout(context.Background(), 10*time.Second)
		defer c()
		if err := srv.Shutdown(sctx); err != nil {
			log.Error().Err(err).Msg("http shutdown")
		}
	})

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server")
			closer.Close()
		}
	}()

	closer.Hold()
}

// initDB opens the store, migrates the schema and, when tracing is on,
// attaches the query tracer. The pool is closed on shutdown.
func initDB(cfg config.Config) (*gorm.DB, error) {
	db, err := repo.Open(cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := repo.AutoMigrate(db); err != nil {
		return nil, err
	}
	if cfg.OTEL.Enabled && cfg.DB.Trace {
		if err := repo.EnableTracing(db); err != nil {
			return nil, err
		}
	}
	closer.Bind(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db, nil
}

// initRedis connects the shared rate limiter store. A blank URL or a failed
// ping returns nil and the limiter stays in-process.
func initRedis(ctx context.Context, url string) *redis.Client {
	if url == "" {
		return nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		opts = &redis.Options{Addr: url}
	}
	client := redis.NewClient(opts)

	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, using in-process rate limiter")
		_ = client.Close()
		return nil
	}
	log.Info().Str("addr", opts.Addr).Msg("redis rate limiter enabled")
	return client
}

func purgeIdempotency(ctx context.Context, db *gorm.DB) {
	t := time.NewTicker(purgeEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := repo.PurgeExpiredIdempotency(ctx, db, now.UTC())
			if err != nil {
				log.Warn().Err(err).Msg("idempotency purge")
				continue
			}
			if n > 0 {
				log.Debug().Int64("removed", n).Msg("idempotency purge")
			}
		}
	}
}
