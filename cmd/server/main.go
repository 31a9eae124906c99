package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/sonora-music/sonora/internal/config"
	"github.com/sonora-music/sonora/internal/objstore"
	"github.com/sonora-music/sonora/internal/scanner"
	"github.com/sonora-music/sonora/internal/store"
	"github.com/sonora-music/sonora/internal/subsonic"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()
	slog.Info("postgres connected")

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	slog.Info("schema up to date")

	var fs objstore.Filesystem
	switch cfg.StoreBackend {
	case "s3":
		fs, err = objstore.NewS3(ctx, objstore.S3Config{
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			Bucket:        cfg.StoreBucket,
			UseSSL:        cfg.S3UseSSL,
			PresignExpiry: time.Duration(cfg.PresignExpiryMins) * time.Minute,
		})
	default:
		fs, err = objstore.NewLocalFS(cfg.StoreRoot)
	}
	if err != nil {
		return fmt.Errorf("open object store: %w", err)
	}
	slog.Info("object store ready", "backend", cfg.StoreBackend)

	var kv *redis.Client
	if cfg.KVMode == "sentinel" {
		kv = redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:    cfg.KVSentinelMaster,
			SentinelAddrs: cfg.KVSentinelAddrs,
		})
	} else {
		kv = redis.NewClient(&redis.Options{Addr: cfg.KVAddr})
	}
	defer kv.Close()
	if err := kv.Ping(ctx).Err(); err != nil {
		slog.Warn("metadata cache unreachable at startup; streaming falls back to uncached reads", "err", err)
		kv = nil
	} else {
		slog.Info("metadata cache connected")
	}

	scanSvc := scanner.New(db, cfg)

	svc := subsonic.New(cfg, db, fs, scanSvc, kv)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(slogMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", healthz)
	r.Get("/readyz", readyz(db))
	r.Route("/rest", svc.Routes)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // streaming responses don't get a write deadline
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
	}()

	slog.Info("listening", "port", cfg.HTTPPort)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func readyz(db *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			http.Error(w, "postgres: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}

func slogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}
