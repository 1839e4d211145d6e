package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/ayush/playlist-api/internal/auth"
	"github.com/ayush/playlist-api/internal/config"
	"github.com/ayush/playlist-api/internal/graph"
	"github.com/ayush/playlist-api/internal/logger"
	"github.com/ayush/playlist-api/internal/media"
	"github.com/ayush/playlist-api/internal/metrics"
	"github.com/ayush/playlist-api/internal/middleware"
	"github.com/ayush/playlist-api/internal/service"
	"github.com/ayush/playlist-api/internal/store"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}

	ctx := context.Background()
	m := metrics.New()

	// ── Document store ───────────────────────────────────────
	var st service.Store
	switch cfg.StoreBackend {
	case config.BackendMemory:
		log.Warn("using in-memory store; data is lost on exit")
		st = store.NewMemoryStore()
	default:
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.DBURI))
		if err != nil {
			log.Fatal("mongo connect", zap.Error(err))
		}
		defer mongoClient.Disconnect(context.Background())
		pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err = mongoClient.Ping(pingCtx, nil)
		cancel()
		if err != nil {
			log.Fatal("mongo ping", zap.Error(err))
		}
		mongoStore := store.NewMongoStore(mongoClient.Database(cfg.DBName))
		if err := mongoStore.EnsureIndexes(ctx); err != nil {
			log.Fatal("mongo indexes", zap.Error(err))
		}
		st = mongoStore
		log.Info("connected to mongo", zap.String("db", cfg.DBName))
	}

	tokens := auth.NewTokenCodec([]byte(cfg.JWTSecret))
	opts := []service.Option{service.WithMetrics(m)}

	// ── PostgreSQL audit log (optional) ──────────────────────
	if cfg.PostgresDSN != "" {
		pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatal("postgres connect", zap.Error(err))
		}
		defer pgPool.Close()
		audit := store.NewAuditStore(pgPool)
		if err := audit.Migrate(ctx); err != nil {
			log.Fatal("postgres migrate", zap.Error(err))
		}
		opts = append(opts, service.WithAuditLog(audit))
	}

	// ── Redis signin limiter (optional) ──────────────────────
	if cfg.RedisAddr != "" {
		rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatal("redis connect", zap.Error(err))
		}
		defer rdb.Close()
		opts = append(opts, service.WithLimiter(auth.NewRedisLimiter(rdb, cfg.SigninMaxFails, cfg.SigninWindow)))
	}

	svc := service.New(st, tokens, log, opts...)

	// ── MinIO media (optional) ───────────────────────────────
	var minioStore *store.MinioStore
	if cfg.MinioEndpoint != "" {
		minioStore, err = store.NewMinioStore(ctx, store.MinioOptions{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			Region:    cfg.MinioRegion,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			log.Fatal("minio connect", zap.Error(err))
		}
	}

	var presigner graph.Presigner
	if minioStore != nil {
		presigner = minioStore
	}
	schema := graph.NewSchema(svc, presigner, log)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(log, m))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	identity := middleware.Identity(auth.NewResolver(tokens, st), log)
	r.With(identity).Method(http.MethodPost, "/graphql", graph.Handler(schema))

	if minioStore != nil {
		mediaHandler := media.NewHandler(minioStore, svc, log)
		r.Route("/api/media", func(r chi.Router) {
			r.Use(identity, middleware.RequireAuth)
			r.Put("/avatar", mediaHandler.PutAvatar)
			r.Put("/songs/{id}", mediaHandler.PutSong)
		})
	}

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Minute,
		WriteTimeout:      time.Minute,
	}

	go func() {
		log.Info("listening", zap.String("addr", srv.Addr), zap.String("store", cfg.StoreBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
}
