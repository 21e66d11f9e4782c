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

	"quiz_duel/internal/config"
	"quiz_duel/internal/db"
	httpServer "quiz_duel/internal/http"
	"quiz_duel/internal/http/handlers"
	"quiz_duel/internal/logger"
	"quiz_duel/internal/migrations"
	"quiz_duel/internal/questions"
	"quiz_duel/internal/repository"
	"quiz_duel/internal/service"
	"quiz_duel/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// Version устанавливается при сборке
var Version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.Init(cfg.LogLevel, cfg.LogFormat == "json")
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	checks := make(map[string]handlers.Checker)
	var pool questions.Pool

	// --- источник вопросов: Postgres или JSON файл ---
	if cfg.DatabaseURL != "" {
		dbPool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connecting to postgres: %w", err)
		}
		defer dbPool.Close()

		if err := migrations.Run(dbPool); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		repo := repository.NewQuestionRepository(dbPool)
		if len(cfg.Subjects) == 0 {
			if cfg.Subjects, err = repo.Subjects(ctx); err != nil {
				return fmt.Errorf("loading subjects: %w", err)
			}
		}
		pool = repo
		checks["postgres"] = handlers.CheckFunc(dbPool.Ping)
		log.Info("connected to postgres")
	} else {
		static, err := questions.LoadFile(cfg.QuestionsFile)
		if err != nil {
			return fmt.Errorf("loading questions: %w", err)
		}
		if len(cfg.Subjects) == 0 {
			cfg.Subjects = static.Subjects()
		}
		pool = static
		log.Info("loaded questions file", "path", cfg.QuestionsFile)
	}

	// --- Redis: кэш пула и rate limit, необязателен ---
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()

		pool = questions.NewCachedPool(pool, rdb, cfg.PoolCacheTTL)
		checks["redis"] = handlers.CheckFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
		log.Info("connected to redis")
	}

	hub := ws.NewHub(ctx, pool, cfg.Policy())
	hub.PoolTimeout = cfg.PoolTimeout

	h := handlers.New(hub, service.NewAuth(cfg.JWTSecret), cfg.LobbyKey, cfg.AllowedOrigin)
	if cfg.LobbyKey == "" {
		log.Warn("LOBBY_KEY not set - match creation is disabled")
	}

	srv := &http.Server{
		Addr: ":" + cfg.AppPort,
		Handler: httpServer.NewRouter(h, httpServer.RouterConfig{
			AllowedOrigin: cfg.AllowedOrigin,
			Checks:        checks,
			Redis:         rdb,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server started", "port", cfg.AppPort, "version", Version, "subjects", cfg.Subjects)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := hub.Shutdown(shutdownCtx); err != nil {
			log.Warn("sessions did not stop in time", "error", err)
		}
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}
