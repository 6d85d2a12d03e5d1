package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/listkeep/backend/api/handler"
	"github.com/listkeep/backend/internal/config"
	"github.com/listkeep/backend/internal/infrastructure/monitor"
	pgInfra "github.com/listkeep/backend/internal/infrastructure/postgres"
	redisInfra "github.com/listkeep/backend/internal/infrastructure/redis"
	"github.com/listkeep/backend/internal/middleware"
	"github.com/listkeep/backend/internal/router"
	"github.com/listkeep/backend/internal/services/lifecycle"
	"github.com/listkeep/backend/pkg/httpcontext"
	"github.com/listkeep/backend/pkg/logger"
	"github.com/listkeep/backend/repository/postgres"
	redisRepo "github.com/listkeep/backend/repository/redis"
	authUC "github.com/listkeep/backend/usecase/auth"
	taskUC "github.com/listkeep/backend/usecase/task"
	"github.com/listkeep/backend/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	mon := monitor.New(pool, redisClient, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	renderer, err := web.NewRenderer()
	if err != nil {
		zapLogger.Fatal("template parsing failed", zap.Error(err))
	}

	userRepo := postgres.NewUserRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.Session.TTL)

	authUseCase := authUC.New(userRepo, sessionRepo, cfg.Session.TTL, zapLogger)
	taskUseCase := taskUC.New(taskRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:   apiHandler.NewAuthHandler(authUseCase, ctxAdapter, renderer, zapLogger, cfg.Session.CookieName, cfg.Session.SecureCookie),
		Task:   apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, renderer, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	sessionLoader := middleware.SessionLoader(authUseCase, cfg.Session.CookieName, cfg.Context.RequestTimeout, zapLogger)
	r := router.New(handlers, sessionLoader)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
