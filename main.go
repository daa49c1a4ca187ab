package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dev-mohitbeniwal/echo/abac/config"
	"github.com/dev-mohitbeniwal/echo/abac/controller"
	"github.com/dev-mohitbeniwal/echo/abac/db"
	logger "github.com/dev-mohitbeniwal/echo/abac/logging"
	"github.com/dev-mohitbeniwal/echo/abac/middleware"
	"github.com/dev-mohitbeniwal/echo/abac/pdp/dao"
	"github.com/dev-mohitbeniwal/echo/abac/pdp/engine"
	"github.com/dev-mohitbeniwal/echo/abac/router"
	"github.com/dev-mohitbeniwal/echo/abac/service"
	"github.com/dev-mohitbeniwal/echo/abac/util"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}
	cfg := config.GetConfig()

	logger.InitLogger(cfg.Log.Dir, cfg.Log.Level)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eventBus := util.NewEventBus()
	eventBus.Start(ctx)
	eventBus.Subscribe(util.EventPolicyReloaded, func(ctx context.Context, event util.Event) error {
		result, ok := event.Payload.(service.ReloadResult)
		if !ok {
			return fmt.Errorf("invalid event payload type: %T", event.Payload)
		}
		logger.Info("Policy set reloaded",
			zap.String("version", result.Version),
			zap.Int("policies", result.Policies))
		return nil
	})

	policyDAO := dao.NewPolicyRetrievalDAO(cfg.Policy.File)
	decisionService, err := service.NewDecisionService(ctx, policyDAO, util.NewValidationUtil(), eventBus,
		engine.CompileOptions{StrictOperators: cfg.Policy.StrictOperators})
	if err != nil {
		logger.Fatal("Failed to load policies", zap.Error(err), zap.String("file", cfg.Policy.File))
	}

	var redisClient *redis.Client
	opts := router.Options{EnforceAdmin: cfg.Server.EnforceAdmin}
	if cfg.Redis.Addr != "" {
		redisClient, err = db.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to initialize Redis", zap.Error(err))
		}
		defer db.CloseRedis(redisClient)
		opts.RateLimit = middleware.RateLimiter(db.NewRedisLimiter(redisClient), cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}

	gin.SetMode(cfg.Server.Mode)
	controllers := controller.InitializeControllers(decisionService)
	handler := router.SetupRouter(decisionService, controllers, opts)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: handler,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if cfg.Policy.Watch {
		g.Go(func() error {
			return decisionService.WatchPolicies(gctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("Server stopped with error", zap.Error(err))
	}
	logger.Info("Server exiting")
}
