// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"slate-service/internal/config"
	"slate-service/internal/db"
	authHandler "slate-service/internal/handlers/auth"
	feedHandler "slate-service/internal/handlers/feed"
	notifyH "slate-service/internal/handlers/notification"
	subscriptionHandler "slate-service/internal/handlers/subscription"
	userHandler "slate-service/internal/handlers/user"
	"slate-service/internal/middleware"
	"slate-service/internal/pkg/authn"
	"slate-service/internal/pkg/ratelimit"
	"slate-service/internal/pkg/token"
	"slate-service/internal/repository/postgres"
	authUsecase "slate-service/internal/service/auth"
	feedUsecase "slate-service/internal/service/feed"
	notifyUsecase "slate-service/internal/service/notification"
	subscriptionUsecase "slate-service/internal/service/subscription"
	userUsecase "slate-service/internal/service/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger

	httpServer *http.Server
	janitor    *Janitor
	cleanup    []func()
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- Logger -----
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	s.logger = logger

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	s.cleanup = append(s.cleanup, pool.Close)

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       0,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	s.cleanup = append(s.cleanup, func() { _ = redisClient.Close() })

	// ----- Token Codec -----
	codec, err := token.NewCodec(s.cfg.Token)
	if err != nil {
		return fmt.Errorf("failed to build token codec: %w", err)
	}

	// ----- Repositories -----
	dbWrapper := postgres.NewDB(pool)
	userRepo := postgres.NewUserRepository(pool, dbWrapper)
	sessionRepo := postgres.NewSessionRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	feedRepo := postgres.NewFeedRepository(pool)
	notifyRepo := postgres.NewNotificationRepository(pool)
	subscriptionRepo := postgres.NewSubscriptionRepository(pool)

	// ----- Rate Limiter -----
	loginLimiter := ratelimit.NewLimiter(redisClient)

	// ----- Services (Usecases) -----
	notifService := notifyUsecase.NewNotificationService(notifyRepo, logger)
	subscriptionService := subscriptionUsecase.NewSubscriptionService(subscriptionRepo, logger)
	authService := authUsecase.NewAuthService(
		userRepo,
		sessionRepo,
		codec,
		loginLimiter,
		notifService,
		subscriptionService,
		logger,
	)
	userService := userUsecase.NewUserService(userRepo, sessionRepo, auditRepo, logger)
	feedService := feedUsecase.NewFeedService(feedRepo, logger)

	// ----- Authentication Pipeline -----
	pipeline := authn.NewPipeline(codec, sessionRepo, logger)

	// ----- Handlers -----
	authHandlerInst := authHandler.NewAuthHandler(authService, logger)
	userHandlerInst := userHandler.NewUserHandler(userService, authService, logger)
	feedHandlerInst := feedHandler.NewFeedHandler(feedService, logger)
	notifHandlerInst := notifyH.NewNotificationHandler(notifService, logger)
	subscriptionHandlerInst := subscriptionHandler.NewSubscriptionHandler(subscriptionService, logger)

	// ----- Middlewares -----
	authMiddleware := middleware.NewAuthMiddleware(pipeline, logger)

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
		middleware.AnalyticsMiddleware(logger),
	)

	// ----- Router -----
	handlers := &Handlers{
		AuthHandler:         authHandlerInst,
		UserHandler:         userHandlerInst,
		FeedHandler:         feedHandlerInst,
		NotifHandler:        notifHandlerInst,
		SubscriptionHandler: subscriptionHandlerInst,
		AuthMiddleware:      authMiddleware,
	}
	SetupRouter(s.engine, handlers)

	// ----- Session Janitor -----
	s.janitor = NewJanitor(sessionRepo, s.cfg.SweepInterval, logger)
	s.janitor.Start()

	logger.Info("server starting", zap.String("addr", s.cfg.HTTPAddr))

	s.httpServer = &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.engine,
	}
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown stops the HTTP listener, the janitor and the store connections.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.janitor != nil {
		s.janitor.Stop()
	}

	var err error
	if s.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		err = s.httpServer.Shutdown(shutdownCtx)
	}

	for _, fn := range s.cleanup {
		fn()
	}

	if s.logger != nil {
		s.logger.Info("server stopped")
		_ = s.logger.Sync()
	}
	return err
}
