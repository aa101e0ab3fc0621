package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/homeroot/mesh/platform/resilience"
	cacheadapter "github.com/homeroot/mesh/services/gateway/internal/adapters/cache"
	grpcadapter "github.com/homeroot/mesh/services/gateway/internal/adapters/grpc"
	httpadapter "github.com/homeroot/mesh/services/gateway/internal/adapters/http"
	"github.com/homeroot/mesh/services/gateway/internal/adapters/peers"
	"github.com/homeroot/mesh/services/gateway/internal/adapters/postgres"
	"github.com/homeroot/mesh/services/gateway/internal/adapters/security"
	"github.com/homeroot/mesh/services/gateway/internal/application"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	grpcServer *grpc.Server
	grpcLis    net.Listener
	cleanupFn  func(context.Context)
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)
	logger.Info("bootstrapping gateway service", "http_port", cfg.HTTPPort, "grpc_port", cfg.GRPCPort)

	db, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("gorm sql db: %w", err)
	}

	if err := postgres.RunMigrations(ctx, db); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	redisClient, err := cacheadapter.Connect(ctx, cfg.RedisURL)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	tokens, err := security.NewTokenCodec(cfg.JWTSecret)
	if err != nil {
		_ = sqlDB.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init token codec: %w", err)
	}

	svc := application.NewService(application.Dependencies{
		Config: application.Config{
			TokenTTL:             cfg.TokenTTL,
			FailedLoginThreshold: cfg.FailedThreshold,
			LockoutDuration:      cfg.LockoutDuration,
			ProtectedAdmin:       cfg.ProtectedAdmin,
			MaxAdmins:            cfg.MaxAdmins,
		},
		Users:    postgres.NewUserRepository(db),
		Lockouts: cacheadapter.NewRedisLockoutStore(redisClient),
		Hasher:   security.NewBcryptHasher(cfg.BcryptCost),
		Tokens:   tokens,
		Logger:   logger,
	})

	credential := peers.Credential{Username: cfg.PeerUsername, Password: cfg.PeerPassword}
	catalogBreaker := resilience.NewBreaker("listing-catalog", resilience.Config{
		FailureThreshold: cfg.BreakerFailureThreshold,
		CoolDown:         cfg.BreakerCoolDown,
		HalfOpenTrials:   cfg.BreakerHalfOpenTrials,
	})
	listingClient := peers.NewListingClient(
		peers.NewClient(cfg.ListingServiceURL, credential, cfg.PeerTimeout),
		catalogBreaker,
		logger,
	)
	purchaseClient := peers.NewPurchaseClient(
		peers.NewClient(cfg.PurchaseServiceURL, credential, cfg.PeerTimeout),
	)

	handler := httpadapter.NewHandler(svc, listingClient, purchaseClient)
	router := httpadapter.NewRouter(handler)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	grpcadapter.Register(grpcServer, grpcadapter.NewIdentityInternalServer(svc))

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		_ = sqlDB.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("listen gRPC: %w", err)
	}

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
		grpcServer: grpcServer,
		grpcLis:    lis,
		cleanupFn: func(ctx context.Context) {
			_ = redisClient.Close()
			_ = sqlDB.Close()
		},
	}, nil
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() {
		r.logger.Info("http server started", "addr", r.httpServer.Addr)
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		r.logger.Info("grpc server started", "addr", r.grpcLis.Addr().String())
		if err := r.grpcServer.Serve(r.grpcLis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		r.logger.Info("shutdown signal received")
	case err := <-errCh:
		r.logger.Error("server failure", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.grpcServer.GracefulStop()
	r.cleanupFn(shutdownCtx)
	return nil
}
