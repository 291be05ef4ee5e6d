package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BaSui01/imagegate/api"
	"github.com/BaSui01/imagegate/api/handlers"
	"github.com/BaSui01/imagegate/config"
	"github.com/BaSui01/imagegate/image"
	"github.com/BaSui01/imagegate/internal/configstore"
	"github.com/BaSui01/imagegate/internal/database"
	"github.com/BaSui01/imagegate/internal/metrics"
	"github.com/BaSui01/imagegate/internal/secrets"
	"github.com/BaSui01/imagegate/internal/server"
)

// Server 组装网关的所有依赖
type Server struct {
	cfg       *config.Config
	logger    *zap.Logger
	collector *metrics.Collector

	pool    *database.PoolManager
	store   configstore.Store
	gateway *image.Gateway
	handler http.Handler

	limiterCancel context.CancelFunc
}

// NewServer 打开配置存储、凭证来源与网关，并构建 HTTP handler
func NewServer(ctx context.Context, cfg *config.Config, collector *metrics.Collector, logger *zap.Logger) (*Server, error) {
	s := &Server{cfg: cfg, logger: logger, collector: collector}

	if err := s.openStore(ctx); err != nil {
		s.Close()
		return nil, err
	}

	env, err := secrets.NewEnvSource(cfg.Credentials.DotenvPath, logger)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to load credential file: %w", err)
	}

	resolver := image.NewCredentialResolver(s.store, env, logger)
	s.gateway = image.NewGateway(cfg.Gateway, resolver, logger, image.WithRecorder(collector))

	limiterCtx, cancel := context.WithCancel(context.Background())
	s.limiterCancel = cancel
	s.handler = s.routes(limiterCtx)

	logger.Info("server initialized",
		zap.String("store_backend", string(cfg.Store.Backend)),
		zap.Bool("dotenv", cfg.Credentials.DotenvPath != ""),
	)
	return s, nil
}

// openStore 按配置打开存储，database 后端先建立连接池
func (s *Server) openStore(ctx context.Context) error {
	deps := configstore.Deps{Redis: s.cfg.Redis}

	if s.cfg.Store.Backend == configstore.BackendDatabase {
		pool, err := database.Open(s.cfg.Database, s.logger,
			database.WithStatsObserver(s.cfg.Database.Driver, s.collector))
		if err != nil {
			return err
		}
		s.pool = pool
		deps.DB = pool.DB()
	}

	store, err := configstore.Open(ctx, s.cfg.Store, deps, s.logger)
	if err != nil {
		return fmt.Errorf("failed to open config store: %w", err)
	}
	s.store = configstore.Instrument(store, s.cfg.Store.Backend, s.collector)
	return nil
}

func (s *Server) routes(limiterCtx context.Context) http.Handler {
	health := handlers.NewHealthHandler(api.VersionInfo{
		Version:   Version,
		BuildTime: BuildTime,
		GitCommit: GitCommit,
	}, s.logger)
	health.RegisterCheck(handlers.NewPingCheck("config_store", s.store.Ping))
	if s.pool != nil {
		health.RegisterCheck(handlers.NewPingCheck("database", s.pool.Ping))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", health.HandleHealth)
	mux.HandleFunc("/healthz", health.HandleHealthz)
	mux.HandleFunc("/ready", health.HandleReady)
	mux.HandleFunc("/version", health.HandleVersion)
	mux.Handle("/api/generate", handlers.NewGenerateHandler(s.gateway, s.cfg.API.MaxBodyBytes, s.logger))

	return Chain(mux,
		Recovery(s.logger),
		RequestID(),
		OTelTracing(),
		Metrics(s.collector),
		RequestLogger(s.logger),
		SecurityHeaders(),
		CORS(s.cfg.API.CORSAllowedOrigins),
		RateLimiter(limiterCtx, s.cfg.API.RateLimitRPS, s.cfg.API.RateLimitBurst, s.logger),
	)
}

// Handler 返回 API handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run 启动 API 与 metrics 服务，阻塞到 ctx 取消或任一服务失败
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	apiServer := server.NewManager("api", s.handler, s.cfg.Server, s.logger)
	g.Go(func() error { return apiServer.Run(ctx) })

	if s.cfg.Metrics.Enabled {
		metricsCfg := server.DefaultConfig()
		metricsCfg.Addr = s.cfg.Metrics.Addr
		metricsCfg.ShutdownTimeout = s.cfg.Server.ShutdownTimeout

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer := server.NewManager("metrics", mux, metricsCfg, s.logger)
		g.Go(func() error { return metricsServer.Run(ctx) })
	}

	return g.Wait()
}

// Close 释放存储与连接池
func (s *Server) Close() error {
	if s.limiterCancel != nil {
		s.limiterCancel()
	}
	var errs []error
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close config store: %w", err))
		}
	}
	if s.pool != nil {
		if err := s.pool.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
