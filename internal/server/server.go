package server

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentTerm/internal/api/http"
	"github.com/GriffinCanCode/AgentTerm/internal/api/middleware"
	"github.com/GriffinCanCode/AgentTerm/internal/api/ws"
	"github.com/GriffinCanCode/AgentTerm/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentTerm/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentTerm/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/AgentTerm/internal/logging"
	"github.com/GriffinCanCode/AgentTerm/internal/providers/terminal"
	"github.com/GriffinCanCode/AgentTerm/internal/service"
	"github.com/GriffinCanCode/AgentTerm/internal/session"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	manager  *session.Manager
	registry *service.Registry
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	// Initialize logger
	logCfg := logging.DefaultConfig()
	if cfg.Logging.Development {
		logCfg = logging.DevelopmentConfig()
	}
	if cfg.Logging.Level != "" {
		logCfg.Level = cfg.Logging.Level
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Initializing terminal engine",
		zap.String("port", cfg.Server.Port),
		zap.Int("max_sessions", cfg.Terminal.MaxSessions),
	)

	// Initialize metrics first (needed by other components)
	metrics := monitoring.NewMetrics()

	// Initialize request tracing
	tracer := tracing.New("terminal", logger.Logger)

	// Initialize session manager
	manager, err := session.NewManager(session.Config{
		Shell:           cfg.Terminal.Shell,
		Term:            cfg.Terminal.Term,
		Rows:            cfg.Terminal.Rows,
		Cols:            cfg.Terminal.Cols,
		ScrollbackLimit: cfg.Terminal.ScrollbackLimit,
		PromptPattern:   cfg.Terminal.PromptPattern,
		MaxSessions:     cfg.Terminal.MaxSessions,
		ReadyTimeoutMS:  cfg.Terminal.ReadyTimeoutMS,
		AttachClients:   cfg.Attach.MaxClients,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session manager: %w", err)
	}
	manager = manager.WithMetrics(metrics)

	// Register service providers
	serviceRegistry := service.NewRegistry()
	termProvider := terminal.NewProvider(manager, logger).WithMetrics(metrics)
	if err := serviceRegistry.Register(termProvider); err != nil {
		return nil, fmt.Errorf("failed to register terminal provider: %w", err)
	}
	logger.Info("Registered terminal provider",
		zap.Int("tools", len(termProvider.Definition().Tools)),
	)

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))

	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.Server.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.Server.AllowedOrigins
	}
	router.Use(middleware.CORS(corsCfg))

	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	// Create handlers
	handlers := http.NewHandlers(serviceRegistry, manager, logger).WithMetrics(metrics)
	wsHandler := ws.NewHandler(manager, logger).WithMetrics(metrics)

	// Register routes
	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	// Service management
	router.GET("/services", handlers.ListServices)
	router.POST("/services/discover", handlers.DiscoverServices)
	router.POST("/services/execute", handlers.ExecuteService)

	// WebSocket attach
	if cfg.Attach.Enabled {
		router.GET("/attach/:session_id", wsHandler.HandleAttach)
	}

	// Metrics endpoints
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/metrics/json", handlers.MetricsJSON)

	logger.Info("Server initialized successfully")

	return &Server{
		router:   router,
		manager:  manager,
		registry: serviceRegistry,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
	}, nil
}

// Run starts the HTTP server
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Close gracefully shuts down the server, destroying every live session
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")
	s.manager.Shutdown()
	s.logger.Sync()
	return nil
}
