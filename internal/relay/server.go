package relay

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/inklab/canvasbridge/internal/config"
	"github.com/inklab/canvasbridge/internal/logging"
	"github.com/inklab/canvasbridge/internal/middleware"
	"github.com/inklab/canvasbridge/internal/monitoring"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// The relay binds to loopback by default; origin filtering is not
		// an authentication mechanism here (auth is out of scope).
		return true
	},
}

// Server exposes the relay over HTTP: WebSocket upgrades for both legs plus
// health and metrics endpoints.
type Server struct {
	router  *gin.Engine
	relay   *Relay
	logger  *logging.Logger
	httpSrv *http.Server
}

// NewServer wires the relay, middleware, and routes.
func NewServer(cfg *config.Config, logger *logging.Logger) *Server {
	registry := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(registry)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.GlobalRateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	s := &Server{
		router: router,
		relay:  New(logger, metrics),
		logger: logger,
	}

	router.GET("/client", s.handleLeg(LegClient))
	router.GET("/plugin", s.handleLeg(LegPlugin))
	router.GET("/health", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return s
}

// Relay returns the underlying forwarder, for tests.
func (s *Server) Relay() *Relay { return s.relay }

// Handler returns the HTTP handler, for tests.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) handleLeg(leg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			s.logger.Warn("websocket upgrade failed",
				zap.String("leg", leg), zap.Error(err))
			return
		}
		s.relay.Serve(leg, conn)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"client": s.relay.Connected(LegClient),
		"plugin": s.relay.Connected(LegPlugin),
	})
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run(addr string) error {
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("relay listening", zap.String("addr", addr))
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Close shuts the HTTP server down gracefully.
func (s *Server) Close() error {
	if s.httpSrv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpSrv.Shutdown(ctx)
}
