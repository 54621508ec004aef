// Package api serves the ledger and the portfolio queries over HTTP.
package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/etnz/folio"
)

// RequestIDHeader carries the id of a request, generated when the client sends none.
const RequestIDHeader = "X-Request-ID"

// Server holds what the handlers need.
type Server struct {
	Ledger    *folio.Ledger
	Service   *folio.Service
	Benchmark string       // default benchmark ticker
	Ping      func() error // readiness probe, may be nil
	Logger    *zap.Logger
}

// NewRouter wires the middlewares and the routes of s.
func NewRouter(s *Server) *gin.Engine {
	if s.Logger == nil {
		s.Logger = zap.NewNop()
	}
	g := gin.New()
	g.Use(requestID())
	g.Use(requestLogger(s.Logger))
	g.Use(gin.Recovery())

	g.GET("/healthz", s.health)
	g.GET("/readyz", s.ready)

	users := g.Group("/api/users/:user")
	users.GET("/trades", s.listTrades)
	users.POST("/trades", s.recordTrade)
	users.GET("/positions", s.positions)
	users.GET("/positions/:ticker", s.position)
	users.GET("/overview", s.overview)
	users.GET("/cash", s.cash)
	users.GET("/performance", s.performance)
	return g
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http_request",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
