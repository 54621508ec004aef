package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) ready(c *gin.Context) {
	if s.Ping != nil {
		if err := s.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db_unreachable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// failWith maps a folio error to its status.
func (s *Server) failWith(c *gin.Context, where string, err error) {
	var over *folio.OverSellError
	switch {
	case folio.IsValidation(err):
		badRequest(c, err.Error())
	case errors.As(err, &over):
		fail(c, http.StatusConflict, err.Error(), map[string]any{"held": over.Held, "requested": over.Requested})
	default:
		s.Logger.Error("internal_error",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("where", where),
			zap.Error(err))
		fail(c, http.StatusInternalServerError, "internal server error", nil)
	}
}

func (s *Server) listTrades(c *gin.Context) {
	trades, err := s.Ledger.ListTrades(c.Request.Context(), c.Param("user"), c.Query("ticker"))
	if err != nil {
		s.failWith(c, "list trades", err)
		return
	}
	if trades == nil {
		trades = []folio.Trade{}
	}
	ok(c, http.StatusOK, trades)
}

func (s *Server) recordTrade(c *gin.Context) {
	var o folio.Order
	if err := c.ShouldBindJSON(&o); err != nil {
		badRequest(c, "invalid body: "+err.Error())
		return
	}
	o.User = c.Param("user")
	id, err := s.Ledger.Record(c.Request.Context(), o)
	if err != nil {
		s.failWith(c, "record trade", err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"id": id})
}

func (s *Server) positions(c *gin.Context) {
	positions, err := s.Ledger.Positions(c.Request.Context(), c.Param("user"))
	if err != nil {
		s.failWith(c, "positions", err)
		return
	}
	ok(c, http.StatusOK, positions)
}

func (s *Server) position(c *gin.Context) {
	ticker := c.Param("ticker")
	q, err := s.Ledger.CurrentQuantity(c.Request.Context(), c.Param("user"), ticker)
	if err != nil {
		s.failWith(c, "current quantity", err)
		return
	}
	ok(c, http.StatusOK, folio.Position{Ticker: ticker, Quantity: q})
}

func (s *Server) overview(c *gin.Context) {
	var anchor date.Date
	if v := strings.TrimSpace(c.Query("date")); v != "" {
		on, err := date.Parse(v)
		if err != nil {
			badRequest(c, "invalid date: "+err.Error())
			return
		}
		anchor = on
	}
	o, err := s.Service.Overview(c.Request.Context(), c.Param("user"), anchor)
	if err != nil {
		s.failWith(c, "overview", err)
		return
	}
	ok(c, http.StatusOK, o)
}

func (s *Server) cash(c *gin.Context) {
	ctx := c.Request.Context()
	user := c.Param("user")
	cash, err := s.Service.CashBalance(ctx, user)
	if err != nil {
		s.failWith(c, "cash", err)
		return
	}
	realized, err := s.Service.RealizedPnL(ctx, user)
	if err != nil {
		s.failWith(c, "realized", err)
		return
	}
	ok(c, http.StatusOK, gin.H{"cash": cash, "realized": realized, "currency": s.Service.Currency()})
}

// performance reads the window from period and the benchmark ticker from benchmark. An
// explicitly empty benchmark disables it.
func (s *Server) performance(c *gin.Context) {
	w, err := date.ParseWindow(c.Query("period"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	benchmark, set := c.GetQuery("benchmark")
	if !set {
		benchmark = s.Benchmark
	}
	perf, err := s.Service.PerformanceSeries(c.Request.Context(), c.Param("user"), w, benchmark)
	if err != nil {
		s.failWith(c, "performance", err)
		return
	}
	ok(c, http.StatusOK, perf)
}
