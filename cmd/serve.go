package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/subcommands"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/etnz/folio/api"
	"github.com/etnz/folio/store"
)

type serveCmd struct {
	addr    string
	noFetch bool
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the HTTP API and fetch closes on a schedule" }
func (*serveCmd) Usage() string {
	return `pft serve [-addr <host:port>] [-no-fetch]

  Serves the ledger and the reports as a JSON API under /api/users/<user>/.
  The closes are fetched on fetch.schedule (a cron spec with seconds).
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Listen address, overrides server.http_addr.")
	f.BoolVar(&c.noFetch, "no-fetch", false, "Do not schedule the price backfill.")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, ok := open()
	if !ok {
		return subcommands.ExitFailure
	}
	defer a.close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if !c.noFetch && a.cfg.Fetch.Schedule != "" {
		runner := newCronRunner(ctx, a.log.Named("cron"))
		_, err := runner.Add(a.cfg.Fetch.Schedule, func(ctx context.Context) {
			n, err := a.backfill(ctx, a.cfg.Fetch.LookbackDays)
			if err != nil {
				a.log.Warn("scheduled fetch", zap.Int("closes", n), zap.Error(err))
			}
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid fetch schedule %q: %v\n", a.cfg.Fetch.Schedule, err)
			return subcommands.ExitUsageError
		}
		runner.Start()
		defer runner.Stop()
	}

	if !a.cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(&api.Server{
		Ledger:    a.ledger,
		Service:   a.service,
		Benchmark: a.cfg.Benchmark.Ticker,
		Ping:      func() error { return store.Ping(a.db) },
		Logger:    a.log.Named("http"),
	})

	addr := c.addr
	if addr == "" {
		addr = a.cfg.Server.HTTPAddr
	}
	server := &http.Server{Addr: addr, Handler: router}
	errc := make(chan error, 1)
	go func() {
		a.log.Info("http listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case err := <-errc:
		a.log.Error("http", zap.Error(err))
		return subcommands.ExitFailure
	}
	cancel()
	ctxShut, cancelShut := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShut()
	_ = server.Shutdown(ctxShut)
	a.log.Info("shutdown complete")
	return subcommands.ExitSuccess
}

// cronRunner runs jobs on cron specs with a seconds field, with a shared context.
type cronRunner struct {
	cron    *cron.Cron
	logger  *zap.Logger
	baseCtx context.Context
}

func newCronRunner(baseCtx context.Context, logger *zap.Logger) *cronRunner {
	return &cronRunner{
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger,
		baseCtx: baseCtx,
	}
}

func (r *cronRunner) Add(spec string, job func(context.Context)) (cron.EntryID, error) {
	return r.cron.AddFunc(spec, func() {
		r.logger.Info("cron job started", zap.String("spec", spec))
		job(r.baseCtx)
	})
}

func (r *cronRunner) Start() {
	r.logger.Info("cron started")
	r.cron.Start()
}

func (r *cronRunner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("cron stopped")
}
