package cmd

import (
	"context"
	"flag"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
)

// setup points the configuration to a fresh sqlite file and to a provider knowing nothing.
func setup(t *testing.T) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	old := *configFile
	*configFile = filepath.Join(dir, "missing.yaml")
	t.Cleanup(func() { *configFile = old })
	*plainFlag = true

	t.Setenv("FOLIO_DB_DSN", filepath.Join(dir, "data", "data.db"))
	t.Setenv("FOLIO_PROVIDER_BASE_URL", srv.URL)
	t.Setenv("FOLIO_LOG_LEVEL", "error")
}

func run(t *testing.T, c subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("%s %v: %v", c.Name(), args, err)
	}
	return c.Execute(context.Background(), f)
}

func TestOpenApp(t *testing.T) {
	setup(t)
	a, err := openApp()
	if err != nil {
		t.Fatalf("openApp() unexpected error: %v", err)
	}
	defer a.close()
	if a.cfg.App.User != "demo" || a.cfg.App.StartCash != folio.DefaultStartCash || a.service.Currency() != "SEK" {
		t.Errorf("openApp() config = %+v, want the defaults", a.cfg.App)
	}
}

func TestTradeCommands(t *testing.T) {
	setup(t)

	testCases := []struct {
		name string
		cmd  subcommands.Command
		args []string
		want subcommands.ExitStatus
	}{
		{"buy", &buyCmd{}, []string{"-s", "ABB.ST", "-q", "10", "-p", "200", "-d", "2025-01-10"}, subcommands.ExitSuccess},
		{"sell", &sellCmd{}, []string{"-s", "ABB.ST", "-q", "4", "-p", "220", "-f", "1", "-d", "2025-01-12"}, subcommands.ExitSuccess},
		{"oversell", &sellCmd{}, []string{"-s", "ABB.ST", "-q", "7", "-p", "220", "-d", "2025-01-13"}, subcommands.ExitFailure},
		{"missing ticker", &buyCmd{}, []string{"-q", "1", "-p", "1"}, subcommands.ExitUsageError},
		{"negative fee", &buyCmd{}, []string{"-s", "ABB.ST", "-q", "1", "-p", "1", "-f", "-1"}, subcommands.ExitUsageError},
		{"no close known", &buyCmd{}, []string{"-s", "HM-B.ST", "-q", "1", "-d", "2025-01-13"}, subcommands.ExitFailure},
		{"trades", &tradesCmd{}, []string{"-tail", "1"}, subcommands.ExitSuccess},
		{"head and tail", &tradesCmd{}, []string{"-head", "1", "-tail", "1"}, subcommands.ExitUsageError},
		{"positions", &positionsCmd{}, nil, subcommands.ExitSuccess},
		{"overview", &overviewCmd{}, []string{"-d", "2025-01-13"}, subcommands.ExitSuccess},
		{"overview bad date", &overviewCmd{}, []string{"-d", "soon"}, subcommands.ExitUsageError},
		{"cash", &cashCmd{}, nil, subcommands.ExitSuccess},
		{"performance", &performanceCmd{}, []string{"-p", "all", "-no-benchmark"}, subcommands.ExitSuccess},
		{"performance bad period", &performanceCmd{}, []string{"-p", "2w"}, subcommands.ExitUsageError},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := run(t, tc.cmd, tc.args...); got != tc.want {
				t.Errorf("%s = %v, want %v", tc.name, got, tc.want)
			}
		})
	}

	a, err := openApp()
	if err != nil {
		t.Fatal(err)
	}
	defer a.close()
	cash, err := a.service.CashBalance(context.Background(), "demo")
	// 1e6 - 2000 + 880 - 1
	if err != nil || cash != 998_879 {
		t.Errorf("CashBalance() = %v, %v want 998879", cash, err)
	}
}

func TestFetchCommand(t *testing.T) {
	setup(t)
	// nothing is known by the provider: every ticker fails, nothing is stored
	if got := run(t, &fetchCmd{}, "-days", "5"); got != subcommands.ExitFailure {
		t.Errorf("fetch = %v, want %v", got, subcommands.ExitFailure)
	}
}

func TestBuyAtLastClose(t *testing.T) {
	setup(t)
	a, err := openApp()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.store.UpsertPrices(context.Background(), []folio.Quote{{Ticker: "ABB.ST", Date: date.MustParse("2025-01-10"), Close: 201.5}}); err != nil {
		t.Fatal(err)
	}
	a.close()

	if got := run(t, &buyCmd{}, "-s", "ABB.ST", "-q", "2", "-d", "2025-01-13"); got != subcommands.ExitSuccess {
		t.Fatalf("buy = %v, want success", got)
	}

	a, err = openApp()
	if err != nil {
		t.Fatal(err)
	}
	defer a.close()
	trades, err := a.ledger.ListTrades(context.Background(), "demo", "ABB.ST")
	if err != nil || len(trades) != 1 || trades[0].Price != 201.5 {
		t.Errorf("ListTrades() = %v, %v want one trade at 201.5", trades, err)
	}
}

func TestCronRunner(t *testing.T) {
	r := newCronRunner(context.Background(), zap.NewNop())
	if _, err := r.Add("every day", func(context.Context) {}); err == nil {
		t.Errorf("Add(every day) succeeded, want an error")
	}

	done := make(chan struct{}, 1)
	if _, err := r.Add("* * * * * *", func(context.Context) {
		select {
		case done <- struct{}{}:
		default:
		}
	}); err != nil {
		t.Fatalf("Add() unexpected error: %v", err)
	}
	r.Start()
	defer r.Stop()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Errorf("job did not run")
	}
}
