package folio

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/etnz/folio/date"
	"go.uber.org/zap"
)

const (
	// DefaultStartCash is the capital every user starts with.
	DefaultStartCash = 1_000_000
	// DefaultCurrency is the currency of every amount.
	DefaultCurrency = "SEK"
	// DefaultBenchmark is the index performance is compared to.
	DefaultBenchmark = "^OMXSPI"

	// liveLookback is how far back a live provider is searched for a missing close.
	liveLookback = 7
	// benchmarkLead fetches the benchmark a few days before the portfolio so its first
	// date can be forward filled.
	benchmarkLead = 5
)

// Service answers the snapshot and performance queries of a user.
type Service struct {
	trades    TradeStore
	prices    PriceStore
	live      Quoter
	cache     Cache
	log       *zap.Logger
	startCash float64
	currency  string
}

// Option configures a Service.
type Option func(*Service)

// WithLive adds a live provider used when the price store has no close.
func WithLive(q Quoter) Option { return func(s *Service) { s.live = q } }

// WithCache caches replayed trade histories.
func WithCache(c Cache) Option { return func(s *Service) { s.cache = c } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.log = l } }

// WithStartCash sets the starting capital.
func WithStartCash(v float64) Option { return func(s *Service) { s.startCash = v } }

// WithCurrency sets the currency of reported amounts.
func WithCurrency(c string) Option { return func(s *Service) { s.currency = c } }

// NewService creates a Service reading trades and prices from the given stores.
func NewService(trades TradeStore, prices PriceStore, opts ...Option) *Service {
	s := &Service{
		trades:    trades,
		prices:    prices,
		log:       zap.NewNop(),
		startCash: DefaultStartCash,
		currency:  DefaultCurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Currency returns the currency of the amounts reported by s.
func (s *Service) Currency() string { return s.currency }

// history is the replayed trade history of a user, shared read-only once cached.
type history struct {
	trades []Trade
	replay *Replay
}

// history returns the user's trades and their replay, cached by last trade id: recording a
// trade changes the key, so a stale entry is never served.
func (s *Service) history(ctx context.Context, user string) (*history, error) {
	user = strings.TrimSpace(user)
	last, err := s.trades.LastTradeID(ctx, user)
	if err != nil {
		return nil, storeErr("last trade id", err)
	}
	key := fmt.Sprintf("replay/%s/%d", user, last)
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			if h, ok := v.(*history); ok {
				return h, nil
			}
		}
	}
	trades, err := s.trades.ListTrades(ctx, user, TradeFilter{})
	if err != nil {
		return nil, storeErr("list trades", err)
	}
	h := &history{trades: trades, replay: ReplayTrades(trades)}
	if s.cache != nil {
		s.cache.Set(key, h)
	}
	return h, nil
}

// CashBalance returns the cash available to user.
func (s *Service) CashBalance(ctx context.Context, user string) (float64, error) {
	h, err := s.history(ctx, user)
	if err != nil {
		return 0, err
	}
	return CashBalance(s.startCash, h.trades), nil
}

// RealizedPnL returns the profit realized by user's sells, all tickers together.
func (s *Service) RealizedPnL(ctx context.Context, user string) (float64, error) {
	h, err := s.history(ctx, user)
	if err != nil {
		return 0, err
	}
	return h.replay.Realized(), nil
}

// Anchor returns the latest date with a close for any ticker held by user, today when there
// is none.
func (s *Service) Anchor(ctx context.Context, user string) (date.Date, error) {
	h, err := s.history(ctx, user)
	if err != nil {
		return date.Date{}, err
	}
	return s.anchor(ctx, h)
}

func (s *Service) anchor(ctx context.Context, h *history) (date.Date, error) {
	held := heldTickers(h.trades)
	if len(held) == 0 {
		return date.Today(), nil
	}
	on, err := s.prices.MaxDate(ctx, held)
	if err != nil {
		return date.Date{}, storeErr("max price date", err)
	}
	if on.IsZero() {
		return date.Today(), nil
	}
	return on, nil
}

// until returns the trades dated on or before day.
func until(trades []Trade, day date.Date) []Trade {
	res := make([]Trade, 0, len(trades))
	for _, t := range trades {
		if !t.Date.After(day) {
			res = append(res, t)
		}
	}
	return res
}

// heldTickers returns the tickers with a non zero position, sorted.
func heldTickers(trades []Trade) []string {
	return slices.Sorted(maps.Keys(SignedQuantities(trades)))
}

// Overview values the open positions of user as of anchor. A zero anchor uses Anchor and
// every trade; an explicit one only counts the trades dated on or before it.
//
// Closes are read from the price store as of the anchor; the ones it lacks are asked to the
// live provider over the preceding week. A ticker still without a close is reported with
// absent valuation fields.
func (s *Service) Overview(ctx context.Context, user string, anchor date.Date) (*Overview, error) {
	user = strings.TrimSpace(user)
	h, err := s.history(ctx, user)
	if err != nil {
		return nil, err
	}
	trades, replay := h.trades, h.replay
	if anchor.IsZero() {
		if anchor, err = s.anchor(ctx, h); err != nil {
			return nil, err
		}
	} else {
		trades = until(h.trades, anchor)
		replay = ReplayTrades(trades)
	}
	positions := sortedPositions(SignedQuantities(trades))
	tickers := make([]string, len(positions))
	for i, p := range positions {
		tickers[i] = p.Ticker
	}

	stored := map[string]Quote{}
	if len(tickers) > 0 {
		if stored, err = s.prices.Latest(ctx, tickers, anchor); err != nil {
			return nil, storeErr("latest prices", err)
		}
	}
	chain := []Resolver{ResolverFunc(func(_ context.Context, ticker string, _ date.Date) (Quote, bool, error) {
		q, ok := stored[ticker]
		return q, ok, nil
	})}
	if s.live != nil {
		chain = append(chain, LiveWindow(s.live, liveLookback))
	}
	resolve := FirstOf(chain...)

	quotes := make(map[string]Quote, len(tickers))
	for _, ticker := range tickers {
		q, ok, err := resolve.Resolve(ctx, ticker, anchor)
		switch {
		case ok:
			quotes[ticker] = q
		case err != nil:
			s.log.Warn("close unavailable", zap.String("ticker", ticker), zap.Stringer("anchor", anchor), zap.Error(err))
		default:
			s.log.Debug("close unavailable", zap.String("ticker", ticker), zap.Stringer("anchor", anchor))
		}
	}

	o := &Overview{
		User:     user,
		Anchor:   anchor,
		Currency: s.currency,
		Rows:     buildRows(positions, replay, quotes),
		Cash:     CashBalance(s.startCash, trades),
		Realized: replay.Realized(),
	}
	o.totals()
	return o, nil
}

// LastClose returns the latest close of ticker as of asOf, asking the live provider first
// and the price store second. ok is false when neither knows it.
func (s *Service) LastClose(ctx context.Context, ticker string, asOf date.Date) (Quote, bool) {
	var chain []Resolver
	if s.live != nil {
		chain = append(chain, LiveWindow(s.live, liveLookback))
	}
	chain = append(chain, StoreAsOf(s.prices))
	q, ok, err := FirstOf(chain...).Resolve(ctx, strings.TrimSpace(ticker), asOf)
	if err != nil {
		s.log.Warn("last close unavailable", zap.String("ticker", ticker), zap.Error(err))
	}
	return q, ok
}

// Performance is the performance of a portfolio over a window.
type Performance struct {
	User            string     `json:"user"`
	Window          string     `json:"window"`
	Anchor          date.Date  `json:"anchor"`
	Range           date.Range `json:"-"`
	Method          Method     `json:"method"`
	Currency        string     `json:"currency"`
	Portfolio       Series     `json:"portfolio"`
	Value           Series     `json:"value"` // index / 100 × BaseValue
	BenchmarkTicker string     `json:"benchmark_ticker,omitempty"`
	Benchmark       Series     `json:"benchmark,omitempty"`
	BaseValue       float64    `json:"base_value"`
	ReturnPct       float64    `json:"return_pct"` // last index - 100
	Change          float64    `json:"change"`     // last value - first value
}

// PerformanceSeries computes the performance index of user over w, ending on the anchor
// date, and the benchmark index over the same dates when benchmark is not empty.
//
// Missing prices never fail the computation: the index falls back to a static basket, and
// an unavailable benchmark is simply omitted.
func (s *Service) PerformanceSeries(ctx context.Context, user string, w date.Window, benchmark string) (*Performance, error) {
	user = strings.TrimSpace(user)
	h, err := s.history(ctx, user)
	if err != nil {
		return nil, err
	}
	anchor, err := s.anchor(ctx, h)
	if err != nil {
		return nil, err
	}
	perf := &Performance{
		User:     user,
		Window:   w.String(),
		Anchor:   anchor,
		Range:    w.Range(anchor),
		Method:   MethodNone,
		Currency: s.currency,
	}

	current := SignedQuantities(h.trades)
	held := slices.Sorted(maps.Keys(current))
	if len(held) == 0 {
		return perf, nil
	}
	quotes, err := s.prices.Closes(ctx, held, perf.Range)
	if err != nil {
		return nil, storeErr("closes", err)
	}
	panel := NewPanel(quotes).Interpolate()
	before := until(h.trades, anchor)
	perf.Portfolio, perf.Method = Portfolio(panel, before, current)
	if len(perf.Portfolio) == 0 {
		return perf, nil
	}

	perf.BaseValue = baseValue(panel, before, current, perf)
	perf.Value = make(Series, len(perf.Portfolio))
	for i, p := range perf.Portfolio {
		perf.Value[i] = Point{Date: p.Date, Value: p.Value / 100 * perf.BaseValue}
	}
	perf.ReturnPct = perf.Portfolio.Last() - 100
	perf.Change = perf.Value.Last() - perf.Value[0].Value

	if benchmark = strings.TrimSpace(benchmark); benchmark != "" {
		perf.BenchmarkTicker = benchmark
		perf.Benchmark = s.benchmark(ctx, benchmark, perf.Portfolio.Dates())
	}
	return perf, nil
}

// baseValue returns the portfolio value on the first point of the series: the quantities
// held that day for a time-weighted series, the current ones for a static basket.
func baseValue(p *Panel, trades []Trade, current map[string]float64, perf *Performance) float64 {
	i, found := slices.BinarySearchFunc(p.Dates, perf.Portfolio[0].Date, date.Date.Compare)
	if !found {
		return 0
	}
	quantities := current
	if perf.Method == MethodTWR {
		qty := QuantityPanel(p, trades)[i]
		quantities = make(map[string]float64, len(p.Tickers))
		for j, ticker := range p.Tickers {
			quantities[ticker] = qty[j]
		}
	}
	v := 0.0
	for j, ticker := range p.Tickers {
		v += finite(quantities[ticker] * p.Values[i][j])
	}
	return v
}

// benchmark returns the benchmark aligned on dates and normalized, nil when unavailable.
//
// Closes come from the first source covering the first date: the price store, then the live
// provider. When none does, the source starting earliest is used.
func (s *Service) benchmark(ctx context.Context, ticker string, dates []date.Date) Series {
	if len(dates) == 0 {
		return nil
	}
	r := date.Range{From: dates[0], To: dates[len(dates)-1]}.Extend(benchmarkLead)

	sources := []Quoter{storeQuoter{s.prices}}
	if s.live != nil {
		sources = append(sources, s.live)
	}
	var partial []Quote
	for _, src := range sources {
		quotes, err := src.Closes(ctx, ticker, r)
		if err != nil {
			s.log.Warn("benchmark source failed", zap.String("ticker", ticker), zap.Error(err))
			continue
		}
		if len(quotes) == 0 {
			continue
		}
		if !quotes[0].Date.After(dates[0]) {
			return Normalize(Align(quotes, dates))
		}
		s.log.Debug("benchmark source starts late", zap.String("ticker", ticker), zap.Stringer("first", quotes[0].Date))
		if partial == nil || quotes[0].Date.Before(partial[0].Date) {
			partial = quotes
		}
	}
	if partial != nil {
		return Normalize(Align(partial, dates))
	}
	s.log.Debug("benchmark unavailable", zap.String("ticker", ticker), zap.Stringer("range", r))
	return nil
}

// storeQuoter reads the closes of a single ticker from a price store.
type storeQuoter struct{ PriceStore }

func (q storeQuoter) Closes(ctx context.Context, ticker string, r date.Range) ([]Quote, error) {
	quotes, err := q.PriceStore.Closes(ctx, []string{ticker}, r)
	return quotes, storeErr("closes", err)
}
