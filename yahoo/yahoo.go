// Package yahoo fetches daily closes from the Yahoo Finance v8 chart API.
package yahoo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"go.uber.org/zap"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
)

// DefaultBaseURL is the public chart API host.
const DefaultBaseURL = "https://query2.finance.yahoo.com"

const userAgent = "folio/1.0"

// ErrNoResult is returned when the chart API knows nothing about a ticker.
var ErrNoResult = fmt.Errorf("yahoo: no result: %w", folio.ErrDataUnavailable)

// Client implements folio.Quoter.
type Client struct {
	base  string
	cli   *http.Client
	cache folio.Cache
	log   *zap.Logger
}

var _ folio.Quoter = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL replaces DefaultBaseURL, tests point it to an httptest server.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.base = strings.TrimSuffix(base, "/") }
}

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option { return func(c *Client) { c.cli.Timeout = d } }

// WithCache keeps the parsed closes of each request.
func WithCache(cache folio.Cache) Option { return func(c *Client) { c.cache = cache } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(c *Client) { c.log = l } }

// New returns a client on DefaultBaseURL with a 15s timeout, adjusted by opts.
func New(opts ...Option) *Client {
	c := &Client{
		base: DefaultBaseURL,
		cli:  &http.Client{Timeout: 15 * time.Second},
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Closes returns the daily closes of ticker within r, in date order. Days without a close
// are skipped.
func (c *Client) Closes(ctx context.Context, ticker string, r date.Range) ([]folio.Quote, error) {
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return nil, ErrNoResult
	}
	key := fmt.Sprintf("yahoo/%s/%v/%v", ticker, r.From, r.To)
	if c.cache != nil {
		if v, ok := c.cache.Get(key); ok {
			if quotes, ok := v.([]folio.Quote); ok {
				return quotes, nil
			}
		}
	}

	var from int64
	if !r.From.IsZero() {
		from = r.From.Unix()
	}
	q := url.Values{}
	q.Set("period1", strconv.FormatInt(from, 10))
	// period2 is exclusive
	q.Set("period2", strconv.FormatInt(r.To.Add(1).Unix(), 10))
	q.Set("interval", "1d")
	addr := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.base, url.PathEscape(ticker), q.Encode())

	var jobj any
	if err := c.get(ctx, addr, &jobj); err != nil {
		return nil, fmt.Errorf("yahoo %s: %w", ticker, err)
	}
	quotes, err := parseChart(ticker, jobj)
	if err != nil {
		return nil, err
	}
	in := quotes[:0]
	for _, quote := range quotes {
		if r.Contains(quote.Date) {
			in = append(in, quote)
		}
	}
	c.log.Debug("yahoo closes", zap.String("ticker", ticker), zap.Stringer("range", r), zap.Int("count", len(in)))
	if c.cache != nil {
		c.cache.Set(key, in)
	}
	return in, nil
}

// get decodes the JSON body of a GET on addr into data.
//
// The chart API answers 404 with a JSON error body, so the body is decoded whatever the
// status and the caller inspects chart.error.
func (c *Client) get(ctx context.Context, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := c.cli.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return err
	}
	if err := json.Unmarshal(buf.Bytes(), data); err != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
		}
		return err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	return nil
}

// parseChart extracts the closes of a chart response.
func parseChart(ticker string, jobj any) ([]folio.Quote, error) {
	if e, err := jsonpath.Get("$.chart.error", jobj); err == nil && e != nil {
		desc, _ := jsonpath.Get("$.chart.error.description", jobj)
		return nil, fmt.Errorf("yahoo %s: %v: %w", ticker, desc, ErrNoResult)
	}

	timestamps, err := list(jobj, "$.chart.result[0].timestamp")
	if err != nil {
		// a valid range without any trading day has no timestamp at all
		if _, rerr := jsonpath.Get("$.chart.result[0].meta", jobj); rerr == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("yahoo %s: %w", ticker, ErrNoResult)
	}
	closes, err := list(jobj, "$.chart.result[0].indicators.quote[0].close")
	if err != nil {
		return nil, fmt.Errorf("yahoo %s: %w", ticker, err)
	}
	if len(closes) != len(timestamps) {
		return nil, fmt.Errorf("yahoo %s: %d closes for %d timestamps", ticker, len(closes), len(timestamps))
	}
	var offset float64
	if v, err := jsonpath.Get("$.chart.result[0].meta.gmtoffset", jobj); err == nil {
		offset, _ = v.(float64)
	}

	quotes := make([]folio.Quote, 0, len(timestamps))
	for i, ts := range timestamps {
		sec, ok := ts.(float64)
		if !ok {
			return nil, fmt.Errorf("yahoo %s: timestamp %v is not a number", ticker, ts)
		}
		v, ok := closes[i].(float64)
		if !ok || v <= 0 {
			continue // null close: no trade that day
		}
		// timestamps are the exchange opening, shifted to the exchange's local day
		day := date.Of(time.Unix(int64(sec+offset), 0).UTC())
		quotes = append(quotes, folio.Quote{Ticker: ticker, Date: day, Close: v})
	}
	return quotes, nil
}

// list returns the array at path.
func list(jobj any, path string) ([]any, error) {
	v, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, err
	}
	l, ok := v.([]any)
	if !ok {
		return nil, errors.New(path + " is not a list")
	}
	return l, nil
}
