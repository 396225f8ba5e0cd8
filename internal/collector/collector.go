package collector

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"StonksPoller/internal/model"
)

// DefaultPause is the spacing between successive fetches.
const DefaultPause = 500 * time.Millisecond

// MockFetcher returns canned data for development and testing.
// Symbols missing from Data fail with a 404 FetchError.
type MockFetcher struct {
	Data  map[model.Symbol]map[string]any
	Calls []model.Symbol
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) Fetch(_ context.Context, symbol model.Symbol) (map[string]any, error) {
	m.Calls = append(m.Calls, symbol)
	fields, ok := m.Data[symbol]
	if !ok {
		return nil, &FetchError{Symbol: symbol, StatusCode: 404}
	}
	return fields, nil
}

// NewSampleFetcher returns a MockFetcher with a plausible quote for each symbol.
func NewSampleFetcher(symbols []model.Symbol) *MockFetcher {
	data := make(map[model.Symbol]map[string]any, len(symbols))
	for i, s := range symbols {
		price := 100 + 25*float64(i)
		data[s] = map[string]any{
			"price":             json.Number(strconv.FormatFloat(price, 'f', 2, 64)),
			"change_point":      json.Number("1.25"),
			"change_percentage": json.Number(strconv.FormatFloat(125/price, 'f', 2, 64)),
			"total_vol":         "12.5M",
		}
	}
	return &MockFetcher{Data: data}
}

// Collector turns a symbol list into a batch, one fetch at a time.
type Collector struct {
	Fetcher Fetcher
	Pause   time.Duration

	logger *slog.Logger
	now    func() time.Time
	sleep  func(time.Duration)
}

// Option configures a Collector.
type Option func(*Collector)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Collector) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock overrides the capture clock.
func WithClock(now func() time.Time) Option {
	return func(c *Collector) { c.now = now }
}

// WithSleep overrides how the inter-fetch pause is spent.
func WithSleep(sleep func(time.Duration)) Option {
	return func(c *Collector) { c.sleep = sleep }
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, pause time.Duration, opts ...Option) *Collector {
	c := &Collector{
		Fetcher: fetcher,
		Pause:   pause,
		logger:  slog.Default(),
		now:     time.Now,
		sleep:   time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect fetches every symbol in order. Failed symbols are logged and skipped,
// so the batch may be shorter than symbols or empty.
func (c *Collector) Collect(ctx context.Context, symbols []model.Symbol) model.Batch {
	batch := make(model.Batch, 0, len(symbols))
	for i, symbol := range symbols {
		if i > 0 && c.Pause > 0 {
			c.sleep(c.Pause)
		}

		fields, err := c.Fetcher.Fetch(ctx, symbol)
		if err != nil {
			c.logger.Warn("fetch failed", "source", c.Fetcher.Name(), "symbol", symbol, "error", err)
			continue
		}
		batch = append(batch, model.NewRecord(symbol, c.now(), fields))
	}

	c.logger.Debug("collect complete",
		"requested", len(symbols),
		"fetched", len(batch),
	)
	return batch
}
