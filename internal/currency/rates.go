package currency

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/guonaihong/gout"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	defaultRefreshInterval = 24 * time.Hour
	defaultFetchTimeout    = 10 * time.Second
)

// defaultUSDRates seeds the cache until the first successful refresh.
// Values are per 1 USD and rebased onto the configured canonical currency.
var defaultUSDRates = map[string]float64{
	"USD": 1,
	"EUR": 0.92,
	"GBP": 0.79,
	"ILS": 3.70,
	"JPY": 149.50,
	"CAD": 1.36,
	"AUD": 1.52,
	"CHF": 0.88,
}

var ErrBadRatePayload = errors.New("rate source returned an unusable payload")

// RateTable is immutable once published; refresh replaces it wholesale.
type RateTable struct {
	Base        string
	Rates       map[string]float64
	LastUpdated time.Time
}

type RateConfig struct {
	SourceURL       string
	Canonical       string
	RefreshInterval time.Duration
	Timeout         time.Duration
}

// ratePayload accepts both the open.er-api.com and the exchangerate-api v4 shapes
type ratePayload struct {
	Result   string             `json:"result"`
	BaseCode string             `json:"base_code"`
	Base     string             `json:"base"`
	Rates    map[string]float64 `json:"rates"`
}

// RateCache holds currency -> rate relative to the canonical currency.
type RateCache struct {
	cfg    RateConfig
	client *http.Client
	clock  func() time.Time
	log    *zap.Logger

	table atomic.Pointer[RateTable]

	initOnce  sync.Once
	scheduler *cron.Cron
}

// NewRateCache builds a cache seeded with the default table.
// client and clock may be nil.
func NewRateCache(cfg RateConfig, client *http.Client, clock func() time.Time, log *zap.Logger) *RateCache {
	cfg.Canonical = strings.ToUpper(strings.TrimSpace(cfg.Canonical))
	if cfg.Canonical == "" {
		cfg.Canonical = "USD"
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = defaultRefreshInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultFetchTimeout
	}
	if client == nil {
		client = &http.Client{}
	}
	if clock == nil {
		clock = time.Now
	}

	c := &RateCache{
		cfg:    cfg,
		client: client,
		clock:  clock,
		log:    log.With(zap.String("component", "rate_cache")),
	}
	c.table.Store(defaultTable(cfg.Canonical, clock()))

	return c
}

func defaultTable(canonical string, now time.Time) *RateTable {
	rates := map[string]float64{canonical: 1}

	if base, ok := defaultUSDRates[canonical]; ok {
		for code, perUSD := range defaultUSDRates {
			rates[code] = perUSD / base
		}
		rates[canonical] = 1
	}

	return &RateTable{Base: canonical, Rates: rates, LastUpdated: now}
}

// Initialize starts the single refresh schedule and fires one refresh right away.
// Calling it again is a no-op.
func (c *RateCache) Initialize() {
	c.initOnce.Do(func() {
		c.scheduler = cron.New()
		c.scheduler.Schedule(cron.Every(c.cfg.RefreshInterval), cron.FuncJob(c.scheduledRefresh))
		c.scheduler.Start()

		go c.scheduledRefresh()

		c.log.Info("Rate cache initialized",
			zap.String("canonical", c.cfg.Canonical),
			zap.Duration("refresh_interval", c.cfg.RefreshInterval),
		)
	})
}

// scheduledRefresh swallows the error; the next tick is the retry
func (c *RateCache) scheduledRefresh() {
	_ = c.Refresh(context.Background())
}

// Stop halts the schedule and waits for a running refresh to finish.
func (c *RateCache) Stop() {
	if c.scheduler == nil {
		return
	}
	<-c.scheduler.Stop().Done()
}

// Refresh fetches a new table. On any failure the current table stays in place.
func (c *RateCache) Refresh(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	url := strings.TrimRight(c.cfg.SourceURL, "/") + "/" + c.cfg.Canonical

	var (
		payload ratePayload
		code    int
	)
	err := gout.New(c.client).
		GET(url).
		WithContext(ctx).
		Code(&code).
		BindJSON(&payload).
		Do()
	if err == nil && code != http.StatusOK {
		err = fmt.Errorf("rate source responded %d", code)
	}
	if err != nil {
		c.log.Warn("Rate refresh failed, keeping current table",
			zap.Error(err),
			zap.String("url", url),
		)
		return fmt.Errorf("fetch rates: %w", err)
	}

	table, err := c.buildTable(payload)
	if err != nil {
		c.log.Warn("Rate refresh rejected payload, keeping current table",
			zap.Error(err),
			zap.String("url", url),
		)
		return err
	}

	c.table.Store(table)

	c.log.Info("Rates refreshed",
		zap.Int("currencies", len(table.Rates)),
		zap.Time("last_updated", table.LastUpdated),
	)
	return nil
}

func (c *RateCache) buildTable(payload ratePayload) (*RateTable, error) {
	if payload.Result != "" && payload.Result != "success" {
		return nil, fmt.Errorf("%w: result %q", ErrBadRatePayload, payload.Result)
	}

	base := strings.ToUpper(payload.BaseCode)
	if base == "" {
		base = strings.ToUpper(payload.Base)
	}
	if base != "" && base != c.cfg.Canonical {
		return nil, fmt.Errorf("%w: base %s, want %s", ErrBadRatePayload, base, c.cfg.Canonical)
	}
	if len(payload.Rates) == 0 {
		return nil, fmt.Errorf("%w: no rates", ErrBadRatePayload)
	}

	rates := make(map[string]float64, len(payload.Rates)+1)
	for code, rate := range payload.Rates {
		if rate <= 0 || math.IsInf(rate, 0) || math.IsNaN(rate) {
			return nil, fmt.Errorf("%w: rate for %s is %v", ErrBadRatePayload, code, rate)
		}
		rates[strings.ToUpper(code)] = rate
	}
	rates[c.cfg.Canonical] = 1

	return &RateTable{Base: c.cfg.Canonical, Rates: rates, LastUpdated: c.clock()}, nil
}

// Rate looks a currency up case-insensitively. ok is false when unsupported.
func (c *RateCache) Rate(code string) (float64, bool) {
	rate, ok := c.table.Load().Rates[strings.ToUpper(strings.TrimSpace(code))]
	return rate, ok
}

func (c *RateCache) Canonical() string {
	return c.cfg.Canonical
}

// Snapshot returns the currently published table. Callers must not mutate Rates.
func (c *RateCache) Snapshot() RateTable {
	return *c.table.Load()
}
