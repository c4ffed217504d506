package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const monobankBaseURL = "https://api.monobank.ua"

// ISO 4217 numeric codes.
const (
	CodeUSD = 840
	CodeEUR = 978
	CodeUAH = 980
)

var currencySymbols = map[int]string{
	CodeUSD: "USD",
	CodeEUR: "EUR",
	CodeUAH: "UAH",
}

// Rate is one row of the currency table. Purchase and Sale are formatted
// with two decimals.
type Rate struct {
	Currency string `json:"currency"`
	Purchase string `json:"purchase"`
	Sale     string `json:"sale"`
	Code     int    `json:"code"`
}

// monobankRate is one entry of GET /bank/currency.
type monobankRate struct {
	CurrencyCodeA int              `json:"currencyCodeA"`
	CurrencyCodeB int              `json:"currencyCodeB"`
	Date          int64            `json:"date"`
	RateBuy       *decimal.Decimal `json:"rateBuy"`
	RateSell      *decimal.Decimal `json:"rateSell"`
	RateCross     *decimal.Decimal `json:"rateCross"`
}

// RatesFetcher loads the current rates.
type RatesFetcher interface {
	FetchRates(ctx context.Context) ([]Rate, error)
}

// MonobankClient fetches public exchange rates from Monobank.
type MonobankClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewMonobankClient creates a client. An empty baseURL uses the public API.
func NewMonobankClient(baseURL string, httpClient *http.Client) *MonobankClient {
	if baseURL == "" {
		baseURL = monobankBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &MonobankClient{httpClient: httpClient, baseURL: strings.TrimRight(baseURL, "/")}
}

// FetchRates returns the USD and EUR rates quoted against UAH.
func (m *MonobankClient) FetchRates(ctx context.Context) ([]Rate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"/bank/currency", nil)
	if err != nil {
		return nil, fmt.Errorf("building currency request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("currency http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("currency request: unexpected status %d", resp.StatusCode)
	}

	var raw []monobankRate
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding currency response: %w", err)
	}
	return filterRates(raw), nil
}

func filterRates(raw []monobankRate) []Rate {
	out := []Rate{}
	for _, r := range raw {
		if r.CurrencyCodeB != CodeUAH || (r.CurrencyCodeA != CodeUSD && r.CurrencyCodeA != CodeEUR) {
			continue
		}
		out = append(out, Rate{
			Currency: currencySymbols[r.CurrencyCodeA],
			Purchase: formatRate(r.RateBuy, r.RateCross),
			Sale:     formatRate(r.RateSell, r.RateCross),
			Code:     r.CurrencyCodeA,
		})
	}
	return out
}

func formatRate(primary, cross *decimal.Decimal) string {
	switch {
	case primary != nil:
		return primary.StringFixed(2)
	case cross != nil:
		return cross.StringFixed(2)
	default:
		return ""
	}
}

// Service serves rates from a TTL cache in front of a fetcher.
type Service struct {
	fetcher RatesFetcher
	cache   *Cache[[]Rate]
	log     *zap.SugaredLogger
}

// NewService creates a Service caching fetcher's rates for ttl.
func NewService(fetcher RatesFetcher, ttl time.Duration, log *zap.SugaredLogger) *Service {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{fetcher: fetcher, cache: NewCache[[]Rate](ttl), log: log}
}

// Rates returns the cached rates and when they were fetched, refreshing
// them once they are older than the ttl.
func (s *Service) Rates(ctx context.Context) ([]Rate, time.Time, error) {
	return s.cache.GetOrRefresh(ctx, func(ctx context.Context) ([]Rate, error) {
		rates, err := s.fetcher.FetchRates(ctx)
		if err != nil {
			s.log.Warnw("currency refresh failed", "error", err)
			return nil, err
		}
		s.log.Debugw("currency rates refreshed", "count", len(rates))
		return rates, nil
	})
}
