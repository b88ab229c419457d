package dataflows

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
)

// FinnhubClient fetches company fundamentals that the quote feed does not
// carry: sector, beta, revenue growth, profitability and leverage ratios.
type FinnhubClient struct {
	client *resty.Client
	cache  *CacheManager
	apiKey string
}

// NewFinnhubClient creates a new Finnhub client
func NewFinnhubClient(config *Config) *FinnhubClient {
	cacheDir := filepath.Join(config.DataCacheDir, "finnhub")
	cache := NewCacheManager(cacheDir, 6*time.Hour, config.CacheEnabled)

	client := resty.New()
	client.SetBaseURL("https://finnhub.io/api/v1")
	client.SetTimeout(time.Duration(config.FetchTimeoutSec) * time.Second)

	return &FinnhubClient{
		client: client,
		cache:  cache,
		apiKey: config.FinnhubAPIKey,
	}
}

// Enabled reports whether an API key is configured.
func (fc *FinnhubClient) Enabled() bool {
	return fc.apiKey != ""
}

// CompanyProfile is the subset of /stock/profile2 this system reads.
type CompanyProfile struct {
	Name     string `json:"name"`
	Industry string `json:"finnhubIndustry"`
	Exchange string `json:"exchange"`
	Currency string `json:"currency"`
}

// Fundamentals holds ratio data from /stock/metric.
type Fundamentals struct {
	Beta             float64
	RevenueGrowthPct float64
	ROEPct           float64
	DebtToEquity     float64
	CurrentRatio     float64
	PERatio          float64
	PBRatio          float64
	DividendYieldPct float64
}

// GetCompanyProfile gets the company profile, including the sector label.
func (fc *FinnhubClient) GetCompanyProfile(symbol string) (*CompanyProfile, error) {
	if !fc.Enabled() {
		return nil, fmt.Errorf("finnhub API key not configured")
	}

	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	symbol = NormalizeSymbol(symbol)

	var cached CompanyProfile
	if fc.cache.Get("finnhub", "profile", symbol, &cached) {
		return &cached, nil
	}

	var profile CompanyProfile
	err := WithRetry(DefaultRetryConfig(), func() error {
		resp, err := fc.client.R().
			SetQueryParams(map[string]string{
				"symbol": symbol,
				"token":  fc.apiKey,
			}).
			Get("/stock/profile2")

		if err != nil {
			return fmt.Errorf("failed to fetch profile for %s: %w", symbol, err)
		}
		if resp.StatusCode() != 200 {
			return fmt.Errorf("profile request for %s returned %d", symbol, resp.StatusCode())
		}

		if err := json.Unmarshal(resp.Body(), &profile); err != nil {
			return fmt.Errorf("failed to parse profile for %s: %w", symbol, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	fc.cache.Set("finnhub", "profile", symbol, &profile)

	return &profile, nil
}

// metricResponse mirrors the /stock/metric payload shape.
type metricResponse struct {
	Metric map[string]interface{} `json:"metric"`
}

// GetFundamentals gets ratio data for a symbol. Missing metrics come back
// as zero values rather than errors.
func (fc *FinnhubClient) GetFundamentals(symbol string) (*Fundamentals, error) {
	if !fc.Enabled() {
		return nil, fmt.Errorf("finnhub API key not configured")
	}

	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	symbol = NormalizeSymbol(symbol)

	var cached Fundamentals
	if fc.cache.Get("finnhub", "metric", symbol, &cached) {
		return &cached, nil
	}

	var raw metricResponse
	err := WithRetry(DefaultRetryConfig(), func() error {
		resp, err := fc.client.R().
			SetQueryParams(map[string]string{
				"symbol": symbol,
				"metric": "all",
				"token":  fc.apiKey,
			}).
			Get("/stock/metric")

		if err != nil {
			return fmt.Errorf("failed to fetch metrics for %s: %w", symbol, err)
		}
		if resp.StatusCode() != 200 {
			return fmt.Errorf("metric request for %s returned %d", symbol, resp.StatusCode())
		}

		if err := json.Unmarshal(resp.Body(), &raw); err != nil {
			return fmt.Errorf("failed to parse metrics for %s: %w", symbol, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	result := &Fundamentals{
		Beta:             metricFloat(raw.Metric, "beta"),
		RevenueGrowthPct: metricFloat(raw.Metric, "revenueGrowthTTMYoy"),
		ROEPct:           metricFloat(raw.Metric, "roeTTM"),
		DebtToEquity:     metricFloat(raw.Metric, "totalDebt/totalEquityQuarterly"),
		CurrentRatio:     metricFloat(raw.Metric, "currentRatioQuarterly"),
		PERatio:          metricFloat(raw.Metric, "peTTM"),
		PBRatio:          metricFloat(raw.Metric, "pbQuarterly"),
		DividendYieldPct: metricFloat(raw.Metric, "currentDividendYieldTTM"),
	}

	fc.cache.Set("finnhub", "metric", symbol, result)

	return result, nil
}

// metricFloat reads a numeric metric, tolerating nulls and absent keys.
func metricFloat(metrics map[string]interface{}, key string) float64 {
	if metrics == nil {
		return 0
	}
	if v, ok := metrics[key].(float64); ok {
		return v
	}
	return 0
}
