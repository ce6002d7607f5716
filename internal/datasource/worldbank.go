package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/marketlens/marketlens/pkg/models"
)

// WorldBankName is the provenance label for economic indicator data.
const WorldBankName = "World Bank"

// DefaultWorldBankURL is the World Bank open data API v2 endpoint.
const DefaultWorldBankURL = "https://api.worldbank.org/v2"

// IndicatorGDP is the World Bank indicator id for nominal GDP in current USD.
const IndicatorGDP = "NY.GDP.MKTP.CD"

// WorldBank fetches economic indicator time series from the World Bank API.
type WorldBank struct {
	baseURL string
	cache   *Cache
	limiter *rate.Limiter
}

// NewWorldBank creates a World Bank adapter. An empty baseURL selects the
// public v2 endpoint.
func NewWorldBank(baseURL string) *WorldBank {
	if baseURL == "" {
		baseURL = DefaultWorldBankURL
	}
	return &WorldBank{
		baseURL: baseURL,
		cache:   NewCache(6 * time.Hour),
		limiter: rate.NewLimiter(rate.Every(time.Second), 4),
	}
}

// Name returns the provenance label for this provider.
func (w *WorldBank) Name() string { return WorldBankName }

// wbObservation is one row of the indicator series. Value is null for years
// the country has not reported yet.
type wbObservation struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// FetchLatestIndicator returns the most recent non-null observation for the
// indicator, or ErrNoData when the series is empty.
func (w *WorldBank) FetchLatestIndicator(ctx context.Context, countryCode, indicatorID string) (*models.IndicatorValue, error) {
	if err := w.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("indicator:%s:%s", countryCode, indicatorID)
	if cached, ok := w.cache.Get(cacheKey); ok {
		return cached.(*models.IndicatorValue), nil
	}

	endpoint := fmt.Sprintf("%s/country/%s/indicator/%s?format=json&per_page=60", w.baseURL, countryCode, indicatorID)
	body, _, err := doGet(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("world bank %s/%s: %w", countryCode, indicatorID, err)
	}
	defer body.Close()

	// Response shape: [pagination metadata, [observations...]].
	var payload []json.RawMessage
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("world bank decode: %w", err)
	}
	if len(payload) < 2 {
		return nil, ErrNoData
	}

	var series []wbObservation
	if err := json.Unmarshal(payload[1], &series); err != nil {
		return nil, fmt.Errorf("world bank series decode: %w", err)
	}

	// Observations come newest-first; take the first reported value.
	for _, obs := range series {
		if obs.Value == nil {
			continue
		}
		year, _ := strconv.Atoi(obs.Date)
		result := &models.IndicatorValue{Value: *obs.Value, Year: year}
		w.cache.Set(cacheKey, result)
		return result, nil
	}

	return nil, ErrNoData
}
