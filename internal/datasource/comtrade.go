package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/marketlens/marketlens/pkg/models"
)

// ComtradeName is the provenance label for trade statistics data.
const ComtradeName = "UN Comtrade"

// DefaultComtradeURL is the public preview endpoint of the Comtrade API.
const DefaultComtradeURL = "https://comtradeapi.un.org/public/v1/preview"

// Comtrade fetches partner-country trade rows from the UN Comtrade API.
type Comtrade struct {
	baseURL string
	apiKey  string
	cache   *Cache
	limiter *rate.Limiter
}

// NewComtrade creates a Comtrade adapter. An empty baseURL selects the
// public preview endpoint; apiKey is optional for preview queries.
func NewComtrade(baseURL, apiKey string) *Comtrade {
	if baseURL == "" {
		baseURL = DefaultComtradeURL
	}
	return &Comtrade{
		baseURL: baseURL,
		apiKey:  apiKey,
		cache:   NewCache(30 * time.Minute),
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
	}
}

// Name returns the provenance label for this provider.
func (c *Comtrade) Name() string { return ComtradeName }

// comtradeRow mirrors the raw API row. Older dataset vintages carry the
// traded value as "TradeValue" instead of "primaryValue"; both are decoded
// and normalized below.
type comtradeRow struct {
	PartnerDesc  string  `json:"partnerDesc"`
	PrimaryValue float64 `json:"primaryValue"`
	TradeValue   float64 `json:"TradeValue"`
}

type comtradeResponse struct {
	Data []comtradeRow `json:"data"`
}

// FetchTradeRows returns up to maxRecords partner trade rows for the given
// country, reporting period, and flow direction. Rows are normalized into
// models.TradeRow; aggregate rows ("World") are left for the caller to filter.
func (c *Comtrade) FetchTradeRows(ctx context.Context, period int, countryCode string, flow models.FlowDirection, maxRecords int) ([]models.TradeRow, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("trade:%d:%s:%s:%d", period, countryCode, flow, maxRecords)
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.([]models.TradeRow), nil
	}

	flowCode := "M"
	if flow == models.FlowExport {
		flowCode = "X"
	}

	q := url.Values{}
	q.Set("reporterCode", countryCode)
	q.Set("period", fmt.Sprintf("%d", period))
	q.Set("flowCode", flowCode)
	q.Set("partnerCode", "all")
	q.Set("maxRecords", fmt.Sprintf("%d", maxRecords))
	endpoint := fmt.Sprintf("%s/C/A/HS?%s", c.baseURL, q.Encode())

	headers := map[string]string{}
	if c.apiKey != "" {
		headers["Ocp-Apim-Subscription-Key"] = c.apiKey
	}

	body, _, err := doGet(ctx, endpoint, headers)
	if err != nil {
		return nil, fmt.Errorf("comtrade %s %s: %w", countryCode, flowCode, err)
	}
	defer body.Close()

	var resp comtradeResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("comtrade decode: %w", err)
	}

	rows := make([]models.TradeRow, 0, len(resp.Data))
	for _, r := range resp.Data {
		value := r.PrimaryValue
		if value == 0 {
			value = r.TradeValue
		}
		rows = append(rows, models.TradeRow{
			PartnerName: r.PartnerDesc,
			Value:       value,
		})
		if maxRecords > 0 && len(rows) >= maxRecords {
			break
		}
	}

	c.cache.Set(cacheKey, rows)
	return rows, nil
}
