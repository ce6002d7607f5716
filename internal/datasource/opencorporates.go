package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/marketlens/marketlens/pkg/models"
)

// OpenCorporatesName is the provenance label for company directory data.
const OpenCorporatesName = "OpenCorporates"

// DefaultOpenCorporatesURL is the public OpenCorporates API endpoint.
const DefaultOpenCorporatesURL = "https://api.opencorporates.com/v0.4"

// OpenCorporates searches the global company registry.
type OpenCorporates struct {
	baseURL  string
	apiToken string
	cache    *Cache
	limiter  *rate.Limiter
}

// NewOpenCorporates creates a company directory adapter. An empty baseURL
// selects the public endpoint; apiToken is optional for low-volume queries.
func NewOpenCorporates(baseURL, apiToken string) *OpenCorporates {
	if baseURL == "" {
		baseURL = DefaultOpenCorporatesURL
	}
	return &OpenCorporates{
		baseURL:  baseURL,
		apiToken: apiToken,
		cache:    NewCache(time.Hour),
		limiter:  rate.NewLimiter(rate.Every(time.Second), 2),
	}
}

// Name returns the provenance label for this provider.
func (o *OpenCorporates) Name() string { return OpenCorporatesName }

type ocCompany struct {
	Name             string `json:"name"`
	JurisdictionCode string `json:"jurisdiction_code"`
}

type ocSearchResponse struct {
	Results struct {
		Companies []struct {
			Company ocCompany `json:"company"`
		} `json:"companies"`
	} `json:"results"`
}

// SearchCompanies returns up to pageSize companies matching the free-text
// query, optionally scoped to a jurisdiction (lowercase ISO country code).
func (o *OpenCorporates) SearchCompanies(ctx context.Context, query, jurisdiction string, pageSize int) ([]models.CompanyRecord, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	jurisdiction = strings.ToLower(strings.TrimSpace(jurisdiction))
	cacheKey := fmt.Sprintf("companies:%s:%s:%d", query, jurisdiction, pageSize)
	if cached, ok := o.cache.Get(cacheKey); ok {
		return cached.([]models.CompanyRecord), nil
	}

	q := url.Values{}
	q.Set("q", query)
	if jurisdiction != "" {
		q.Set("jurisdiction_code", jurisdiction)
	}
	if pageSize > 0 {
		q.Set("per_page", fmt.Sprintf("%d", pageSize))
	}
	if o.apiToken != "" {
		q.Set("api_token", o.apiToken)
	}
	endpoint := fmt.Sprintf("%s/companies/search?%s", o.baseURL, q.Encode())

	body, _, err := doGet(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("opencorporates search %q: %w", query, err)
	}
	defer body.Close()

	var resp ocSearchResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("opencorporates decode: %w", err)
	}

	records := make([]models.CompanyRecord, 0, len(resp.Results.Companies))
	for _, c := range resp.Results.Companies {
		records = append(records, models.CompanyRecord{
			Name:         c.Company.Name,
			Jurisdiction: c.Company.JurisdictionCode,
		})
		if pageSize > 0 && len(records) >= pageSize {
			break
		}
	}

	o.cache.Set(cacheKey, records)
	return records, nil
}
