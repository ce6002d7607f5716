package analysis

import (
	"fmt"
	"time"

	"github.com/marketlens/marketlens/pkg/models"
)

// DefaultDataSources is the provenance baseline: the three providers the
// engine consults, by display name. A provider's name appears here whether or
// not its data was actually used for a given request.
var DefaultDataSources = []string{"UN Comtrade", "World Bank", "OpenCorporates"}

// stubShares are the synthetic dominance percentages of the five placeholder
// players, descending.
var stubShares = []int{22, 18, 14, 11, 9}

// stubCompanyNames are the five placeholder recommendations used when the
// directory search has no live results to offer.
var stubCompanyNames = []string{
	"Pacific Trade Partners",
	"Meridian Distribution Co.",
	"Atlas Commodity Group",
	"Crestline Logistics",
	"Harborview Trading",
}

// Baseline builds the deterministic placeholder result for a request. It does
// no I/O: the same (request, lang) pair always yields the same baseline, which
// is what lets the engine pad live results with stub entries without tracking
// consumed indexes across calls. The request is expected to be sanitized.
func Baseline(req models.AnalysisRequest, lang string, now time.Time) *models.SegmentedAnalysisResult {
	ls := labelsFor(lang)

	types := req.ResearchTypes
	if len(types) == 0 {
		types = models.DefaultResearchTypes()
	}

	item := req.Item
	if item == "" {
		item = ls.genericItem
	}

	dominance := make([]models.MarketDominancePoint, 0, len(types))
	for _, rt := range types {
		players := make([]models.PlayerEntry, 0, len(stubShares))
		for i, share := range stubShares {
			players = append(players, models.PlayerEntry{
				Name:         fmt.Sprintf(ls.stubPlayerFmt, ls.displayLabels[rt], i+1),
				ShareOrValue: fmt.Sprintf("%d%%", share),
				Description:  fmt.Sprintf(ls.stubPlayerDescFmt, item),
			})
		}
		dominance = append(dominance, models.MarketDominancePoint{
			ResearchType: rt,
			DisplayLabel: ls.displayLabels[rt],
			MetricLabel:  ls.metricLabels[rt],
			TopPlayers:   players,
		})
	}

	products := req.HSCode
	if products == "" {
		products = item
	}

	today := now.Truncate(24 * time.Hour)
	companies := make([]models.RecommendedCompany, 0, len(stubCompanyNames))
	for _, name := range stubCompanyNames {
		companies = append(companies, models.RecommendedCompany{
			CompanyName:  name,
			CountryCode:  req.CountryCode,
			ProductsOrHS: products,
			Contact: &models.ContactInfo{
				Source: ls.stubSource,
				AsOf:   today,
			},
			Reason: ls.stubCompanyReason,
		})
	}

	sources := make([]string, len(DefaultDataSources))
	copy(sources, DefaultDataSources)

	return &models.SegmentedAnalysisResult{
		Request:          req,
		MarketDominance:  dominance,
		RelatedCompanies: companies,
		DataSourcesUsed:  sources,
	}
}
