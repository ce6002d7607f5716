// Package analysis implements the segmented market analysis engine: it fans
// out to the external data providers, ranks and merges what came back, and
// degrades to a deterministic stub baseline whenever live data is missing.
// Nothing in this package surfaces an error to the caller.
package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/marketlens/marketlens/pkg/models"
)

// TradeProvider supplies partner-country trade rows for one flow direction.
type TradeProvider interface {
	Name() string
	FetchTradeRows(ctx context.Context, period int, countryCode string, flow models.FlowDirection, maxRecords int) ([]models.TradeRow, error)
}

// IndicatorProvider supplies economic indicator observations.
type IndicatorProvider interface {
	Name() string
	FetchLatestIndicator(ctx context.Context, countryCode, indicatorID string) (*models.IndicatorValue, error)
}

// CompanyProvider searches a company directory.
type CompanyProvider interface {
	Name() string
	SearchCompanies(ctx context.Context, query, jurisdiction string, pageSize int) ([]models.CompanyRecord, error)
}

// indicatorGDP is the indicator the engine enriches dominance points with.
const indicatorGDP = "NY.GDP.MKTP.CD"

// EngineConfig tunes the engine's fan-out behavior.
type EngineConfig struct {
	// ProviderTimeout bounds each individual provider call. Zero selects 6s.
	ProviderTimeout time.Duration
	// ReportingYearOffset is how many years behind the current year trade
	// statistics are requested for. Zero selects 2, the latest period public
	// trade APIs reliably cover.
	ReportingYearOffset int
}

// Engine produces SegmentedAnalysisResults. Construct with NewEngine.
type Engine struct {
	trade      TradeProvider
	indicators IndicatorProvider
	companies  CompanyProvider
	timeout    time.Duration
	yearOffset int
	log        *logrus.Logger
	now        func() time.Time
}

// NewEngine wires an engine to its three providers. Any provider may be nil;
// its enrichment step is then skipped and the baseline covers for it.
func NewEngine(trade TradeProvider, indicators IndicatorProvider, companies CompanyProvider, cfg EngineConfig, log *logrus.Logger) *Engine {
	if cfg.ProviderTimeout <= 0 {
		cfg.ProviderTimeout = 6 * time.Second
	}
	if cfg.ReportingYearOffset <= 0 {
		cfg.ReportingYearOffset = 2
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{
		trade:      trade,
		indicators: indicators,
		companies:  companies,
		timeout:    cfg.ProviderTimeout,
		yearOffset: cfg.ReportingYearOffset,
		log:        log,
		now:        time.Now,
	}
}

// Produce returns the segmented analysis for a request. It never fails: with
// no country code the deterministic baseline is the complete answer, and any
// provider failure, timeout, or panic degrades to baseline data for the
// affected section rather than propagating.
func (e *Engine) Produce(ctx context.Context, req models.AnalysisRequest, lang string) (result *models.SegmentedAnalysisResult) {
	req = req.Sanitized()
	result = Baseline(req, lang, e.now())

	country := NormalizeCountryCode(req.CountryCode)
	if country == "" {
		return result
	}

	defer func() {
		if r := recover(); r != nil {
			e.log.WithField("panic", r).Warn("analysis enrichment aborted, serving baseline")
			result = Baseline(req, lang, e.now())
		}
	}()

	e.enrich(ctx, result, req, country, lang)
	return result
}

// NormalizeCountryCode trims, uppercases, and keeps the first two characters
// of a raw country code. An empty result means "no country given".
func NormalizeCountryCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if runes := []rune(code); len(runes) > 2 {
		code = string(runes[:2])
	}
	return code
}

// fetchOutcome collects the fan-out results. Each field is written by exactly
// one goroutine; errgroup.Wait orders those writes before the merge reads.
type fetchOutcome struct {
	exports   []models.TradeRow
	imports   []models.TradeRow
	gdp       *models.IndicatorValue
	companies []models.CompanyRecord
}

func (e *Engine) enrich(ctx context.Context, result *models.SegmentedAnalysisResult, req models.AnalysisRequest, country, lang string) {
	ls := labelsFor(lang)
	year := e.now().Year() - e.yearOffset

	var out fetchOutcome
	g, gctx := errgroup.WithContext(ctx)

	if e.trade != nil {
		g.Go(func() error {
			defer e.absorbPanic("trade exports")
			rows, err := e.fetchTrade(gctx, year, country, models.FlowExport)
			if err != nil {
				e.log.WithError(err).Debug("export trade rows unavailable")
				return nil // non-fatal
			}
			out.exports = rows
			return nil
		})
		g.Go(func() error {
			defer e.absorbPanic("trade imports")
			rows, err := e.fetchTrade(gctx, year, country, models.FlowImport)
			if err != nil {
				e.log.WithError(err).Debug("import trade rows unavailable")
				return nil
			}
			out.imports = rows
			return nil
		})
	}

	if e.indicators != nil {
		g.Go(func() error {
			defer e.absorbPanic("indicator")
			callCtx, cancel := context.WithTimeout(gctx, e.timeout)
			defer cancel()
			v, err := e.indicators.FetchLatestIndicator(callCtx, country, indicatorGDP)
			if err != nil {
				e.log.WithError(err).Debug("GDP indicator unavailable")
				return nil
			}
			out.gdp = v
			return nil
		})
	}

	if e.companies != nil {
		g.Go(func() error {
			defer e.absorbPanic("companies")
			query := req.Item
			if query == "" {
				query = ls.genericQuery
			}
			callCtx, cancel := context.WithTimeout(gctx, e.timeout)
			defer cancel()
			recs, err := e.companies.SearchCompanies(callCtx, query, strings.ToLower(country), targetEntries)
			if err != nil {
				e.log.WithError(err).Debug("company directory unavailable")
				return nil
			}
			out.companies = recs
			return nil
		})
	}

	// Goroutines absorb their own failures, so Wait only synchronizes.
	_ = g.Wait()

	var used []string

	// Trade-row ranking over the baseline dominance points.
	for i := range result.MarketDominance {
		point := &result.MarketDominance[i]
		var rows []models.TradeRow
		var flow models.FlowDirection
		switch point.ResearchType {
		case models.ResearchExport:
			rows, flow = out.exports, models.FlowExport
		case models.ResearchImport:
			rows, flow = out.imports, models.FlowImport
		default:
			continue
		}
		if len(rows) == 0 {
			continue
		}
		live := rankTradeRows(rows, year, flow, ls, e.trade.Name())
		if len(live) == 0 {
			continue
		}
		point.TopPlayers = fillFromStub(live, point.TopPlayers, targetEntries)
		used = append(used, e.trade.Name())
	}

	// GDP enrichment on the first player of each trade-flow point.
	if out.gdp != nil {
		provenance := e.indicators.Name()
		fragment := ls.gdpFragment(provenance, out.gdp.Value)
		applied := false
		for i := range result.MarketDominance {
			point := &result.MarketDominance[i]
			if point.ResearchType != models.ResearchExport && point.ResearchType != models.ResearchImport {
				continue
			}
			if len(point.TopPlayers) == 0 {
				continue
			}
			desc := &point.TopPlayers[0].Description
			// Idempotence guard: never append the same provenance twice.
			if strings.Contains(*desc, provenance) {
				continue
			}
			if *desc != "" {
				*desc += " · "
			}
			*desc += fragment
			applied = true
		}
		if applied {
			used = append(used, provenance)
		}
	}

	// Company enrichment.
	if len(out.companies) > 0 {
		products := req.HSCode
		if products == "" {
			products = req.Item
		}
		today := e.now().Truncate(24 * time.Hour)
		live := make([]models.RecommendedCompany, 0, targetEntries)
		for i, rec := range out.companies {
			if i >= targetEntries {
				break
			}
			name := strings.TrimSpace(rec.Name)
			if name == "" {
				name = fmt.Sprintf("Company %d", i+1)
			}
			live = append(live, models.RecommendedCompany{
				CompanyName:  name,
				CountryCode:  country,
				ProductsOrHS: products,
				Contact: &models.ContactInfo{
					Source: e.companies.Name(),
					AsOf:   today,
				},
				Reason: ls.liveCompanyReason,
			})
		}
		result.RelatedCompanies = fillFromStub(live, result.RelatedCompanies, targetEntries)
		used = append(used, e.companies.Name())
	}

	result.DataSourcesUsed = dedupeSources(append(result.DataSourcesUsed, used...))
}

// absorbPanic converts a panicking provider call into "no data" for that
// source. errgroup does not forward goroutine panics to Wait, so without
// this a single malformed payload would take down the process; each call
// recovers for itself and the other sources proceed untouched.
func (e *Engine) absorbPanic(source string) {
	if r := recover(); r != nil {
		e.log.WithFields(logrus.Fields{"source": source, "panic": r}).
			Warn("provider call panicked, treating as no data")
	}
}

func (e *Engine) fetchTrade(ctx context.Context, year int, country string, flow models.FlowDirection) ([]models.TradeRow, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	return e.trade.FetchTradeRows(callCtx, year, country, flow, 50)
}
