// Package models defines the core data structures used throughout MarketLens.
package models

import (
	"strings"
	"time"
)

// ResearchType identifies a market-research angle requested by the caller.
type ResearchType string

const (
	ResearchImport        ResearchType = "import"
	ResearchExport        ResearchType = "export"
	ResearchDistribution  ResearchType = "distribution"
	ResearchConsumption   ResearchType = "consumption"
	ResearchManufacturing ResearchType = "manufacturing"
)

// ParseResearchType resolves a raw string to a known ResearchType.
// Matching is case-insensitive; unknown values return ok=false.
func ParseResearchType(s string) (ResearchType, bool) {
	switch ResearchType(strings.ToLower(strings.TrimSpace(s))) {
	case ResearchImport:
		return ResearchImport, true
	case ResearchExport:
		return ResearchExport, true
	case ResearchDistribution:
		return ResearchDistribution, true
	case ResearchConsumption:
		return ResearchConsumption, true
	case ResearchManufacturing:
		return ResearchManufacturing, true
	}
	return "", false
}

// DefaultResearchTypes is what an empty request falls back to.
func DefaultResearchTypes() []ResearchType {
	return []ResearchType{ResearchImport, ResearchExport}
}

// Field limits applied when a request is sanitized.
const (
	MaxCountryCodeLen = 10
	MaxItemLen        = 500
	MaxHSCodeLen      = 50
)

// AnalysisRequest describes what the caller wants analyzed. Requests are
// stored per (organization_id, country_code) with last-write-wins semantics.
type AnalysisRequest struct {
	OrganizationID string         `json:"organization_id,omitempty"`
	CountryCode    string         `json:"country_code"`
	Item           string         `json:"item"`
	HSCode         string         `json:"hs_code"`
	ResearchTypes  []ResearchType `json:"research_types"`
}

// Sanitized returns a copy with oversized fields truncated, research types
// de-duplicated, and unknown research-type values silently dropped. Malformed
// input is never rejected with an error.
func (r AnalysisRequest) Sanitized() AnalysisRequest {
	out := r
	out.CountryCode = truncate(strings.TrimSpace(r.CountryCode), MaxCountryCodeLen)
	out.Item = truncate(strings.TrimSpace(r.Item), MaxItemLen)
	out.HSCode = truncate(strings.TrimSpace(r.HSCode), MaxHSCodeLen)

	seen := make(map[ResearchType]bool, len(r.ResearchTypes))
	types := make([]ResearchType, 0, len(r.ResearchTypes))
	for _, raw := range r.ResearchTypes {
		rt, ok := ParseResearchType(string(raw))
		if !ok || seen[rt] {
			continue
		}
		seen[rt] = true
		types = append(types, rt)
	}
	out.ResearchTypes = types
	return out
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

// PlayerEntry is one ranked market player inside a dominance point.
type PlayerEntry struct {
	Name         string `json:"name"`
	ShareOrValue string `json:"share_or_value"` // e.g., "57.1%" or "—"
	Description  string `json:"description,omitempty"`
}

// MarketDominancePoint holds the top players for one research type.
// TopPlayers always has exactly 5 entries once the engine returns: live
// entries first, stub entries padding the remainder.
type MarketDominancePoint struct {
	ResearchType ResearchType  `json:"research_type"`
	DisplayLabel string        `json:"display_label"`
	MetricLabel  string        `json:"metric_label"`
	TopPlayers   []PlayerEntry `json:"top_players"`
}

// ContactInfo carries provenance-tagged contact details for a company.
// Source and AsOf are always set when ContactInfo is present.
type ContactInfo struct {
	Email  string    `json:"email,omitempty"`
	Phone  string    `json:"phone,omitempty"`
	Source string    `json:"source"`
	AsOf   time.Time `json:"as_of"`
}

// RecommendedCompany is one suggested counterparty for the requested item.
type RecommendedCompany struct {
	CompanyName  string       `json:"company_name"`
	CountryCode  string       `json:"country_code"`
	ProductsOrHS string       `json:"products_or_hs"`
	Contact      *ContactInfo `json:"contact,omitempty"`
	Reason       string       `json:"reason"`
}

// SegmentedAnalysisResult is the engine's answer: ranked dominance points per
// research type, recommended companies, and the provenance labels of every
// provider whose data actually contributed.
type SegmentedAnalysisResult struct {
	Request          AnalysisRequest        `json:"request"`
	MarketDominance  []MarketDominancePoint `json:"market_dominance"`
	RelatedCompanies []RecommendedCompany   `json:"related_companies"`
	DataSourcesUsed  []string               `json:"data_sources_used"`
}
