package analysis

import (
	"fmt"

	"github.com/marketlens/marketlens/pkg/models"
)

// labelSet holds every user-facing string for one language. Adding a language
// means adding one entry to languages below.
type labelSet struct {
	displayLabels map[models.ResearchType]string
	metricLabels  map[models.ResearchType]string
	flowLabels    map[models.FlowDirection]string

	stubPlayerFmt     string // display label, index
	stubPlayerDescFmt string // item
	genericItem       string
	stubCompanyReason string
	liveCompanyReason string
	stubSource        string
	genericQuery      string

	tradeDescFmt string // year, flow label, provenance
	gdpFmt       string // provenance, value in billions

	newsHeaderFmt     string // country code
	newsHeaderGeneric string
	newsStubSource    string
	newsStubItems     []models.NewsSummaryItem
}

var languages = map[string]labelSet{
	"en": {
		displayLabels: map[models.ResearchType]string{
			models.ResearchImport:        "Import",
			models.ResearchExport:        "Export",
			models.ResearchDistribution:  "Distribution",
			models.ResearchConsumption:   "Consumption",
			models.ResearchManufacturing: "Manufacturing",
		},
		metricLabels: map[models.ResearchType]string{
			models.ResearchImport:        "import share / top importers",
			models.ResearchExport:        "export share / leading exporters",
			models.ResearchDistribution:  "distribution share / major distributors",
			models.ResearchConsumption:   "consumption share / key buyers",
			models.ResearchManufacturing: "production share / key manufacturers",
		},
		flowLabels: map[models.FlowDirection]string{
			models.FlowImport: "Imports",
			models.FlowExport: "Exports",
		},
		stubPlayerFmt:     "%s market leader %d",
		stubPlayerDescFmt: "Established market player for %s",
		genericItem:       "the selected item",
		stubCompanyReason: "Listed in public trade directories for this market",
		liveCompanyReason: "Registered company matching the requested item",
		stubSource:        "public directory",
		genericQuery:      "trading company",
		tradeDescFmt:      "%d · %s · %s",
		gdpFmt:            "GDP (%s): $%.2fB",
		newsHeaderFmt:     "Market briefing — %s",
		newsHeaderGeneric: "Market briefing",
		newsStubSource:    "MarketLens Research",
		newsStubItems: []models.NewsSummaryItem{
			{Title: "Global logistics costs stay within seasonal range", Source: "MarketLens Research"},
			{Title: "Trade finance conditions broadly unchanged this quarter", Source: "MarketLens Research"},
			{Title: "Regional demand indicators show mixed momentum", Source: "MarketLens Research"},
		},
	},
	"ko": {
		displayLabels: map[models.ResearchType]string{
			models.ResearchImport:        "수입",
			models.ResearchExport:        "수출",
			models.ResearchDistribution:  "유통",
			models.ResearchConsumption:   "소비",
			models.ResearchManufacturing: "제조",
		},
		metricLabels: map[models.ResearchType]string{
			models.ResearchImport:        "수입 점유율 / 주요 수입업체",
			models.ResearchExport:        "수출 점유율 / 주요 수출업체",
			models.ResearchDistribution:  "유통 점유율 / 주요 유통업체",
			models.ResearchConsumption:   "소비 점유율 / 주요 구매처",
			models.ResearchManufacturing: "생산 점유율 / 핵심 제조사",
		},
		flowLabels: map[models.FlowDirection]string{
			models.FlowImport: "수입",
			models.FlowExport: "수출",
		},
		stubPlayerFmt:     "%s 시장 선도기업 %d",
		stubPlayerDescFmt: "%s 분야의 대표적인 시장 참여 기업",
		genericItem:       "해당 품목",
		stubCompanyReason: "해당 시장의 공개 무역 디렉터리에 등재된 기업",
		liveCompanyReason: "요청 품목과 일치하는 등록 기업",
		stubSource:        "공개 디렉터리",
		genericQuery:      "무역회사",
		tradeDescFmt:      "%d년 · %s · %s",
		gdpFmt:            "GDP (%s): $%.2fB",
		newsHeaderFmt:     "시장 브리핑 — %s",
		newsHeaderGeneric: "시장 브리핑",
		newsStubSource:    "MarketLens 리서치",
		newsStubItems: []models.NewsSummaryItem{
			{Title: "글로벌 물류 비용, 계절적 범위 내 유지", Source: "MarketLens 리서치"},
			{Title: "무역 금융 여건, 이번 분기 큰 변동 없음", Source: "MarketLens 리서치"},
			{Title: "지역별 수요 지표, 혼조세 지속", Source: "MarketLens 리서치"},
		},
	},
}

// labelsFor resolves a language code to its label set, falling back to English.
func labelsFor(lang string) labelSet {
	if ls, ok := languages[lang]; ok {
		return ls
	}
	return languages["en"]
}

func (ls labelSet) tradeDesc(year int, flow models.FlowDirection, provenance string) string {
	return fmt.Sprintf(ls.tradeDescFmt, year, ls.flowLabels[flow], provenance)
}

func (ls labelSet) gdpFragment(provenance string, value float64) string {
	return fmt.Sprintf(ls.gdpFmt, provenance, value/1e9)
}

func (ls labelSet) newsHeader(country string) string {
	if country == "" {
		return ls.newsHeaderGeneric
	}
	return fmt.Sprintf(ls.newsHeaderFmt, country)
}
