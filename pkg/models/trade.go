package models

// FlowDirection says whether a trade row represents import or export
// movement for the subject country.
type FlowDirection string

const (
	FlowImport FlowDirection = "import"
	FlowExport FlowDirection = "export"
)

// TradeRow is a normalized partner-country trade record. Adapters translate
// source-specific field naming into this shape so ranking code never branches
// on the origin of a row.
type TradeRow struct {
	PartnerName string  `json:"partner_name"`
	Value       float64 `json:"value"` // traded value in USD
}

// IndicatorValue is the latest observation of an economic indicator.
type IndicatorValue struct {
	Value float64 `json:"value"`
	Year  int     `json:"year"`
}

// CompanyRecord is a candidate company returned by a directory search.
type CompanyRecord struct {
	Name         string `json:"name"`
	Jurisdiction string `json:"jurisdiction,omitempty"`
}
