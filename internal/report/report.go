package report

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"strings"
	"time"

	"github.com/marketlens/marketlens/pkg/models"
)

// briefingData is the template model passed to the HTML template.
type briefingData struct {
	Title         string
	Subtitle      string
	CountryCode   string
	GeneratedAt   string
	Item          string
	HSCode        string
	ResearchTypes string

	Sections  []sectionData
	Companies []companyRow

	DataSources []string
}

type sectionData struct {
	DisplayLabel string
	MetricLabel  string
	ChartSVG     template.HTML
}

type companyRow struct {
	Name          string
	Country       string
	Products      string
	ContactSource string
	Reason        string
}

// Generator renders segmented analysis results to HTML.
type Generator struct {
	chartCfg ChartConfig
	tmpl     *template.Template
	now      func() time.Time
}

// NewGenerator creates a report generator with default chart settings.
func NewGenerator() *Generator {
	return &Generator{
		chartCfg: DefaultChartConfig(),
		tmpl:     template.Must(template.New("briefing").Parse(briefingTemplate)),
		now:      time.Now,
	}
}

// GenerateHTML renders the result as a standalone HTML document.
func (g *Generator) GenerateHTML(result *models.SegmentedAnalysisResult) ([]byte, error) {
	data := g.flatten(result)

	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering briefing: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteHTML renders the result and writes it to path.
func (g *Generator) WriteHTML(result *models.SegmentedAnalysisResult, path string) error {
	out, err := g.GenerateHTML(result)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing briefing to %s: %w", path, err)
	}
	return nil
}

func (g *Generator) flatten(result *models.SegmentedAnalysisResult) briefingData {
	req := result.Request

	item := req.Item
	if item == "" {
		item = "—"
	}

	types := make([]string, 0, len(result.MarketDominance))
	sections := make([]sectionData, 0, len(result.MarketDominance))
	for _, point := range result.MarketDominance {
		types = append(types, point.DisplayLabel)
		sections = append(sections, sectionData{
			DisplayLabel: point.DisplayLabel,
			MetricLabel:  point.MetricLabel,
			// ShareBarChart escapes all interpolated text itself.
			ChartSVG: template.HTML(ShareBarChart(point.TopPlayers, g.chartCfg)),
		})
	}

	companies := make([]companyRow, 0, len(result.RelatedCompanies))
	for _, c := range result.RelatedCompanies {
		row := companyRow{
			Name:     c.CompanyName,
			Country:  c.CountryCode,
			Products: c.ProductsOrHS,
			Reason:   c.Reason,
		}
		if c.Contact != nil {
			row.ContactSource = c.Contact.Source
		}
		companies = append(companies, row)
	}

	return briefingData{
		Title:         "Market Briefing",
		Subtitle:      fmt.Sprintf("Segmented market analysis · %s", item),
		CountryCode:   req.CountryCode,
		GeneratedAt:   g.now().UTC().Format("2006-01-02 15:04 UTC"),
		Item:          item,
		HSCode:        req.HSCode,
		ResearchTypes: strings.Join(types, ", "),
		Sections:      sections,
		Companies:     companies,
		DataSources:   result.DataSourcesUsed,
	}
}
