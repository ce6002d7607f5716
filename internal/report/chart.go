// Package report renders a segmented analysis as a standalone HTML briefing
// with inline SVG charts. No external assets; the output is a single file.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/marketlens/marketlens/pkg/models"
)

// ChartConfig holds rendering parameters for SVG charts.
type ChartConfig struct {
	Width     int    // SVG width in pixels (default: 700)
	BarHeight int    // height per bar in pixels (default: 28)
	BarGap    int    // vertical gap between bars (default: 8)
	BarColor  string // fill for measured bars (default: "#2563eb")
	StubColor string // fill for bars without a share (default: "#94a3b8")
	TextColor string // label color (default: "#334155")
	FontSize  int    // label font size (default: 12)
}

// DefaultChartConfig returns sensible defaults.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:     700,
		BarHeight: 28,
		BarGap:    8,
		BarColor:  "#2563eb",
		StubColor: "#94a3b8",
		TextColor: "#334155",
		FontSize:  12,
	}
}

// ShareBarChart draws one horizontal bar per player, scaled to its market
// share. Players without a numeric share ("—") get a fixed narrow bar in
// the stub color so the row stays visible.
func ShareBarChart(players []models.PlayerEntry, cfg ChartConfig) string {
	if len(players) == 0 {
		return ""
	}
	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
	}

	labelWidth := 220
	maxBar := cfg.Width - labelWidth - 70
	rowH := cfg.BarHeight + cfg.BarGap
	height := len(players)*rowH + cfg.BarGap

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<svg viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg" role="img">`,
		cfg.Width, height))

	maxShare := 0.0
	for _, p := range players {
		if v, ok := parseShare(p.ShareOrValue); ok && v > maxShare {
			maxShare = v
		}
	}

	for i, p := range players {
		y := cfg.BarGap + i*rowH
		textY := y + cfg.BarHeight/2 + cfg.FontSize/2 - 1

		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="%d" fill="%s" text-anchor="end">%s</text>`,
			labelWidth-10, textY, cfg.FontSize, cfg.TextColor, escapeXML(truncateLabel(p.Name, 32))))

		share, measured := parseShare(p.ShareOrValue)
		barW := 12
		color := cfg.StubColor
		if measured && maxShare > 0 {
			barW = int(share / maxShare * float64(maxBar))
			if barW < 2 {
				barW = 2
			}
			color = cfg.BarColor
		}
		sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" rx="3" fill="%s"/>`,
			labelWidth, y, barW, cfg.BarHeight, color))

		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="%d" fill="%s">%s</text>`,
			labelWidth+barW+8, textY, cfg.FontSize, cfg.TextColor, escapeXML(p.ShareOrValue)))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// parseShare extracts the numeric part of a share string like "57.1%".
// Placeholder values return ok=false.
func parseShare(s string) (float64, bool) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(s), "%")
	if trimmed == "" || trimmed == "—" {
		return 0, false
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

func truncateLabel(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// escapeXML escapes the five XML special characters for SVG text nodes.
func escapeXML(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return r.Replace(s)
}
