package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/marketlens/marketlens/pkg/models"
)

// worldAggregate is the partner name trade APIs use for the all-partners
// total row; it must never rank as a market player.
const worldAggregate = "World"

// targetEntries is the fixed length of every ranked list the engine returns.
const targetEntries = 5

// rankTradeRows turns raw partner trade rows into ranked player entries:
// blank and aggregate-world partners are discarded, the rest sorted by value
// descending, and the top 5 annotated with their share of the retained total.
// A zero total renders shares as "—".
func rankTradeRows(rows []models.TradeRow, year int, flow models.FlowDirection, ls labelSet, provenance string) []models.PlayerEntry {
	retained := make([]models.TradeRow, 0, len(rows))
	var total float64
	for _, r := range rows {
		name := strings.TrimSpace(r.PartnerName)
		if name == "" || strings.EqualFold(name, worldAggregate) {
			continue
		}
		retained = append(retained, models.TradeRow{PartnerName: name, Value: r.Value})
		total += r.Value
	}

	sort.SliceStable(retained, func(i, j int) bool {
		return retained[i].Value > retained[j].Value
	})
	if len(retained) > targetEntries {
		retained = retained[:targetEntries]
	}

	desc := ls.tradeDesc(year, flow, provenance)
	entries := make([]models.PlayerEntry, 0, len(retained))
	for _, r := range retained {
		share := "—"
		if total > 0 {
			share = fmt.Sprintf("%.1f%%", r.Value/total*100)
		}
		entries = append(entries, models.PlayerEntry{
			Name:         r.PartnerName,
			ShareOrValue: share,
			Description:  desc,
		})
	}
	return entries
}

// fillFromStub keeps live entries first and pads the remainder with stub
// entries starting at index len(live), up to target entries. If the stub list
// is itself exhausted the result stays short; callers never error on that.
// No de-duplication happens across the live/stub boundary.
func fillFromStub[T any](live, stub []T, target int) []T {
	if len(live) > target {
		live = live[:target]
	}
	out := make([]T, 0, target)
	out = append(out, live...)
	for i := len(live); i < target && i < len(stub); i++ {
		out = append(out, stub[i])
	}
	return out
}

// dedupeSources unions provenance labels preserving first-seen order.
func dedupeSources(sources []string) []string {
	seen := make(map[string]bool, len(sources))
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
