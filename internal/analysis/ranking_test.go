package analysis

import (
	"strconv"
	"strings"
	"testing"

	"github.com/marketlens/marketlens/pkg/models"
)

func TestRankTradeRowsExcludesWorldAndRanks(t *testing.T) {
	rows := []models.TradeRow{
		{PartnerName: "World", Value: 1000},
		{PartnerName: "Japan", Value: 400},
		{PartnerName: "China", Value: 300},
	}
	got := rankTradeRows(rows, 2024, models.FlowExport, labelsFor("en"), "UN Comtrade")

	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2 (World excluded)", len(got))
	}
	if got[0].Name != "Japan" || got[1].Name != "China" {
		t.Fatalf("order = %s, %s; want Japan, China", got[0].Name, got[1].Name)
	}
	if got[0].ShareOrValue != "57.1%" {
		t.Errorf("Japan share = %q, want 57.1%%", got[0].ShareOrValue)
	}
	if got[1].ShareOrValue != "42.9%" {
		t.Errorf("China share = %q, want 42.9%%", got[1].ShareOrValue)
	}
	if !strings.Contains(got[0].Description, "2024") || !strings.Contains(got[0].Description, "UN Comtrade") {
		t.Errorf("description = %q", got[0].Description)
	}
}

func TestRankTradeRowsBlankPartnerDiscarded(t *testing.T) {
	rows := []models.TradeRow{
		{PartnerName: "  ", Value: 500},
		{PartnerName: "Germany", Value: 100},
	}
	got := rankTradeRows(rows, 2024, models.FlowImport, labelsFor("en"), "UN Comtrade")
	if len(got) != 1 || got[0].Name != "Germany" {
		t.Fatalf("got %+v, want only Germany", got)
	}
	if got[0].ShareOrValue != "100.0%" {
		t.Errorf("share = %q, want 100.0%%", got[0].ShareOrValue)
	}
}

func TestRankTradeRowsZeroTotal(t *testing.T) {
	rows := []models.TradeRow{
		{PartnerName: "Japan", Value: 0},
		{PartnerName: "China", Value: 0},
	}
	got := rankTradeRows(rows, 2024, models.FlowExport, labelsFor("en"), "UN Comtrade")
	for _, e := range got {
		if e.ShareOrValue != "—" {
			t.Fatalf("share = %q, want em dash for zero total", e.ShareOrValue)
		}
	}
}

func TestRankTradeRowsTopFiveSharesBounded(t *testing.T) {
	rows := []models.TradeRow{
		{PartnerName: "A", Value: 700},
		{PartnerName: "B", Value: 600},
		{PartnerName: "C", Value: 500},
		{PartnerName: "D", Value: 400},
		{PartnerName: "E", Value: 300},
		{PartnerName: "F", Value: 200},
		{PartnerName: "G", Value: 100},
	}
	got := rankTradeRows(rows, 2024, models.FlowExport, labelsFor("en"), "UN Comtrade")
	if len(got) != 5 {
		t.Fatalf("got %d entries, want 5", len(got))
	}

	// Shares are computed against all retained rows, so the top five sum ≤ 100.
	var sum float64
	prev := 101.0
	for _, e := range got {
		share, err := strconv.ParseFloat(strings.TrimSuffix(e.ShareOrValue, "%"), 64)
		if err != nil {
			t.Fatalf("share %q not parseable", e.ShareOrValue)
		}
		if share > prev {
			t.Fatalf("shares not non-increasing: %v after %v", share, prev)
		}
		prev = share
		sum += share
	}
	if sum > 100.05 {
		t.Fatalf("top-5 shares sum to %v, want ≤ 100", sum)
	}
}

func TestFillFromStub(t *testing.T) {
	stub := []string{"s0", "s1", "s2", "s3", "s4"}

	cases := []struct {
		live []string
		want []string
	}{
		{nil, []string{"s0", "s1", "s2", "s3", "s4"}},
		{[]string{"a"}, []string{"a", "s1", "s2", "s3", "s4"}},
		{[]string{"a", "b", "c", "d"}, []string{"a", "b", "c", "d", "s4"}},
		{[]string{"a", "b", "c", "d", "e"}, []string{"a", "b", "c", "d", "e"}},
		{[]string{"a", "b", "c", "d", "e", "f"}, []string{"a", "b", "c", "d", "e"}},
	}
	for _, c := range cases {
		got := fillFromStub(c.live, stub, 5)
		if len(got) != 5 {
			t.Fatalf("live=%v: got length %d, want 5", c.live, len(got))
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("live=%v: got %v, want %v", c.live, got, c.want)
			}
		}
	}
}

func TestFillFromStubExhaustedStub(t *testing.T) {
	// Stub shorter than target: result stays short, no error.
	got := fillFromStub([]string{"a"}, []string{"s0", "s1"}, 5)
	want := []string{"a", "s1"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDedupeSources(t *testing.T) {
	got := dedupeSources([]string{"UN Comtrade", "World Bank", "UN Comtrade", "", "OpenCorporates", "World Bank"})
	want := []string{"UN Comtrade", "World Bank", "OpenCorporates"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
