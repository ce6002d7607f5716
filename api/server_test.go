package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/marketlens/marketlens/internal/config"
	"github.com/marketlens/marketlens/internal/store"
	"github.com/marketlens/marketlens/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// Test Helpers
// ════════════════════════════════════════════════════════════════════

type fakeAnalyzer struct {
	lastReq  models.AnalysisRequest
	lastLang string
}

func (f *fakeAnalyzer) Produce(_ context.Context, req models.AnalysisRequest, lang string) *models.SegmentedAnalysisResult {
	f.lastReq = req
	f.lastLang = lang
	return &models.SegmentedAnalysisResult{
		Request:         req.Sanitized(),
		DataSourcesUsed: []string{"UN Comtrade", "World Bank", "OpenCorporates"},
	}
}

type fakeSummarizer struct {
	lastCountry string
	lastLang    string
}

func (f *fakeSummarizer) Summary(_ context.Context, country, lang string) []models.NewsSummaryItem {
	f.lastCountry = country
	f.lastLang = lang
	return []models.NewsSummaryItem{
		{Title: "Market briefing", Source: "MarketLens Research"},
		{Title: "headline", Source: "Wire", Live: true},
	}
}

func testServer(t *testing.T) (*Server, *fakeAnalyzer, *fakeSummarizer) {
	t.Helper()

	st, err := store.Open("", true, nil)
	if err != nil {
		t.Fatalf("opening in-memory store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	engine := &fakeAnalyzer{}
	news := &fakeSummarizer{}
	srv := NewServer(&config.Config{}, engine, news, st, nil)
	return srv, engine, news
}

func doRequest(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

// ════════════════════════════════════════════════════════════════════
// Handler tests
// ════════════════════════════════════════════════════════════════════

func TestHealth(t *testing.T) {
	srv, _, _ := testServer(t)

	for _, path := range []string{"/health", "/api/v1/health"} {
		rec := doRequest(t, srv, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d", path, rec.Code)
		}
		resp := decodeResponse(t, rec)
		if !resp.Success {
			t.Errorf("%s: success = false", path)
		}
	}
}

func TestAnalysisEndpoint(t *testing.T) {
	srv, engine, _ := testServer(t)

	body := `{"country_code":"KR","item":"lithium batteries","hs_code":"850760","research_types":["import"],"lang":"ko"}`
	rec := doRequest(t, srv, http.MethodPost, "/api/v1/analysis", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	resp := decodeResponse(t, rec)
	if !resp.Success {
		t.Fatalf("success = false: %s", resp.Error)
	}
	if engine.lastReq.CountryCode != "KR" || engine.lastLang != "ko" {
		t.Errorf("engine called with country=%q lang=%q", engine.lastReq.CountryCode, engine.lastLang)
	}
}

func TestAnalysisEndpointBadBody(t *testing.T) {
	srv, _, _ := testServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/analysis", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Success || resp.Error == "" {
		t.Error("expected error envelope")
	}
}

func TestNewsSummaryEndpoint(t *testing.T) {
	srv, _, news := testServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/news/summary?country=kr&lang=ko", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if news.lastCountry != "kr" || news.lastLang != "ko" {
		t.Errorf("summarizer called with country=%q lang=%q", news.lastCountry, news.lastLang)
	}

	resp := decodeResponse(t, rec)
	items, ok := resp.Data.([]interface{})
	if !ok || len(items) != 2 {
		t.Fatalf("data = %#v, want 2 summary items", resp.Data)
	}
}

func TestOptionsRoundTrip(t *testing.T) {
	srv, _, _ := testServer(t)

	put := doRequest(t, srv, http.MethodPut, "/api/v1/options/org-1/KR",
		`{"item":"lithium batteries","research_types":["import","export"]}`)
	if put.Code != http.StatusOK {
		t.Fatalf("put status = %d, body = %s", put.Code, put.Body.String())
	}

	get := doRequest(t, srv, http.MethodGet, "/api/v1/options/org-1/KR", "")
	if get.Code != http.StatusOK {
		t.Fatalf("get status = %d", get.Code)
	}
	resp := decodeResponse(t, get)
	rec, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data = %#v", resp.Data)
	}
	reqData, _ := rec["request"].(map[string]interface{})
	if reqData["item"] != "lithium batteries" {
		t.Errorf("stored item = %v", reqData["item"])
	}

	list := doRequest(t, srv, http.MethodGet, "/api/v1/options/org-1", "")
	if list.Code != http.StatusOK {
		t.Fatalf("list status = %d", list.Code)
	}
	listResp := decodeResponse(t, list)
	if items, ok := listResp.Data.([]interface{}); !ok || len(items) != 1 {
		t.Errorf("list data = %#v, want 1 record", listResp.Data)
	}

	del := doRequest(t, srv, http.MethodDelete, "/api/v1/options/org-1/KR", "")
	if del.Code != http.StatusOK {
		t.Fatalf("delete status = %d", del.Code)
	}

	missing := doRequest(t, srv, http.MethodGet, "/api/v1/options/org-1/KR", "")
	if missing.Code != http.StatusNotFound {
		t.Fatalf("status after delete = %d, want 404", missing.Code)
	}
}

func TestOptionsGetMissing(t *testing.T) {
	srv, _, _ := testServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/options/org-1/ZZ", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Success {
		t.Error("success should be false for a missing record")
	}
}

func TestOptionsPutBadBody(t *testing.T) {
	srv, _, _ := testServer(t)

	rec := doRequest(t, srv, http.MethodPut, "/api/v1/options/org-1/KR", "{bad")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
