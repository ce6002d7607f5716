package analysis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/marketlens/marketlens/pkg/models"
)

type fakeNews struct {
	mu    sync.Mutex
	items []models.NewsItem
	err   error
	calls int

	block chan struct{} // when set, FetchNewsBatch waits until closed
}

func (f *fakeNews) Name() string { return "Global Business News" }

func (f *fakeNews) FetchNewsBatch(ctx context.Context, _ int) ([]models.NewsItem, error) {
	f.mu.Lock()
	f.calls++
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func (f *fakeNews) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newsItems(titles ...string) []models.NewsItem {
	items := make([]models.NewsItem, len(titles))
	for i, t := range titles {
		items[i] = models.NewsItem{Title: t, Source: "Wire"}
	}
	return items
}

func TestHeadlinesSingleFetchWithinTTL(t *testing.T) {
	provider := &fakeNews{items: newsItems("a", "b")}
	svc := NewNewsService(provider, 15*time.Minute, 30, nil)

	first := svc.Headlines(context.Background())
	second := svc.Headlines(context.Background())

	if provider.callCount() != 1 {
		t.Fatalf("provider called %d times, want 1 within TTL", provider.callCount())
	}
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("snapshots = %d, %d items; want 2 each", len(first), len(second))
	}
}

func TestHeadlinesRefreshAfterTTL(t *testing.T) {
	provider := &fakeNews{items: newsItems("a")}
	svc := NewNewsService(provider, 15*time.Minute, 30, nil)

	current := time.Now()
	svc.now = func() time.Time { return current }

	svc.Headlines(context.Background())
	current = current.Add(16 * time.Minute)
	svc.Headlines(context.Background())

	if provider.callCount() != 2 {
		t.Fatalf("provider called %d times, want 2 (one refresh after expiry)", provider.callCount())
	}
}

func TestHeadlinesFailedRefreshKeepsSnapshot(t *testing.T) {
	provider := &fakeNews{items: newsItems("a", "b")}
	svc := NewNewsService(provider, 15*time.Minute, 30, nil)

	current := time.Now()
	svc.now = func() time.Time { return current }

	svc.Headlines(context.Background())

	// Expire the snapshot, then make the provider fail.
	current = current.Add(16 * time.Minute)
	provider.mu.Lock()
	provider.err = errors.New("feed down")
	provider.mu.Unlock()

	got := svc.Headlines(context.Background())
	if len(got) != 2 {
		t.Fatalf("got %d items, want stale snapshot of 2", len(got))
	}

	// The timestamp was not advanced: the very next call retries.
	before := provider.callCount()
	svc.Headlines(context.Background())
	if provider.callCount() != before+1 {
		t.Fatal("expected a retry after failed refresh, cache timestamp must not advance")
	}
}

func TestHeadlinesEmptyBeforeFirstSuccess(t *testing.T) {
	provider := &fakeNews{err: errors.New("feed down")}
	svc := NewNewsService(provider, 15*time.Minute, 30, nil)

	got := svc.Headlines(context.Background())
	if len(got) != 0 {
		t.Fatalf("got %d items, want empty snapshot", len(got))
	}
}

func TestHeadlinesSingleFlightRefresh(t *testing.T) {
	provider := &fakeNews{items: newsItems("new"), block: make(chan struct{})}
	svc := NewNewsService(provider, 15*time.Minute, 30, nil)

	// Seed an expired snapshot directly.
	svc.mu.Lock()
	svc.snapshot = newsItems("old")
	svc.fetchedAt = time.Now().Add(-time.Hour)
	svc.mu.Unlock()

	started := make(chan struct{})
	done := make(chan []models.NewsItem)
	go func() {
		close(started)
		done <- svc.Headlines(context.Background())
	}()
	<-started

	// Wait until the refresh is actually in flight.
	deadline := time.After(time.Second)
	for {
		svc.mu.Lock()
		inFlight := svc.refreshing
		svc.mu.Unlock()
		if inFlight {
			break
		}
		select {
		case <-deadline:
			t.Fatal("refresh never started")
		case <-time.After(time.Millisecond):
		}
	}

	// A second caller mid-refresh gets the pre-refresh snapshot, without
	// triggering a duplicate fetch or blocking.
	got := svc.Headlines(context.Background())
	if len(got) != 1 || got[0].Title != "old" {
		t.Fatalf("mid-refresh snapshot = %+v, want the old one", got)
	}
	if provider.callCount() != 1 {
		t.Fatalf("provider called %d times during refresh, want 1", provider.callCount())
	}

	close(provider.block)
	refreshed := <-done
	if len(refreshed) != 1 || refreshed[0].Title != "new" {
		t.Fatalf("post-refresh snapshot = %+v", refreshed)
	}
}

func TestSummaryLayout(t *testing.T) {
	provider := &fakeNews{items: newsItems("h1", "h2", "h3")}
	svc := NewNewsService(provider, 15*time.Minute, 30, nil)

	got := svc.Summary(context.Background(), "kr", "en")

	// 1 stub header + 3 live + remaining stub rows.
	if got[0].Live {
		t.Fatal("first summary row must be the stub header")
	}
	if got[0].Title != "Market briefing — KR" {
		t.Errorf("header = %q", got[0].Title)
	}
	liveCount := 0
	for _, item := range got {
		if item.Live {
			liveCount++
		}
	}
	if liveCount != 3 {
		t.Errorf("live rows = %d, want 3", liveCount)
	}
	if got[1].Title != "h1" || !got[1].Live {
		t.Errorf("row 1 = %+v, want first live headline", got[1])
	}
	if got[len(got)-1].Live {
		t.Error("trailing rows must be stub items")
	}
}

func TestSummaryCapsLiveItems(t *testing.T) {
	titles := make([]string, 20)
	for i := range titles {
		titles[i] = "t"
	}
	provider := &fakeNews{items: newsItems(titles...)}
	svc := NewNewsService(provider, 15*time.Minute, 30, nil)

	got := svc.Summary(context.Background(), "", "en")

	liveCount := 0
	for _, item := range got {
		if item.Live {
			liveCount++
		}
	}
	if liveCount != 12 {
		t.Errorf("live rows = %d, want capped at 12", liveCount)
	}
	if got[0].Title != "Market briefing" {
		t.Errorf("header = %q, want generic header without country", got[0].Title)
	}
}

func TestSummaryKorean(t *testing.T) {
	provider := &fakeNews{err: errors.New("down")}
	svc := NewNewsService(provider, 15*time.Minute, 30, nil)

	got := svc.Summary(context.Background(), "KR", "ko")
	if got[0].Title != "시장 브리핑 — KR" {
		t.Errorf("header = %q", got[0].Title)
	}
	// All rows are stubs when the provider never succeeded.
	for _, item := range got {
		if item.Live {
			t.Fatal("expected no live rows")
		}
	}
}
