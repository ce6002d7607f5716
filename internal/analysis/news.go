package analysis

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/marketlens/marketlens/pkg/models"
)

// NewsProvider supplies a batch of recent headlines. It takes no query
// parameters: the feed is not scoped by country or language.
type NewsProvider interface {
	Name() string
	FetchNewsBatch(ctx context.Context, maxItems int) ([]models.NewsItem, error)
}

// maxLiveSummaryItems caps how many live headlines a summary carries.
const maxLiveSummaryItems = 12

// NewsService owns the process-wide headline cache: a single snapshot slot
// with a TTL, shared by every caller regardless of requested country. One
// instance is created at startup and passed to whoever needs headlines.
type NewsService struct {
	provider NewsProvider
	ttl      time.Duration
	maxItems int
	log      *logrus.Logger
	now      func() time.Time

	mu         sync.Mutex
	snapshot   []models.NewsItem
	fetchedAt  time.Time
	refreshing bool
}

// NewNewsService creates the headline cache. Zero ttl selects 15 minutes;
// zero maxItems selects 30.
func NewNewsService(provider NewsProvider, ttl time.Duration, maxItems int, log *logrus.Logger) *NewsService {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	if maxItems <= 0 {
		maxItems = 30
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &NewsService{
		provider: provider,
		ttl:      ttl,
		maxItems: maxItems,
		log:      log,
		now:      time.Now,
	}
}

// Headlines returns the current snapshot, refreshing it from the provider
// when the TTL has lapsed. Only one refresh is ever in flight: a caller
// arriving mid-refresh gets the pre-refresh snapshot immediately. A failed
// refresh keeps the previous snapshot and does not advance the timestamp, so
// the next call retries instead of serving a falsely-fresh stale result.
func (s *NewsService) Headlines(ctx context.Context) []models.NewsItem {
	s.mu.Lock()
	fresh := !s.fetchedAt.IsZero() && s.now().Sub(s.fetchedAt) < s.ttl
	if fresh || s.refreshing {
		snap := s.snapshot
		s.mu.Unlock()
		return snap
	}
	s.refreshing = true
	s.mu.Unlock()

	items, err := s.provider.FetchNewsBatch(ctx, s.maxItems)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshing = false
	if err != nil || len(items) == 0 {
		// Stale-on-failure: serve whatever we had, retry on the next call.
		s.log.WithError(err).Debug("news refresh failed, keeping previous snapshot")
		return s.snapshot
	}
	s.snapshot = items
	s.fetchedAt = s.now()
	return s.snapshot
}

// Summary returns the user-facing digest: one stub header, up to 12 live
// headlines, then the remaining stub rows. The country only affects the
// header text; the live headlines are the shared, unscoped snapshot.
func (s *NewsService) Summary(ctx context.Context, country, lang string) []models.NewsSummaryItem {
	ls := labelsFor(lang)
	country = NormalizeCountryCode(country)

	live := s.Headlines(ctx)
	if len(live) > maxLiveSummaryItems {
		live = live[:maxLiveSummaryItems]
	}

	out := make([]models.NewsSummaryItem, 0, 1+len(live)+len(ls.newsStubItems))
	out = append(out, models.NewsSummaryItem{
		Title:  ls.newsHeader(country),
		Source: ls.newsStubSource,
	})
	for _, item := range live {
		out = append(out, models.NewsSummaryItem{
			Title:   item.Title,
			Summary: item.Summary,
			Source:  item.Source,
			URL:     item.URL,
			Live:    true,
		})
	}
	out = append(out, ls.newsStubItems...)
	return out
}
