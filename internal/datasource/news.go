package datasource

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"

	"github.com/marketlens/marketlens/pkg/models"
)

// NewsName is the provenance label for headline data.
const NewsName = "Global Business News"

// DefaultNewsFeeds lists the configured business news RSS feeds.
var DefaultNewsFeeds = []string{
	"https://feeds.bbci.co.uk/news/business/rss.xml",
	"https://www.cnbc.com/id/20910258/device/rss/rss.html",
	"https://moxie.foxbusiness.com/google-publisher/markets.xml",
}

// News fetches recent business headlines from RSS feeds. The feeds are not
// query-scoped: every caller gets the same batch. TTL caching lives in the
// analysis-layer news service, not here.
type News struct {
	feeds   []string
	parser  *gofeed.Parser
	limiter *rate.Limiter
}

// NewNews creates a news adapter. Empty feeds selects the defaults.
func NewNews(feeds []string) *News {
	if len(feeds) == 0 {
		feeds = DefaultNewsFeeds
	}
	return &News{
		feeds:   feeds,
		parser:  gofeed.NewParser(),
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 2),
	}
}

// Name returns the provenance label for this provider.
func (n *News) Name() string { return NewsName }

// FetchNewsBatch returns up to maxItems recent headlines across all feeds,
// newest first. A feed that fails to parse is skipped; ErrNoData is returned
// only when every feed came up empty.
func (n *News) FetchNewsBatch(ctx context.Context, maxItems int) ([]models.NewsItem, error) {
	var items []models.NewsItem
	for _, feedURL := range n.feeds {
		if err := n.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		feed, err := n.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			// Non-critical: skip failed feeds.
			continue
		}
		source := strings.TrimSpace(feed.Title)
		if source == "" {
			source = feedHost(feedURL)
		}
		for _, item := range feed.Items {
			ni := models.NewsItem{
				Title:   strings.TrimSpace(item.Title),
				Summary: cleanHTML(item.Description),
				Source:  source,
				URL:     item.Link,
			}
			if item.PublishedParsed != nil {
				ni.PublishedAt = *item.PublishedParsed
			}
			items = append(items, ni)
		}
	}

	if len(items) == 0 {
		return nil, ErrNoData
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})
	if maxItems > 0 && len(items) > maxItems {
		items = items[:maxItems]
	}
	return items, nil
}

// cleanHTML strips HTML tags from a string using goquery.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}

func feedHost(feedURL string) string {
	u, err := url.Parse(feedURL)
	if err != nil {
		return feedURL
	}
	return u.Host
}
