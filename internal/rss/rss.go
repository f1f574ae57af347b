package rss

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/deusflow/pronews/internal/news"
	"github.com/deusflow/pronews/internal/scraper"
)

const userAgent = "pronews/1.0 (+https://github.com/deusflow/pronews)"

// Source is a single named RSS/Atom feed.
type Source struct {
	name   string
	url    string
	client *http.Client
}

func NewSource(name, url string, client *http.Client) *Source {
	return &Source{name: name, url: url, client: client}
}

func (s *Source) ID() string {
	return s.name
}

func (s *Source) Fetch(ctx context.Context) ([]news.Item, error) {
	feed, err := fetchFeed(ctx, s.client, s.url)
	if err != nil {
		return nil, err
	}

	items := make([]news.Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		item, ok := toItem(entry, s.name, "")
		if !ok {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// Aggregator is the Google News top-stories query.
type Aggregator struct {
	cfg    AggregatorConfig
	client *http.Client
}

func NewAggregator(cfg AggregatorConfig, client *http.Client) *Aggregator {
	return &Aggregator{cfg: cfg, client: client}
}

func (a *Aggregator) ID() string {
	return a.cfg.Name
}

// QueryURL builds the top-stories URL for the configured language and region.
func (a *Aggregator) QueryURL() string {
	lang := strings.ToLower(a.cfg.Language)
	region := strings.ToUpper(a.cfg.Country)

	q := url.Values{}
	q.Set("hl", lang+"-"+region)
	q.Set("gl", region)
	q.Set("ceid", region+":"+lang)
	return a.cfg.URL + "?" + q.Encode()
}

func (a *Aggregator) Fetch(ctx context.Context) ([]news.Item, error) {
	feed, err := fetchFeed(ctx, a.client, a.QueryURL())
	if err != nil {
		return nil, err
	}

	aggHost := ""
	if u, err := url.Parse(a.cfg.URL); err == nil {
		aggHost = strings.TrimPrefix(u.Host, "www.")
	}

	items := make([]news.Item, 0, min(len(feed.Items), a.cfg.MaxResults))
	for _, entry := range feed.Items {
		if len(items) >= a.cfg.MaxResults {
			break
		}
		// descriptions often carry the publisher link next to the redirect
		direct := scraper.FirstLink(entry.Description, aggHost)
		item, ok := toItem(entry, a.cfg.Name, direct)
		if !ok {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func fetchFeed(ctx context.Context, client *http.Client, feedURL string) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", feedURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: HTTP %d", feedURL, resp.StatusCode)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", feedURL, err)
	}
	return feed, nil
}

func toItem(entry *gofeed.Item, source, link string) (news.Item, bool) {
	title := scraper.PlainText(entry.Title)
	if link == "" {
		link = strings.TrimSpace(entry.Link)
	}
	if title == "" || link == "" {
		return news.Item{}, false
	}
	return news.Item{Title: title, URL: link, Source: source}, true
}
