package app

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deusflow/pronews/internal/config"
	"github.com/deusflow/pronews/internal/dashboard"
	"github.com/deusflow/pronews/internal/rss"
)

const testFeed = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>t</title>
<item><title>Fed raises interest rate amid inflation fears</title><link>https://example.com/fed</link></item>
<item><title>SEC ban crypto exchange after hack</title><link>https://example.com/sec</link></item>
</channel></rss>`

func newTestApp(t *testing.T) *App {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken" {
			http.Error(w, "gone", http.StatusGone)
			return
		}
		fmt.Fprint(w, testFeed)
	}))
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), "feeds.yaml")
	yaml := fmt.Sprintf("aggregator:\n  disabled: true\nfeeds:\n  - name: Desk\n    url: %s/desk\n  - name: Broken\n    url: %s/broken\n", srv.URL, srv.URL)
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.FeedsConfigPath = path
	cfg.FetchInterval = 0
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

func TestAppEndToEnd(t *testing.T) {
	a := newTestApp(t)
	tax := a.Pipeline.Classifier().Taxonomy()

	d := a.Pipeline.ComputeDisplay(context.Background(), dashboard.DefaultFilter(tax))
	if d.Count != 2 {
		t.Fatalf("Count = %d, want 2 (broken feed skipped): %+v", d.Count, d)
	}
	if d.Records[0].Source != "Desk" || d.Records[1].Title != "SEC ban crypto exchange after hack" {
		t.Errorf("records = %+v", d.Records)
	}
	if a.Metrics.FeedFailures != 1 {
		t.Errorf("FeedFailures = %d, want 1", a.Metrics.FeedFailures)
	}

	urgent, err := dashboard.ParseFilter(tax, nil, true)
	if err != nil {
		t.Fatal(err)
	}
	d = a.Pipeline.ComputeDisplay(context.Background(), urgent)
	if d.Count != 1 || !d.Records[0].Urgent {
		t.Errorf("urgent pass = %+v", d.Records)
	}
	// Desk is served from cache, Broken is retried
	if a.Metrics.FeedFetches != 3 {
		t.Errorf("FeedFetches = %d, want 3", a.Metrics.FeedFetches)
	}
}

func TestBuildSourcesOrder(t *testing.T) {
	cfg := rss.DefaultFeedsConfig()
	sources := buildSources(cfg, http.DefaultClient)

	var ids []string
	for _, s := range sources {
		ids = append(ids, s.ID())
	}
	if got := strings.Join(ids, ","); got != "GNews,Forexlive,CryptoPanic" {
		t.Errorf("source order = %s", got)
	}

	cfg.Aggregator.Disabled = true
	if n := len(buildSources(cfg, http.DefaultClient)); n != 2 {
		t.Errorf("got %d sources with aggregator disabled, want 2", n)
	}
}

func TestWriteDisplay(t *testing.T) {
	a := newTestApp(t)
	d := a.Pipeline.ComputeDisplay(context.Background(), dashboard.DefaultFilter(a.Pipeline.Classifier().Taxonomy()))

	var buf bytes.Buffer
	if err := WriteDisplay(&buf, d); err != nil {
		t.Fatalf("WriteDisplay: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Fed raises interest rate amid inflation fears",
		"https://example.com/sec",
		"URGENT",
		"Crypto Regulation · Desk",
		"Showing 2 matching headlines.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatDisplayEmptyAndErrors(t *testing.T) {
	out := FormatDisplay(dashboard.Display{
		Empty:  true,
		Errors: []dashboard.ItemError{{Title: "Broken headline", Message: "scorer unavailable"}},
	})

	if !strings.Contains(out, "No matching news right now.") {
		t.Errorf("empty notice missing:\n%s", out)
	}
	if !strings.Contains(out, `Error processing "Broken headline": scorer unavailable`) {
		t.Errorf("item error missing:\n%s", out)
	}
}
