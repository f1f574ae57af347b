package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/deusflow/pronews/internal/logger"
	"github.com/deusflow/pronews/internal/metrics"
	"github.com/deusflow/pronews/internal/news"
	"github.com/deusflow/pronews/internal/sentiment"
)

// TimestampLayout is how render timestamps are printed.
const TimestampLayout = "2006-01-02 15:04:05 MST"

// ItemSource supplies the headlines of one refresh pass.
type ItemSource interface {
	Collect(ctx context.Context) []news.Item
}

// DisplayRecord is one rendered headline.
type DisplayRecord struct {
	Category  news.Category   `json:"category"`
	Sentiment sentiment.Label `json:"sentiment"`
	Color     string          `json:"color"`
	Urgent    bool            `json:"urgent"`
	Title     string          `json:"title"`
	URL       string          `json:"url"`
	Source    string          `json:"source"`
	Timestamp string          `json:"timestamp"`
}

// Marker is the sentiment glyph, for templates.
func (r DisplayRecord) Marker() string {
	return r.Sentiment.Marker()
}

// ItemError is a headline that could not be classified in this pass.
type ItemError struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Display is the outcome of one refresh pass.
type Display struct {
	PassID      string          `json:"pass_id"`
	Filter      FilterState     `json:"filter"`
	Records     []DisplayRecord `json:"records"`
	Errors      []ItemError     `json:"errors"`
	Count       int             `json:"count"`
	Empty       bool            `json:"empty"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// Pipeline runs fetch, classify and filter for one pass. It keeps no state
// between passes; periodic refresh is the caller's business.
type Pipeline struct {
	source     ItemSource
	classifier *news.Classifier
	location   *time.Location
	metrics    *metrics.Metrics
	now        func() time.Time
}

func NewPipeline(source ItemSource, classifier *news.Classifier, loc *time.Location, m *metrics.Metrics) *Pipeline {
	if loc == nil {
		loc = time.UTC
	}
	if m == nil {
		m = metrics.New()
	}
	return &Pipeline{
		source:     source,
		classifier: classifier,
		location:   loc,
		metrics:    m,
		now:        time.Now,
	}
}

// WithClock swaps the render clock; for tests.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

func (p *Pipeline) Classifier() *news.Classifier {
	return p.classifier
}

// ComputeDisplay runs one pass. Records keep the order the feeds delivered
// them in; a failing item is reported in Errors and skipped.
func (p *Pipeline) ComputeDisplay(ctx context.Context, filter FilterState) Display {
	start := time.Now()
	passID := uuid.NewString()

	items := p.source.Collect(ctx)
	active := filter.set()

	d := Display{
		PassID:      passID,
		Filter:      filter,
		Records:     []DisplayRecord{},
		Errors:      []ItemError{},
		GeneratedAt: p.now().In(p.location),
	}
	stamp := d.GeneratedAt.Format(TimestampLayout)

	for _, item := range items {
		rec, keep, err := p.renderItem(ctx, item, active, filter.UrgentOnly, stamp)
		if err != nil {
			logger.Warn("item classification failed", "pass", passID, "title", item.Title, "error", err)
			p.metrics.RecordItemError(err.Error())
			d.Errors = append(d.Errors, ItemError{Title: item.Title, Message: err.Error()})
			continue
		}
		if keep {
			d.Records = append(d.Records, rec)
		}
	}

	d.Count = len(d.Records)
	d.Empty = d.Count == 0
	p.classifier.Sweep()

	p.metrics.RecordPass(time.Since(start))
	logger.Info("refresh pass done", "pass", passID, "fetched", len(items), "matched", d.Count, "errors", len(d.Errors))
	return d
}

func (p *Pipeline) renderItem(ctx context.Context, item news.Item, active map[news.Category]bool, urgentOnly bool, stamp string) (rec DisplayRecord, keep bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("classify %q: %v", item.Title, r)
			keep = false
		}
	}()

	p.metrics.IncrementItemsClassified()

	category := p.classifier.MatchCategory(item.Title)
	if !active[category] {
		return DisplayRecord{}, false, nil
	}

	urgent := p.classifier.IsUrgent(item.Title)
	if urgentOnly && !urgent {
		return DisplayRecord{}, false, nil
	}

	label, err := p.classifier.Sentiment(ctx, item.Title)
	if err != nil {
		return DisplayRecord{}, false, err
	}

	return DisplayRecord{
		Category:  category,
		Sentiment: label,
		Color:     label.Color(),
		Urgent:    urgent,
		Title:     item.Title,
		URL:       item.URL,
		Source:    item.Source,
		Timestamp: stamp,
	}, true, nil
}
