package news

import (
	"context"
	"fmt"
	"strings"

	"github.com/deusflow/pronews/internal/sentiment"
)

// Item is one headline as delivered by a feed. It is never modified after fetch.
type Item struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Source string `json:"source"`
}

type Category string

const (
	CategoryMacro        Category = "Macro/Political"
	CategoryCryptoReg    Category = "Crypto Regulation"
	CategoryTech         Category = "Tech"
	CategoryMarketMovers Category = "Market Movers"
	CategoryOther        Category = "Other"
)

// Rule binds a category to its lowercase keyword substrings.
type Rule struct {
	Category Category
	Keywords []string
}

// Taxonomy is the immutable keyword configuration. Rules are tried in
// slice order; an earlier rule wins over a later one.
type Taxonomy struct {
	rules  []Rule
	urgent []string
}

// NewTaxonomy copies and lowercases the given tables.
func NewTaxonomy(rules []Rule, urgent []string) (*Taxonomy, error) {
	seen := make(map[Category]bool, len(rules))
	t := &Taxonomy{
		rules:  make([]Rule, 0, len(rules)),
		urgent: normalizeKeywords(urgent),
	}
	for _, r := range rules {
		if r.Category == "" || r.Category == CategoryOther {
			return nil, fmt.Errorf("rule category %q is reserved or empty", r.Category)
		}
		if seen[r.Category] {
			return nil, fmt.Errorf("duplicate rule for category %q", r.Category)
		}
		seen[r.Category] = true
		t.rules = append(t.rules, Rule{Category: r.Category, Keywords: normalizeKeywords(r.Keywords)})
	}
	return t, nil
}

// DefaultTaxonomy returns the trader-desk keyword tables.
func DefaultTaxonomy() *Taxonomy {
	t, err := NewTaxonomy(defaultRules, defaultUrgentKeywords)
	if err != nil {
		panic(err)
	}
	return t
}

var defaultRules = []Rule{
	{CategoryMacro, []string{
		"fed", "inflation", "interest rate", "election", "war", "gdp",
		"unemployment", "recession", "cpi", "conflict", "debt",
	}},
	{CategoryCryptoReg, []string{
		"crypto", "bitcoin", "ethereum", "regulation", "sec", "binance",
		"coinbase", "etf", "ban", "law", "mi ca",
	}},
	{CategoryTech, []string{
		"ai", "chip", "nvidia", "semiconductor", "cyber", "hacker",
		"apple", "microsoft", "cloud", "openai", "intel", "quantum",
	}},
	{CategoryMarketMovers, []string{
		"earnings", "profit", "merger", "acquisition", "upgrade",
		"downgrade", "buyback", "ipo", "layoffs",
	}},
}

var defaultUrgentKeywords = []string{
	"crisis", "emergency", "ban", "lawsuit", "default", "collapse",
	"arrest", "explosion", "attack", "sanction", "hack", "raid",
}

func normalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		out = append(out, k)
	}
	return out
}

// Categories lists the keyword-backed categories in declared order.
// Other is not included.
func (t *Taxonomy) Categories() []Category {
	out := make([]Category, len(t.rules))
	for i, r := range t.rules {
		out[i] = r.Category
	}
	return out
}

// Has reports whether c is one of the taxonomy's categories or Other.
func (t *Taxonomy) Has(c Category) bool {
	if c == CategoryOther {
		return true
	}
	for _, r := range t.rules {
		if r.Category == c {
			return true
		}
	}
	return false
}

// containsAny is a plain substring test over an already lowercased text.
func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// Classifier tags headlines. It holds no mutable state, so any number of
// passes may share one.
type Classifier struct {
	taxonomy *Taxonomy
	scorer   sentiment.Scorer
}

func NewClassifier(t *Taxonomy, s sentiment.Scorer) *Classifier {
	return &Classifier{taxonomy: t, scorer: s}
}

func (c *Classifier) Taxonomy() *Taxonomy {
	return c.taxonomy
}

// MatchCategory returns the first category whose keywords occur in title.
func (c *Classifier) MatchCategory(title string) Category {
	text := strings.ToLower(title)
	for _, r := range c.taxonomy.rules {
		if containsAny(text, r.Keywords) {
			return r.Category
		}
	}
	return CategoryOther
}

func (c *Classifier) IsUrgent(title string) bool {
	return containsAny(strings.ToLower(title), c.taxonomy.urgent)
}

// Sentiment scores title and maps the polarity onto a label.
func (c *Classifier) Sentiment(ctx context.Context, title string) (sentiment.Label, error) {
	score, err := c.scorer.Polarity(ctx, title)
	if err != nil {
		return sentiment.Neutral, fmt.Errorf("sentiment for %q: %w", title, err)
	}
	return sentiment.FromPolarity(score), nil
}

// Sweep drops expired scorer memo entries; called once per pass.
func (c *Classifier) Sweep() {
	sentiment.Sweep(c.scorer)
}
