package sentiment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestFromPolarity(t *testing.T) {
	tests := []struct {
		score float64
		want  Label
	}{
		{0.8, Bullish},
		{0.11, Bullish},
		{0.1, Neutral},
		{0, Neutral},
		{-0.1, Neutral},
		{-0.11, Bearish},
		{-1, Bearish},
	}

	for _, tt := range tests {
		if got := FromPolarity(tt.score); got != tt.want {
			t.Errorf("FromPolarity(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestLabelPresentation(t *testing.T) {
	tests := []struct {
		label  Label
		color  string
		marker string
	}{
		{Bullish, "green", "▲"},
		{Bearish, "red", "▼"},
		{Neutral, "gray", "●"},
	}

	for _, tt := range tests {
		if got := tt.label.Color(); got != tt.color {
			t.Errorf("%s.Color() = %q, want %q", tt.label, got, tt.color)
		}
		if got := tt.label.Marker(); got != tt.marker {
			t.Errorf("%s.Marker() = %q, want %q", tt.label, got, tt.marker)
		}
	}
}

func TestLexiconScore(t *testing.T) {
	l := NewLexicon()

	tests := []struct {
		text string
		want Label
	}{
		{"Stocks surge to record high", Bullish},
		{"Markets crash amid recession fears", Bearish},
		{"Company holds annual meeting", Neutral},
		{"Outlook not good", Bearish},
		{"Shares sharply lower", Bearish},
		{"", Neutral},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := FromPolarity(l.Score(tt.text)); got != tt.want {
				t.Errorf("Score(%q) = %v (%s), want %s", tt.text, l.Score(tt.text), got, tt.want)
			}
		})
	}
}

func TestLexiconNoKnownWordsIsZero(t *testing.T) {
	if got := NewLexicon().Score("Committee schedules Tuesday meeting"); got != 0 {
		t.Errorf("Score = %v, want 0", got)
	}
}

func TestLexiconStaysInRange(t *testing.T) {
	l := NewLexicon()
	texts := []string{
		"massive huge best",
		"extremely sharply worst crash",
		"best best best great great",
		"not not not bad",
		"very very very very bullish",
	}

	for _, text := range texts {
		got := l.Score(text)
		if got < -1 || got > 1 || math.IsNaN(got) {
			t.Errorf("Score(%q) = %v, out of [-1, 1]", text, got)
		}
	}
}

type countingScorer struct {
	mu    sync.Mutex
	calls int
	score float64
	err   error
}

func (c *countingScorer) Polarity(context.Context, string) (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.score, c.err
}

func TestCachedMemoisesPerText(t *testing.T) {
	next := &countingScorer{score: 0.6}
	c := NewCached(next, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		v, err := c.Polarity(ctx, "Bitcoin rallies")
		if err != nil {
			t.Fatalf("Polarity: %v", err)
		}
		if v != 0.6 {
			t.Fatalf("Polarity = %v, want 0.6", v)
		}
	}
	if next.calls != 1 {
		t.Errorf("next called %d times, want 1", next.calls)
	}

	if _, err := c.Polarity(ctx, "Another headline"); err != nil {
		t.Fatalf("Polarity: %v", err)
	}
	if next.calls != 2 {
		t.Errorf("next called %d times, want 2", next.calls)
	}
}

func TestCachedDoesNotMemoiseErrors(t *testing.T) {
	next := &countingScorer{err: errors.New("quota")}
	c := NewCached(next, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := c.Polarity(context.Background(), "headline"); err == nil {
			t.Fatal("expected error")
		}
	}
	if next.calls != 2 {
		t.Errorf("next called %d times, want 2", next.calls)
	}
}

func TestFallback(t *testing.T) {
	primary := &countingScorer{err: errors.New("unavailable")}
	secondary := &countingScorer{score: -0.5}
	f := Fallback{Primary: primary, Secondary: secondary}

	v, err := f.Polarity(context.Background(), "headline")
	if err != nil {
		t.Fatalf("Polarity: %v", err)
	}
	if v != -0.5 {
		t.Errorf("Polarity = %v, want -0.5", v)
	}

	primary.err = nil
	primary.score = 0.3
	v, _ = f.Polarity(context.Background(), "headline")
	if v != 0.3 {
		t.Errorf("Polarity = %v, want primary value 0.3", v)
	}
	if secondary.calls != 1 {
		t.Errorf("secondary called %d times, want 1", secondary.calls)
	}
}

func TestParsePolarity(t *testing.T) {
	tests := []struct {
		reply   string
		want    float64
		wantErr bool
	}{
		{"0.75", 0.75, false},
		{"Score: -0.4", -0.4, false},
		{"+1", 1, false},
		{".5\n", 0.5, false},
		{"-1.", -1, false},
		{"neutral", 0, true},
		{"", 0, true},
		{"2", 0, true},
	}

	for _, tt := range tests {
		got, err := parsePolarity(tt.reply)
		if (err != nil) != tt.wantErr {
			t.Errorf("parsePolarity(%q) error = %v, wantErr %v", tt.reply, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parsePolarity(%q) = %v, want %v", tt.reply, got, tt.want)
		}
	}

	if _, err := parsePolarity("1.5"); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}

func TestPolarityPromptCarriesHeadline(t *testing.T) {
	p := polarityPrompt("  Fed holds rates  ")
	if want := "Headline: Fed holds rates"; !strings.Contains(p, want) {
		t.Errorf("prompt %q does not contain %q", p, want)
	}
}

func TestSweepBoundsCachedMemo(t *testing.T) {
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	ttl := time.Minute

	memo := NewCached(&countingScorer{score: 0.2}, ttl).WithClock(func() time.Time { return now })
	scorer := Fallback{Primary: memo, Secondary: NewLexicon()}
	ctx := context.Background()

	const titlesPerPass = 50
	for pass := 0; pass < 100; pass++ {
		for i := 0; i < titlesPerPass; i++ {
			if _, err := scorer.Polarity(ctx, fmt.Sprintf("headline %d-%d", pass, i)); err != nil {
				t.Fatalf("Polarity: %v", err)
			}
		}
		Sweep(scorer)
		if n := memo.Len(); n > titlesPerPass {
			t.Fatalf("pass %d: memo holds %d titles, want <= %d", pass, n, titlesPerPass)
		}
		now = now.Add(2 * ttl)
	}

	Sweep(scorer)
	if n := memo.Len(); n != 0 {
		t.Errorf("memo holds %d expired titles after sweep", n)
	}
}

func TestSweepIgnoresStatelessScorer(t *testing.T) {
	// must not panic on a scorer without a memo
	Sweep(NewLexicon())
}
