package sentiment

import (
	"context"
	"strings"
	"unicode"
)

// Lexicon scores text by averaging per-word polarities from a fixed word
// list. A negator flips the next scored word, an intensifier scales it.
// Text without any known word scores 0.
type Lexicon struct {
	words        map[string]float64
	negators     map[string]bool
	intensifiers map[string]float64
}

func NewLexicon() *Lexicon {
	return &Lexicon{
		words:        defaultWords,
		negators:     defaultNegators,
		intensifiers: defaultIntensifiers,
	}
}

func (l *Lexicon) Polarity(_ context.Context, text string) (float64, error) {
	return l.Score(text), nil
}

// Score is the context-free form of Polarity.
func (l *Lexicon) Score(text string) float64 {
	tokens := tokenize(text)

	var sum float64
	var n int
	negate := false
	scale := 1.0

	for _, tok := range tokens {
		if l.negators[tok] {
			negate = !negate
			continue
		}
		if m, ok := l.intensifiers[tok]; ok {
			scale *= m
			continue
		}
		p, ok := l.words[tok]
		if !ok {
			continue
		}
		p *= scale
		if negate {
			p = -p * 0.5
		}
		sum += clamp(p)
		n++
		negate = false
		scale = 1.0
	}

	if n == 0 {
		return 0
	}
	return clamp(sum / float64(n))
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})
}

var defaultNegators = map[string]bool{
	"not": true, "no": true, "never": true, "without": true,
	"isn't": true, "aren't": true, "won't": true, "doesn't": true, "didn't": true,
}

var defaultIntensifiers = map[string]float64{
	"very":      1.3,
	"sharply":   1.5,
	"extremely": 1.5,
	"strongly":  1.3,
	"slightly":  0.5,
	"record":    1.3,
	"massive":   1.5,
	"huge":      1.4,
}

// Headline vocabulary with market-flavoured polarities.
var defaultWords = map[string]float64{
	// positive
	"gain": 0.5, "gains": 0.5, "rise": 0.4, "rises": 0.4, "rising": 0.4, "rose": 0.4,
	"surge": 0.7, "surges": 0.7, "soar": 0.8, "soars": 0.8, "jump": 0.5, "jumps": 0.5,
	"rally": 0.6, "rallies": 0.6, "climb": 0.4, "climbs": 0.4, "boost": 0.5, "boosts": 0.5,
	"beat": 0.5, "beats": 0.5, "high": 0.2, "higher": 0.3, "strong": 0.5,
	"stronger": 0.5, "growth": 0.5, "grow": 0.4, "grows": 0.4, "profit": 0.4, "profits": 0.4,
	"upgrade": 0.5, "upgrades": 0.5, "approve": 0.4, "approves": 0.4, "approved": 0.4,
	"approval": 0.4, "win": 0.6, "wins": 0.6, "success": 0.7, "successful": 0.7,
	"optimism": 0.6, "optimistic": 0.6, "bullish": 0.8, "recover": 0.4, "recovers": 0.4,
	"recovery": 0.4, "rebound": 0.5, "rebounds": 0.5, "good": 0.7, "great": 0.8, "best": 1.0,
	"positive": 0.5, "breakthrough": 0.7, "easing": 0.3, "eases": 0.3, "launch": 0.2,
	"launches": 0.2, "expand": 0.3, "expands": 0.3, "deal": 0.2, "agreement": 0.3,

	// negative
	"fall": -0.4, "falls": -0.4, "fell": -0.4, "drop": -0.4, "drops": -0.4, "slump": -0.6,
	"slumps": -0.6, "plunge": -0.7, "plunges": -0.7, "crash": -0.8, "crashes": -0.8,
	"tumble": -0.6, "tumbles": -0.6, "sink": -0.5, "sinks": -0.5, "slide": -0.4, "slides": -0.4,
	"loss": -0.5, "losses": -0.5, "lose": -0.4, "loses": -0.4, "miss": -0.4, "misses": -0.4,
	"weak": -0.5, "weaker": -0.5, "low": -0.2, "lower": -0.3, "fear": -0.6, "fears": -0.6,
	"worry": -0.5, "worries": -0.5, "concern": -0.4, "concerns": -0.4, "risk": -0.3,
	"risks": -0.3, "crisis": -0.7, "collapse": -0.8, "collapses": -0.8, "default": -0.6,
	"recession": -0.6, "downgrade": -0.5, "downgrades": -0.5, "ban": -0.4, "bans": -0.4,
	"lawsuit": -0.4, "sues": -0.4, "hack": -0.6, "hacked": -0.6, "attack": -0.7,
	"attacks": -0.7, "war": -0.7, "sanction": -0.4, "sanctions": -0.4, "layoffs": -0.5,
	"cut": -0.2, "cuts": -0.2, "bearish": -0.8, "bad": -0.7, "worst": -1.0, "negative": -0.3,
	"volatile": -0.3, "turmoil": -0.6, "panic": -0.7, "fraud": -0.7, "arrest": -0.5,
	"arrested": -0.5, "emergency": -0.5, "explosion": -0.6, "raid": -0.4, "warns": -0.4,
	"warning": -0.4,
}
