// Package sentiment turns headline text into a polarity score in [-1, 1] and
// the coarse Bullish / Bearish / Neutral label shown on the dashboard.
package sentiment

import (
	"context"
	"errors"
)

// Threshold is the open bound on either side of zero: a polarity must be
// strictly greater than Threshold to be Bullish, strictly less than
// -Threshold to be Bearish.
const Threshold = 0.1

type Label string

const (
	Bullish Label = "Bullish"
	Bearish Label = "Bearish"
	Neutral Label = "Neutral"
)

// Color is the display colour name for the label.
func (l Label) Color() string {
	switch l {
	case Bullish:
		return "green"
	case Bearish:
		return "red"
	default:
		return "gray"
	}
}

// Marker is the glyph printed next to the label.
func (l Label) Marker() string {
	switch l {
	case Bullish:
		return "▲"
	case Bearish:
		return "▼"
	default:
		return "●"
	}
}

func FromPolarity(score float64) Label {
	switch {
	case score > Threshold:
		return Bullish
	case score < -Threshold:
		return Bearish
	default:
		return Neutral
	}
}

// Scorer computes a polarity in [-1, 1] for a piece of text.
type Scorer interface {
	Polarity(ctx context.Context, text string) (float64, error)
}

// ErrOutOfRange is returned when a scorer produces a value outside [-1, 1].
var ErrOutOfRange = errors.New("polarity out of range")

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
