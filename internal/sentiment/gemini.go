package sentiment

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini asks a Gemini model for the polarity of a headline.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Close() {
	if g.client != nil {
		g.client.Close()
	}
}

func (g *Gemini) Polarity(ctx context.Context, text string) (float64, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0)

	resp, err := model.GenerateContent(ctx, genai.Text(polarityPrompt(text)))
	if err != nil {
		return 0, fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return 0, fmt.Errorf("no response from Gemini")
	}

	return parsePolarity(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]))
}

func polarityPrompt(headline string) string {
	return fmt.Sprintf(`Rate the market sentiment of this news headline for a trader.
Reply with one number between -1 and 1 and nothing else.
-1 is very bearish, 0 is neutral, 1 is very bullish.

Headline: %s`, strings.TrimSpace(headline))
}

var numberRe = regexp.MustCompile(`[-+]?\d*\.?\d+`)

// parsePolarity pulls the first number out of a model reply.
func parsePolarity(reply string) (float64, error) {
	m := numberRe.FindString(reply)
	if m == "" {
		return 0, fmt.Errorf("could not parse Gemini response %q", reply)
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, fmt.Errorf("could not parse Gemini response %q: %w", reply, err)
	}
	if v < -1 || v > 1 {
		return 0, fmt.Errorf("gemini polarity %v: %w", v, ErrOutOfRange)
	}
	return v, nil
}
