// Package huggingface implements the optional remote sentiment-model
// client. The analysis pipeline treats it as best-effort: any error
// falls back to the keyword scorer.
package huggingface

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/finsight/finsight/internal/upstream/httpx"
)

const (
	defaultModel = "ProsusAI/finbert"
	maxTexts     = 10
	maxTextLen   = 512
)

// LabelScores maps sentiment labels (positive/neutral/negative) to
// probabilities for one input text.
type LabelScores map[string]float64

// Client calls a hosted text-classification model.
type Client struct {
	apiKey  string
	http    *http.Client
	baseURL string
}

// New creates a Hugging Face inference client. A missing key disables it.
func New(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
		baseURL: "https://api-inference.huggingface.co/models/" + defaultModel,
	}
}

// NewWithBaseURL is used by tests to point the client at a fake server.
func NewWithBaseURL(apiKey, base string) *Client {
	c := New(apiKey)
	c.baseURL = base
	return c
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool { return c.apiKey != "" }

type classification struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify scores up to 10 texts, each truncated to 512 bytes on a rune
// boundary, and returns per-text label probabilities.
func (c *Client) Classify(ctx context.Context, texts []string) ([]LabelScores, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("huggingface: no API key configured")
	}
	if len(texts) == 0 {
		return nil, nil
	}
	if len(texts) > maxTexts {
		texts = texts[:maxTexts]
	}
	inputs := make([]string, len(texts))
	for i, t := range texts {
		if len(t) > maxTextLen {
			// Walk back so the cut never lands inside a multi-byte rune.
			cut := maxTextLen
			for cut > 0 && !utf8.RuneStart(t[cut]) {
				cut--
			}
			t = t[:cut]
		}
		inputs[i] = t
	}

	payload := map[string]any{"inputs": inputs}
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}

	var resp [][]classification
	if err := httpx.PostJSON(ctx, c.http, c.baseURL, headers, payload, &resp); err != nil {
		return nil, fmt.Errorf("huggingface classify: %w", err)
	}

	results := make([]LabelScores, 0, len(resp))
	for _, row := range resp {
		scores := make(LabelScores, len(row))
		for _, cls := range row {
			scores[strings.ToLower(cls.Label)] = cls.Score
		}
		results = append(results, scores)
	}
	return results, nil
}
