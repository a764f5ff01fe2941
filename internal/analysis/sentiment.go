package analysis

import (
	"context"
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/finsight/finsight/pkg/models"
)

// Model batching limits for the optional remote classifier.
const (
	modelMaxTexts   = 10
	modelMaxTextLen = 512
)

// LabelScores maps sentiment labels to probabilities for one text.
type LabelScores map[string]float64

// SentimentModel is the optional remote classifier. The pipeline works
// without it; label counting takes over on any error.
type SentimentModel interface {
	Classify(ctx context.Context, texts []string) ([]LabelScores, error)
	Enabled() bool
}

// AnalyzeSentiment scores a labeled article list. Empty input yields the
// neutral low-confidence result.
func AnalyzeSentiment(ctx context.Context, model SentimentModel, articles []models.NewsArticle) models.SentimentAnalysis {
	if len(articles) == 0 {
		return models.SentimentAnalysis{
			Overall:     models.SentimentNeutral,
			Confidence:  models.ConfidenceLow,
			Breakdown:   models.NewSentimentBreakdown(0, 0, 0),
			RecentTrend: "stable",
			Reasoning:   []string{"No recent articles available"},
			Source:      "news sentiment",
		}
	}

	var positive, neutral, negative int
	if scores, ok := classifyWithModel(ctx, model, articles); ok {
		positive, neutral, negative = scores[0], scores[1], scores[2]
	} else {
		for _, a := range articles {
			switch a.Sentiment {
			case models.SentimentPositive:
				positive++
			case models.SentimentNegative:
				negative++
			default:
				neutral++
			}
		}
	}

	count := positive + neutral + negative
	score := float64(positive-negative) / float64(count)

	overall := models.SentimentNeutral
	switch {
	case score > 0.3:
		overall = models.SentimentPositive
	case score < -0.3:
		overall = models.SentimentNegative
	}

	confidence := models.ConfidenceLow
	switch {
	case count > 10:
		confidence = models.ConfidenceHigh
	case count > 5:
		confidence = models.ConfidenceMedium
	}

	breakdown := models.NewSentimentBreakdown(positive, neutral, negative)
	return models.SentimentAnalysis{
		Overall:      overall,
		Score:        score,
		Confidence:   confidence,
		Breakdown:    breakdown,
		RecentTrend:  recentTrend(articles),
		ArticleCount: count,
		Reasoning: []string{
			fmt.Sprintf("%d%% positive, %d%% negative across %d articles", breakdown.Positive, breakdown.Negative, count),
		},
		Source: "news sentiment",
	}
}

// classifyWithModel batches the first 10 texts through the remote model
// and averages label probabilities into counts. Returns false when the
// model is absent or fails.
func classifyWithModel(ctx context.Context, model SentimentModel, articles []models.NewsArticle) ([3]int, bool) {
	if model == nil || !model.Enabled() {
		return [3]int{}, false
	}

	texts := make([]string, 0, modelMaxTexts)
	for _, a := range articles {
		text := truncateRunes(a.Title+". "+a.Summary, modelMaxTextLen)
		texts = append(texts, text)
		if len(texts) == modelMaxTexts {
			break
		}
	}

	results, err := model.Classify(ctx, texts)
	if err != nil || len(results) == 0 {
		return [3]int{}, false
	}

	var counts [3]int
	for _, scores := range results {
		best := models.SentimentNeutral
		bestScore := scores[models.SentimentNeutral]
		if scores[models.SentimentPositive] > bestScore {
			best = models.SentimentPositive
			bestScore = scores[models.SentimentPositive]
		}
		if scores[models.SentimentNegative] > bestScore {
			best = models.SentimentNegative
		}
		switch best {
		case models.SentimentPositive:
			counts[0]++
		case models.SentimentNegative:
			counts[2]++
		default:
			counts[1]++
		}
	}
	return counts, true
}

// truncateRunes caps text at max bytes without splitting a UTF-8 rune,
// walking back to the nearest rune start.
func truncateRunes(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

// recentTrend splits articles into newer and older halves by published
// time and compares positive fractions with a 0.2 threshold.
func recentTrend(articles []models.NewsArticle) string {
	if len(articles) < 2 {
		return "stable"
	}

	sorted := make([]models.NewsArticle, len(articles))
	copy(sorted, articles)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].PublishedAt.After(sorted[j].PublishedAt)
	})

	half := len(sorted) / 2
	newerPos := positiveFraction(sorted[:half])
	olderPos := positiveFraction(sorted[half:])

	switch {
	case newerPos-olderPos > 0.2:
		return "improving"
	case olderPos-newerPos > 0.2:
		return "declining"
	default:
		return "stable"
	}
}

func positiveFraction(articles []models.NewsArticle) float64 {
	if len(articles) == 0 {
		return 0
	}
	positive := 0
	for _, a := range articles {
		if a.Sentiment == models.SentimentPositive {
			positive++
		}
	}
	return float64(positive) / float64(len(articles))
}
