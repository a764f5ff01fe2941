package news

import (
	"strings"

	"github.com/finsight/finsight/pkg/models"
)

// Keyword lexicons for the fallback sentiment classifier. Applied only to
// articles whose upstream supplied no label.
var (
	positiveWords = []string{
		"surge", "rally", "gain", "beat", "strong", "growth", "record",
		"upgrade", "outperform", "bullish", "profit", "soar", "jump",
		"raise", "buyback", "exceed", "optimis",
	}
	negativeWords = []string{
		"fall", "drop", "plunge", "miss", "weak", "decline", "loss",
		"downgrade", "underperform", "bearish", "lawsuit", "recall",
		"slump", "cut", "warn", "scrutiny", "pressure", "crash",
	}
)

// classifyText scores a headline+summary by keyword counts.
func classifyText(text string) string {
	text = strings.ToLower(text)
	score := 0
	for _, w := range positiveWords {
		if strings.Contains(text, w) {
			score++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(text, w) {
			score--
		}
	}
	switch {
	case score > 0:
		return models.SentimentPositive
	case score < 0:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// classifyArticles fills in sentiment for articles that arrived unlabeled
// or with the default neutral label. Non-neutral upstream labels are
// preserved.
func classifyArticles(articles []models.NewsArticle) []models.NewsArticle {
	for i := range articles {
		if articles[i].Sentiment == "" || articles[i].Sentiment == models.SentimentNeutral {
			articles[i].Sentiment = classifyText(articles[i].Title + " " + articles[i].Summary)
		}
	}
	return articles
}
