package models

import "time"

// Article sentiment labels.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// NewsArticle is a normalized news item.
type NewsArticle struct {
	Title          string    `json:"title"`
	Summary        string    `json:"summary"`
	Source         string    `json:"source"`
	PublishedAt    time.Time `json:"publishedAt"`
	Sentiment      string    `json:"sentiment"`
	URL            string    `json:"url"`
	RelevanceScore float64   `json:"relevanceScore"`
}

// SentimentBreakdown holds integer percentages that sum to 100.
type SentimentBreakdown struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// NewSentimentBreakdown converts raw counts to integer percentages that
// sum to exactly 100, assigning rounding residuals to the largest
// remainders. Zero counts yield the neutral {33,34,33} split.
func NewSentimentBreakdown(positive, neutral, negative int) SentimentBreakdown {
	total := positive + neutral + negative
	if total == 0 {
		return SentimentBreakdown{Positive: 33, Neutral: 34, Negative: 33}
	}

	counts := [3]int{positive, neutral, negative}
	floors := [3]int{}
	remainders := [3]float64{}
	sum := 0
	for i, c := range counts {
		exact := float64(c) * 100 / float64(total)
		floors[i] = int(exact)
		remainders[i] = exact - float64(floors[i])
		sum += floors[i]
	}
	for sum < 100 {
		best := 0
		for i := 1; i < 3; i++ {
			if remainders[i] > remainders[best] {
				best = i
			}
		}
		floors[best]++
		remainders[best] = -1
		sum++
	}
	return SentimentBreakdown{Positive: floors[0], Neutral: floors[1], Negative: floors[2]}
}

// NewsSentimentSummary aggregates sentiment over a recent article window.
type NewsSentimentSummary struct {
	Overall      string             `json:"overall"`
	ArticleCount int                `json:"articleCount"`
	Breakdown    SentimentBreakdown `json:"breakdown"`
	BySource     map[string]int     `json:"bySource,omitempty"`
	GeneratedAt  time.Time          `json:"generatedAt"`
}
