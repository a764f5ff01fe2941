// Package newsapi implements the NewsAPI.org client used as the
// secondary news source. Articles arrive without sentiment; the news
// service classifies them before they leave the provider layer.
package newsapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/finsight/finsight/internal/infra"
	"github.com/finsight/finsight/internal/provider"
	"github.com/finsight/finsight/internal/upstream/httpx"
	"github.com/finsight/finsight/pkg/models"
)

const sourceName = "NewsAPI"

// Client calls the NewsAPI v2 endpoints.
type Client struct {
	apiKey  string
	http    *http.Client
	limiter *infra.RateLimiter
	baseURL string
}

// New creates a NewsAPI client. A missing key disables it.
func New(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: infra.NewRateLimiter(5, time.Second),
		baseURL: "https://newsapi.org/v2",
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

type apiResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// Everything searches all indexed articles for the query.
func (c *Client) Everything(ctx context.Context, query string) ([]models.NewsArticle, error) {
	params := url.Values{
		"q":        {query},
		"sortBy":   {"publishedAt"},
		"language": {"en"},
		"pageSize": {"50"},
	}
	return c.fetch(ctx, "/everything", params)
}

// TopHeadlines fetches headlines for a category and country.
func (c *Client) TopHeadlines(ctx context.Context, category, country string) ([]models.NewsArticle, error) {
	if country == "" {
		country = "us"
	}
	params := url.Values{"country": {country}, "pageSize": {"50"}}
	if category != "" {
		params.Set("category", category)
	}
	return c.fetch(ctx, "/top-headlines", params)
}

func (c *Client) fetch(ctx context.Context, path string, params url.Values) ([]models.NewsArticle, error) {
	if !c.Enabled() {
		return nil, provider.ErrNoData
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params.Set("apiKey", c.apiKey)
	var resp apiResponse
	if err := httpx.GetJSON(ctx, c.http, c.baseURL+path+"?"+params.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("newsapi %s: %w", path, err)
	}
	if resp.Status != "ok" {
		return nil, fmt.Errorf("newsapi %s: %s (%s)", path, resp.Message, resp.Code)
	}
	if len(resp.Articles) == 0 {
		return nil, provider.ErrNoData
	}

	articles := make([]models.NewsArticle, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		published, _ := time.Parse(time.RFC3339, a.PublishedAt)
		articles = append(articles, models.NewsArticle{
			Title:          a.Title,
			Summary:        a.Description,
			Source:         firstNonEmpty(a.Source.Name, sourceName),
			PublishedAt:    published,
			Sentiment:      models.SentimentNeutral, // classified downstream
			URL:            a.URL,
			RelevanceScore: 0.5,
		})
	}
	return articles, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
