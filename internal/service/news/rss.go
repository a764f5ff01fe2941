package news

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/finsight/finsight/pkg/models"
)

// RSSSource is one configured financial-news feed.
type RSSSource struct {
	Name   string
	URL    string
	Region string
}

// DefaultRSSSources lists the financial-news feeds polled by the RSS
// endpoint, grouped by region.
var DefaultRSSSources = []RSSSource{
	{Name: "Yahoo Finance", URL: "https://finance.yahoo.com/news/rssindex", Region: "global"},
	{Name: "MarketWatch", URL: "https://feeds.content.dowjones.io/public/rss/mw_topstories", Region: "global"},
	{Name: "Moneycontrol", URL: "https://www.moneycontrol.com/rss/marketreports.xml", Region: "india"},
	{Name: "Economic Times Markets", URL: "https://economictimes.indiatimes.com/markets/rssfeeds/1977021501.cms", Region: "india"},
	{Name: "LiveMint Markets", URL: "https://www.livemint.com/rss/markets", Region: "india"},
}

// fetchRSS parses one feed into normalized articles. Feed items carry no
// sentiment; the keyword classifier labels them afterwards.
func (s *Service) fetchRSS(ctx context.Context, src RSSSource) ([]models.NewsArticle, error) {
	if err := s.rssLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	feed, err := s.parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse RSS %s: %w", src.Name, err)
	}

	articles := make([]models.NewsArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		a := models.NewsArticle{
			Title:          item.Title,
			Summary:        stripHTML(item.Description),
			URL:            item.Link,
			Source:         src.Name,
			RelevanceScore: 0.5,
		}
		if item.PublishedParsed != nil {
			a.PublishedAt = *item.PublishedParsed
		}
		articles = append(articles, a)
	}
	return articles, nil
}

// stripHTML removes markup from RSS descriptions.
func stripHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}

// regionSources filters the configured feeds by region; empty region
// means all feeds.
func regionSources(region string) []RSSSource {
	if region == "" {
		return DefaultRSSSources
	}
	var out []RSSSource
	for _, src := range DefaultRSSSources {
		if src.Region == region {
			out = append(out, src)
		}
	}
	return out
}
