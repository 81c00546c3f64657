package collector

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"brandmonitor/internal/domain"
)

// Google scrapes the plain Google results page directly. Selector-based
// parsing of result blocks; Google reshuffles its markup regularly, so this
// collector is best-effort and sits behind SerpAPI when a key is configured.
type Google struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

var _ Collector = (*Google)(nil)

// NewGoogle wires an HTTP client.
func NewGoogle(client *http.Client, logger *slog.Logger) *Google {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Google{
		baseURL: "https://www.google.com/search",
		client:  client,
		logger:  logger,
	}
}

// Name identifies the collector inside the registry.
func (g *Google) Name() string { return "google_search" }

// Collect searches review-oriented queries and parses the result blocks.
// Per-query failures skip that query only; duplicate URLs are dropped.
func (g *Google) Collect(ctx context.Context, brand string) ([]domain.Review, error) {
	queries := []string{
		brand + " 評論",
		brand + " review",
		brand + " 缺點",
		brand + " 問題",
	}

	seen := map[string]struct{}{}
	var reviews []domain.Review
	for _, query := range queries {
		results, err := g.search(ctx, query)
		if err != nil {
			g.logger.Warn("google query failed", "query", query, "error", err)
			continue
		}
		for _, review := range results {
			if _, dup := seen[review.URL]; dup {
				continue
			}
			seen[review.URL] = struct{}{}
			reviews = append(reviews, review)
		}
	}
	return reviews, nil
}

func (g *Google) search(ctx context.Context, query string) ([]domain.Review, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("num", "10")
	params.Set("hl", "zh-TW")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request results: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}

	return g.parseResults(doc), nil
}

func (g *Google) parseResults(doc *goquery.Document) []domain.Review {
	var reviews []domain.Review

	doc.Find("div.g").Each(func(i int, container *goquery.Selection) {
		title := strings.TrimSpace(container.Find("h3").First().Text())
		if title == "" {
			return
		}

		href, exists := container.Find("a").First().Attr("href")
		if !exists || !strings.HasPrefix(href, "http") {
			return
		}
		if strings.Contains(href, "google.com") {
			return
		}

		snippet := strings.TrimSpace(container.Find("div.VwiC3b").First().Text())

		reviews = append(reviews, domain.Review{
			Source:    "google_search",
			Title:     title,
			Content:   truncateRunes(snippet, serpContentLimit),
			Author:    "Google Search",
			URL:       href,
			ScrapedAt: time.Now(),
		})
	})

	return reviews
}
