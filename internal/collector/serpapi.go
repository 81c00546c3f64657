package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"brandmonitor/internal/domain"
)

const serpContentLimit = 500

// SerpAPI queries Google search results through the SerpAPI JSON endpoint.
// Queries fan out over review-oriented phrasings; duplicate URLs across
// queries are dropped, first hit wins.
type SerpAPI struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *slog.Logger
}

var _ Collector = (*SerpAPI)(nil)

type serpResponse struct {
	OrganicResults []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
}

// NewSerpAPI wires the API key and HTTP client.
func NewSerpAPI(apiKey string, client *http.Client, logger *slog.Logger) *SerpAPI {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SerpAPI{
		baseURL: "https://serpapi.com/search",
		apiKey:  apiKey,
		client:  client,
		logger:  logger,
	}
}

// Name identifies the collector inside the registry.
func (s *SerpAPI) Name() string { return "serpapi" }

// Collect runs the query fan-out. Per-query failures skip that query only.
func (s *SerpAPI) Collect(ctx context.Context, brand string) ([]domain.Review, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("serpapi key not configured")
	}

	queries := []string{
		brand + " 評論",
		brand + " 缺點",
		brand + " 品質",
		brand + " 不好",
		brand + " review",
	}

	seen := map[string]struct{}{}
	var reviews []domain.Review
	for _, query := range queries {
		results, err := s.search(ctx, query)
		if err != nil {
			s.logger.Warn("serpapi query failed", "query", query, "error", err)
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

func (s *SerpAPI) search(ctx context.Context, query string) ([]domain.Review, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("engine", "google")
	params.Set("api_key", s.apiKey)
	params.Set("num", "20")
	params.Set("hl", "zh-TW")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serpapi returned %s", resp.Status)
	}

	var payload serpResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode search: %w", err)
	}

	var reviews []domain.Review
	for _, result := range payload.OrganicResults {
		if result.Title == "" {
			continue
		}
		content := result.Snippet
		if content == "" {
			content = "(無摘要)"
		}
		reviews = append(reviews, domain.Review{
			Source:    "google",
			Title:     result.Title,
			Content:   truncateRunes(content, serpContentLimit),
			Author:    "Google Search",
			URL:       result.Link,
			ScrapedAt: time.Now(),
		})
	}
	return reviews, nil
}
