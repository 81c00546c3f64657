package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"brandmonitor/internal/domain"
)

// contentLimit caps review content in the response payload.
const contentLimit = 300

type analyzeRequest struct {
	BrandName   string `json:"brand_name"`
	ReviewsText string `json:"reviews_text"`
}

type reviewPayload struct {
	Title               string   `json:"title"`
	Content             string   `json:"content"`
	Source              string   `json:"source"`
	URL                 string   `json:"url"`
	Sentiment           string   `json:"sentiment"`
	SentimentScore      float64  `json:"sentiment_score"`
	SentimentConfidence float64  `json:"sentiment_confidence"`
	Category            string   `json:"category"`
	Priority            int      `json:"priority"`
	Keywords            []string `json:"keywords"`
}

type analyzeResponse struct {
	BrandName             string          `json:"brand_name"`
	TotalReviews          int             `json:"total_reviews"`
	Reviews               []reviewPayload `json:"reviews"`
	SentimentDistribution map[string]int  `json:"sentiment_distribution"`
	PriorityDistribution  map[string]int  `json:"priority_distribution"`
}

// handleAnalyze classifies either caller-supplied text (one review per line)
// or, when none is given, a live collection run across the registered
// platforms.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("malformed request body: %w", domain.ErrInvalidArgument))
		return
	}

	brand := strings.TrimSpace(req.BrandName)
	if brand == "" {
		s.writeError(w, fmt.Errorf("brand_name is required: %w", domain.ErrInvalidArgument))
		return
	}

	var (
		items []domain.Review
		err   error
	)
	if strings.TrimSpace(req.ReviewsText) != "" {
		items = manualReviews(req.ReviewsText)
	} else {
		items, err = s.source.Fetch(r.Context(), brand)
		if err != nil {
			s.writeError(w, fmt.Errorf("collect reviews: %w", err))
			return
		}
	}

	report, err := s.aggregator.Aggregate(brand, items)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, buildAnalyzeResponse(report))
}

func manualReviews(text string) []domain.Review {
	var items []domain.Review
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		items = append(items, domain.Review{Source: "manual", Content: line})
	}
	return items
}

func buildAnalyzeResponse(report domain.AggregateReport) analyzeResponse {
	resp := analyzeResponse{
		BrandName:             report.Brand,
		TotalReviews:          len(report.Items),
		Reviews:               make([]reviewPayload, 0, len(report.Items)),
		SentimentDistribution: map[string]int{},
		PriorityDistribution:  map[string]int{},
	}

	for sentiment, count := range report.SentimentDistribution {
		resp.SentimentDistribution[string(sentiment)] = count
	}
	for priority, count := range report.PriorityDistribution {
		resp.PriorityDistribution[strconv.Itoa(priority)] = count
	}

	for _, item := range report.Items {
		keywords := item.Result.MatchedKeywords
		if keywords == nil {
			keywords = []string{}
		}
		resp.Reviews = append(resp.Reviews, reviewPayload{
			Title:               item.Review.Title,
			Content:             truncateRunes(item.Review.Content, contentLimit),
			Source:              item.Review.Source,
			URL:                 item.Review.URL,
			Sentiment:           string(item.Result.Sentiment),
			SentimentScore:      item.Result.Score,
			SentimentConfidence: item.Result.Confidence,
			Category:            string(item.Result.Category),
			Priority:            item.Result.Priority,
			Keywords:            keywords,
		})
	}

	return resp
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
