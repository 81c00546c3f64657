package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"brandmonitor/internal/aggregate"
	"brandmonitor/internal/domain"
	"brandmonitor/internal/vocab"
)

type stubSource struct {
	reviews []domain.Review
}

func (s stubSource) Fetch(ctx context.Context, brand string) ([]domain.Review, error) {
	return s.reviews, nil
}

func newTestServer(t *testing.T, source stubSource) *Server {
	t.Helper()

	store := vocab.NewStore(filepath.Join(t.TempDir(), "keywords.json"), nil)
	if err := store.Save(vocab.Default("tester")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return NewServer(store, aggregate.New(store, nil), source, nil)
}

func do(t *testing.T, s *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
}

func TestRootAndHealth(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, stubSource{})

	rec := do(t, s, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("root: expected 200, got %d", rec.Code)
	}

	rec = do(t, s, http.MethodGet, "/health", nil)
	var health map[string]string
	decodeBody(t, rec, &health)
	if health["status"] != "healthy" {
		t.Fatalf("unexpected health body: %v", health)
	}
}

func TestAnalyzeManualText(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, stubSource{})

	text := strings.Join([]string{
		"出貨慢到不行，等了兩週",
		"這根本是詐騙，大家小心",
		"求代購，台灣哪裡買得到？",
		"短",
	}, "\n")

	rec := do(t, s, http.MethodPost, "/api/analyze", map[string]string{
		"brand_name":   "品牌",
		"reviews_text": text,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		BrandName             string         `json:"brand_name"`
		TotalReviews          int            `json:"total_reviews"`
		SentimentDistribution map[string]int `json:"sentiment_distribution"`
		PriorityDistribution  map[string]int `json:"priority_distribution"`
		Reviews               []struct {
			Source    string   `json:"source"`
			Sentiment string   `json:"sentiment"`
			Priority  int      `json:"priority"`
			Keywords  []string `json:"keywords"`
		} `json:"reviews"`
	}
	decodeBody(t, rec, &resp)

	if resp.BrandName != "品牌" {
		t.Fatalf("unexpected brand: %s", resp.BrandName)
	}
	if resp.TotalReviews != 3 {
		t.Fatalf("expected 3 reviews (short line dropped), got %d", resp.TotalReviews)
	}
	// Ascending priority: critical first.
	if resp.Reviews[0].Priority != 1 || resp.Reviews[0].Sentiment != "negative" {
		t.Fatalf("unexpected first review: %+v", resp.Reviews[0])
	}
	if resp.Reviews[0].Source != "manual" {
		t.Fatalf("unexpected source: %s", resp.Reviews[0].Source)
	}
	if len(resp.Reviews[0].Keywords) == 0 {
		t.Fatal("expected matched keywords")
	}
	if resp.PriorityDistribution["1"] != 1 || resp.PriorityDistribution["3"] != 1 || resp.PriorityDistribution["4"] != 1 {
		t.Fatalf("unexpected priority distribution: %v", resp.PriorityDistribution)
	}
	if resp.SentimentDistribution["negative"] != 1 || resp.SentimentDistribution["positive"] != 1 {
		t.Fatalf("unexpected sentiment distribution: %v", resp.SentimentDistribution)
	}
}

func TestAnalyzeLiveCollection(t *testing.T) {
	t.Parallel()

	source := stubSource{reviews: []domain.Review{
		{Source: "dcard", Title: "心得", Content: "客服態度很差，一直踢皮球不處理", URL: "https://example.com/1"},
		{Source: "dcard", Title: "重複", Content: "重複網址的另一篇評論", URL: "https://example.com/1"},
	}}
	s := newTestServer(t, source)

	rec := do(t, s, http.MethodPost, "/api/analyze", map[string]string{"brand_name": "品牌"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		TotalReviews int `json:"total_reviews"`
		Reviews      []struct {
			Sentiment      string  `json:"sentiment"`
			SentimentScore float64 `json:"sentiment_score"`
			Category       string  `json:"category"`
			Priority       int     `json:"priority"`
		} `json:"reviews"`
	}
	decodeBody(t, rec, &resp)

	if resp.TotalReviews != 1 {
		t.Fatalf("expected dedup to 1 review, got %d", resp.TotalReviews)
	}
	r := resp.Reviews[0]
	if r.Priority != 2 || r.Category != "strategic" || r.Sentiment != "negative" || r.SentimentScore != 0.35 {
		t.Fatalf("unexpected classification: %+v", r)
	}
}

func TestAnalyzeValidation(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, stubSource{})

	rec := do(t, s, http.MethodPost, "/api/analyze", map[string]string{"brand_name": "   "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body map[string]string
	decodeBody(t, rec, &body)
	if body["error"] == "" {
		t.Fatal("expected error field")
	}

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader("not json"))
	rec2 := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec2, req)
	if rec2.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rec2.Code)
	}
}

func TestAnalyzeVocabularyUnavailable(t *testing.T) {
	t.Parallel()

	// A directory at the document path makes reads fail with a non-NotFound
	// error, which must surface as 503.
	store := vocab.NewStore(t.TempDir(), nil)
	s := NewServer(store, aggregate.New(store, nil), stubSource{}, nil)

	rec := do(t, s, http.MethodPost, "/api/analyze", map[string]string{
		"brand_name":   "品牌",
		"reviews_text": "一些夠長的評論內容",
	})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestContentTruncatedInResponse(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("詐", 400)
	source := stubSource{reviews: []domain.Review{{Source: "dcard", Content: long, URL: "u"}}}
	s := newTestServer(t, source)

	rec := do(t, s, http.MethodPost, "/api/analyze", map[string]string{"brand_name": "品牌"})
	var resp struct {
		Reviews []struct {
			Content string `json:"content"`
		} `json:"reviews"`
	}
	decodeBody(t, rec, &resp)
	if got := len([]rune(resp.Reviews[0].Content)); got != contentLimit {
		t.Fatalf("expected content capped at %d runes, got %d", contentLimit, got)
	}
}
