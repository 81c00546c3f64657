package httpapi

import (
	"net/http"
	"testing"
)

func TestKeywordsAll(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, stubSource{})

	rec := do(t, s, http.MethodGet, "/api/keywords/all", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var doc map[string]any
	decodeBody(t, rec, &doc)
	for _, key := range []string{"CRITICAL", "STRATEGIC", "OPERATIONAL", "OPPORTUNITIES", "metadata"} {
		if _, ok := doc[key]; !ok {
			t.Fatalf("missing document key %s: %v", key, doc)
		}
	}
}

func TestKeywordsCategory(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, stubSource{})

	rec := do(t, s, http.MethodGet, "/api/keywords/category/critical", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var tier struct {
		Description string             `json:"description"`
		Keywords    map[string]float64 `json:"keywords"`
	}
	decodeBody(t, rec, &tier)
	if tier.Keywords["詐騙"] != 3 {
		t.Fatalf("unexpected tier payload: %+v", tier)
	}

	rec = do(t, s, http.MethodGet, "/api/keywords/category/bogus", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown category, got %d", rec.Code)
	}
}

func TestKeywordsSearch(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, stubSource{})

	rec := do(t, s, http.MethodGet, "/api/keywords/search?q=%E8%A9%90", nil) // 詐
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var results map[string]struct {
		Keywords map[string]float64 `json:"keywords"`
	}
	decodeBody(t, rec, &results)
	if _, ok := results["CRITICAL"].Keywords["詐騙"]; len(results) != 1 || !ok {
		t.Fatalf("unexpected search results: %v", results)
	}

	rec = do(t, s, http.MethodGet, "/api/keywords/search", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without q, got %d", rec.Code)
	}
}

func TestKeywordsAddFlow(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, stubSource{})

	rec := do(t, s, http.MethodPost, "/api/keywords/add", keywordRequest{
		Category: "operational", Word: "客服電話打不通", Weight: 1.5,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created map[string]any
	decodeBody(t, rec, &created)
	if created["category"] != "OPERATIONAL" || created["weight"] != 1.5 {
		t.Fatalf("unexpected add response: %v", created)
	}

	// Same term again conflicts.
	rec = do(t, s, http.MethodPost, "/api/keywords/add", keywordRequest{
		Category: "operational", Word: "客服電話打不通", Weight: 1.5,
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	rec = do(t, s, http.MethodPost, "/api/keywords/add", keywordRequest{
		Category: "bogus", Word: "詞", Weight: 1,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown tier, got %d", rec.Code)
	}

	// Omitted weight defaults to 1.
	rec = do(t, s, http.MethodPost, "/api/keywords/add", map[string]string{
		"category": "opportunities", "word": "團購",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	decodeBody(t, rec, &created)
	if created["weight"] != 1.0 {
		t.Fatalf("expected default weight 1, got %v", created["weight"])
	}
}

func TestKeywordsUpdateAndDelete(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, stubSource{})

	rec := do(t, s, http.MethodPost, "/api/keywords/update", keywordRequest{
		Category: "critical", Word: "詐騙", Weight: 2.5,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, s, http.MethodPost, "/api/keywords/update", keywordRequest{
		Category: "critical", Word: "不存在的詞", Weight: 2,
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("update missing: expected 404, got %d", rec.Code)
	}

	rec = do(t, s, http.MethodPost, "/api/keywords/delete", keywordRequest{
		Category: "critical", Word: "詐騙",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}

	rec = do(t, s, http.MethodPost, "/api/keywords/delete", keywordRequest{
		Category: "critical", Word: "詐騙",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("delete twice: expected 404, got %d", rec.Code)
	}
}

func TestKeywordsMove(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, stubSource{})

	rec := do(t, s, http.MethodPost, "/api/keywords/move", moveKeywordRequest{
		FromCategory: "operational", ToCategory: "strategic", Word: "退貨難", Weight: 2,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("move: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, s, http.MethodGet, "/api/keywords/category/strategic", nil)
	var tier struct {
		Keywords map[string]float64 `json:"keywords"`
	}
	decodeBody(t, rec, &tier)
	if tier.Keywords["退貨難"] != 2 {
		t.Fatalf("moved term missing from target tier: %v", tier.Keywords)
	}

	rec = do(t, s, http.MethodGet, "/api/keywords/category/operational", nil)
	tier.Keywords = nil // Unmarshal merges into an existing map; start fresh.
	decodeBody(t, rec, &tier)
	if _, ok := tier.Keywords["退貨難"]; ok {
		t.Fatal("moved term still present in source tier")
	}

	rec = do(t, s, http.MethodPost, "/api/keywords/move", moveKeywordRequest{
		FromCategory: "operational", ToCategory: "strategic", Word: "沒有這個詞",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("move missing: expected 404, got %d", rec.Code)
	}
}

func TestKeywordsStats(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, stubSource{})

	rec := do(t, s, http.MethodGet, "/api/keywords/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var stats map[string]any
	decodeBody(t, rec, &stats)
	if stats["CRITICAL"].(float64) != 10 || stats["TOTAL"].(float64) != 40 {
		t.Fatalf("unexpected stats: %v", stats)
	}
	if stats["lastUpdated"] == "Unknown" || stats["lastUpdated"] == "" {
		t.Fatalf("expected a concrete lastUpdated, got %v", stats["lastUpdated"])
	}
}
