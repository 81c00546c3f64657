package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const googleResultsHTML = `
<html><body>
  <div class="g">
    <a href="https://blog.example.com/review"><h3>品牌開箱評論</h3></a>
    <div class="VwiC3b">實際使用一個月的心得，優點與缺點整理。</div>
  </div>
  <div class="g">
    <a href="https://www.google.com/aclk?x=1"><h3>廣告連結</h3></a>
    <div class="VwiC3b">ad</div>
  </div>
  <div class="g">
    <a href="/relative/link"><h3>相對連結</h3></a>
  </div>
  <div class="g">
    <a href="https://forum.example.com/t/1"></a>
  </div>
</body></html>`

func TestGoogleParseResults(t *testing.T) {
	t.Parallel()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(googleResultsHTML))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}

	g := NewGoogle(nil, nil)
	reviews := g.parseResults(doc)

	// Google-internal, relative, and title-less blocks are all skipped.
	if len(reviews) != 1 {
		t.Fatalf("expected 1 review, got %d", len(reviews))
	}
	if reviews[0].Title != "品牌開箱評論" {
		t.Fatalf("unexpected title: %s", reviews[0].Title)
	}
	if reviews[0].URL != "https://blog.example.com/review" {
		t.Fatalf("unexpected url: %s", reviews[0].URL)
	}
	if !strings.Contains(reviews[0].Content, "心得") {
		t.Fatalf("unexpected content: %s", reviews[0].Content)
	}
}

func TestGoogleCollect(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("hl") != "zh-TW" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(googleResultsHTML))
	}))
	defer server.Close()

	g := NewGoogle(server.Client(), nil)
	g.baseURL = server.URL

	reviews, err := g.Collect(context.Background(), "品牌")
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	// Four queries, all returning the same single parseable result URL.
	if len(reviews) != 1 {
		t.Fatalf("expected deduplicated single review, got %d", len(reviews))
	}
	if reviews[0].Source != "google_search" {
		t.Fatalf("unexpected source: %s", reviews[0].Source)
	}
}
