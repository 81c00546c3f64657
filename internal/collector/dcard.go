package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"brandmonitor/internal/domain"
)

const dcardContentLimit = 500

// Dcard reads recent posts from the Dcard public API and keeps the ones
// mentioning the brand. Dcard carries the most detailed consumer complaints
// in Traditional Chinese, so it is the primary platform.
type Dcard struct {
	baseURL string
	forums  []string
	client  *http.Client
	logger  *slog.Logger
}

var _ Collector = (*Dcard)(nil)

type dcardPost struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
	Author    struct {
		Name string `json:"name"`
	} `json:"author"`
}

// NewDcard wires an HTTP client and the forums to scan.
func NewDcard(client *http.Client, forums []string, logger *slog.Logger) *Dcard {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if len(forums) == 0 {
		forums = []string{"review", "shopping", "bargain"}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dcard{
		baseURL: "https://www.dcard.tw/api/v2",
		forums:  forums,
		client:  client,
		logger:  logger,
	}
}

// Name identifies the collector inside the registry.
func (d *Dcard) Name() string { return "dcard" }

// Collect scans each configured forum for posts mentioning the brand. A forum
// failing skips only that forum.
func (d *Dcard) Collect(ctx context.Context, brand string) ([]domain.Review, error) {
	var reviews []domain.Review
	for _, forum := range d.forums {
		posts, err := d.fetchForum(ctx, forum)
		if err != nil {
			d.logger.Warn("forum fetch failed", "forum", forum, "error", err)
			continue
		}
		reviews = append(reviews, d.filterPosts(posts, forum, brand)...)
	}
	return reviews, nil
}

func (d *Dcard) fetchForum(ctx context.Context, forum string) ([]dcardPost, error) {
	endpoint := fmt.Sprintf("%s/forums/%s/posts?limit=30&sort=new", d.baseURL, url.PathEscape(forum))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request posts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dcard returned %s", resp.Status)
	}

	var posts []dcardPost
	if err := json.NewDecoder(resp.Body).Decode(&posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return posts, nil
}

func (d *Dcard) filterPosts(posts []dcardPost, forum, brand string) []domain.Review {
	brandLower := strings.ToLower(brand)

	var reviews []domain.Review
	for _, post := range posts {
		combined := strings.ToLower(post.Title + " " + post.Content)
		if !strings.Contains(combined, brandLower) {
			continue
		}

		author := post.Author.Name
		if author == "" {
			author = "Anonymous"
		}

		reviews = append(reviews, domain.Review{
			Source:    "dcard",
			Title:     post.Title,
			Content:   truncateRunes(post.Content, dcardContentLimit),
			Author:    author,
			URL:       fmt.Sprintf("https://www.dcard.tw/f/%s/p/%d", forum, post.ID),
			PostedAt:  parseISOTime(post.CreatedAt),
			ScrapedAt: time.Now(),
		})
	}
	return reviews
}

func parseISOTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
