package domain

import "time"

// Sentiment labels a review's tone.
type Sentiment string

const (
	SentimentPositive   Sentiment = "positive"
	SentimentNegative   Sentiment = "negative"
	SentimentNeutral    Sentiment = "neutral"
	SentimentSuggestion Sentiment = "suggestion"
)

// Category names the topical bucket derived from the matched keyword tier.
type Category string

const (
	CategoryCritical    Category = "critical"
	CategoryStrategic   Category = "strategic"
	CategoryOperational Category = "operational"
	CategoryOpportunity Category = "opportunity"
	CategoryNeutral     Category = "neutral"
)

// Review is a raw item collected from a platform or supplied directly.
// Only Content is guaranteed to be populated.
type Review struct {
	Source    string
	Title     string
	Content   string
	Author    string
	URL       string
	PostedAt  time.Time
	ScrapedAt time.Time
}

// ClassificationResult is the classifier's verdict for one piece of text.
type ClassificationResult struct {
	SourceText      string
	Sentiment       Sentiment
	Score           float64
	Confidence      float64
	Category        Category
	Priority        int
	MatchedKeywords []string
}

// ClassifiedReview pairs a collected review with its classification.
type ClassifiedReview struct {
	Review Review
	Result ClassificationResult
}

// AggregateReport is the deduplicated, priority-sorted view of one batch.
type AggregateReport struct {
	Brand                 string
	Items                 []ClassifiedReview
	SentimentDistribution map[Sentiment]int
	PriorityDistribution  map[int]int
}
