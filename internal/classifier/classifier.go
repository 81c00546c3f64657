// Package classifier implements the keyword-driven priority classification
// engine. Classification is a pure function over the text and a vocabulary
// snapshot: no state, no I/O, no error path.
package classifier

import (
	"strings"
	"unicode/utf8"

	"brandmonitor/internal/domain"
	"brandmonitor/internal/vocab"
)

const (
	// minRunes is the shortest trimmed input that triggers tier lookup.
	minRunes = 2
	// maxMatchedKeywords caps the recorded matches, earliest first.
	maxMatchedKeywords = 8
	// maxConfidence is the hard ceiling on reported confidence.
	maxConfidence = 0.95
)

// serviceMarkers flip a STRATEGIC match to negative sentiment: loyalty
// erosion voiced about staff or support is a complaint, not a comparison.
var serviceMarkers = []string{
	"客服", "服務", "售後", "回應", "處理", "態度", "回覆", "店員", "員工",
}

// tierOutcome is the fixed result table keyed by the winning tier.
type tierOutcome struct {
	priority   int
	category   domain.Category
	sentiment  domain.Sentiment
	score      float64
	confidence float64
}

// Classify resolves text against the vocabulary snapshot. Exactly one tier
// decides the outcome: the first tier in precedence order
// (CRITICAL > STRATEGIC > OPERATIONAL > OPPORTUNITIES) with a positive
// weight sum. Matches from lower-precedence tiers are still recorded.
func Classify(text string, v vocab.Vocabulary) domain.ClassificationResult {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < minRunes {
		return domain.ClassificationResult{
			SourceText: text,
			Sentiment:  domain.SentimentNeutral,
			Score:      0.5,
			Confidence: 0.0,
			Category:   domain.CategoryNeutral,
			Priority:   5,
		}
	}

	lowered := strings.ToLower(trimmed)

	var matched []string
	scores := map[vocab.TierName]float64{}
	for _, name := range vocab.TierOrder {
		for _, e := range v.Tier(name).Entries() {
			if !strings.Contains(lowered, strings.ToLower(e.Term)) {
				continue
			}
			scores[name] += e.Weight
			if len(matched) < maxMatchedKeywords {
				matched = append(matched, string(name)+":"+e.Term)
			}
		}
	}

	outcome := resolveOutcome(scores, lowered)
	if outcome.confidence > maxConfidence {
		outcome.confidence = maxConfidence
	}

	return domain.ClassificationResult{
		SourceText:      text,
		Sentiment:       outcome.sentiment,
		Score:           outcome.score,
		Confidence:      outcome.confidence,
		Category:        outcome.category,
		Priority:        outcome.priority,
		MatchedKeywords: matched,
	}
}

func resolveOutcome(scores map[vocab.TierName]float64, lowered string) tierOutcome {
	switch {
	case scores[vocab.TierCritical] > 0:
		return tierOutcome{1, domain.CategoryCritical, domain.SentimentNegative, 0.15, 0.95}
	case scores[vocab.TierStrategic] > 0:
		if containsServiceMarker(lowered) {
			return tierOutcome{2, domain.CategoryStrategic, domain.SentimentNegative, 0.35, 0.80}
		}
		return tierOutcome{2, domain.CategoryStrategic, domain.SentimentNeutral, 0.50, 0.80}
	case scores[vocab.TierOperational] > 0:
		return tierOutcome{3, domain.CategoryOperational, domain.SentimentNeutral, 0.50, 0.70}
	case scores[vocab.TierOpportunities] > 0:
		return tierOutcome{4, domain.CategoryOpportunity, domain.SentimentPositive, 0.85, 0.85}
	default:
		return tierOutcome{5, domain.CategoryNeutral, domain.SentimentNeutral, 0.50, 0.30}
	}
}

func containsServiceMarker(text string) bool {
	for _, marker := range serviceMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}
