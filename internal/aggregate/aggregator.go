// Package aggregate turns a batch of raw review items into the deduplicated,
// priority-sorted report with distribution summaries.
package aggregate

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode/utf8"

	"brandmonitor/internal/classifier"
	"brandmonitor/internal/domain"
	"brandmonitor/internal/ports"
	"brandmonitor/internal/vocab"
)

// minReviewRunes is the shortest trimmed content worth classifying; anything
// below is dropped as noise rather than reported as neutral.
const minReviewRunes = 5

// Aggregator classifies, dedups, sorts, and summarizes review batches.
type Aggregator struct {
	vocab  ports.VocabularyLoader
	logger *slog.Logger
}

// New wires the aggregator with its vocabulary source.
func New(loader ports.VocabularyLoader, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{vocab: loader, logger: logger}
}

// Aggregate produces the report for one batch. The whole batch is classified
// against a single vocabulary snapshot so tier precedence stays consistent
// within one report. A missing vocabulary degrades to all-empty tiers; any
// other load failure aborts the batch as unavailable.
func (a *Aggregator) Aggregate(brand string, items []domain.Review) (domain.AggregateReport, error) {
	snapshot, err := a.vocab.Load()
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			a.logger.Error("vocabulary load failed", "error", err)
			return domain.AggregateReport{}, fmt.Errorf("load vocabulary: %w", domain.ErrUnavailable)
		}
		a.logger.Warn("no vocabulary document, classifying with empty tiers")
		snapshot = vocab.Vocabulary{}
	}

	report := domain.AggregateReport{
		Brand: brand,
		SentimentDistribution: map[domain.Sentiment]int{
			domain.SentimentPositive:   0,
			domain.SentimentNegative:   0,
			domain.SentimentNeutral:    0,
			domain.SentimentSuggestion: 0,
		},
		PriorityDistribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}

	seenURLs := map[string]struct{}{}
	for _, item := range items {
		if utf8.RuneCountInString(strings.TrimSpace(item.Content)) < minReviewRunes {
			continue
		}
		if item.URL != "" {
			if _, dup := seenURLs[item.URL]; dup {
				continue
			}
			seenURLs[item.URL] = struct{}{}
		}

		result := classifier.Classify(item.Content, snapshot)
		report.Items = append(report.Items, domain.ClassifiedReview{Review: item, Result: result})
		report.SentimentDistribution[result.Sentiment]++
		report.PriorityDistribution[result.Priority]++
	}

	// Stable: ties keep their original relative order, which is the primary
	// ordering contract of the report.
	sort.SliceStable(report.Items, func(i, j int) bool {
		return report.Items[i].Result.Priority < report.Items[j].Result.Priority
	})

	a.logger.Debug("batch aggregated",
		"brand", brand,
		"input", len(items),
		"reported", len(report.Items))

	return report, nil
}
