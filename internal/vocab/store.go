package vocab

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"brandmonitor/internal/domain"
)

// timestampLayout matches the format the admin UI and existing documents use.
const timestampLayout = "2006-01-02 15:04:05"

// Exporter renders a derivative source-code representation of the vocabulary.
// The JSON document stays authoritative; the export is a convenience mirror.
type Exporter interface {
	Export(v Vocabulary) ([]byte, error)
}

// Store owns the persisted vocabulary document. All mutations rewrite the
// whole document atomically (temp file + rename), so a crash mid-write never
// leaves a half-applied move behind.
type Store struct {
	path       string
	exportPath string
	exporter   Exporter
	logger     *slog.Logger
	clock      func() time.Time

	mu sync.Mutex
}

// StoreOption customizes a Store.
type StoreOption func(*Store)

// WithExporter enables best-effort source export after each mutation.
func WithExporter(e Exporter, path string) StoreOption {
	return func(s *Store) {
		s.exporter = e
		s.exportPath = path
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.clock = now }
}

// NewStore wires a JSON-file-backed store at path.
func NewStore(path string, logger *slog.Logger, opts ...StoreOption) *Store {
	s := &Store{
		path:   path,
		logger: logger,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Load reads the current document. A missing file maps to domain.ErrNotFound;
// callers treat that as an empty vocabulary, not a fatal condition.
func (s *Store) Load() (Vocabulary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (Vocabulary, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return Vocabulary{}, fmt.Errorf("vocabulary document %s: %w", s.path, domain.ErrNotFound)
	}
	if err != nil {
		return Vocabulary{}, fmt.Errorf("read vocabulary: %w", err)
	}

	var v Vocabulary
	if err := json.Unmarshal(raw, &v); err != nil {
		return Vocabulary{}, fmt.Errorf("parse vocabulary: %w", err)
	}
	return v, nil
}

// Save persists the document, bumping lastUpdated, and triggers the
// best-effort export.
func (s *Store) Save(v Vocabulary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(v)
}

func (s *Store) save(v Vocabulary) error {
	v.Metadata.LastUpdated = s.clock().Format(timestampLayout)

	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode vocabulary: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create vocabulary dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write vocabulary: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace vocabulary: %w", err)
	}

	s.export(v)
	return nil
}

// export regenerates the derived source file. Failures are logged, never
// surfaced: the JSON document already committed.
func (s *Store) export(v Vocabulary) {
	if s.exporter == nil || s.exportPath == "" {
		return
	}
	src, err := s.exporter.Export(v)
	if err != nil {
		s.logger.Warn("vocabulary export failed", "error", err)
		return
	}
	if err := os.WriteFile(s.exportPath, src, 0o644); err != nil {
		s.logger.Warn("vocabulary export write failed", "path", s.exportPath, "error", err)
	}
}

// Add inserts a new term into a tier.
func (s *Store) Add(tier TierName, term string, weight float64) error {
	term = strings.TrimSpace(term)
	if err := validateTerm(tier, term, weight); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.load()
	if err != nil {
		return err
	}
	v = v.Clone()

	t := v.Tier(tier)
	if _, exists := t.Weight(term); exists {
		return fmt.Errorf("term %q already exists in %s: %w", term, tier, domain.ErrConflict)
	}
	t.set(term, weight)
	return s.save(v)
}

// Update changes the weight of an existing term.
func (s *Store) Update(tier TierName, term string, weight float64) error {
	term = strings.TrimSpace(term)
	if err := validateTerm(tier, term, weight); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.load()
	if err != nil {
		return err
	}
	v = v.Clone()

	t := v.Tier(tier)
	if _, exists := t.Weight(term); !exists {
		return fmt.Errorf("term %q in %s: %w", term, tier, domain.ErrNotFound)
	}
	t.set(term, weight)
	return s.save(v)
}

// Delete removes a term from a tier.
func (s *Store) Delete(tier TierName, term string) error {
	term = strings.TrimSpace(term)
	if err := validateTerm(tier, term, 1); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.load()
	if err != nil {
		return err
	}
	v = v.Clone()

	if !v.Tier(tier).remove(term) {
		return fmt.Errorf("term %q in %s: %w", term, tier, domain.ErrNotFound)
	}
	return s.save(v)
}

// Move transfers a term between tiers with the given weight. Both steps apply
// to one in-memory copy committed by a single atomic write, so observers never
// see the term in both tiers or in neither.
func (s *Store) Move(from, to TierName, term string, weight float64) error {
	term = strings.TrimSpace(term)
	if err := validateTerm(to, term, weight); err != nil {
		return err
	}
	if _, ok := ParseTierName(string(from)); !ok {
		return fmt.Errorf("unknown tier %q: %w", from, domain.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.load()
	if err != nil {
		return err
	}
	v = v.Clone()

	if !v.Tier(from).remove(term) {
		return fmt.Errorf("term %q in %s: %w", term, from, domain.ErrNotFound)
	}
	v.Tier(to).set(term, weight)
	return s.save(v)
}

// Stats summarizes the vocabulary.
type Stats struct {
	PerTier     map[TierName]int
	Total       int
	LastUpdated string
}

// Stats reports per-tier and total keyword counts.
func (s *Store) Stats() (Stats, error) {
	v, err := s.Load()
	if err != nil {
		return Stats{}, err
	}

	out := Stats{PerTier: map[TierName]int{}, LastUpdated: v.Metadata.LastUpdated}
	for _, name := range TierOrder {
		n := v.Tier(name).Len()
		out.PerTier[name] = n
		out.Total += n
	}
	return out, nil
}

// SearchResult groups substring matches within one tier.
type SearchResult struct {
	Tier        TierName
	Description string
	Entries     []Entry
}

// Search finds terms containing the query substring, grouped per tier in
// precedence order.
func (s *Store) Search(query string) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty query: %w", domain.ErrInvalidArgument)
	}

	v, err := s.Load()
	if err != nil {
		return nil, err
	}

	var results []SearchResult
	for _, name := range TierOrder {
		t := v.Tier(name)
		var hits []Entry
		for _, e := range t.Entries() {
			if strings.Contains(e.Term, query) {
				hits = append(hits, e)
			}
		}
		if len(hits) > 0 {
			results = append(results, SearchResult{Tier: name, Description: t.Description, Entries: hits})
		}
	}
	return results, nil
}

func validateTerm(tier TierName, term string, weight float64) error {
	if _, ok := ParseTierName(string(tier)); !ok {
		return fmt.Errorf("unknown tier %q: %w", tier, domain.ErrInvalidArgument)
	}
	if term == "" {
		return fmt.Errorf("empty term: %w", domain.ErrInvalidArgument)
	}
	if weight <= 0 {
		return fmt.Errorf("weight must be positive: %w", domain.ErrInvalidArgument)
	}
	return nil
}
