package vocab

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TierName identifies one of the four priority tiers as it appears in the
// persisted document.
type TierName string

const (
	TierCritical      TierName = "CRITICAL"
	TierStrategic     TierName = "STRATEGIC"
	TierOperational   TierName = "OPERATIONAL"
	TierOpportunities TierName = "OPPORTUNITIES"
)

// TierOrder is the fixed precedence order used by the classifier and by the
// persisted document layout.
var TierOrder = []TierName{TierCritical, TierStrategic, TierOperational, TierOpportunities}

// ParseTierName normalizes a user-supplied tier name. The second return is
// false for unknown tiers.
func ParseTierName(name string) (TierName, bool) {
	switch TierName(name) {
	case TierCritical, TierStrategic, TierOperational, TierOpportunities:
		return TierName(name), true
	}
	return "", false
}

// Entry is a single weighted keyword.
type Entry struct {
	Term   string
	Weight float64
}

// Tier is an insertion-ordered term -> weight set with a description.
// Order matters: it drives matched-keyword ordering in classification and is
// preserved across JSON round-trips.
type Tier struct {
	Description string
	entries     []Entry
	index       map[string]int
}

// NewTier builds a tier from entries in the given order. Used by callers
// assembling partial views (e.g. search results) that must keep term order.
func NewTier(description string, entries []Entry) Tier {
	t := Tier{Description: description}
	for _, e := range entries {
		t.set(e.Term, e.Weight)
	}
	return t
}

// Len reports the number of terms in the tier.
func (t *Tier) Len() int { return len(t.entries) }

// Entries returns the keywords in insertion order. The slice is a copy.
func (t *Tier) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Weight looks up a term's weight.
func (t *Tier) Weight(term string) (float64, bool) {
	if t.index == nil {
		return 0, false
	}
	i, ok := t.index[term]
	if !ok {
		return 0, false
	}
	return t.entries[i].Weight, true
}

// set inserts or overwrites a term, keeping insertion order for new terms.
func (t *Tier) set(term string, weight float64) {
	if t.index == nil {
		t.index = map[string]int{}
	}
	if i, ok := t.index[term]; ok {
		t.entries[i].Weight = weight
		return
	}
	t.index[term] = len(t.entries)
	t.entries = append(t.entries, Entry{Term: term, Weight: weight})
}

// remove deletes a term; it reports whether the term existed.
func (t *Tier) remove(term string) bool {
	i, ok := t.index[term]
	if !ok {
		return false
	}
	t.entries = append(t.entries[:i], t.entries[i+1:]...)
	delete(t.index, term)
	for j := i; j < len(t.entries); j++ {
		t.index[t.entries[j].Term] = j
	}
	return true
}

// clone returns a deep copy.
func (t *Tier) clone() Tier {
	out := Tier{Description: t.Description}
	for _, e := range t.entries {
		out.set(e.Term, e.Weight)
	}
	return out
}

// MarshalJSON renders {"description": ..., "keywords": {...}} with keywords in
// insertion order.
func (t Tier) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"description":`)
	desc, err := json.Marshal(t.Description)
	if err != nil {
		return nil, err
	}
	buf.Write(desc)
	buf.WriteString(`,"keywords":{`)
	for i, e := range t.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		term, err := json.Marshal(e.Term)
		if err != nil {
			return nil, err
		}
		buf.Write(term)
		buf.WriteByte(':')
		weight, err := json.Marshal(e.Weight)
		if err != nil {
			return nil, err
		}
		buf.Write(weight)
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the tier object preserving keyword key order, which the
// generic map decode would lose.
func (t *Tier) UnmarshalJSON(data []byte) error {
	*t = Tier{}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		switch key {
		case "description":
			tok, err := dec.Token()
			if err != nil {
				return err
			}
			if s, ok := tok.(string); ok {
				t.Description = s
			}
		case "keywords":
			if err := t.decodeKeywords(dec); err != nil {
				return err
			}
		default:
			// Tolerate unknown fields by consuming their value.
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return err
			}
		}
	}
	_, err := dec.Token() // closing brace
	return err
}

func (t *Tier) decodeKeywords(dec *json.Decoder) error {
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		term, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("keyword term is not a string")
		}
		valTok, err := dec.Token()
		if err != nil {
			return err
		}
		num, ok := valTok.(json.Number)
		if !ok {
			return fmt.Errorf("weight for %q is not a number", term)
		}
		weight, err := num.Float64()
		if err != nil {
			return fmt.Errorf("weight for %q: %w", term, err)
		}
		t.set(term, weight)
	}
	_, err := dec.Token() // closing brace
	return err
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// Metadata carries document bookkeeping fields.
type Metadata struct {
	LastUpdated string `json:"lastUpdated"`
	Maintainer  string `json:"maintainer"`
}

// Vocabulary is the full keyword document. Field order matches the persisted
// layout, so marshaling reproduces it byte-compatibly.
type Vocabulary struct {
	Critical      Tier     `json:"CRITICAL"`
	Strategic     Tier     `json:"STRATEGIC"`
	Operational   Tier     `json:"OPERATIONAL"`
	Opportunities Tier     `json:"OPPORTUNITIES"`
	Metadata      Metadata `json:"metadata"`
}

// Tier returns the named tier, or nil for an unknown name.
func (v *Vocabulary) Tier(name TierName) *Tier {
	switch name {
	case TierCritical:
		return &v.Critical
	case TierStrategic:
		return &v.Strategic
	case TierOperational:
		return &v.Operational
	case TierOpportunities:
		return &v.Opportunities
	}
	return nil
}

// Clone returns a deep copy safe to mutate independently.
func (v Vocabulary) Clone() Vocabulary {
	return Vocabulary{
		Critical:      v.Critical.clone(),
		Strategic:     v.Strategic.clone(),
		Operational:   v.Operational.clone(),
		Opportunities: v.Opportunities.clone(),
		Metadata:      v.Metadata,
	}
}

// TotalTerms counts keywords across all tiers.
func (v Vocabulary) TotalTerms() int {
	total := 0
	for _, name := range TierOrder {
		total += v.Tier(name).Len()
	}
	return total
}
