package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for derived artifacts such as condition records.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Designation is a language-tagged vernacular term for a concept.
type Designation struct {
	Language string
	Value    string
}

// Concept is one entry in a local traditional-medicine vocabulary.
// Code is unique within its System only; lookups must stay system-scoped.
type Concept struct {
	Code         string
	Display      string
	Definition   string
	Designations []Designation
	System       string // stamped at load time, not present in the raw source
}

// Key returns the system-scoped identity of the concept as "system|code".
func (c *Concept) Key() string {
	return c.System + "|" + c.Code
}

// Vernacular returns the canonical vernacular term: the value of the first
// designation, or "" when the concept carries none.
func (c *Concept) Vernacular() string {
	if len(c.Designations) == 0 {
		return ""
	}
	return c.Designations[0].Value
}

// Label renders the human-readable composite used in candidate lists.
func (c *Concept) Label() string {
	return c.Code + ", " + c.System + ": " + c.Display + ", " + c.Vernacular()
}

// MatchSource identifies which strategy produced a candidate.
type MatchSource int

const (
	// MatchPrefix marks candidates from the code prefix pass.
	MatchPrefix MatchSource = iota + 1
	// MatchFuzzy marks candidates from the fuzzy text pass.
	MatchFuzzy
	// MatchSemantic marks candidates from embedding nearest-neighbor search.
	MatchSemantic
)

// MatchCandidate is the unified result shape produced by any matcher.
// Score is matcher-specific: prefix matches use a fixed score above the
// maximum fuzzy ratio, fuzzy and semantic matches use their native scale.
type MatchCandidate struct {
	Code       string
	System     string
	Display    string
	Vernacular string
	Score      float32
	Source     MatchSource
	Label      string
}

// ExternalCandidate is a result returned by the remote classification catalog.
// FromFallback records whether it came from the widened fallback search; the
// flag is diagnostic only and does not affect ranking.
type ExternalCandidate struct {
	Code         string
	Title        string // HTML-stripped
	EntityID     string
	FromFallback bool
}

// Coding is one namespaced code carried by a condition record.
type Coding struct {
	System  string // namespace URI
	Code    string
	Display string
}

// MappingTarget is one remote coding a local concept has been mapped to.
type MappingTarget struct {
	System      string
	Code        string
	Display     string
	Equivalence string
}

// EquivalenceEquivalent is the default equivalence strength for confirmed
// mappings.
const EquivalenceEquivalent = "equivalent"

// Mapping is a persisted equivalence between one local concept and one or
// more remote classification codes. Targets only ever grow; duplicate
// targets collapse to a single entry.
type Mapping struct {
	System    string
	Code      string
	Display   string
	Targets   []MappingTarget
	UpdatedAt time.Time
}

// HasTarget reports whether the mapping already carries a target with the
// same system and code.
func (m *Mapping) HasTarget(system, code string) bool {
	for _, t := range m.Targets {
		if t.System == system && t.Code == code {
			return true
		}
	}
	return false
}

// ConceptVector is a persisted embedding for one vocabulary concept.
type ConceptVector struct {
	System string
	Code   string
	Vector []float32
}

// VectorMatch is a concept vector hit from similarity search.
type VectorMatch struct {
	System string
	Code   string
	Score  float32
}

// ConditionRecord is the terminal dual-coded artifact: a clinical statement
// carrying exactly two codings, one local and one remote. Records are never
// mutated after creation; a new resolution produces a new record.
type ConditionRecord struct {
	ID             ID
	LastUpdated    time.Time
	Codings        []Coding
	SubjectRef     string
	SubjectDisplay string
}
