package identify

import "errors"

var (
	// ErrNoMatch means the provider answered normally but recognized nothing.
	// This is an expected outcome, not an upstream failure.
	ErrNoMatch = errors.New("identify: no species matched")

	// ErrUpstream means the provider was unreachable or answered non-2xx.
	ErrUpstream = errors.New("identify: upstream unavailable")
)

// Candidate is one species guess. The provider returns candidates ordered by
// descending score; callers rely on that order and never re-sort.
type Candidate struct {
	// ScientificName is the full form, with taxonomic authority
	// ("Monstera deliciosa Liebm.").
	ScientificName string
	// CleanName is the binomial without the authority suffix, used as the
	// care enrichment query key.
	CleanName string
	// CommonNames as supplied by the vendor, may be empty.
	CommonNames []string
	// Score in [0,1].
	Score float64
}

// BestCommonName is the display name: first vendor common name when present,
// else the clean scientific name.
func (c Candidate) BestCommonName() string {
	if len(c.CommonNames) > 0 && c.CommonNames[0] != "" {
		return c.CommonNames[0]
	}
	return c.CleanName
}
