package care

import (
	"context"
	"errors"
)

var (
	// ErrOverloaded is the transient service-busy signal from the generative
	// provider. It is the only error the retry loop retries on.
	ErrOverloaded = errors.New("care: provider overloaded")

	// ErrExhausted means every retry attempt failed with an overload signal.
	ErrExhausted = errors.New("care: retries exhausted")

	// ErrParse means the provider answered but the payload was not the
	// expected JSON. Parse errors are not transient and are never retried.
	ErrParse = errors.New("care: unparseable provider response")

	// ErrEmpty means the lookup provider returned no record for the species.
	ErrEmpty = errors.New("care: no species record found")
)

// Engine is one care-data provider. Implementations are interchangeable; the
// scan pipeline holds exactly one and never knows which.
type Engine interface {
	Name() string
	// CareFor fetches care data for a clean (authority-stripped) scientific
	// name. The returned profile may be partial; callers pass it through
	// Complete before handing it to anyone.
	CareFor(ctx context.Context, scientificName string) (Profile, error)
}

// Topic is one care topic: a short instruction plus a longer explanation.
type Topic struct {
	Instruction string `json:"instruksi"`
	Detail      string `json:"detail"`
}

// Summary is the optional species summary block some providers supply.
type Summary struct {
	Description string `json:"deskripsi,omitempty"`
	Status      string `json:"status,omitempty"`
	Safety      string `json:"keamanan,omitempty"`
	Function    string `json:"fungsi,omitempty"`
}

// Profile is the canonical care output: seven fixed topics. The JSON keys are
// the wire contract the mobile client was built against.
type Profile struct {
	Fertilizer     Topic    `json:"pupuk"`
	Watering       Topic    `json:"air"`
	Light          Topic    `json:"cahaya"`
	Temperature    Topic    `json:"suhu"`
	GrowingMedium  Topic    `json:"media_tanam"`
	Repotting      Topic    `json:"ganti_pot"`
	CommonProblems Topic    `json:"masalah_umum"`
	Summary        *Summary `json:"ringkasan,omitempty"`
}

// topics returns pointers to all seven topics in declaration order.
func (p *Profile) topics() []*Topic {
	return []*Topic{
		&p.Fertilizer, &p.Watering, &p.Light, &p.Temperature,
		&p.GrowingMedium, &p.Repotting, &p.CommonProblems,
	}
}

// Topics returns the seven topics by value, in declaration order.
func (p Profile) Topics() []Topic {
	out := make([]Topic, 0, 7)
	for _, t := range p.topics() {
		out = append(out, *t)
	}
	return out
}
