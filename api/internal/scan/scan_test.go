package scan

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Melonns/PlantifyBE/api/internal/care"
	"github.com/Melonns/PlantifyBE/api/internal/identify"
)

type fakeIdentifier struct {
	cands []identify.Candidate
	err   error
	calls int
}

func (f *fakeIdentifier) Identify(context.Context, []byte, string, string) ([]identify.Candidate, error) {
	f.calls++
	return f.cands, f.err
}

type fakeEngine struct {
	profile care.Profile
	err     error
	calls   int
}

func (f *fakeEngine) Name() string { return "fake" }
func (f *fakeEngine) CareFor(context.Context, string) (care.Profile, error) {
	f.calls++
	return f.profile, f.err
}

func monsteraCandidates(score float64) []identify.Candidate {
	return []identify.Candidate{
		{
			ScientificName: "Monstera deliciosa Liebm.",
			CleanName:      "Monstera deliciosa",
			CommonNames:    []string{"Monstera"},
			Score:          score,
		},
		{
			ScientificName: "Epipremnum aureum (Linden & André) G.S.Bunting",
			CleanName:      "Epipremnum aureum",
			Score:          0.05,
		},
	}
}

func fullProfile() care.Profile {
	topic := care.Topic{Instruction: "ins", Detail: "det"}
	return care.Profile{
		Fertilizer: topic, Watering: topic, Light: topic, Temperature: topic,
		GrowingMedium: topic, Repotting: topic, CommonProblems: topic,
	}
}

func TestScanKnownSpecies(t *testing.T) {
	id := &fakeIdentifier{cands: monsteraCandidates(0.82)}
	eng := &fakeEngine{profile: fullProfile()}
	s := New(id, eng, 0.15)

	res, err := s.Scan(context.Background(), Request{Image: []byte{1}, Filename: "m.jpg"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsPlant {
		t.Fatal("IsPlant = false, want true")
	}
	if res.ScientificName != "Monstera deliciosa Liebm." {
		t.Errorf("scientificName = %q, want full authority form", res.ScientificName)
	}
	if res.CommonName != "Monstera" {
		t.Errorf("commonName = %q", res.CommonName)
	}
	if res.Confidence != 0.82 {
		t.Errorf("confidence = %v", res.Confidence)
	}
	if res.Care == nil {
		t.Fatal("care = nil")
	}
	for i, topic := range res.Care.Topics() {
		if topic.Instruction == "" || care.IsFallback(topic) {
			t.Errorf("topic %d = %+v, want populated non-sentinel", i, topic)
		}
	}
}

func TestScanLowConfidenceSkipsEnrichment(t *testing.T) {
	id := &fakeIdentifier{cands: monsteraCandidates(0.05)}
	eng := &fakeEngine{profile: fullProfile()}
	s := New(id, eng, 0.15)

	res, err := s.Scan(context.Background(), Request{Image: []byte{1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsPlant {
		t.Error("IsPlant = true, want false")
	}
	if res.Confidence != 0.05 {
		t.Errorf("confidence = %v", res.Confidence)
	}
	if res.Care != nil {
		t.Errorf("care = %+v, want nil", res.Care)
	}
	if eng.calls != 0 {
		t.Errorf("enrichment calls = %d, want 0", eng.calls)
	}
}

func TestScanGateBoundary(t *testing.T) {
	// exactly at the threshold passes the gate
	id := &fakeIdentifier{cands: monsteraCandidates(0.15)}
	eng := &fakeEngine{profile: fullProfile()}
	s := New(id, eng, 0.15)

	res, err := s.Scan(context.Background(), Request{Image: []byte{1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsPlant {
		t.Error("IsPlant = false at threshold, want true")
	}
	if eng.calls != 1 {
		t.Errorf("enrichment calls = %d, want 1", eng.calls)
	}
}

func TestScanNoMatch(t *testing.T) {
	id := &fakeIdentifier{err: identify.ErrNoMatch}
	eng := &fakeEngine{}
	s := New(id, eng, 0.15)

	_, err := s.Scan(context.Background(), Request{Image: []byte{1}})
	if !errors.Is(err, identify.ErrNoMatch) {
		t.Errorf("error = %v, want ErrNoMatch", err)
	}
	if eng.calls != 0 {
		t.Errorf("enrichment calls = %d, want 0", eng.calls)
	}
}

func TestScanEmptyCandidateListIsNoMatch(t *testing.T) {
	id := &fakeIdentifier{cands: []identify.Candidate{}}
	eng := &fakeEngine{}
	s := New(id, eng, 0.15)

	_, err := s.Scan(context.Background(), Request{Image: []byte{1}})
	if !errors.Is(err, identify.ErrNoMatch) {
		t.Errorf("error = %v, want ErrNoMatch", err)
	}
	if eng.calls != 0 {
		t.Errorf("enrichment calls = %d, want 0", eng.calls)
	}
}

func TestScanUpstreamFailure(t *testing.T) {
	id := &fakeIdentifier{err: fmt.Errorf("%w: plantnet 500", identify.ErrUpstream)}
	s := New(id, &fakeEngine{}, 0.15)

	_, err := s.Scan(context.Background(), Request{Image: []byte{1}})
	if !errors.Is(err, identify.ErrUpstream) {
		t.Errorf("error = %v, want ErrUpstream", err)
	}
}

func TestScanMissingImage(t *testing.T) {
	id := &fakeIdentifier{cands: monsteraCandidates(0.82)}
	s := New(id, &fakeEngine{}, 0.15)

	_, err := s.Scan(context.Background(), Request{})
	if !errors.Is(err, ErrMissingImage) {
		t.Errorf("error = %v, want ErrMissingImage", err)
	}
	if id.calls != 0 {
		t.Errorf("identify calls = %d, want 0", id.calls)
	}
}

func TestScanEnrichmentFailureFallsBack(t *testing.T) {
	failures := []error{
		fmt.Errorf("%w after 3 attempts: busy", care.ErrExhausted),
		fmt.Errorf("%w: not json", care.ErrParse),
		fmt.Errorf("%w: \"Monstera deliciosa\"", care.ErrEmpty),
		errors.New("connection reset"),
	}
	for _, failure := range failures {
		t.Run(failure.Error(), func(t *testing.T) {
			id := &fakeIdentifier{cands: monsteraCandidates(0.40)}
			eng := &fakeEngine{err: failure}
			s := New(id, eng, 0.15)

			res, err := s.Scan(context.Background(), Request{Image: []byte{1}})
			if err != nil {
				t.Fatalf("enrichment failure escalated: %v", err)
			}
			if !res.IsPlant {
				t.Fatal("IsPlant = false, want true despite enrichment failure")
			}
			if res.Care == nil {
				t.Fatal("care = nil")
			}
			for i, topic := range res.Care.Topics() {
				if !care.IsFallback(topic) {
					t.Errorf("topic %d = %+v, want fallback sentinel", i, topic)
				}
			}
		})
	}
}

func TestScanCommonNameFallsBackToCleanName(t *testing.T) {
	cands := monsteraCandidates(0.9)
	cands[0].CommonNames = nil
	id := &fakeIdentifier{cands: cands}
	s := New(id, &fakeEngine{profile: fullProfile()}, 0.15)

	res, err := s.Scan(context.Background(), Request{Image: []byte{1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.CommonName != "Monstera deliciosa" {
		t.Errorf("commonName = %q, want clean scientific name", res.CommonName)
	}
}

func TestScanPartialProfileIsCompleted(t *testing.T) {
	id := &fakeIdentifier{cands: monsteraCandidates(0.9)}
	eng := &fakeEngine{profile: care.Profile{
		Watering: care.Topic{Instruction: "Siram seminggu sekali", Detail: "Jaga media lembap."},
	}}
	s := New(id, eng, 0.15)

	res, err := s.Scan(context.Background(), Request{Image: []byte{1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, topic := range res.Care.Topics() {
		if topic.Instruction == "" || topic.Detail == "" {
			t.Errorf("topic %d left empty after normalization", i)
		}
	}
}
