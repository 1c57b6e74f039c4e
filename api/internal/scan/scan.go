// Package scan runs the identification-and-enrichment pipeline: classify the
// uploaded photo, gate on confidence, fetch care data, normalize, assemble.
package scan

import (
	"context"
	"errors"
	"time"

	"github.com/apex/log"

	"github.com/Melonns/PlantifyBE/api/internal/care"
	"github.com/Melonns/PlantifyBE/api/internal/identify"
	"github.com/Melonns/PlantifyBE/api/internal/metrics"
)

// ErrMissingImage is a client input error: nothing to classify.
var ErrMissingImage = errors.New("scan: missing image payload")

// Request carries one uploaded photo. Request-scoped, discarded after the
// pipeline completes.
type Request struct {
	Image     []byte
	MediaType string
	Filename  string
}

// Result is the final scan payload. When IsPlant is false only the
// confidence is meaningful.
type Result struct {
	IsPlant        bool          `json:"isPlant"`
	ScientificName string        `json:"scientificName,omitempty"`
	CommonName     string        `json:"commonName,omitempty"`
	Confidence     float64       `json:"confidence"`
	Care           *care.Profile `json:"care,omitempty"`
}

// Identifier is the classification boundary the pipeline depends on.
type Identifier interface {
	Identify(ctx context.Context, image []byte, mediaType, filename string) ([]identify.Candidate, error)
}

// Scanner owns the pipeline's failure policy: everything up to and including
// the confidence gate is request-fatal, everything after it is absorbed.
type Scanner struct {
	Identifier Identifier
	Care       care.Engine
	Threshold  float64
}

func New(id Identifier, eng care.Engine, threshold float64) *Scanner {
	return &Scanner{Identifier: id, Care: eng, Threshold: threshold}
}

// Scan runs the whole pipeline for one request. The returned error is one of
// ErrMissingImage, identify.ErrNoMatch or identify.ErrUpstream (wrapped);
// enrichment failures never surface as errors.
func (s *Scanner) Scan(ctx context.Context, req Request) (Result, error) {
	started := time.Now()
	defer func() { metrics.ScanDurationSeconds.Observe(time.Since(started).Seconds()) }()

	if len(req.Image) == 0 {
		metrics.ScansTotal.WithLabelValues("missing_image").Inc()
		return Result{}, ErrMissingImage
	}

	log.Infof("scan: classifying %q (%d bytes)", req.Filename, len(req.Image))
	cands, err := s.Identifier.Identify(ctx, req.Image, req.MediaType, req.Filename)
	if err != nil {
		if errors.Is(err, identify.ErrNoMatch) {
			metrics.ScansTotal.WithLabelValues("no_match").Inc()
		} else {
			metrics.ScansTotal.WithLabelValues("upstream_error").Inc()
			log.Errorf("scan: identification failed: %v", err)
		}
		return Result{}, err
	}

	if len(cands) == 0 {
		metrics.ScansTotal.WithLabelValues("no_match").Inc()
		return Result{}, identify.ErrNoMatch
	}

	// Only the top candidate is ever consumed; the provider orders by
	// descending score.
	top := cands[0]
	if top.Score < s.Threshold {
		log.Infof("scan: below confidence gate (%.3f < %.3f)", top.Score, s.Threshold)
		metrics.ScansTotal.WithLabelValues("not_plant").Inc()
		return Result{IsPlant: false, Confidence: top.Score}, nil
	}

	log.Infof("scan: enriching %q via %s", top.CleanName, s.Care.Name())
	profile := s.enrich(ctx, top.CleanName)

	// Normalizing: whatever came back, every topic key must be present.
	profile = care.Complete(profile)

	metrics.ScansTotal.WithLabelValues("success").Inc()
	return Result{
		IsPlant:        true,
		ScientificName: top.ScientificName,
		CommonName:     top.BestCommonName(),
		Confidence:     top.Score,
		Care:           &profile,
	}, nil
}

// enrich calls the care engine and absorbs every failure into the fallback
// profile. Species identification is the higher-value result; losing care
// data must never fail the scan.
func (s *Scanner) enrich(ctx context.Context, cleanName string) care.Profile {
	profile, err := s.Care.CareFor(ctx, cleanName)
	if err != nil {
		log.Errorf("scan: care enrichment failed for %q: %v", cleanName, err)
		metrics.CareAttemptsTotal.WithLabelValues(s.Care.Name(), "error").Inc()
		metrics.CareFallbackTotal.Inc()
		return care.Fallback()
	}
	metrics.CareAttemptsTotal.WithLabelValues(s.Care.Name(), "ok").Inc()
	return profile
}
