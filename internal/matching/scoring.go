package matching

import (
	"fmt"
	"math"
	"strings"
)

// Point contributions for each compatibility factor. The total is a plain
// sum: it is not normalized to 100, and the neuter penalty can push it
// below zero.
const (
	breedMatchPoints   = 50
	breedMixPoints     = 10
	ageClosePoints     = 20
	ageNearPoints      = 10
	vaccinatedPoints   = 10
	notNeuteredPoints  = 10
	neuteredPenalty    = 50
	distanceNearPoints = 30
	distanceMidPoints  = 20
	distanceFarPoints  = 10
	temperamentPoints  = 10
)

const reasonSameGender = "Same gender - not compatible"

// Scorer computes compatibility scores for pairs of dog profiles. It is
// stateless and safe for concurrent use.
type Scorer struct {
	clampAtZero bool
}

// ScorerOption configures a Scorer.
type ScorerOption func(*Scorer)

// WithClampAtZero floors negative totals at zero. Off by default: callers
// that threshold on minScore are calibrated against the unclamped range,
// and a silently clamped score would hide the neuter penalty from audits.
func WithClampAtZero() ScorerOption {
	return func(s *Scorer) { s.clampAtZero = true }
}

func NewScorer(opts ...ScorerOption) *Scorer {
	s := &Scorer{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score evaluates how suitable two dogs are as breeding partners. Same-sex
// pairs short-circuit to zero with a single reason; otherwise each factor
// contributes independently, appending a human-readable reason in factor
// order (breed, age, health, neuter, distance, temperament).
func (s *Scorer) Score(source, target *DogProfile) MatchResult {
	result := MatchResult{
		SourceDogID:    source.ID,
		CandidateDogID: target.ID,
	}

	// Opposite gender is required for breeding; nothing else matters.
	if source.Gender == target.Gender {
		result.Reasons = []string{reasonSameGender}
		return result
	}

	score := 0
	reasons := []string{}

	if strings.EqualFold(source.Breed, target.Breed) {
		score += breedMatchPoints
		reasons = append(reasons, "Same breed")
	} else {
		score += breedMixPoints
		reasons = append(reasons, "Different breed (mixed breeding)")
	}

	ageDiff := source.Age - target.Age
	if ageDiff < 0 {
		ageDiff = -ageDiff
	}
	if ageDiff <= 2 {
		score += ageClosePoints
		reasons = append(reasons, "Similar age")
	} else if ageDiff <= 4 {
		score += ageNearPoints
		reasons = append(reasons, "Close in age")
	}

	if source.Vaccinated && target.Vaccinated {
		score += vaccinatedPoints
		reasons = append(reasons, "Both vaccinated")
	}

	if !source.Neutered && !target.Neutered {
		score += notNeuteredPoints
		reasons = append(reasons, "Both not neutered")
	} else {
		score -= neuteredPenalty
		reasons = append(reasons, "One or both neutered - not suitable for breeding")
	}

	if source.HasCoordinates() && target.HasCoordinates() {
		distance := DistanceKm(*source.Latitude, *source.Longitude, *target.Latitude, *target.Longitude)
		result.DistanceKm = &distance
		km := int(math.Round(distance))

		switch {
		case distance <= 25:
			score += distanceNearPoints
			reasons = append(reasons, fmt.Sprintf("Very close (%dkm away)", km))
		case distance <= 50:
			score += distanceMidPoints
			reasons = append(reasons, fmt.Sprintf("Close by (%dkm away)", km))
		case distance <= 100:
			score += distanceFarPoints
			reasons = append(reasons, fmt.Sprintf("Within reach (%dkm away)", km))
		default:
			reasons = append(reasons, fmt.Sprintf("Far away (%dkm away)", km))
		}
	}

	if common := commonTraits(source.Temperament, target.Temperament); common > 0 {
		score += temperamentPoints
		reasons = append(reasons, fmt.Sprintf("Compatible temperament (%d common traits)", common))
	}

	if s.clampAtZero && score < 0 {
		score = 0
	}

	result.Score = score
	result.Reasons = reasons
	return result
}

// commonTraits counts temperament tags present in both sets.
func commonTraits(traits1, traits2 []string) int {
	traitSet := make(map[string]bool, len(traits1))
	for _, trait := range traits1 {
		traitSet[trait] = true
	}

	count := 0
	for _, trait := range traits2 {
		if traitSet[trait] {
			count++
		}
	}

	return count
}
