package matching

import (
	"math"
	"sort"
	"strings"
)

// Defaults applied when a caller leaves the corresponding parameter unset.
const (
	DefaultMinScore = 30
	DefaultLimit    = 10
	DefaultRadiusKm = 50.0
)

// Engine is the breeding compatibility and discovery engine. Every method
// is a pure transformation over the inputs: no state is retained between
// calls, and the candidate pool is never mutated.
type Engine struct {
	scorer *Scorer
}

func NewEngine(scorer *Scorer) *Engine {
	return &Engine{scorer: scorer}
}

// RankResult is one page of ranked matches plus the total number of
// candidates that cleared the threshold before truncation.
type RankResult struct {
	Matches []MatchResult
	Total   int
}

// Rank filters the pool, scores every eligible candidate, drops results
// below minScore, and returns the top matches ordered by score descending.
// Equal scores break by candidate ID ascending so the ordering is
// deterministic. limit <= 0 falls back to DefaultLimit; minScore is used
// as given, including negative values.
func (e *Engine) Rank(source *DogProfile, pool []*DogProfile, minScore, limit int) RankResult {
	if limit <= 0 {
		limit = DefaultLimit
	}

	candidates := EligibleCandidates(source, pool)

	matches := make([]MatchResult, 0, len(candidates))
	for _, candidate := range candidates {
		result := e.scorer.Score(source, candidate)
		if result.Score < minScore {
			continue
		}
		matches = append(matches, result)
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].CandidateDogID < matches[j].CandidateDogID
	})

	total := len(matches)
	if len(matches) > limit {
		matches = matches[:limit]
	}

	return RankResult{Matches: matches, Total: total}
}

// Stats aggregates the eligible pool for a source dog. HasCoordinates
// counts eligible candidates that carry coordinates at all, and is zero
// whenever the source dog itself has no coordinates; it deliberately does
// not measure distance (SearchNearby does).
func (e *Engine) Stats(source *DogProfile, pool []*DogProfile) MatchStats {
	eligible := EligibleCandidates(source, pool)

	stats := MatchStats{TotalPotential: len(eligible)}

	for _, candidate := range eligible {
		if strings.EqualFold(candidate.Breed, source.Breed) {
			stats.SameBreed++
		}
		if source.HasCoordinates() && candidate.HasCoordinates() {
			stats.HasCoordinates++
		}
	}

	if stats.TotalPotential > 0 {
		stats.BreedCompatibilityPercent = int(math.Round(float64(stats.SameBreed) / float64(stats.TotalPotential) * 100))
	}

	return stats
}

// NearbyFilters optionally narrow a radius search before any distance is
// computed. Breed matches as a case-insensitive substring, mirroring the
// browse filters.
type NearbyFilters struct {
	Breed         string
	Gender        Gender
	AvailableOnly bool
}

func (f *NearbyFilters) accepts(dog *DogProfile) bool {
	if f == nil {
		return true
	}
	if f.Breed != "" && !strings.Contains(strings.ToLower(dog.Breed), strings.ToLower(f.Breed)) {
		return false
	}
	if f.Gender != "" && dog.Gender != f.Gender {
		return false
	}
	if f.AvailableOnly && !dog.Available {
		return false
	}
	return true
}

// SearchNearby annotates the pool with distance from an origin point and
// keeps dogs within radiusKm, sorted by distance ascending (ties break by
// dog ID ascending). Dogs without coordinates cannot be placed and are
// skipped. This is plain geographic browsing, independent of breeding
// compatibility; do not confuse it with the coordinate-presence count in
// Stats.
func (e *Engine) SearchNearby(lat, lon, radiusKm float64, pool []*DogProfile, filters *NearbyFilters) []NearbyResult {
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}

	results := make([]NearbyResult, 0)
	for _, dog := range pool {
		if !filters.accepts(dog) {
			continue
		}
		if !dog.HasCoordinates() {
			continue
		}

		distance := DistanceKm(lat, lon, *dog.Latitude, *dog.Longitude)
		if distance > radiusKm {
			continue
		}

		results = append(results, NearbyResult{Dog: dog, DistanceKm: distance})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].DistanceKm != results[j].DistanceKm {
			return results[i].DistanceKm < results[j].DistanceKm
		}
		return results[i].Dog.ID < results[j].Dog.ID
	})

	return results
}
