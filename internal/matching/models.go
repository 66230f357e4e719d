package matching

import (
	"time"

	"github.com/lib/pq"
)

// Gender of a dog listing. The data model is a strict binary; listings
// without a recorded gender are rejected upstream at creation time.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale
}

// Opposite returns the breeding-compatible gender.
func (g Gender) Opposite() Gender {
	if g == GenderMale {
		return GenderFemale
	}
	return GenderMale
}

// DogStatus is the moderation lifecycle of a listing. Only ACTIVE listings
// are eligible candidates.
type DogStatus string

const (
	StatusPending  DogStatus = "PENDING"
	StatusActive   DogStatus = "ACTIVE"
	StatusInactive DogStatus = "INACTIVE"
)

// DogProfile is a read-only snapshot of a dog listing as supplied by the
// data provider. The engine never mutates or persists these.
type DogProfile struct {
	ID          string         `json:"id" db:"id"`
	OwnerID     string         `json:"owner_id" db:"owner_id"`
	Name        string         `json:"name" db:"name"`
	Breed       string         `json:"breed" db:"breed"`
	Gender      Gender         `json:"gender" db:"gender"`
	Age         int            `json:"age" db:"age"`
	Weight      float64        `json:"weight" db:"weight"`
	Temperament pq.StringArray `json:"temperament" db:"temperament"`
	Vaccinated  bool           `json:"vaccinated" db:"vaccinated"`
	Neutered    bool           `json:"neutered" db:"neutered"`
	Available   bool           `json:"available" db:"available"`
	Latitude    *float64       `json:"latitude,omitempty" db:"latitude"`
	Longitude   *float64       `json:"longitude,omitempty" db:"longitude"`
	Status      DogStatus      `json:"status" db:"status"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// HasCoordinates reports whether the listing carries a geocoded location.
func (d *DogProfile) HasCoordinates() bool {
	return d.Latitude != nil && d.Longitude != nil
}

// MatchResult is the scored outcome for one source/candidate pair. It is
// computed per request and never persisted. Score is an unclamped additive
// total: the neuter penalty can drive it negative, and strong pairings can
// exceed 100.
type MatchResult struct {
	SourceDogID    string   `json:"source_dog_id"`
	CandidateDogID string   `json:"candidate_dog_id"`
	Score          int      `json:"score"`
	Reasons        []string `json:"reasons"`
	DistanceKm     *float64 `json:"distance_km,omitempty"`
}

// MatchStats aggregates the eligible pool for a source dog.
//
// HasCoordinates counts eligible candidates that carry coordinates at all;
// it is not a radius filter. The JSON field stays "nearby" because that is
// what the original wire format calls it, but the two notions are kept
// apart in code (see Engine.SearchNearby for the radius-based one).
type MatchStats struct {
	TotalPotential            int `json:"totalPotential"`
	SameBreed                 int `json:"sameBreed"`
	HasCoordinates            int `json:"nearby"`
	BreedCompatibilityPercent int `json:"breedCompatibility"`
}

// NearbyResult is one hit of a radius search: a dog annotated with its
// distance from the origin point.
type NearbyResult struct {
	Dog        *DogProfile `json:"dog"`
	DistanceKm float64     `json:"distance"`
}
