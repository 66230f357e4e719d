// internal/matching/dto.go
package matching

// DTOs for API requests/responses

// SourceDogSummary is the slim echo of the dog matches were requested for.
type SourceDogSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Breed  string `json:"breed"`
	Gender string `json:"gender"`
	Age    int    `json:"age"`
}

// MatchEntry pairs a candidate listing with its compatibility outcome.
type MatchEntry struct {
	Dog          *DogProfile `json:"dog"`
	MatchScore   int         `json:"matchScore"`
	MatchReasons []string    `json:"matchReasons"`
	Distance     *float64    `json:"distance,omitempty"`
}

// FindMatchesResult is the full payload of a match discovery call. Total is
// the number of candidates that cleared the threshold before the page cap.
type FindMatchesResult struct {
	SourceDog SourceDogSummary `json:"sourceDog"`
	Matches   []MatchEntry     `json:"matches"`
	Total     int              `json:"total"`
}

// FindMatchesParams are the tunables of a match discovery call.
type FindMatchesParams struct {
	DogID    string `validate:"required"`
	MinScore int
	Limit    int `validate:"min=0,max=100"`
}

// NearbySearchParams describe a radius search. Latitude and longitude are
// pointers so that a missing coordinate is distinguishable from zero, which
// is a valid coordinate.
type NearbySearchParams struct {
	Latitude      *float64 `validate:"required"`
	Longitude     *float64 `validate:"required"`
	RadiusKm      float64  `validate:"min=0,max=20000"`
	Breed         string   `validate:"omitempty,max=100"`
	Gender        string   `validate:"omitempty,oneof=MALE FEMALE"`
	AvailableOnly bool
}
