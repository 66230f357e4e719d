// internal/matching/service.go

package matching

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/dogmatch/dogmatch-backend/internal/common/utils"
)

var (
	ErrDogNotFound        = errors.New("dog not found")
	ErrNotAuthorized      = errors.New("not authorized to view matches for this dog")
	ErrInvalidDogID       = errors.New("invalid dog ID")
	ErrInvalidCoordinates = errors.New("latitude and longitude are required and must be in range")
)

// Caller identifies who is asking. Ownership checks run here, before the
// engine; token validation happens upstream in the auth middleware.
type Caller struct {
	UserID  string
	IsAdmin bool
}

type Service interface {
	FindMatches(ctx context.Context, caller Caller, params *FindMatchesParams) (*FindMatchesResult, error)
	GetMatchStats(ctx context.Context, caller Caller, dogID string) (*MatchStats, error)
	SearchNearby(ctx context.Context, params *NearbySearchParams) ([]NearbyResult, error)
}

type service struct {
	repo   Repository
	engine *Engine
	cache  *MatchCache // nil when Redis is not configured
}

func NewService(repo Repository, engine *Engine, cache *MatchCache) Service {
	return &service{
		repo:   repo,
		engine: engine,
		cache:  cache,
	}
}

func (s *service) FindMatches(ctx context.Context, caller Caller, params *FindMatchesParams) (*FindMatchesResult, error) {
	if err := utils.ValidateStruct(params); err != nil {
		return nil, ErrInvalidDogID
	}

	source, err := s.loadAuthorizedDog(ctx, caller, params.DogID)
	if err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	cacheKey := ""
	if s.cache != nil {
		if version, verr := s.repo.CandidatePoolVersion(ctx); verr == nil {
			cacheKey = s.cache.Key(source.ID, params.MinScore, limit, version)
			if cached, ok := s.cache.GetMatches(ctx, cacheKey); ok {
				RecordCacheLookup("hit")
				return cached, nil
			}
			RecordCacheLookup("miss")
		} else {
			log.Printf("matching: pool version lookup failed, skipping cache: %v", verr)
		}
	}

	pool, err := s.repo.GetActiveCandidatePool(ctx, source.OwnerID)
	if err != nil {
		return nil, err
	}

	ranked := s.engine.Rank(source, pool, params.MinScore, limit)

	byID := make(map[string]*DogProfile, len(pool))
	for _, dog := range pool {
		byID[dog.ID] = dog
	}

	entries := make([]MatchEntry, 0, len(ranked.Matches))
	for _, match := range ranked.Matches {
		RecordCompatibilityScore(match.Score)
		entries = append(entries, MatchEntry{
			Dog:          byID[match.CandidateDogID],
			MatchScore:   match.Score,
			MatchReasons: match.Reasons,
			Distance:     match.DistanceKm,
		})
	}

	result := &FindMatchesResult{
		SourceDog: summarize(source),
		Matches:   entries,
		Total:     ranked.Total,
	}

	if s.cache != nil && cacheKey != "" {
		s.cache.SetMatches(ctx, cacheKey, result)
	}

	RecordMatchRequest("ok")
	return result, nil
}

func (s *service) GetMatchStats(ctx context.Context, caller Caller, dogID string) (*MatchStats, error) {
	source, err := s.loadAuthorizedDog(ctx, caller, dogID)
	if err != nil {
		return nil, err
	}

	pool, err := s.repo.GetActiveCandidatePool(ctx, source.OwnerID)
	if err != nil {
		return nil, err
	}

	stats := s.engine.Stats(source, pool)
	RecordStatsRequest()
	return &stats, nil
}

func (s *service) SearchNearby(ctx context.Context, params *NearbySearchParams) ([]NearbyResult, error) {
	if err := utils.ValidateStruct(params); err != nil {
		return nil, ErrInvalidCoordinates
	}
	if !ValidCoordinates(*params.Latitude, *params.Longitude) {
		return nil, ErrInvalidCoordinates
	}

	pool, err := s.repo.GetActiveDogs(ctx)
	if err != nil {
		return nil, err
	}

	var filters *NearbyFilters
	if params.Breed != "" || params.Gender != "" || params.AvailableOnly {
		filters = &NearbyFilters{
			Breed:         params.Breed,
			Gender:        Gender(params.Gender),
			AvailableOnly: params.AvailableOnly,
		}
	}

	results := s.engine.SearchNearby(*params.Latitude, *params.Longitude, params.RadiusKm, pool, filters)
	RecordNearbySearch()
	return results, nil
}

// loadAuthorizedDog resolves a dog id and checks the caller may view its
// matches: only the owner or an administrator.
func (s *service) loadAuthorizedDog(ctx context.Context, caller Caller, dogID string) (*DogProfile, error) {
	if _, err := uuid.Parse(dogID); err != nil {
		return nil, ErrInvalidDogID
	}

	dog, err := s.repo.GetDogByID(ctx, dogID)
	if err != nil {
		return nil, err
	}

	if dog.OwnerID != caller.UserID && !caller.IsAdmin {
		return nil, ErrNotAuthorized
	}

	return dog, nil
}

func summarize(dog *DogProfile) SourceDogSummary {
	return SourceDogSummary{
		ID:     dog.ID,
		Name:   dog.Name,
		Breed:  dog.Breed,
		Gender: strings.ToLower(string(dog.Gender)),
		Age:    dog.Age,
	}
}
