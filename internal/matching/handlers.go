package matching

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/dogmatch/dogmatch-backend/internal/auth"
	"github.com/dogmatch/dogmatch-backend/internal/common/utils"
)

// HandlerConfig tunes the per-request defaults and caps.
type HandlerConfig struct {
	DefaultMinScore int
	DefaultLimit    int
	MaxLimit        int
	DefaultRadiusKm float64
}

type Handler struct {
	service Service
	cfg     HandlerConfig
}

func NewHandler(service Service) *Handler {
	return NewHandlerWithConfig(service, HandlerConfig{
		DefaultMinScore: DefaultMinScore,
		DefaultLimit:    DefaultLimit,
		MaxLimit:        100,
		DefaultRadiusKm: DefaultRadiusKm,
	})
}

func NewHandlerWithConfig(service Service, cfg HandlerConfig) *Handler {
	return &Handler{service: service, cfg: cfg}
}

func (h *Handler) FindMatches(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	params := &FindMatchesParams{
		DogID:    mux.Vars(r)["dogId"],
		MinScore: h.cfg.DefaultMinScore,
		Limit:    h.cfg.DefaultLimit,
	}

	if raw := r.URL.Query().Get("minScore"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid minScore parameter")
			return
		}
		params.MinScore = value
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 1 || value > h.cfg.MaxLimit {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		params.Limit = value
	}

	result, err := h.service.FindMatches(r.Context(), caller, params)
	if err != nil {
		h.respondServiceError(w, err, "Failed to find matches")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"sourceDog": result.SourceDog,
		"matches":   result.Matches,
		"total":     result.Total,
	})
}

func (h *Handler) GetMatchStats(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	stats, err := h.service.GetMatchStats(r.Context(), caller, mux.Vars(r)["dogId"])
	if err != nil {
		h.respondServiceError(w, err, "Failed to get match stats")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"stats":   stats,
	})
}

func (h *Handler) SearchNearby(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	params := &NearbySearchParams{
		RadiusKm:      h.cfg.DefaultRadiusKm,
		Breed:         query.Get("breed"),
		Gender:        query.Get("gender"),
		AvailableOnly: query.Get("availableOnly") == "true",
	}

	lat, ok := parseFloatParam(w, query.Get("lat"), "lat")
	if !ok {
		return
	}
	params.Latitude = lat

	lng, ok := parseFloatParam(w, query.Get("lng"), "lng")
	if !ok {
		return
	}
	params.Longitude = lng

	if raw := query.Get("radius"); raw != "" {
		radius, err := strconv.ParseFloat(raw, 64)
		if err != nil || radius <= 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid radius parameter")
			return
		}
		params.RadiusKm = radius
	}

	results, err := h.service.SearchNearby(r.Context(), params)
	if err != nil {
		h.respondServiceError(w, err, "Failed to search nearby dogs")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"results": results,
		"total":   len(results),
	})
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case ErrDogNotFound:
		utils.RespondWithError(w, http.StatusNotFound, "Dog not found")
	case ErrNotAuthorized:
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
	case ErrInvalidDogID, ErrInvalidCoordinates:
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}

// parseFloatParam parses a required float query parameter, writing a 400
// response when it is missing or malformed. nil latitude/longitude never
// reaches the service.
func parseFloatParam(w http.ResponseWriter, raw, name string) (*float64, bool) {
	if raw == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing "+name+" parameter")
		return nil, false
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid "+name+" parameter")
		return nil, false
	}

	return &value, true
}

func callerFromRequest(r *http.Request) (Caller, bool) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		return Caller{}, false
	}
	return Caller{UserID: userID, IsAdmin: auth.IsAdminFromContext(r.Context())}, true
}
