package matching

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/dogmatch/dogmatch-backend/internal/auth"
	"github.com/dogmatch/dogmatch-backend/internal/common/utils"
)

const testJWTSecret = "test-secret"

func newTestRouter(t *testing.T, repo Repository) *mux.Router {
	t.Helper()
	handler := NewHandler(newTestService(repo, nil))
	router := mux.NewRouter()
	RegisterRoutes(router, handler, auth.NewMiddleware(testJWTSecret))
	return router
}

func accessToken(t *testing.T, userID, role string) string {
	t.Helper()
	token, err := utils.GenerateJWT(&utils.JWTClaims{
		UserID:    userID,
		Role:      role,
		Type:      "access",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
		IssuedAt:  time.Now().Unix(),
	}, testJWTSecret)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

func doRequest(router *mux.Router, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return body
}

func TestFindMatchesEndpoint_RequiresAuth(t *testing.T) {
	router := newTestRouter(t, newFakeRepository(serviceSourceDog()))

	tests := []struct {
		name  string
		token string
	}{
		{"no token", ""},
		{"garbage token", "not.a.jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := doRequest(router, "GET", "/api/v1/matching/dogs/"+testSourceDogID+"/matches", tt.token)
			if recorder.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", recorder.Code)
			}
		})
	}
}

func TestFindMatchesEndpoint_RejectsRefreshToken(t *testing.T) {
	router := newTestRouter(t, newFakeRepository(serviceSourceDog()))

	token, err := utils.GenerateJWT(&utils.JWTClaims{
		UserID:    testOwnerID,
		Type:      "refresh",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}, testJWTSecret)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	recorder := doRequest(router, "GET", "/api/v1/matching/dogs/"+testSourceDogID+"/matches", token)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for refresh token, got %d", recorder.Code)
	}
}

func TestFindMatchesEndpoint_OwnerHappyPath(t *testing.T) {
	repo := newFakeRepository(serviceSourceDog(), serviceCandidateDog(1))
	router := newTestRouter(t, repo)
	token := accessToken(t, testOwnerID, "")

	recorder := doRequest(router, "GET", "/api/v1/matching/dogs/"+testSourceDogID+"/matches", token)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	body := decodeBody(t, recorder)
	if body["success"] != true {
		t.Fatalf("expected success true, got %v", body["success"])
	}
	if body["total"] != float64(1) {
		t.Fatalf("expected total 1, got %v", body["total"])
	}
	matches, ok := body["matches"].([]interface{})
	if !ok || len(matches) != 1 {
		t.Fatalf("expected 1 match entry, got %v", body["matches"])
	}
	entry := matches[0].(map[string]interface{})
	if _, ok := entry["matchScore"]; !ok {
		t.Fatalf("match entry missing matchScore: %v", entry)
	}
	if _, ok := entry["matchReasons"]; !ok {
		t.Fatalf("match entry missing matchReasons: %v", entry)
	}
	source := body["sourceDog"].(map[string]interface{})
	if source["gender"] != "male" {
		t.Fatalf("expected lowercased source gender, got %v", source["gender"])
	}
}

func TestFindMatchesEndpoint_QueryValidation(t *testing.T) {
	router := newTestRouter(t, newFakeRepository(serviceSourceDog()))
	token := accessToken(t, testOwnerID, "")

	tests := []struct {
		name  string
		query string
	}{
		{"bad minScore", "?minScore=abc"},
		{"bad limit", "?limit=abc"},
		{"zero limit", "?limit=0"},
		{"negative limit", "?limit=-5"},
		{"limit above cap", "?limit=101"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := doRequest(router, "GET", "/api/v1/matching/dogs/"+testSourceDogID+"/matches"+tt.query, token)
			if recorder.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", recorder.Code)
			}
		})
	}
}

func TestFindMatchesEndpoint_StatusMapping(t *testing.T) {
	repo := newFakeRepository(serviceSourceDog())
	router := newTestRouter(t, repo)

	tests := []struct {
		name   string
		dogID  string
		userID string
		want   int
	}{
		{"unknown dog", "99999999-9999-9999-9999-999999999999", testOwnerID, http.StatusNotFound},
		{"malformed dog id", "not-a-uuid", testOwnerID, http.StatusBadRequest},
		{"not the owner", testSourceDogID, testOtherOwner, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := accessToken(t, tt.userID, "")
			recorder := doRequest(router, "GET", "/api/v1/matching/dogs/"+tt.dogID+"/matches", token)
			if recorder.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, recorder.Code, recorder.Body.String())
			}
		})
	}
}

func TestFindMatchesEndpoint_AdminRole(t *testing.T) {
	repo := newFakeRepository(serviceSourceDog(), serviceCandidateDog(1))
	router := newTestRouter(t, repo)
	token := accessToken(t, testOtherOwner, auth.RoleAdmin)

	recorder := doRequest(router, "GET", "/api/v1/matching/dogs/"+testSourceDogID+"/matches", token)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected admin to get 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
}

func TestMatchStatsEndpoint(t *testing.T) {
	repo := newFakeRepository(serviceSourceDog(), serviceCandidateDog(1))
	router := newTestRouter(t, repo)
	token := accessToken(t, testOwnerID, "")

	recorder := doRequest(router, "GET", "/api/v1/matching/dogs/"+testSourceDogID+"/stats", token)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	body := decodeBody(t, recorder)
	stats, ok := body["stats"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected stats object, got %v", body)
	}
	for _, field := range []string{"totalPotential", "sameBreed", "nearby", "breedCompatibility"} {
		if _, ok := stats[field]; !ok {
			t.Fatalf("stats missing %q: %v", field, stats)
		}
	}
	if stats["totalPotential"] != float64(1) || stats["breedCompatibility"] != float64(100) {
		t.Fatalf("unexpected stats values: %v", stats)
	}
}

func TestNearbyEndpoint_NoAuthRequired(t *testing.T) {
	dog := serviceCandidateDog(1)
	dog.Latitude, dog.Longitude = ptrFloat(0.1), ptrFloat(0)
	router := newTestRouter(t, newFakeRepository(dog))

	recorder := doRequest(router, "GET", "/api/v1/matching/nearby?lat=0&lng=0", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200 without a token, got %d: %s", recorder.Code, recorder.Body.String())
	}

	body := decodeBody(t, recorder)
	if body["total"] != float64(1) {
		t.Fatalf("expected total 1, got %v", body["total"])
	}
	results := body["results"].([]interface{})
	entry := results[0].(map[string]interface{})
	if _, ok := entry["distance"]; !ok {
		t.Fatalf("nearby entry missing distance: %v", entry)
	}
}

func TestNearbyEndpoint_ParamValidation(t *testing.T) {
	router := newTestRouter(t, newFakeRepository())

	tests := []struct {
		name  string
		query string
	}{
		{"missing lat", "?lng=0"},
		{"missing lng", "?lat=0"},
		{"bad lat", "?lat=abc&lng=0"},
		{"bad lng", "?lat=0&lng=abc"},
		{"bad radius", "?lat=0&lng=0&radius=abc"},
		{"negative radius", "?lat=0&lng=0&radius=-10"},
		{"lat out of range", "?lat=95&lng=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := doRequest(router, "GET", "/api/v1/matching/nearby"+tt.query, "")
			if recorder.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", recorder.Code, recorder.Body.String())
			}
		})
	}
}

func TestNearbyEndpoint_Filters(t *testing.T) {
	lab := serviceCandidateDog(1)
	lab.Latitude, lab.Longitude = ptrFloat(0.1), ptrFloat(0)
	poodle := serviceCandidateDog(2)
	poodle.Breed = "Poodle"
	poodle.Latitude, poodle.Longitude = ptrFloat(0.2), ptrFloat(0)

	router := newTestRouter(t, newFakeRepository(lab, poodle))

	recorder := doRequest(router, "GET", "/api/v1/matching/nearby?lat=0&lng=0&breed=poodle", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	body := decodeBody(t, recorder)
	if body["total"] != float64(1) {
		t.Fatalf("expected breed filter to keep 1 dog, got %v", body["total"])
	}
}
