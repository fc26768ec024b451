package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func authedHandler(t *testing.T) (http.Handler, *int64, *bool) {
	t.Helper()
	var gotUserID int64
	var gotAdmin bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = getUserIDFromContext(r.Context())
		gotAdmin = isAdmin(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return JWTAuthMiddleware(testSecret)(inner), &gotUserID, &gotAdmin
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	handler, gotUserID, gotAdmin := authedHandler(t)

	token := signToken(t, testSecret, jwt.MapClaims{
		"user_id": 7,
		"role":    "admin",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	request := httptest.NewRequest("GET", "/", nil)
	request.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, int64(7), *gotUserID)
	assert.True(t, *gotAdmin)
}

func TestJWTAuthMiddleware_MissingToken(t *testing.T) {
	handler, _, _ := authedHandler(t)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestJWTAuthMiddleware_WrongSecret(t *testing.T) {
	handler, _, _ := authedHandler(t)

	token := signToken(t, []byte("other-secret"), jwt.MapClaims{
		"user_id": 7,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	request := httptest.NewRequest("GET", "/", nil)
	request.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestJWTAuthMiddleware_ExpiredToken(t *testing.T) {
	handler, _, _ := authedHandler(t)

	token := signToken(t, testSecret, jwt.MapClaims{
		"user_id": 7,
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	request := httptest.NewRequest("GET", "/", nil)
	request.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestJWTAuthMiddleware_MissingUserIDClaim(t *testing.T) {
	handler, _, _ := authedHandler(t)

	token := signToken(t, testSecret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	request := httptest.NewRequest("GET", "/", nil)
	request.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAdminOnly(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := AdminOnly(inner)

	request := httptest.NewRequest("GET", "/", nil)
	ctx := context.WithValue(request.Context(), "role", "user")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request.WithContext(ctx))
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	request = httptest.NewRequest("GET", "/", nil)
	ctx = context.WithValue(request.Context(), "role", RoleAdmin)
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request.WithContext(ctx))
	assert.Equal(t, http.StatusOK, recorder.Code)
}
