package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeToken(t *testing.T, ja *jwtauth.JWTAuth, claims map[string]interface{}) string {
	t.Helper()
	_, tokenString, err := ja.Encode(claims)
	require.NoError(t, err)
	return tokenString
}

func authChain(ja *jwtauth.JWTAuth) http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return jwtauth.Verifier(ja)(AuthRequired(ok))
}

func doRequest(handler http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthRequiredAdmitsAccessToken(t *testing.T) {
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token := encodeToken(t, ja, map[string]interface{}{
		"user_id": "user-1",
		"role":    "admin",
		"type":    "access",
	})

	rec := doRequest(authChain(ja), token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRequiredRejectsRefreshToken(t *testing.T) {
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token := encodeToken(t, ja, map[string]interface{}{
		"user_id": "user-1",
		"type":    "refresh",
	})

	rec := doRequest(authChain(ja), token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRequiredRejectsTokenWithoutUserID(t *testing.T) {
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token := encodeToken(t, ja, map[string]interface{}{
		"role": "admin",
		"type": "access",
	})

	rec := doRequest(authChain(ja), token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRequiredRejectsMissingToken(t *testing.T) {
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)

	rec := doRequest(authChain(ja), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
