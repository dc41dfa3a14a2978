package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabricio2fb/reviewlar/pkg/httputil"
	"github.com/fabricio2fb/reviewlar/pkg/logger"
)

const testSecret = "super-secret-jwt-token-with-at-least-32-characters"

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":   "user-123",
		"email": "editor@reviewlar.com.br",
		"role":  "authenticated",
		"aud":   "authenticated",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
}

func TestSessionVerifier_Valid(t *testing.T) {
	v := NewSessionVerifier(testSecret, "authenticated")

	s, err := v.Verify(signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims()))
	require.NoError(t, err)
	assert.Equal(t, "user-123", s.UserID)
	assert.Equal(t, "editor@reviewlar.com.br", s.Email)
	assert.Equal(t, "authenticated", s.Role)
	assert.False(t, s.ExpiresAt.IsZero())
}

func TestSessionVerifier_Rejects(t *testing.T) {
	v := NewSessionVerifier(testSecret, "authenticated")

	expired := validClaims()
	expired["exp"] = time.Now().Add(-time.Minute).Unix()

	wrongAud := validClaims()
	wrongAud["aud"] = "anon"

	noExp := validClaims()
	delete(noExp, "exp")

	noSub := validClaims()
	delete(noSub, "sub")

	tests := []struct {
		name  string
		token string
	}{
		{"expired", signToken(t, jwt.SigningMethodHS256, []byte(testSecret), expired)},
		{"wrong audience", signToken(t, jwt.SigningMethodHS256, []byte(testSecret), wrongAud)},
		{"missing exp", signToken(t, jwt.SigningMethodHS256, []byte(testSecret), noExp)},
		{"missing sub", signToken(t, jwt.SigningMethodHS256, []byte(testSecret), noSub)},
		{"wrong secret", signToken(t, jwt.SigningMethodHS256, []byte("another-secret"), validClaims())},
		{"wrong alg", signToken(t, jwt.SigningMethodHS512, []byte(testSecret), validClaims())},
		{"garbage", "not.a.jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.token)
			assert.Error(t, err)
		})
	}
}

func TestRequireSession(t *testing.T) {
	v := NewSessionVerifier(testSecret, "")
	var got *Session
	h := RequireSession(v, logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = SessionFromContext(r.Context())
		assert.Equal(t, "user-123", UserIDFromContext(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims()))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "user-123", got.UserID)
}

func TestRequireSession_Unauthorized(t *testing.T) {
	v := NewSessionVerifier(testSecret, "")
	h := RequireSession(v, logger.Discard())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	for _, header := range []string{"", "Basic abc", "Bearer ", "Bearer nope"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
		var resp httputil.Response
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
	}
}

func TestSessionFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, SessionFromContext(req.Context()))
	assert.Empty(t, UserIDFromContext(req.Context()))
}
