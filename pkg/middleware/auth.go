package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/fabricio2fb/reviewlar/pkg/errors"
	"github.com/fabricio2fb/reviewlar/pkg/httputil"
)

type sessionKey struct{}

// Session is the verified identity behind an admin request.
type Session struct {
	UserID    string
	Email     string
	Role      string
	ExpiresAt time.Time
}

// sessionClaims is the access-token payload issued by the auth provider.
type sessionClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// SessionVerifier checks HS256 access tokens signed with a shared secret.
type SessionVerifier struct {
	secret   []byte
	audience string
}

// NewSessionVerifier returns a verifier. An empty audience skips the aud check.
func NewSessionVerifier(secret, audience string) *SessionVerifier {
	return &SessionVerifier{secret: []byte(secret), audience: audience}
}

// Verify parses token and returns the session it carries.
func (v *SessionVerifier) Verify(token string) (*Session, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}

	s := &Session{UserID: claims.Subject, Email: claims.Email, Role: claims.Role}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

// RequireSession rejects requests without a valid bearer token and stores the
// session in the context otherwise.
func RequireSession(v *SessionVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				httputil.WriteError(w, r, apperrors.Unauthorized("missing bearer token"), logger)
				return
			}

			session, err := v.Verify(token)
			if err != nil {
				logger.WarnContext(r.Context(), "session rejected",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()),
				)
				httputil.WriteError(w, r, apperrors.Unauthorized("invalid or expired session"), logger)
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey{}, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

// SessionFromContext returns the session set by RequireSession, or nil.
func SessionFromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}

// UserIDFromContext returns the session's user id, or "".
func UserIDFromContext(ctx context.Context) string {
	if s := SessionFromContext(ctx); s != nil {
		return s.UserID
	}
	return ""
}
