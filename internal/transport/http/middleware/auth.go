package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/baechuer/alchies-rsvp/internal/logger"
	appCtx "github.com/baechuer/alchies-rsvp/internal/pkg/context"
	"github.com/baechuer/alchies-rsvp/internal/transport/http/response"
)

type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// AuthMiddleware checks HS256 bearer tokens. With an empty secret it lets
// every request through, matching the open original deployment.
type AuthMiddleware struct {
	secret []byte
	issuer string
}

func NewAuth(secret, issuer string) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(secret), issuer: issuer}
}

func (a *AuthMiddleware) Enabled() bool { return len(a.secret) > 0 }

func (a *AuthMiddleware) Require(next http.Handler) http.Handler {
	if !a.Enabled() {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, err := a.parse(r)
		if err != nil {
			logger.Ctx(r.Context()).Debug().Err(err).Msg("auth rejected")
			response.Fail(w, http.StatusUnauthorized, "Unauthorized", err.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(appCtx.WithUserID(r.Context(), uid)))
	})
}

func (a *AuthMiddleware) parse(r *http.Request) (string, error) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if !strings.HasPrefix(h, "Bearer ") {
		return "", errors.New("missing bearer token")
	}
	raw := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))

	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	}, jwt.WithLeeway(30*time.Second))
	if err != nil {
		return "", err
	}
	if !tok.Valid {
		return "", errors.New("invalid token")
	}
	if a.issuer != "" && claims.Issuer != a.issuer {
		return "", errors.New("invalid issuer")
	}
	if strings.TrimSpace(claims.UserID) == "" {
		return "", errors.New("missing uid")
	}
	return claims.UserID, nil
}
