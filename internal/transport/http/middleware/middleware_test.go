package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"

	appCtx "github.com/baechuer/alchies-rsvp/internal/pkg/context"
)

func TestAuthMiddleware_Require(t *testing.T) {
	secret := "test-secret"
	issuer := "test-issuer"
	auth := NewAuth(secret, issuer)

	generateToken := func(uid, iss, secret string, expired bool) string {
		exp := time.Now().Add(time.Hour)
		if expired {
			exp = time.Now().Add(-time.Hour)
		}
		claims := Claims{
			UserID: uid,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    iss,
				ExpiresAt: jwt.NewNumericDate(exp),
			},
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		ss, _ := token.SignedString([]byte(secret))
		return ss
	}

	run := func(header string) (*httptest.ResponseRecorder, string) {
		req := httptest.NewRequest(http.MethodPost, "/events", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rr := httptest.NewRecorder()
		var seen string
		auth.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = appCtx.GetUserID(r.Context())
			w.WriteHeader(http.StatusOK)
		})).ServeHTTP(rr, req)
		return rr, seen
	}

	t.Run("valid_token_should_pass_and_set_context", func(t *testing.T) {
		rr, uid := run("Bearer " + generateToken("user-123", issuer, secret, false))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "user-123", uid)
	})

	t.Run("expired_token_should_fail", func(t *testing.T) {
		rr, _ := run("Bearer " + generateToken("user-1", issuer, secret, true))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), `"message":"Unauthorized"`)
	})

	t.Run("wrong_secret_should_fail", func(t *testing.T) {
		rr, _ := run("Bearer " + generateToken("user-1", issuer, "wrong-secret", false))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("wrong_issuer_should_fail", func(t *testing.T) {
		rr, _ := run("Bearer " + generateToken("user-1", "other", secret, false))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("missing_header_should_fail", func(t *testing.T) {
		rr, _ := run("")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("disabled_without_secret", func(t *testing.T) {
		open := NewAuth("", "")
		assert.False(t, open.Enabled())

		rr := httptest.NewRecorder()
		open.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/events", nil))
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = appCtx.GetRequestID(r.Context())
	}))

	t.Run("propagates_incoming", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderXRequestID, "req-1")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.Equal(t, "req-1", seen)
		assert.Equal(t, "req-1", rr.Header().Get(HeaderXRequestID))
	})

	t.Run("generates_when_missing", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rr.Header().Get(HeaderXRequestID))
	})
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	prev := zlog.Logger
	zlog.Logger = zerolog.New(&buf)
	t.Cleanup(func() { zlog.Logger = prev })

	req := httptest.NewRequest(http.MethodGet, "/test-path", nil)
	rr := httptest.NewRecorder()

	AccessLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("hello"))
	})).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "hello", rr.Body.String())
	assert.Contains(t, buf.String(), `"path":"/test-path"`)
	assert.Contains(t, buf.String(), `"status":201`)
	assert.Contains(t, buf.String(), `"bytes":5`)
}

func TestSecurityHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).
		ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "cross-origin", rr.Header().Get("Cross-Origin-Resource-Policy"))
}

func TestMetrics_PassesThrough(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/events/42", nil))
	assert.Equal(t, http.StatusTeapot, rr.Code)
}
