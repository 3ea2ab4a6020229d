package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"leasehub-backend/internal/config"
	"leasehub-backend/internal/logger"
	"leasehub-backend/internal/security"
	"leasehub-backend/internal/service"
)

const (
	requestIDHeader = "X-Request-ID"
	docuSignHeader  = "X-DocuSign-Signature-1"
)

type actorKey struct{}

func withActor(ctx context.Context, a service.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// actorFrom returns the authenticated caller. Only valid behind authenticate.
func actorFrom(r *http.Request) service.Actor {
	a, _ := r.Context().Value(actorKey{}).(service.Actor)
	return a
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(r.Context(), "Handler panicked", "panic", rec, "path", r.URL.Path, "stack", string(debug.Stack()))
				writeMessage(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// requestLogger tags the request with an id and logs its outcome.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := logger.WithRequestID(r.Context(), id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(ctx))

		logger.InfoContext(ctx, "HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func cors(allowed []string) func(http.Handler) http.Handler {
	wildcard := false
	origins := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			wildcard = true
		}
		origins[strings.TrimRight(o, "/")] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (wildcard || origins[origin]) {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Set("Access-Control-Expose-Headers", requestIDHeader)
				if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
					h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
					h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, "+requestIDHeader)
					h.Set("Access-Control-Max-Age", "600")
					w.WriteHeader(http.StatusNoContent)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// guard enforces the policy registered for the matched route name: public
// routes pass through, signed webhooks are checked against the shared secret,
// everything else needs an access token whose role the RBAC model allows.
type guard struct {
	tokens         security.TokenManager
	authz          security.Authorizer
	docuSignSecret []byte
}

func (g *guard) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := ""
		if route := mux.CurrentRoute(r); route != nil {
			name = route.GetName()
		}
		policy := config.GetEndpointPolicy(name)

		switch policy.Level {
		case config.SecurityPublic:
			next.ServeHTTP(w, r)
			return
		case config.SecuritySignature:
			if err := g.verifySignature(r); err != nil {
				logger.WarnContext(r.Context(), "Rejected webhook", "route", name, "error", err)
				writeMessage(w, http.StatusUnauthorized, err.Error())
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		claims, err := g.authenticate(r)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, err.Error())
			return
		}
		if policy.Resource != "" {
			if err := g.authz.Authorize(claims.Role, policy.Resource, policy.Action); err != nil {
				logger.InfoContext(r.Context(), "Access denied", "route", name, "role", claims.Role, "user_id", claims.UserID)
				writeError(w, r, err)
				return
			}
		}

		ctx := withActor(r.Context(), service.Actor{UserID: claims.UserID, Role: claims.Role})
		ctx = logger.WithUserID(ctx, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (g *guard) authenticate(r *http.Request) (*security.UserClaims, error) {
	header := r.Header.Get("Authorization")
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return nil, errors.New("authorization token is not provided")
	}
	claims, err := g.tokens.ValidateToken(strings.TrimSpace(header[7:]), security.TokenTypeAccess)
	if err != nil {
		if errors.Is(err, security.ErrExpiredToken) {
			return nil, errors.New("token expired")
		}
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// verifySignature checks the base64 HMAC-SHA256 of the raw body and leaves
// the body readable for the handler.
func (g *guard) verifySignature(r *http.Request) error {
	if len(g.docuSignSecret) == 0 {
		return errors.New("webhook secret is not configured")
	}
	sig := r.Header.Get(docuSignHeader)
	if sig == "" {
		return errors.New("missing signature")
	}
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err != nil {
		return errors.New("unreadable body")
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	got, err := base64.StdEncoding.DecodeString(sig)
	if err != nil {
		return errors.New("malformed signature")
	}
	if !hmac.Equal(got, signBody(g.docuSignSecret, body)) {
		return errors.New("signature mismatch")
	}
	return nil
}

func signBody(secret, body []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return mac.Sum(nil)
}
