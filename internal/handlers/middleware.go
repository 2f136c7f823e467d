package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"knowledgegate/internal/security"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const visitorContextKey ContextKey = "visitor"

// visitorIdentity carries the visitor cookie value and whether it already
// existed before this request.
type visitorIdentity struct {
	ID        string
	Returning bool
}

// Middleware holds dependencies for middleware functions.
type Middleware struct {
	rateLimiter *security.RateLimiter
	visitorTTL  time.Duration
}

// NewMiddleware creates a middleware instance.
func NewMiddleware(rateLimiter *security.RateLimiter) *Middleware {
	return &Middleware{
		rateLimiter: rateLimiter,
		visitorTTL:  365 * 24 * time.Hour,
	}
}

// VisitorID ensures every request carries a long-lived visitor id cookie and
// makes it available on the context. Analytics-only; nothing gates on it.
func (m *Middleware) VisitorID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := visitorIdentity{}

		if cookie, err := r.Cookie(VisitorCookieName); err == nil && cookie.Value != "" {
			identity.ID = cookie.Value
			identity.Returning = true
		} else {
			identity.ID = security.GenerateVisitorID()
			http.SetCookie(w, security.CreateVisitorCookie(r, VisitorCookieName, identity.ID, m.visitorTTL))
		}

		ctx := context.WithValue(r.Context(), visitorContextKey, identity)
		next(w, r.WithContext(ctx))
	}
}

// RateLimit rejects clients that exceed the per-IP budget.
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.rateLimiter.Allow(security.GetClientIP(r)) {
			respondWithError(w, http.StatusTooManyRequests, ErrTooManyRequests, "", nil)
			return
		}
		next(w, r)
	}
}

// Logging middleware logs HTTP requests.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// GetVisitorFromContext retrieves the visitor identity set by VisitorID.
func GetVisitorFromContext(ctx context.Context) (string, bool) {
	identity, ok := ctx.Value(visitorContextKey).(visitorIdentity)
	if !ok {
		return "", false
	}
	return identity.ID, identity.Returning
}
