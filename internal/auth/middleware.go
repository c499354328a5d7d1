package auth

import (
	"net/http"
	"strings"
)

// Middleware authenticates report requests and enforces the route
// policy. Exempt paths pass through untouched; everything else needs a
// bearer token whose role satisfies the policy and, for project
// routes, whose scope covers the requested project.
type Middleware struct {
	secret []byte
	policy Policy
}

// NewMiddleware constructs an auth middleware.
func NewMiddleware(secret []byte, policy Policy) *Middleware {
	return &Middleware{secret: secret, policy: policy}
}

// Wrap applies authentication, RBAC and project scoping to the handler.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.policy.IsExempt(r) {
			next.ServeHTTP(w, r)
			return
		}
		required, protected := m.policy.RequiredRole(r)
		if !protected {
			next.ServeHTTP(w, r)
			return
		}

		identity, err := VerifyToken(bearerToken(r), m.secret)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if !identity.Role.Allows(required) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		if projectID := r.URL.Query().Get("project_id"); projectID != "" && !identity.ScopedToProject(projectID) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
