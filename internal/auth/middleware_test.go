package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, tenantID, role string, projects []string, expiry time.Duration) string {
	t.Helper()
	claims := Claims{
		TenantID: tenantID,
		Role:     role,
		Projects: projects,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func reportPolicy() Policy {
	return NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	mw := NewMiddleware(testSecret, reportPolicy())
	handler := mw.Wrap(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/project", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestMiddlewareExemptPaths(t *testing.T) {
	mw := NewMiddleware(testSecret, reportPolicy())
	handler := mw.Wrap(okHandler())

	for _, path := range []string{"/healthz", "/metrics"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d, want 200", path, rec.Code)
		}
	}
}

func TestMiddlewareViewerCanReadButNotExport(t *testing.T) {
	mw := NewMiddleware(testSecret, reportPolicy())
	token := signToken(t, "tenant-1", "viewer", nil, time.Hour)

	var got Identity
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/project?project_id=p-1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("read status = %d, want 200", rec.Code)
	}
	if got.TenantID != "tenant-1" || got.Role != RoleViewer || got.Subject != "user-1" {
		t.Fatalf("identity = %+v", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/reports/project/export.xlsx?project_id=p-1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("export status = %d, want 403", rec.Code)
	}
}

func TestMiddlewareAdminCanExport(t *testing.T) {
	mw := NewMiddleware(testSecret, reportPolicy())
	token := signToken(t, "tenant-1", "admin", nil, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/worker/export.pdf?worker_id=w-1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	mw.Wrap(okHandler()).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestMiddlewareProjectScope(t *testing.T) {
	mw := NewMiddleware(testSecret, reportPolicy())
	token := signToken(t, "tenant-1", "admin", []string{"p-1", "p-3"}, time.Hour)
	handler := mw.Wrap(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/project?project_id=p-1&from=2025-08-01&to=2025-08-31", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("scoped project status = %d, want 200", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/reports/project?project_id=p-2&from=2025-08-01&to=2025-08-31", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("out-of-scope project status = %d, want 403", rec.Code)
	}
}

func TestMiddlewareRejectsExpiredToken(t *testing.T) {
	mw := NewMiddleware(testSecret, reportPolicy())
	token := signToken(t, "tenant-1", "admin", nil, -time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/project", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	mw.Wrap(okHandler()).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestMiddlewareRejectsWrongSecret(t *testing.T) {
	mw := NewMiddleware([]byte("other-secret"), reportPolicy())
	token := signToken(t, "tenant-1", "admin", nil, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/project", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	mw.Wrap(okHandler()).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestVerifyToken(t *testing.T) {
	token := signToken(t, "tenant-1", "operator", []string{"p-1"}, time.Hour)
	identity, err := VerifyToken(token, testSecret)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if identity.TenantID != "tenant-1" || identity.Role != RoleOperator {
		t.Fatalf("identity = %+v", identity)
	}
	if !identity.ScopedToProject("p-1") || identity.ScopedToProject("p-2") {
		t.Fatalf("scope check wrong for %+v", identity)
	}

	if _, err := VerifyToken("", testSecret); !errors.Is(err, ErrNoToken) {
		t.Fatalf("empty token error = %v", err)
	}
	if _, err := VerifyToken(signToken(t, "", "admin", nil, time.Hour), testSecret); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("missing tenant error = %v", err)
	}
	if _, err := VerifyToken(signToken(t, "tenant-1", "superuser", nil, time.Hour), testSecret); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("unknown role error = %v", err)
	}
}

func TestVerifyTokenRequiresExpiry(t *testing.T) {
	claims := Claims{
		TenantID:         "tenant-1",
		Role:             "admin",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := VerifyToken(signed, testSecret); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for missing exp, got %v", err)
	}
}

func TestRoleAllows(t *testing.T) {
	cases := []struct {
		role     Role
		required Role
		want     bool
	}{
		{RoleViewer, RoleViewer, true},
		{RoleViewer, RoleAdmin, false},
		{RoleOperator, RoleViewer, true},
		{RoleOperator, RoleAdmin, false},
		{RoleAdmin, RoleOperator, true},
		{Role("unknown"), RoleViewer, false},
	}
	for _, tc := range cases {
		if got := tc.role.Allows(tc.required); got != tc.want {
			t.Fatalf("%s allows %s = %v, want %v", tc.role, tc.required, got, tc.want)
		}
	}
	if _, err := ParseRole("superuser"); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}

func TestPolicyRequiredRole(t *testing.T) {
	policy := reportPolicy()
	cases := []struct {
		method string
		path   string
		want   Role
	}{
		{http.MethodGet, "/api/v1/reports/project", RoleViewer},
		{http.MethodGet, "/api/v1/reports/worker", RoleViewer},
		{http.MethodGet, "/api/v1/reports/project/export.xlsx", RoleAdmin},
		{http.MethodGet, "/api/v1/reports/worker/export.pdf", RoleAdmin},
		{http.MethodGet, "/api/v1/reports/diagnostics", RoleAdmin},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		role, ok := policy.RequiredRole(req)
		if !ok || role != tc.want {
			t.Fatalf("%s %s: role = %q ok=%v, want %q", tc.method, tc.path, role, ok, tc.want)
		}
	}
}
