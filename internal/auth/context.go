package auth

import "context"

// Identity is the authenticated caller attached to a request context:
// the tenant the caller belongs to, their report role, and an optional
// list of project ids the token is scoped to.
type Identity struct {
	TenantID string
	Subject  string
	Role     Role
	Projects []string
}

// ScopedToProject reports whether the identity may open the project's
// ledger. An empty scope list means the token is not project-restricted
// and tenancy alone decides.
func (id Identity) ScopedToProject(projectID string) bool {
	if len(id.Projects) == 0 {
		return true
	}
	for _, scoped := range id.Projects {
		if scoped == projectID {
			return true
		}
	}
	return false
}

type identityKey struct{}

// WithIdentity attaches the caller identity to the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the caller identity, zero when the
// request was not authenticated (exempt paths).
func IdentityFromContext(ctx context.Context) Identity {
	if ctx == nil {
		return Identity{}
	}
	id, _ := ctx.Value(identityKey{}).(Identity)
	return id
}

// TenantIDFromContext extracts the caller's tenant id.
func TenantIDFromContext(ctx context.Context) string {
	return IdentityFromContext(ctx).TenantID
}

// RoleFromContext extracts the caller's role.
func RoleFromContext(ctx context.Context) Role {
	return IdentityFromContext(ctx).Role
}

// SubjectFromContext extracts the caller's subject.
func SubjectFromContext(ctx context.Context) string {
	return IdentityFromContext(ctx).Subject
}
