package auth

import (
	"context"
	"database/sql"
	"errors"
)

var (
	// ErrTenantMismatch indicates resource belongs to a different tenant.
	ErrTenantMismatch = errors.New("tenant mismatch")
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("resource not found")
)

// ProjectTenantChecker validates project and worker tenant ownership.
type ProjectTenantChecker interface {
	EnsureProjectTenant(ctx context.Context, tenantID, projectID string) error
	EnsureWorkerTenant(ctx context.Context, tenantID, workerID string) error
}

// ProjectChecker checks ownership against the master tables.
type ProjectChecker struct {
	db *sql.DB
}

// NewProjectChecker constructs a ProjectChecker.
func NewProjectChecker(db *sql.DB) *ProjectChecker {
	if db == nil {
		return nil
	}
	return &ProjectChecker{db: db}
}

// EnsureProjectTenant verifies the project belongs to the tenant.
func (c *ProjectChecker) EnsureProjectTenant(ctx context.Context, tenantID, projectID string) error {
	return c.ensureTenant(ctx, `SELECT tenant_id FROM projects WHERE id = $1 LIMIT 1`, tenantID, projectID)
}

// EnsureWorkerTenant verifies the worker belongs to the tenant.
func (c *ProjectChecker) EnsureWorkerTenant(ctx context.Context, tenantID, workerID string) error {
	return c.ensureTenant(ctx, `SELECT tenant_id FROM workers WHERE id = $1 LIMIT 1`, tenantID, workerID)
}

func (c *ProjectChecker) ensureTenant(ctx context.Context, query, tenantID, resourceID string) error {
	if c == nil || c.db == nil {
		return nil
	}
	if tenantID == "" || resourceID == "" {
		return nil
	}
	var owner string
	if err := c.db.QueryRowContext(ctx, query, resourceID).Scan(&owner); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if owner != tenantID {
		return ErrTenantMismatch
	}
	return nil
}
