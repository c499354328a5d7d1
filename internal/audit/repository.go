package audit

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Repository persists audit entries for report access and export.
type Repository struct {
	db *sql.DB
}

// NewRepository constructs an audit repository.
func NewRepository(db *sql.DB) *Repository {
	if db == nil {
		return nil
	}
	return &Repository{db: db}
}

const insertEntry = `
INSERT INTO audit_logs (
	id, tenant_id, actor, role, action,
	resource_type, resource_id, project_id,
	metadata, payload_digest, ip, user_agent, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

// Log completes and writes one audit entry. Entries without a tenant or
// action are rejected: an export trail that cannot answer "who did
// what" is worse than a loud failure.
func (r *Repository) Log(ctx context.Context, entry Entry) error {
	if r == nil || r.db == nil {
		return errors.New("audit: nil repository")
	}
	entry, err := entry.prepared()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, insertEntry,
		entry.ID, entry.TenantID, entry.Actor, entry.Role, entry.Action,
		entry.ResourceType, entry.ResourceID, entry.ProjectID,
		entry.Metadata, entry.PayloadDigest, entry.IP, entry.UserAgent, entry.CreatedAt,
	)
	return err
}

// prepared validates the entry and fills the generated fields so rows
// stay self-describing even when the caller passes a minimal entry.
func (e Entry) prepared() (Entry, error) {
	if e.TenantID == "" {
		return e, errors.New("audit: entry missing tenant")
	}
	if e.Action == "" {
		return e, errors.New("audit: entry missing action")
	}
	if e.ID == "" {
		e.ID = NewID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if e.PayloadDigest == "" {
		e.PayloadDigest = DigestJSON(e.Metadata)
	}
	return e, nil
}
