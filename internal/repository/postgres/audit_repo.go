// internal/repository/postgres/audit_repo.go
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"slate-service/internal/domain/user"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AuditRepository struct {
	db *pgxpool.Pool
}

func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(ctx context.Context, entry *user.AuditEntry) error {
	query := `
		INSERT INTO user_audit_logs (user_id, action, entity_type, entity_id, changes, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	var changesJSON []byte
	var err error
	if entry.Changes != nil {
		changesJSON, err = json.Marshal(entry.Changes)
		if err != nil {
			return fmt.Errorf("failed to marshal changes: %w", err)
		}
	}

	err = r.db.QueryRow(
		ctx, query,
		entry.UserID, entry.Action, entry.EntityType, entry.EntityID,
		changesJSON, entry.IPAddress, entry.UserAgent,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create audit entry: %w", err)
	}

	return nil
}
