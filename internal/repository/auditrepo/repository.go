package auditrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"gostore/internal/domain"
	apperror "gostore/internal/errors"
	"gostore/internal/pkg/database"
)

// AuditLogRepository grava o log de auditoria.
type AuditLogRepository struct {
	DB        database.DBTX
	DBTimeout time.Duration
}

// NewAuditLogRepository cria o repositório sobre um *sql.DB ou *sql.Tx.
func NewAuditLogRepository(db database.DBTX, dbTimeout time.Duration) *AuditLogRepository {
	return &AuditLogRepository{DB: db, DBTimeout: dbTimeout}
}

// Create insere uma entrada de auditoria. before/after são gravados como JSONB.
func (r *AuditLogRepository) Create(ctx context.Context, entry domain.AuditLog) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	var actor any
	if entry.ActorStaffID != "" {
		actor = entry.ActorStaffID
	}

	query := `
        INSERT INTO audit_logs (id, actor_staff_id, action, resource_type, resource_id, before_json, after_json, created_at)
        VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7::jsonb, $8)`

	// Dentro de uma transação, a falha do INSERT não pode abortar o restante da unidade de trabalho.
	_, inTx := r.DB.(*sql.Tx)
	if inTx {
		if _, err := r.DB.ExecContext(ctxTimeout, `SAVEPOINT audit_log`); err != nil {
			return apperror.NewDBError("Falha ao criar savepoint de auditoria", err)
		}
	}

	_, err := r.DB.ExecContext(ctxTimeout, query,
		entry.ID, actor, entry.Action, entry.ResourceType, entry.ResourceID,
		entry.BeforeJSON, entry.AfterJSON, entry.CreatedAt,
	)
	if err != nil {
		if inTx {
			_, _ = r.DB.ExecContext(ctxTimeout, `ROLLBACK TO SAVEPOINT audit_log`)
		}
		return apperror.NewDBError("Falha ao gravar log de auditoria", err)
	}

	if inTx {
		if _, err := r.DB.ExecContext(ctxTimeout, `RELEASE SAVEPOINT audit_log`); err != nil {
			return apperror.NewDBError("Falha ao liberar savepoint de auditoria", err)
		}
	}
	return nil
}
