package exchangerepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"gostore/internal/domain"
	apperror "gostore/internal/errors"
	"gostore/internal/pkg/database"
	"gostore/internal/pkg/logger"
)

// ExchangeRepository persiste trocas no PostgreSQL.
// Construído sobre um *sql.Tx, participa da transação do chamador.
type ExchangeRepository struct {
	DB        database.DBTX
	DBTimeout time.Duration
	logger    logger.Logger
	now       func() time.Time
}

// NewExchangeRepository cria e retorna uma nova instância do Repositório de Trocas.
func NewExchangeRepository(db database.DBTX, dbTimeout time.Duration, logger logger.Logger) *ExchangeRepository {
	return &ExchangeRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

const exchangeColumns = `id, customer_id, returned_item_id, new_item_id, returned_variation_id, new_variation_id,
        processed_by, location_id, reason, status, exchanged_at, created_at, updated_at`

func scanExchange(row interface{ Scan(...any) error }) (domain.Exchange, error) {
	var (
		ex          domain.Exchange
		returnedVar sql.NullString
		newVar      sql.NullString
		status      string
	)
	err := row.Scan(
		&ex.ID, &ex.CustomerID, &ex.ReturnedItemID, &ex.NewItemID, &returnedVar, &newVar,
		&ex.ProcessedBy, &ex.LocationID, &ex.Reason, &status, &ex.ExchangedAt, &ex.CreatedAt, &ex.UpdatedAt,
	)
	if err != nil {
		return domain.Exchange{}, err
	}
	if returnedVar.Valid {
		ex.ReturnedVariationID = &returnedVar.String
	}
	if newVar.Valid {
		ex.NewVariationID = &newVar.String
	}
	ex.Status = domain.ExchangeStatus(status)
	return ex, nil
}

func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func notFound(id string) error {
	return apperror.NewNotFoundError(fmt.Sprintf("Troca com ID %s não existe.", id))
}

// Create insere uma nova troca.
func (r *ExchangeRepository) Create(ctx context.Context, ex domain.Exchange) (domain.Exchange, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if ex.ID == "" {
		ex.ID = uuid.New().String()
	}
	now := r.now()
	ex.CreatedAt = now
	ex.UpdatedAt = now

	query := `
        INSERT INTO exchanges (` + exchangeColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
        RETURNING ` + exchangeColumns

	created, err := scanExchange(r.DB.QueryRowContext(ctxTimeout, query,
		ex.ID, ex.CustomerID, ex.ReturnedItemID, ex.NewItemID,
		nullString(ex.ReturnedVariationID), nullString(ex.NewVariationID),
		ex.ProcessedBy, ex.LocationID, ex.Reason, string(ex.Status), ex.ExchangedAt.UTC(), now,
	))
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return domain.Exchange{}, apperror.NewReferencedEntityMissingError("exchange_reference", ex.ID)
		}
		r.logger.Error("Falha ao inserir troca no DB.", err)
		return domain.Exchange{}, apperror.NewDBError("Falha ao criar troca", err)
	}

	r.logger.Info("Troca criada com sucesso.", map[string]interface{}{"id": created.ID, "status": string(created.Status)})
	return created, nil
}

// FindByID busca uma troca. IDs que não são UUID válidos são tratados como inexistentes.
func (r *ExchangeRepository) FindByID(ctx context.Context, id string) (domain.Exchange, error) {
	return r.findOne(ctx, id, false)
}

// FindByIDForUpdate busca a troca com SELECT ... FOR UPDATE.
func (r *ExchangeRepository) FindByIDForUpdate(ctx context.Context, id string) (domain.Exchange, error) {
	return r.findOne(ctx, id, true)
}

func (r *ExchangeRepository) findOne(ctx context.Context, id string, forUpdate bool) (domain.Exchange, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Exchange{}, notFound(id)
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + exchangeColumns + ` FROM exchanges WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	ex, err := scanExchange(r.DB.QueryRowContext(ctxTimeout, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Exchange{}, notFound(id)
	}
	if err != nil {
		r.logger.Error("Falha ao buscar troca no DB.", err)
		return domain.Exchange{}, apperror.NewDBError("Falha ao buscar troca", err)
	}
	return ex, nil
}

// List retorna trocas filtradas, mais recentes primeiro.
func (r *ExchangeRepository) List(ctx context.Context, filter domain.ExchangeFilter) ([]domain.Exchange, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var (
		where []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.CustomerID != "" {
		args = append(args, filter.CustomerID)
		where = append(where, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	if filter.LocationID != "" {
		args = append(args, filter.LocationID)
		where = append(where, fmt.Sprintf("location_id = $%d", len(args)))
	}

	query := `SELECT ` + exchangeColumns + ` FROM exchanges`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	limit, offset := database.LimitOffset(filter.Page, filter.Limit)
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY exchanged_at DESC, id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao listar trocas.", err)
		return nil, apperror.NewDBError("Falha ao listar trocas", err)
	}
	defer rows.Close()

	exchanges := []domain.Exchange{}
	for rows.Next() {
		ex, err := scanExchange(rows)
		if err != nil {
			return nil, apperror.NewDBError("Falha ao ler troca", err)
		}
		exchanges = append(exchanges, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar trocas", err)
	}
	return exchanges, nil
}

// Update altera os campos não-status informados.
func (r *ExchangeRepository) Update(ctx context.Context, id string, changes domain.ExchangeChanges) (domain.Exchange, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Exchange{}, notFound(id)
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        UPDATE exchanges
        SET reason = COALESCE($2, reason),
            exchanged_at = COALESCE($3, exchanged_at),
            processed_by = COALESCE($4, processed_by),
            updated_at = $5
        WHERE id = $1
        RETURNING ` + exchangeColumns

	ex, err := scanExchange(r.DB.QueryRowContext(ctxTimeout, query,
		id, nullString(changes.Reason), nullTime(changes.ExchangedAt), nullString(changes.ProcessedBy), r.now(),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Exchange{}, notFound(id)
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar troca.", err)
		return domain.Exchange{}, apperror.NewDBError("Falha ao atualizar troca", err)
	}
	return ex, nil
}

// UpdateStatusIfCurrent grava o status `to` somente se o status atual ainda for `from`.
// Zero linhas afetadas significa que outra operação mudou a troca antes: ConflictError.
func (r *ExchangeRepository) UpdateStatusIfCurrent(ctx context.Context, id string, from, to domain.ExchangeStatus, changes domain.ExchangeChanges) (domain.Exchange, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        UPDATE exchanges
        SET status = $3,
            reason = COALESCE($4, reason),
            exchanged_at = COALESCE($5, exchanged_at),
            processed_by = COALESCE($6, processed_by),
            updated_at = $7
        WHERE id = $1 AND status = $2
        RETURNING ` + exchangeColumns

	ex, err := scanExchange(r.DB.QueryRowContext(ctxTimeout, query,
		id, string(from), string(to),
		nullString(changes.Reason), nullTime(changes.ExchangedAt), nullString(changes.ProcessedBy), r.now(),
	))
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Warn("Status da troca mudou durante a transição.", map[string]interface{}{"id": id, "expected": string(from), "target": string(to)})
		return domain.Exchange{}, apperror.NewConflictError(fmt.Sprintf("A troca %s não está mais com status %s.", id, from))
	}
	if err != nil {
		r.logger.Error("Falha ao gravar status da troca.", err)
		return domain.Exchange{}, apperror.NewDBError("Falha ao gravar status da troca", err)
	}
	return ex, nil
}

// Delete remove uma troca.
func (r *ExchangeRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return notFound(id)
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	res, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM exchanges WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao remover troca.", err)
		return apperror.NewDBError("Falha ao remover troca", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if n == 0 {
		return notFound(id)
	}
	return nil
}
