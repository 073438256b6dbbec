package stockrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gostore/internal/domain"
	apperror "gostore/internal/errors"
	"gostore/internal/pkg/database"
	"gostore/internal/pkg/logger"
)

// StockRepository é o ledger de estoque por (variação, loja).
// Construído sobre um *sql.Tx, participa da transação do chamador.
type StockRepository struct {
	DB        database.DBTX
	DBTimeout time.Duration
	logger    logger.Logger
	now       func() time.Time
}

// NewStockRepository cria e retorna uma nova instância do Repositório de Estoque.
func NewStockRepository(db database.DBTX, dbTimeout time.Duration, logger logger.Logger) *StockRepository {
	return &StockRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

const stockColumns = `id, variation_id, location_id, quantity, version, created_at, updated_at`

func scanStock(row interface{ Scan(...any) error }, sl *domain.StockLevel) error {
	return row.Scan(&sl.ID, &sl.VariantID, &sl.LocationID, &sl.Quantity, &sl.Version, &sl.CreatedAt, &sl.UpdatedAt)
}

// GetStockLevel busca o nível de estoque de uma variação em uma loja.
func (r *StockRepository) GetStockLevel(ctx context.Context, variantID, locationID string) (domain.StockLevel, error) {
	if _, err := uuid.Parse(variantID); err != nil {
		return domain.StockLevel{}, apperror.NewNotFoundError(fmt.Sprintf("Estoque para variação %s na loja %s não encontrado.", variantID, locationID))
	}
	if _, err := uuid.Parse(locationID); err != nil {
		return domain.StockLevel{}, apperror.NewNotFoundError(fmt.Sprintf("Estoque para variação %s na loja %s não encontrado.", variantID, locationID))
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + stockColumns + ` FROM stock_levels WHERE variation_id = $1 AND location_id = $2`

	var sl domain.StockLevel
	err := scanStock(r.DB.QueryRowContext(ctxTimeout, query, variantID, locationID), &sl)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.StockLevel{}, apperror.NewNotFoundError(fmt.Sprintf("Estoque para variação %s na loja %s não encontrado.", variantID, locationID))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar nível de estoque no DB.", err)
		return domain.StockLevel{}, apperror.NewDBError("Falha ao buscar nível de estoque", err)
	}
	return sl, nil
}

// UpdateStockLevel aplica um delta ao estoque com bloqueio de linha (FOR UPDATE) e controle de
// concorrência otimista (version), e registra o movimento em stock_movements.
// Quantidade resultante negativa é rejeitada antes de qualquer escrita.
func (r *StockRepository) UpdateStockLevel(ctx context.Context, adjustment domain.StockAdjustmentRequest) (domain.StockLevel, error) {
	fields := map[string]interface{}{
		"variant_id":   adjustment.VariantID,
		"location_id":  adjustment.LocationID,
		"delta":        adjustment.Delta,
		"reason":       adjustment.Reason,
		"reference_id": adjustment.ReferenceID,
	}
	r.logger.Debug("Iniciando atualização de estoque no repositório.", fields)

	if adjustment.Delta == 0 {
		return domain.StockLevel{}, apperror.NewValidationError("O ajuste de estoque (delta) não pode ser zero.")
	}
	if _, err := uuid.Parse(adjustment.VariantID); err != nil {
		return domain.StockLevel{}, apperror.NewValidationError(fmt.Sprintf("Variação '%s' inválida.", adjustment.VariantID))
	}
	if _, err := uuid.Parse(adjustment.LocationID); err != nil {
		return domain.StockLevel{}, apperror.NewValidationError(fmt.Sprintf("Loja '%s' inválida.", adjustment.LocationID))
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var result domain.StockLevel
	err := database.RunInTx(ctxTimeout, r.DB, func(q database.DBTX) error {
		level, err := r.applyDelta(ctxTimeout, q, adjustment)
		if err != nil {
			return err
		}
		if err := r.appendMovement(ctxTimeout, q, adjustment, level.Quantity); err != nil {
			return err
		}
		result = level
		return nil
	})
	if err != nil {
		if apperror.IsAppError(err) {
			return domain.StockLevel{}, err
		}
		r.logger.Error("Falha na transação de estoque.", err)
		return domain.StockLevel{}, apperror.NewDBError("Falha na transação de estoque", err)
	}

	fields["new_quantity"] = result.Quantity
	fields["new_version"] = result.Version
	r.logger.Info("Nível de estoque atualizado com sucesso.", fields)
	return result, nil
}

func (r *StockRepository) applyDelta(ctx context.Context, q database.DBTX, adjustment domain.StockAdjustmentRequest) (domain.StockLevel, error) {
	var current domain.StockLevel
	querySelect := `SELECT ` + stockColumns + ` FROM stock_levels WHERE variation_id = $1 AND location_id = $2 FOR UPDATE`

	err := scanStock(q.QueryRowContext(ctx, querySelect, adjustment.VariantID, adjustment.LocationID), &current)
	if errors.Is(err, sql.ErrNoRows) {
		// Primeiro movimento da variação nesta loja.
		if adjustment.Delta < 0 {
			r.logger.Warn("Tentativa de criar estoque com quantidade negativa.", map[string]interface{}{"variant_id": adjustment.VariantID, "location_id": adjustment.LocationID, "delta": adjustment.Delta})
			return domain.StockLevel{}, apperror.NewValidationError(fmt.Sprintf("Sem estoque da variação %s na loja %s.", adjustment.VariantID, adjustment.LocationID))
		}

		now := r.now()
		queryInsert := `
            INSERT INTO stock_levels (id, variation_id, location_id, quantity, version, created_at, updated_at)
            VALUES ($1, $2, $3, $4, 1, $5, $5)
            RETURNING ` + stockColumns

		var created domain.StockLevel
		err = scanStock(q.QueryRowContext(ctx, queryInsert, uuid.New().String(), adjustment.VariantID, adjustment.LocationID, adjustment.Delta, now), &created)
		if err != nil {
			if database.IsForeignKeyViolation(err) {
				return domain.StockLevel{}, apperror.NewNotFoundError(fmt.Sprintf("Variação %s ou loja %s inexistente.", adjustment.VariantID, adjustment.LocationID))
			}
			return domain.StockLevel{}, apperror.NewDBError("Falha ao inserir novo nível de estoque", err)
		}
		return created, nil
	}
	if err != nil {
		return domain.StockLevel{}, apperror.NewDBError("Falha ao buscar estoque para atualização", err)
	}

	newQuantity := current.Quantity + adjustment.Delta
	if newQuantity < 0 {
		r.logger.Warn("Tentativa de ajustar estoque para quantidade negativa.", map[string]interface{}{"variant_id": adjustment.VariantID, "location_id": adjustment.LocationID, "current_quantity": current.Quantity, "delta": adjustment.Delta})
		return domain.StockLevel{}, apperror.NewValidationError(fmt.Sprintf("Ajuste resultaria em estoque negativo (atual %d, delta %d).", current.Quantity, adjustment.Delta))
	}

	now := r.now()
	queryUpdate := `
        UPDATE stock_levels
        SET quantity = $1, version = version + 1, updated_at = $2
        WHERE id = $3 AND version = $4`

	res, err := q.ExecContext(ctx, queryUpdate, newQuantity, now, current.ID, current.Version)
	if err != nil {
		return domain.StockLevel{}, apperror.NewDBError("Falha ao atualizar estoque", err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return domain.StockLevel{}, apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		r.logger.Warn("Falha no controle de concorrência otimista (OCC). Versão do registro desatualizada.", map[string]interface{}{
			"variant_id":       adjustment.VariantID,
			"location_id":      adjustment.LocationID,
			"expected_version": current.Version,
		})
		return domain.StockLevel{}, apperror.NewConflictError("O estoque foi modificado por outra operação. Tente novamente.")
	}

	current.Quantity = newQuantity
	current.Version++
	current.UpdatedAt = now
	return current, nil
}

func (r *StockRepository) appendMovement(ctx context.Context, q database.DBTX, adjustment domain.StockAdjustmentRequest, quantityAfter int) error {
	query := `
        INSERT INTO stock_movements (id, variation_id, location_id, delta, quantity_after, reason, reference_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	var ref sql.NullString
	if adjustment.ReferenceID != "" {
		ref = sql.NullString{String: adjustment.ReferenceID, Valid: true}
	}

	_, err := q.ExecContext(ctx, query,
		uuid.New().String(), adjustment.VariantID, adjustment.LocationID,
		adjustment.Delta, quantityAfter, adjustment.Reason, ref, r.now(),
	)
	if err != nil {
		return apperror.NewDBError("Falha ao registrar movimento de estoque", err)
	}
	return nil
}

// ListMovements lista o histórico do ledger, opcionalmente filtrado pela referência (e.g., ID da troca).
func (r *StockRepository) ListMovements(ctx context.Context, referenceID string) ([]domain.StockMovement, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, variation_id, location_id, delta, quantity_after, reason, COALESCE(reference_id, ''), created_at
        FROM stock_movements`
	args := []any{}
	if referenceID != "" {
		query += ` WHERE reference_id = $1`
		args = append(args, referenceID)
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao listar movimentos de estoque.", err)
		return nil, apperror.NewDBError("Falha ao listar movimentos de estoque", err)
	}
	defer rows.Close()

	movements := []domain.StockMovement{}
	for rows.Next() {
		var m domain.StockMovement
		if err := rows.Scan(&m.ID, &m.VariantID, &m.LocationID, &m.Delta, &m.QuantityAfter, &m.Reason, &m.ReferenceID, &m.CreatedAt); err != nil {
			return nil, apperror.NewDBError("Falha ao ler movimento de estoque", err)
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar movimentos de estoque", err)
	}
	return movements, nil
}
