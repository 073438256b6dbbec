package warrantyrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gostore/internal/domain"
	apperror "gostore/internal/errors"
	"gostore/internal/pkg/database"
	"gostore/internal/pkg/logger"
)

const typeColumns = `id, name, description, duration_months, coverage, created_at, updated_at`

const warrantyColumns = `id, warranty_type_id, customer_id, item_id, start_date, end_date, created_at, updated_at`

// TypeRepository implementa domain.WarrantyTypeRepository. Coverage é gravado como JSONB.
type TypeRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewTypeRepository cria o repositório de tipos de garantia.
func NewTypeRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *TypeRepository {
	return &TypeRepository{DB: db, DBTimeout: dbTimeout, logger: logger}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanType(row rowScanner) (domain.WarrantyType, error) {
	var (
		wt       domain.WarrantyType
		coverage []byte
	)
	if err := row.Scan(&wt.ID, &wt.Name, &wt.Description, &wt.DurationMonths, &coverage, &wt.CreatedAt, &wt.UpdatedAt); err != nil {
		return domain.WarrantyType{}, err
	}
	if len(coverage) > 0 {
		if err := json.Unmarshal(coverage, &wt.Coverage); err != nil {
			return domain.WarrantyType{}, fmt.Errorf("coverage: %w", err)
		}
	}
	return wt, nil
}

func notFoundType(id string) error {
	return apperror.NewNotFoundError(fmt.Sprintf("Tipo de garantia com ID %s não encontrado.", id))
}

// Save insere um novo tipo de garantia.
func (r *TypeRepository) Save(ctx context.Context, wt domain.WarrantyType) (domain.WarrantyType, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	coverage, err := json.Marshal(wt.Coverage)
	if err != nil {
		return domain.WarrantyType{}, apperror.NewInternalError("Falha ao serializar cobertura", err)
	}

	saved, err := scanType(r.DB.QueryRowContext(ctxTimeout, `
        INSERT INTO warranty_types (id, name, description, duration_months, coverage, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5::jsonb, $6, $6)
        RETURNING `+typeColumns,
		wt.ID, wt.Name, wt.Description, wt.DurationMonths, coverage, wt.CreatedAt,
	))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return domain.WarrantyType{}, apperror.NewConflictError(fmt.Sprintf("Já existe um tipo de garantia chamado %s.", wt.Name))
		}
		r.logger.Error("Falha ao inserir tipo de garantia.", err)
		return domain.WarrantyType{}, apperror.NewDBError("Falha ao criar tipo de garantia", err)
	}
	return saved, nil
}

// FindByID busca um tipo de garantia.
func (r *TypeRepository) FindByID(ctx context.Context, id string) (domain.WarrantyType, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.WarrantyType{}, notFoundType(id)
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	wt, err := scanType(r.DB.QueryRowContext(ctxTimeout, `SELECT `+typeColumns+` FROM warranty_types WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.WarrantyType{}, notFoundType(id)
	}
	if err != nil {
		return domain.WarrantyType{}, apperror.NewDBError("Falha ao buscar tipo de garantia", err)
	}
	return wt, nil
}

// FindAll lista todos os tipos de garantia.
func (r *TypeRepository) FindAll(ctx context.Context) ([]domain.WarrantyType, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, `SELECT `+typeColumns+` FROM warranty_types ORDER BY duration_months, name`)
	if err != nil {
		return nil, apperror.NewDBError("Falha ao listar tipos de garantia", err)
	}
	defer rows.Close()

	types := []domain.WarrantyType{}
	for rows.Next() {
		wt, err := scanType(rows)
		if err != nil {
			return nil, apperror.NewDBError("Falha ao mapear tipo de garantia", err)
		}
		types = append(types, wt)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Erro após iteração de tipos de garantia", err)
	}
	return types, nil
}

// Update regrava o tipo de garantia.
func (r *TypeRepository) Update(ctx context.Context, wt domain.WarrantyType) (domain.WarrantyType, error) {
	if _, err := uuid.Parse(wt.ID); err != nil {
		return domain.WarrantyType{}, notFoundType(wt.ID)
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	coverage, err := json.Marshal(wt.Coverage)
	if err != nil {
		return domain.WarrantyType{}, apperror.NewInternalError("Falha ao serializar cobertura", err)
	}

	updated, err := scanType(r.DB.QueryRowContext(ctxTimeout, `
        UPDATE warranty_types
        SET name = $2, description = $3, duration_months = $4, coverage = $5::jsonb, updated_at = $6
        WHERE id = $1
        RETURNING `+typeColumns,
		wt.ID, wt.Name, wt.Description, wt.DurationMonths, coverage, wt.UpdatedAt,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.WarrantyType{}, notFoundType(wt.ID)
	}
	if err != nil {
		return domain.WarrantyType{}, apperror.NewDBError("Falha ao atualizar tipo de garantia", err)
	}
	return updated, nil
}

// Delete remove o tipo. Tipos com garantias emitidas não podem ser removidos.
func (r *TypeRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return notFoundType(id)
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM warranty_types WHERE id = $1`, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return apperror.NewConflictError("O tipo de garantia possui garantias emitidas.")
		}
		return apperror.NewDBError("Falha ao deletar tipo de garantia", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if n == 0 {
		return notFoundType(id)
	}
	return nil
}

// Repository implementa domain.WarrantyRepository.
type Repository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewRepository cria o repositório de garantias emitidas.
func NewRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *Repository {
	return &Repository{DB: db, DBTimeout: dbTimeout, logger: logger}
}

func scanWarranty(row rowScanner) (domain.Warranty, error) {
	var (
		w   domain.Warranty
		end sql.NullTime
	)
	if err := row.Scan(&w.ID, &w.WarrantyTypeID, &w.CustomerID, &w.ItemID, &w.StartDate, &end, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return domain.Warranty{}, err
	}
	if end.Valid {
		t := end.Time
		w.EndDate = &t
	}
	return w, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func notFoundWarranty(id string) error {
	return apperror.NewNotFoundError(fmt.Sprintf("Garantia com ID %s não encontrada.", id))
}

// Save insere uma garantia. FK inválida vira ReferencedEntityMissing.
func (r *Repository) Save(ctx context.Context, w domain.Warranty) (domain.Warranty, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	saved, err := scanWarranty(r.DB.QueryRowContext(ctxTimeout, `
        INSERT INTO warranties (id, warranty_type_id, customer_id, item_id, start_date, end_date, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
        RETURNING `+warrantyColumns,
		w.ID, w.WarrantyTypeID, w.CustomerID, w.ItemID, w.StartDate, nullTime(w.EndDate), w.CreatedAt,
	))
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return domain.Warranty{}, apperror.NewReferencedEntityMissingError("warranty reference", w.ID)
		}
		r.logger.Error("Falha ao inserir garantia.", err)
		return domain.Warranty{}, apperror.NewDBError("Falha ao criar garantia", err)
	}
	return saved, nil
}

// FindByID busca uma garantia.
func (r *Repository) FindByID(ctx context.Context, id string) (domain.Warranty, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Warranty{}, notFoundWarranty(id)
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	w, err := scanWarranty(r.DB.QueryRowContext(ctxTimeout, `SELECT `+warrantyColumns+` FROM warranties WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Warranty{}, notFoundWarranty(id)
	}
	if err != nil {
		return domain.Warranty{}, apperror.NewDBError("Falha ao buscar garantia", err)
	}
	return w, nil
}

// FindByCustomer lista as garantias de um cliente, mais recentes primeiro.
func (r *Repository) FindByCustomer(ctx context.Context, customerID string) ([]domain.Warranty, error) {
	if _, err := uuid.Parse(customerID); err != nil {
		return []domain.Warranty{}, nil
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout,
		`SELECT `+warrantyColumns+` FROM warranties WHERE customer_id = $1 ORDER BY start_date DESC, id`, customerID)
	if err != nil {
		return nil, apperror.NewDBError("Falha ao listar garantias", err)
	}
	defer rows.Close()

	list := []domain.Warranty{}
	for rows.Next() {
		w, err := scanWarranty(rows)
		if err != nil {
			return nil, apperror.NewDBError("Falha ao mapear garantia", err)
		}
		list = append(list, w)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Erro após iteração de garantias", err)
	}
	return list, nil
}

// Update regrava tipo, datas e vínculos da garantia.
func (r *Repository) Update(ctx context.Context, w domain.Warranty) (domain.Warranty, error) {
	if _, err := uuid.Parse(w.ID); err != nil {
		return domain.Warranty{}, notFoundWarranty(w.ID)
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	updated, err := scanWarranty(r.DB.QueryRowContext(ctxTimeout, `
        UPDATE warranties
        SET warranty_type_id = $2, customer_id = $3, item_id = $4, start_date = $5, end_date = $6, updated_at = $7
        WHERE id = $1
        RETURNING `+warrantyColumns,
		w.ID, w.WarrantyTypeID, w.CustomerID, w.ItemID, w.StartDate, nullTime(w.EndDate), w.UpdatedAt,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Warranty{}, notFoundWarranty(w.ID)
	}
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return domain.Warranty{}, apperror.NewReferencedEntityMissingError("warranty reference", w.ID)
		}
		return domain.Warranty{}, apperror.NewDBError("Falha ao atualizar garantia", err)
	}
	return updated, nil
}
