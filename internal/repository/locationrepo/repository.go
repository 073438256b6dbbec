package locationrepo

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
	"gostore/internal/pkg/cache"
	"gostore/internal/pkg/database"
	"gostore/internal/pkg/logger"
)

const locationCacheKey = "location:%s"

const locationColumns = `id, name, address, phone, hours, social_links, square_location_id, created_at, updated_at`

// LocationRepository implementa domain.LocationRepository sobre PostgreSQL.
// Horários e redes sociais são gravados como JSONB.
type LocationRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	CacheTTL  time.Duration
	logger    logger.Logger
}

// NewLocationRepository cria e retorna uma nova instância do Repositório de Lojas.
func NewLocationRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, logger logger.Logger) *LocationRepository {
	return &LocationRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		CacheTTL:  cacheTTL,
		logger:    logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLocation(row rowScanner) (domain.StoreLocation, error) {
	var (
		loc      domain.StoreLocation
		hours    []byte
		social   []byte
		squareID sql.NullString
	)
	if err := row.Scan(&loc.ID, &loc.Name, &loc.Address, &loc.Phone, &hours, &social, &squareID, &loc.CreatedAt, &loc.UpdatedAt); err != nil {
		return domain.StoreLocation{}, err
	}
	loc.SquareLocationID = squareID.String
	loc.Hours = []domain.DayHours{}
	if len(hours) > 0 {
		if err := json.Unmarshal(hours, &loc.Hours); err != nil {
			return domain.StoreLocation{}, fmt.Errorf("hours: %w", err)
		}
	}
	if len(social) > 0 {
		if err := json.Unmarshal(social, &loc.SocialLinks); err != nil {
			return domain.StoreLocation{}, fmt.Errorf("social_links: %w", err)
		}
	}
	return loc, nil
}

func encodeJSONB(loc domain.StoreLocation) ([]byte, []byte, error) {
	hours := loc.Hours
	if hours == nil {
		hours = []domain.DayHours{}
	}
	h, err := json.Marshal(hours)
	if err != nil {
		return nil, nil, err
	}
	s, err := json.Marshal(loc.SocialLinks)
	if err != nil {
		return nil, nil, err
	}
	return h, s, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Save insere uma nova loja.
func (r *LocationRepository) Save(ctx context.Context, loc domain.StoreLocation) (domain.StoreLocation, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	hours, social, err := encodeJSONB(loc)
	if err != nil {
		return domain.StoreLocation{}, apperror.NewInternalError("Falha ao serializar loja", err)
	}

	query := `
        INSERT INTO store_locations (id, name, address, phone, hours, social_links, square_location_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5::jsonb, $6::jsonb, $7, $8, $8)
        RETURNING ` + locationColumns

	saved, err := scanLocation(r.DB.QueryRowContext(ctxTimeout, query,
		loc.ID, loc.Name, loc.Address, loc.Phone, hours, social, nullIfEmpty(loc.SquareLocationID), loc.CreatedAt,
	))
	if err != nil {
		r.logger.Error("Falha ao inserir loja no DB.", err)
		return domain.StoreLocation{}, apperror.NewDBError("Falha ao criar loja", err)
	}

	r.logger.Info("Loja criada com sucesso.", map[string]interface{}{"id": saved.ID, "name": saved.Name})
	return saved, nil
}

// FindByID busca uma loja pelo ID, com cache-aside.
func (r *LocationRepository) FindByID(ctx context.Context, id string) (domain.StoreLocation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.StoreLocation{}, apperror.NewNotFoundError(fmt.Sprintf("Loja com ID %s não encontrada.", id))
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := fmt.Sprintf(locationCacheKey, id)
	if cached, err := r.Cache.Get(ctxTimeout, key); err == nil {
		var loc domain.StoreLocation
		if json.Unmarshal([]byte(cached), &loc) == nil {
			return loc, nil
		}
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		r.logger.Warn("Falha ao ler loja do cache.", map[string]interface{}{"key": key, "error": err.Error()})
	}

	loc, err := scanLocation(r.DB.QueryRowContext(ctxTimeout,
		`SELECT `+locationColumns+` FROM store_locations WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.StoreLocation{}, apperror.NewNotFoundError(fmt.Sprintf("Loja com ID %s não encontrada.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar loja no DB.", err)
		return domain.StoreLocation{}, apperror.NewDBError("Falha ao buscar loja", err)
	}

	if payload, err := json.Marshal(loc); err == nil {
		if err := r.Cache.Set(ctxTimeout, key, payload, r.CacheTTL); err != nil {
			r.logger.Warn("Falha ao gravar loja no cache.", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}
	return loc, nil
}

// FindAll busca todas as lojas ordenadas por nome.
func (r *LocationRepository) FindAll(ctx context.Context) ([]domain.StoreLocation, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, `SELECT `+locationColumns+` FROM store_locations ORDER BY name, id`)
	if err != nil {
		r.logger.Error("Falha ao listar lojas.", err)
		return nil, apperror.NewDBError("Falha ao buscar todas as lojas", err)
	}
	defer rows.Close()

	locations := []domain.StoreLocation{}
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, apperror.NewDBError("Falha ao mapear lojas do DB", err)
		}
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Erro após iteração de lojas", err)
	}
	return locations, nil
}

// Update regrava todos os campos editáveis da loja e invalida o cache.
func (r *LocationRepository) Update(ctx context.Context, loc domain.StoreLocation) (domain.StoreLocation, error) {
	if _, err := uuid.Parse(loc.ID); err != nil {
		return domain.StoreLocation{}, apperror.NewNotFoundError(fmt.Sprintf("Loja com ID %s não encontrada.", loc.ID))
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	hours, social, err := encodeJSONB(loc)
	if err != nil {
		return domain.StoreLocation{}, apperror.NewInternalError("Falha ao serializar loja", err)
	}

	query := `
        UPDATE store_locations
        SET name = $2, address = $3, phone = $4, hours = $5::jsonb, social_links = $6::jsonb,
            square_location_id = $7, updated_at = $8
        WHERE id = $1
        RETURNING ` + locationColumns

	updated, err := scanLocation(r.DB.QueryRowContext(ctxTimeout, query,
		loc.ID, loc.Name, loc.Address, loc.Phone, hours, social, nullIfEmpty(loc.SquareLocationID), loc.UpdatedAt,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.StoreLocation{}, apperror.NewNotFoundError(fmt.Sprintf("Loja com ID %s não encontrada para atualização.", loc.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar loja no DB.", err)
		return domain.StoreLocation{}, apperror.NewDBError("Falha ao atualizar loja", err)
	}

	r.invalidate(ctxTimeout, loc.ID)
	r.logger.Info("Loja atualizada com sucesso.", map[string]interface{}{"id": updated.ID})
	return updated, nil
}

// Delete remove a loja e invalida o cache.
func (r *LocationRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewNotFoundError(fmt.Sprintf("Loja com ID %s não encontrada para exclusão.", id))
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM store_locations WHERE id = $1`, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return apperror.NewConflictError("A loja possui estoque ou trocas vinculadas.")
		}
		r.logger.Error("Falha ao deletar loja do DB.", err)
		return apperror.NewDBError("Falha ao deletar loja", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Loja com ID %s não encontrada para exclusão.", id))
	}

	r.invalidate(ctxTimeout, id)
	r.logger.Info("Loja deletada com sucesso.", map[string]interface{}{"id": id})
	return nil
}

// Exists informa se a loja existe.
func (r *LocationRepository) Exists(ctx context.Context, id string) (bool, error) {
	return database.Exists(ctx, r.DB, r.DBTimeout, "store_locations", id)
}

func (r *LocationRepository) invalidate(ctx context.Context, id string) {
	key := fmt.Sprintf(locationCacheKey, id)
	if err := r.Cache.Delete(ctx, key); err != nil {
		r.logger.Warn("Falha ao invalidar cache da loja.", map[string]interface{}{"key": key, "error": err.Error()})
	}
}
