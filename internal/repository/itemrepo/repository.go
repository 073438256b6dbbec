package itemrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"gostore/internal/domain"
	apperror "gostore/internal/errors"
	"gostore/internal/pkg/cache"
	"gostore/internal/pkg/database"
	"gostore/internal/pkg/logger"
)

// itemCacheKey é a chave de cache de um item.
const itemCacheKey = "item:%s"

// ItemRepository implementa domain.ItemRepository com PostgreSQL e cache-aside no Redis.
type ItemRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	CacheTTL  time.Duration
	logger    logger.Logger
}

// NewItemRepository cria e retorna uma nova instância do Repositório de Itens.
func NewItemRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, logger logger.Logger) *ItemRepository {
	return &ItemRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		CacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// Save persiste um novo Item e suas Variações na mesma transação.
func (r *ItemRepository) Save(ctx context.Context, item domain.Item) (domain.Item, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	err := database.RunInTx(ctxTimeout, r.DB, func(q database.DBTX) error {
		const itemSQL = `INSERT INTO items (id, sku, name, description, price, is_active, created_at, updated_at)
                         VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

		if _, err := q.ExecContext(ctxTimeout, itemSQL,
			item.ID, item.SKU, item.Name, item.Description, item.Price, item.IsActive, item.CreatedAt, item.UpdatedAt,
		); err != nil {
			if database.IsUniqueViolation(err) {
				return apperror.NewConflictError(fmt.Sprintf("Já existe um item com SKU %s.", item.SKU))
			}
			return apperror.NewDBError("Falha ao inserir item", err)
		}

		const variationSQL = `INSERT INTO variations (id, item_id, attribute, value, barcode, price_diff)
                              VALUES ($1,$2,$3,$4,$5,$6)`

		for _, v := range item.Variations {
			if _, err := q.ExecContext(ctxTimeout, variationSQL,
				v.ID, v.ItemID, v.Attribute, v.Value, v.Barcode, v.PriceDiff,
			); err != nil {
				return apperror.NewDBError("Falha ao inserir variações", err)
			}
		}
		return nil
	})
	if err != nil {
		if apperror.IsAppError(err) {
			return domain.Item{}, err
		}
		return domain.Item{}, apperror.NewDBError("Falha na transação do item", err)
	}

	r.logger.Info("Item criado com sucesso.", map[string]interface{}{"id": item.ID, "sku": item.SKU, "variations": len(item.Variations)})
	return item, nil
}

// FindByID busca um item pelo ID, utilizando a estratégia Cache-Aside.
func (r *ItemRepository) FindByID(ctx context.Context, id string) (domain.Item, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Item{}, apperror.NewNotFoundError(fmt.Sprintf("Item com ID %s não existe.", id))
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := fmt.Sprintf(itemCacheKey, id)

	cached, err := r.Cache.Get(ctxTimeout, key)
	if err == nil {
		var item domain.Item
		if json.Unmarshal([]byte(cached), &item) == nil {
			return item, nil
		}
		r.logger.Warn("Entrada de cache inválida, buscando no DB.", map[string]interface{}{"key": key})
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		r.logger.Warn("Falha ao ler do cache.", map[string]interface{}{"key": key, "error": err.Error()})
	}

	var item domain.Item
	err = r.DB.QueryRowContext(ctxTimeout, `
		SELECT id, sku, name, description, price, is_active, created_at, updated_at
		FROM items
		WHERE id = $1`, id).Scan(
		&item.ID, &item.SKU, &item.Name, &item.Description, &item.Price, &item.IsActive, &item.CreatedAt, &item.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Item{}, apperror.NewNotFoundError(fmt.Sprintf("Item com ID %s não existe.", id))
	}
	if err != nil {
		return domain.Item{}, apperror.NewDBError("Falha ao buscar item no DB", err)
	}

	item.Variations, err = r.findVariations(ctxTimeout, id)
	if err != nil {
		return domain.Item{}, err
	}

	if payload, marshalErr := json.Marshal(item); marshalErr == nil {
		if setErr := r.Cache.Set(ctxTimeout, key, payload, r.CacheTTL); setErr != nil {
			r.logger.Warn("Falha ao gravar no cache.", map[string]interface{}{"key": key, "error": setErr.Error()})
		}
	}

	return item, nil
}

func (r *ItemRepository) findVariations(ctx context.Context, itemID string) ([]domain.Variation, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, item_id, attribute, value, barcode, price_diff
		FROM variations
		WHERE item_id = $1
		ORDER BY attribute, value`, itemID)
	if err != nil {
		return nil, apperror.NewDBError("Falha ao buscar variações", err)
	}
	defer rows.Close()

	variations := []domain.Variation{}
	for rows.Next() {
		var v domain.Variation
		if err := rows.Scan(&v.ID, &v.ItemID, &v.Attribute, &v.Value, &v.Barcode, &v.PriceDiff); err != nil {
			return nil, apperror.NewDBError("Falha ao ler variação", err)
		}
		variations = append(variations, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar variações", err)
	}
	return variations, nil
}

// FindAll lista itens (sem variações) com filtros e paginação.
func (r *ItemRepository) FindAll(ctx context.Context, filter domain.ItemFilter) ([]domain.Item, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var (
		where []string
		args  []any
	)
	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if filter.SKU != "" {
		args = append(args, filter.SKU)
		where = append(where, fmt.Sprintf("sku = $%d", len(args)))
	}
	if filter.ActiveOnly {
		where = append(where, "is_active = TRUE")
	}

	query := `SELECT id, sku, name, description, price, is_active, created_at, updated_at FROM items`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	limit, offset := database.LimitOffset(filter.Page, filter.Limit)
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY name, id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		return nil, apperror.NewDBError("Falha ao listar itens", err)
	}
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(&item.ID, &item.SKU, &item.Name, &item.Description, &item.Price, &item.IsActive, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, apperror.NewDBError("Falha ao ler item", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar itens", err)
	}
	return items, nil
}

// Exists informa se o item existe. IDs que não são UUID não existem.
func (r *ItemRepository) Exists(ctx context.Context, id string) (bool, error) {
	return database.Exists(ctx, r.DB, r.DBTimeout, "items", id)
}
