package faqrepo

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

const faqColumns = `id, question, answer, slug, category, position, published, created_at, updated_at`

// FAQRepository implementa domain.FAQRepository sobre PostgreSQL.
type FAQRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewFAQRepository cria o repositório de FAQs.
func NewFAQRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *FAQRepository {
	return &FAQRepository{DB: db, DBTimeout: dbTimeout, logger: logger}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFAQ(row rowScanner) (domain.FAQ, error) {
	var f domain.FAQ
	err := row.Scan(&f.ID, &f.Question, &f.Answer, &f.Slug, &f.Category, &f.Position, &f.Published, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

func slugConflict(slug string) error {
	return apperror.NewConflictError(fmt.Sprintf("Já existe uma FAQ com slug %s.", slug))
}

// Save insere uma FAQ. Slug duplicado vira ConflictError.
func (r *FAQRepository) Save(ctx context.Context, f domain.FAQ) (domain.FAQ, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	saved, err := scanFAQ(r.DB.QueryRowContext(ctxTimeout, `
        INSERT INTO faqs (id, question, answer, slug, category, position, published, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
        RETURNING `+faqColumns,
		f.ID, f.Question, f.Answer, f.Slug, f.Category, f.Position, f.Published, f.CreatedAt,
	))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return domain.FAQ{}, slugConflict(f.Slug)
		}
		r.logger.Error("Falha ao inserir FAQ.", err)
		return domain.FAQ{}, apperror.NewDBError("Falha ao criar FAQ", err)
	}
	return saved, nil
}

func (r *FAQRepository) findOne(ctx context.Context, where string, arg any, notFound string) (domain.FAQ, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	f, err := scanFAQ(r.DB.QueryRowContext(ctxTimeout, `SELECT `+faqColumns+` FROM faqs WHERE `+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.FAQ{}, apperror.NewNotFoundError(notFound)
	}
	if err != nil {
		return domain.FAQ{}, apperror.NewDBError("Falha ao buscar FAQ", err)
	}
	return f, nil
}

// FindByID busca uma FAQ pelo ID.
func (r *FAQRepository) FindByID(ctx context.Context, id string) (domain.FAQ, error) {
	msg := fmt.Sprintf("FAQ com ID %s não encontrada.", id)
	if _, err := uuid.Parse(id); err != nil {
		return domain.FAQ{}, apperror.NewNotFoundError(msg)
	}
	return r.findOne(ctx, "id = $1", id, msg)
}

// FindBySlug busca uma FAQ pelo slug.
func (r *FAQRepository) FindBySlug(ctx context.Context, slug string) (domain.FAQ, error) {
	return r.findOne(ctx, "slug = $1", slug, fmt.Sprintf("FAQ %s não encontrada.", slug))
}

// FindAll lista FAQs por categoria e posição.
func (r *FAQRepository) FindAll(ctx context.Context, publishedOnly bool) ([]domain.FAQ, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + faqColumns + ` FROM faqs`
	if publishedOnly {
		query += ` WHERE published = TRUE`
	}
	query += ` ORDER BY category, position, id`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		return nil, apperror.NewDBError("Falha ao listar FAQs", err)
	}
	defer rows.Close()

	faqs := []domain.FAQ{}
	for rows.Next() {
		f, err := scanFAQ(rows)
		if err != nil {
			return nil, apperror.NewDBError("Falha ao mapear FAQ", err)
		}
		faqs = append(faqs, f)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Erro após iteração de FAQs", err)
	}
	return faqs, nil
}

// Update regrava a FAQ.
func (r *FAQRepository) Update(ctx context.Context, f domain.FAQ) (domain.FAQ, error) {
	if _, err := uuid.Parse(f.ID); err != nil {
		return domain.FAQ{}, apperror.NewNotFoundError(fmt.Sprintf("FAQ com ID %s não encontrada.", f.ID))
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	updated, err := scanFAQ(r.DB.QueryRowContext(ctxTimeout, `
        UPDATE faqs
        SET question = $2, answer = $3, slug = $4, category = $5, position = $6, published = $7, updated_at = $8
        WHERE id = $1
        RETURNING `+faqColumns,
		f.ID, f.Question, f.Answer, f.Slug, f.Category, f.Position, f.Published, f.UpdatedAt,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.FAQ{}, apperror.NewNotFoundError(fmt.Sprintf("FAQ com ID %s não encontrada.", f.ID))
	}
	if err != nil {
		if database.IsUniqueViolation(err) {
			return domain.FAQ{}, slugConflict(f.Slug)
		}
		return domain.FAQ{}, apperror.NewDBError("Falha ao atualizar FAQ", err)
	}
	return updated, nil
}

// Delete remove a FAQ.
func (r *FAQRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewNotFoundError(fmt.Sprintf("FAQ com ID %s não encontrada.", id))
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM faqs WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDBError("Falha ao deletar FAQ", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if n == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("FAQ com ID %s não encontrada.", id))
	}
	return nil
}
