package customerrepo

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

const customerColumns = `id, name, email, phone, created_at, updated_at`

// CustomerRepository implementa domain.CustomerRepository sobre PostgreSQL.
type CustomerRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewCustomerRepository cria e retorna uma nova instância do Repositório de Clientes.
func NewCustomerRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *CustomerRepository {
	return &CustomerRepository{DB: db, DBTimeout: dbTimeout, logger: logger}
}

// Save insere um novo cliente. Email duplicado vira ConflictError.
func (r *CustomerRepository) Save(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	_, err := r.DB.ExecContext(ctxTimeout, `
        INSERT INTO customers (id, name, email, phone, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Name, c.Email, c.Phone, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return domain.Customer{}, apperror.NewConflictError(fmt.Sprintf("Já existe um cliente com email %s.", c.Email))
		}
		r.logger.Error("Falha ao inserir cliente no DB.", err)
		return domain.Customer{}, apperror.NewDBError("Falha ao criar cliente", err)
	}
	return c, nil
}

// FindByID busca um cliente pelo ID.
func (r *CustomerRepository) FindByID(ctx context.Context, id string) (domain.Customer, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Customer{}, apperror.NewNotFoundError(fmt.Sprintf("Cliente com ID %s não encontrado.", id))
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var c domain.Customer
	err := r.DB.QueryRowContext(ctxTimeout, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Customer{}, apperror.NewNotFoundError(fmt.Sprintf("Cliente com ID %s não encontrado.", id))
	}
	if err != nil {
		return domain.Customer{}, apperror.NewDBError("Falha ao buscar cliente", err)
	}
	return c, nil
}

// FindAll lista clientes com filtro por nome e paginação.
func (r *CustomerRepository) FindAll(ctx context.Context, filter domain.CustomerFilter) ([]domain.Customer, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	limit, offset := database.LimitOffset(filter.Page, filter.Limit)
	query := `SELECT ` + customerColumns + ` FROM customers`
	args := []any{}
	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		query += ` WHERE name ILIKE $1`
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY name, id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		return nil, apperror.NewDBError("Falha ao listar clientes", err)
	}
	defer rows.Close()

	customers := []domain.Customer{}
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, apperror.NewDBError("Falha ao mapear cliente", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Erro após iteração de clientes", err)
	}
	return customers, nil
}

// Exists informa se o cliente existe.
func (r *CustomerRepository) Exists(ctx context.Context, id string) (bool, error) {
	return database.Exists(ctx, r.DB, r.DBTimeout, "customers", id)
}
