package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// DBTX é o subconjunto comum de *sql.DB e *sql.Tx usado pelos repositórios.
// Um repositório construído sobre um *sql.Tx participa da transação do chamador.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// txBeginner é implementado por *sql.DB.
type txBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// RunInTx executa fn dentro de uma transação.
// Se db já é um *sql.Tx, fn roda nele sem abrir transação aninhada;
// se é um *sql.DB, abre, commita ou faz rollback conforme o retorno de fn.
func RunInTx(ctx context.Context, db DBTX, fn func(q DBTX) error) (err error) {
	if tx, ok := db.(*sql.Tx); ok {
		return fn(tx)
	}

	beginner, ok := db.(txBeginner)
	if !ok {
		return fn(db)
	}

	tx, err := beginner.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("falha ao iniciar transação: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("falha ao commitar transação: %w", err)
	}
	return nil
}

// uniqueViolation é o SQLSTATE do PostgreSQL para violação de UNIQUE.
const uniqueViolation = "23505"

// foreignKeyViolation é o SQLSTATE do PostgreSQL para violação de FOREIGN KEY.
const foreignKeyViolation = "23503"

// IsUniqueViolation informa se err (ou a cadeia) é uma violação de chave única do PostgreSQL.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}

// IsForeignKeyViolation informa se err (ou a cadeia) é uma violação de chave estrangeira.
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == foreignKeyViolation
}
