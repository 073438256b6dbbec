package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperror "gostore/internal/errors"
)

// Exists verifica se há uma linha com o id informado na tabela.
// table é sempre uma constante do chamador, nunca entrada do usuário.
func Exists(ctx context.Context, db DBTX, timeout time.Duration, table, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, table)
	if err := db.QueryRowContext(ctxTimeout, query, id).Scan(&exists); err != nil {
		return false, apperror.NewDBError(fmt.Sprintf("Falha ao verificar existência em %s", table), err)
	}
	return exists, nil
}
