package txmanager

import (
	"context"
	"database/sql"
	"time"

	"gostore/internal/domain"
	"gostore/internal/pkg/database"
	"gostore/internal/pkg/logger"
	"gostore/internal/repository/auditrepo"
	"gostore/internal/repository/exchangerepo"
	"gostore/internal/repository/stockrepo"
)

type txRepos struct {
	exchanges domain.ExchangeRepository
	stock     domain.StockLedger
	audit     domain.AuditLogRepository
}

func (r *txRepos) Exchanges() domain.ExchangeRepository { return r.exchanges }
func (r *txRepos) Stock() domain.StockLedger            { return r.stock }
func (r *txRepos) AuditLogs() domain.AuditLogRepository { return r.audit }

// Manager implementa domain.TransactionManager sobre o PostgreSQL:
// os repositórios entregues a fn compartilham o mesmo *sql.Tx.
type Manager struct {
	db        *sql.DB
	dbTimeout time.Duration
	logger    logger.Logger
}

// NewManager cria o gerenciador de transações.
func NewManager(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *Manager {
	return &Manager{db: db, dbTimeout: dbTimeout, logger: logger}
}

// WithinTx abre a transação, monta os repositórios sobre ela e commita se fn não retornar erro.
func (m *Manager) WithinTx(ctx context.Context, fn func(r domain.ExchangeTxRepos) error) error {
	return database.RunInTx(ctx, m.db, func(q database.DBTX) error {
		r := &txRepos{
			exchanges: exchangerepo.NewExchangeRepository(q, m.dbTimeout, m.logger),
			stock:     stockrepo.NewStockRepository(q, m.dbTimeout, m.logger),
			audit:     auditrepo.NewAuditLogRepository(q, m.dbTimeout),
		}
		return fn(r)
	})
}
