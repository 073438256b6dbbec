package domain

import (
	"context"
	"time"
)

// ExchangeStatus é o estado de uma troca na máquina de estados Pending -> {Approved, Rejected}.
type ExchangeStatus string

const (
	ExchangeStatusPending  ExchangeStatus = "Pending"
	ExchangeStatusApproved ExchangeStatus = "Approved"
	ExchangeStatusRejected ExchangeStatus = "Rejected"
)

// Valid informa se o status pertence ao enum.
func (s ExchangeStatus) Valid() bool {
	switch s {
	case ExchangeStatusPending, ExchangeStatusApproved, ExchangeStatusRejected:
		return true
	}
	return false
}

// allowedExchangeTransitions lista as transições efetivas permitidas.
// Approved e Rejected são terminais.
var allowedExchangeTransitions = map[ExchangeStatus][]ExchangeStatus{
	ExchangeStatusPending:  {ExchangeStatusApproved, ExchangeStatusRejected},
	ExchangeStatusApproved: {},
	ExchangeStatusRejected: {},
}

// CanTransitionTo informa se a transição s -> target é permitida.
// A mesma transição (s == target) não é tratada aqui: é um no-op decidido pelo serviço.
func (s ExchangeStatus) CanTransitionTo(target ExchangeStatus) bool {
	for _, allowed := range allowedExchangeTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Exchange representa o pedido de um cliente para trocar um item/variação comprado por outro.
type Exchange struct {
	ID                  string         `json:"id"`
	CustomerID          string         `json:"customer_id"`
	ReturnedItemID      string         `json:"returned_item_id"`
	NewItemID           string         `json:"new_item_id"`
	ReturnedVariationID *string        `json:"returned_variation_id,omitempty"`
	NewVariationID      *string        `json:"new_variation_id,omitempty"`
	ProcessedBy         string         `json:"processed_by"` // ID do funcionário
	LocationID          string         `json:"location_id"`
	Reason              string         `json:"reason"`
	Status              ExchangeStatus `json:"status"`
	ExchangedAt         time.Time      `json:"exchanged_at"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// ShouldAdjustStock informa se a aprovação desta troca movimenta estoque:
// só quando as duas variações estão presentes e são diferentes.
func (e Exchange) ShouldAdjustStock() bool {
	if e.ReturnedVariationID == nil || e.NewVariationID == nil {
		return false
	}
	if *e.ReturnedVariationID == "" || *e.NewVariationID == "" {
		return false
	}
	return *e.ReturnedVariationID != *e.NewVariationID
}

// ExchangeInput é o payload de criação de uma troca.
type ExchangeInput struct {
	CustomerID          string     `json:"customer_id"`
	ReturnedItemID      string     `json:"returned_item_id"`
	NewItemID           string     `json:"new_item_id"`
	ReturnedVariationID *string    `json:"returned_variation_id,omitempty"`
	NewVariationID      *string    `json:"new_variation_id,omitempty"`
	ProcessedBy         string     `json:"processed_by"`
	LocationID          string     `json:"location_id"`
	Reason              string     `json:"reason"`
	ExchangedAt         *time.Time `json:"exchanged_at,omitempty"`
}

// ExchangeChanges são os campos mutáveis de uma troca. Campos nil não são alterados.
// Status diferente de nil faz a atualização passar pelo handler de transição.
type ExchangeChanges struct {
	Reason      *string         `json:"reason,omitempty"`
	ExchangedAt *time.Time      `json:"exchanged_at,omitempty"`
	ProcessedBy *string         `json:"processed_by,omitempty"`
	Status      *ExchangeStatus `json:"status,omitempty"`
}

// IsEmpty informa se nenhum campo foi informado.
func (c ExchangeChanges) IsEmpty() bool {
	return c.Reason == nil && c.ExchangedAt == nil && c.ProcessedBy == nil && c.Status == nil
}

// WithoutStatus devolve uma cópia sem o campo de status.
func (c ExchangeChanges) WithoutStatus() ExchangeChanges {
	c.Status = nil
	return c
}

// TransitionResult é o retorno do handler de transição.
// Changed=false indica o no-op de status repetido.
type TransitionResult struct {
	Exchange Exchange `json:"exchange"`
	Changed  bool     `json:"changed"`
	Message  string   `json:"message"`
}

// ExchangeFilter define os parâmetros de busca e paginação de trocas.
type ExchangeFilter struct {
	Status     ExchangeStatus
	CustomerID string
	LocationID string
	Page       int
	Limit      int
}

// --- Contratos de Persistência ---

// ExchangeRepository é o contrato de persistência de trocas.
type ExchangeRepository interface {
	Create(ctx context.Context, exchange Exchange) (Exchange, error)
	FindByID(ctx context.Context, id string) (Exchange, error)
	// FindByIDForUpdate lê a troca bloqueando a linha até o fim da transação corrente.
	FindByIDForUpdate(ctx context.Context, id string) (Exchange, error)
	List(ctx context.Context, filter ExchangeFilter) ([]Exchange, error)
	// Update altera apenas campos que não são status.
	Update(ctx context.Context, id string, changes ExchangeChanges) (Exchange, error)
	// UpdateStatusIfCurrent grava o novo status somente se o status atual ainda for `from`
	// (compare-and-swap). Retorna ConflictError quando nenhuma linha foi afetada.
	UpdateStatusIfCurrent(ctx context.Context, id string, from, to ExchangeStatus, changes ExchangeChanges) (Exchange, error)
	Delete(ctx context.Context, id string) error
}

// StockLedger é o adaptador do ledger de estoque: aplica um delta assinado e registra o motivo.
type StockLedger interface {
	UpdateStockLevel(ctx context.Context, adjustment StockAdjustmentRequest) (StockLevel, error)
}

// ExchangeTxRepos dá acesso aos repositórios que participam da mesma unidade de trabalho.
type ExchangeTxRepos interface {
	Exchanges() ExchangeRepository
	Stock() StockLedger
	AuditLogs() AuditLogRepository
}

// TransactionManager esconde do serviço o início, commit e rollback da transação.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r ExchangeTxRepos) error) error
}
