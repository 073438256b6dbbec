package domain

import (
	"context"
	"time"
)

// Ações e recursos registrados no log de auditoria.
const (
	AuditActionUpdateExchangeStatus = "UPDATE_EXCHANGE_STATUS"
	AuditResourceExchange           = "exchange"
)

// AuditLog registra quem mudou o quê, com o estado antes e depois em JSON.
type AuditLog struct {
	ID           string    `json:"id"`
	ActorStaffID string    `json:"actor_staff_id,omitempty"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resource_type"`
	ResourceID   string    `json:"resource_id"`
	BeforeJSON   string    `json:"before_json"`
	AfterJSON    string    `json:"after_json"`
	CreatedAt    time.Time `json:"created_at"`
}

// AuditLogRepository é o contrato de persistência do log de auditoria.
type AuditLogRepository interface {
	Create(ctx context.Context, entry AuditLog) error
}

type actorKey struct{}

// WithActor anexa ao contexto o ID do funcionário que executa a operação.
func WithActor(ctx context.Context, staffID string) context.Context {
	return context.WithValue(ctx, actorKey{}, staffID)
}

// ActorFromContext devolve o funcionário anexado por WithActor, ou "".
func ActorFromContext(ctx context.Context) string {
	staffID, _ := ctx.Value(actorKey{}).(string)
	return staffID
}
