package exchangeservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"gostore/internal/domain"
	apperror "gostore/internal/errors"
	"gostore/internal/pkg/logger"
	"gostore/internal/pkg/metrics"
)

// References agrupa as verificações de existência usadas na criação de trocas.
type References struct {
	Customers domain.ExistenceChecker
	Items     domain.ExistenceChecker
	Staff     domain.ExistenceChecker
}

// Service gerencia o ciclo de vida das trocas e a reconciliação de estoque na aprovação.
type Service struct {
	repo    domain.ExchangeRepository
	tx      domain.TransactionManager
	refs    References
	metrics metrics.Recorder
	logger  logger.Logger
	now     func() time.Time
}

// NewService cria e retorna uma nova instância do Serviço de Trocas.
func NewService(repo domain.ExchangeRepository, tx domain.TransactionManager, refs References, rec metrics.Recorder, log logger.Logger) *Service {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Service{
		repo:    repo,
		tx:      tx,
		refs:    refs,
		metrics: rec,
		logger:  log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// --- Create ---

// Create registra uma troca Pending depois de confirmar que cliente, itens e funcionário existem.
// Nenhum estoque é movimentado na criação.
func (s *Service) Create(ctx context.Context, input domain.ExchangeInput) (domain.Exchange, error) {
	if err := validateInput(input); err != nil {
		return domain.Exchange{}, err
	}

	checks := []struct {
		entity  string
		id      string
		checker domain.ExistenceChecker
	}{
		{"customer", input.CustomerID, s.refs.Customers},
		{"returned_item", input.ReturnedItemID, s.refs.Items},
		{"new_item", input.NewItemID, s.refs.Items},
		{"staff", input.ProcessedBy, s.refs.Staff},
	}
	for _, c := range checks {
		exists, err := c.checker.Exists(ctx, c.id)
		if err != nil {
			s.logger.Error(fmt.Sprintf("Falha ao verificar existência de %s.", c.entity), err)
			return domain.Exchange{}, err
		}
		if !exists {
			return domain.Exchange{}, apperror.NewReferencedEntityMissingError(c.entity, c.id)
		}
	}

	exchangedAt := s.now()
	if input.ExchangedAt != nil {
		exchangedAt = input.ExchangedAt.UTC()
	}

	ex := domain.Exchange{
		ID:                  uuid.New().String(),
		CustomerID:          input.CustomerID,
		ReturnedItemID:      input.ReturnedItemID,
		NewItemID:           input.NewItemID,
		ReturnedVariationID: input.ReturnedVariationID,
		NewVariationID:      input.NewVariationID,
		ProcessedBy:         input.ProcessedBy,
		LocationID:          input.LocationID,
		Reason:              strings.TrimSpace(input.Reason),
		Status:              domain.ExchangeStatusPending,
		ExchangedAt:         exchangedAt,
	}

	created, err := s.repo.Create(ctx, ex)
	if err != nil {
		return domain.Exchange{}, err
	}
	return created, nil
}

func validateInput(input domain.ExchangeInput) error {
	var missing []string
	if input.CustomerID == "" {
		missing = append(missing, "customer_id")
	}
	if input.ReturnedItemID == "" {
		missing = append(missing, "returned_item_id")
	}
	if input.NewItemID == "" {
		missing = append(missing, "new_item_id")
	}
	if input.ProcessedBy == "" {
		missing = append(missing, "processed_by")
	}
	if input.LocationID == "" {
		missing = append(missing, "location_id")
	}
	if len(missing) > 0 {
		return apperror.NewValidationError(fmt.Sprintf("Campos obrigatórios ausentes: %s.", strings.Join(missing, ", ")))
	}
	return nil
}

// --- Leitura ---

// GetByID busca uma troca.
func (s *Service) GetByID(ctx context.Context, id string) (domain.Exchange, error) {
	return s.repo.FindByID(ctx, id)
}

// List busca trocas com filtros opcionais.
func (s *Service) List(ctx context.Context, filter domain.ExchangeFilter) ([]domain.Exchange, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperror.NewInvalidStatusError(string(filter.Status))
	}
	return s.repo.List(ctx, filter)
}

// --- Update / Delete ---

// Update altera campos mutáveis. Com status informado, delega ao handler de transição.
func (s *Service) Update(ctx context.Context, id string, changes domain.ExchangeChanges) (domain.Exchange, error) {
	if changes.IsEmpty() {
		return domain.Exchange{}, apperror.NewValidationError("Nenhum campo informado para atualização.")
	}
	if changes.ProcessedBy != nil {
		exists, err := s.refs.Staff.Exists(ctx, *changes.ProcessedBy)
		if err != nil {
			return domain.Exchange{}, err
		}
		if !exists {
			return domain.Exchange{}, apperror.NewReferencedEntityMissingError("staff", *changes.ProcessedBy)
		}
	}

	if changes.Status != nil {
		result, err := s.Transition(ctx, id, *changes.Status, changes)
		if err != nil {
			return domain.Exchange{}, err
		}
		return result.Exchange, nil
	}
	return s.repo.Update(ctx, id, changes)
}

// Delete remove uma troca. Trocas aprovadas já movimentaram estoque e não podem ser removidas.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.tx.WithinTx(ctx, func(r domain.ExchangeTxRepos) error {
		current, err := r.Exchanges().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if current.Status == domain.ExchangeStatusApproved {
			return apperror.NewConflictError("Trocas aprovadas não podem ser removidas.")
		}
		return r.Exchanges().Delete(ctx, id)
	})
}

// --- Transition ---

// invalidStatusLabel substitui nas métricas o valor recebido quando o status não é reconhecido.
const invalidStatusLabel domain.ExchangeStatus = "invalid"

// Transition move a troca para o status alvo.
//
// Status repetido é um no-op (Changed=false) e não toca o estoque. Na aprovação com variações
// distintas, o ledger recebe -1 na variação nova e +1 na devolvida, nessa ordem; se o segundo
// movimento ou a gravação do status falhar, os movimentos já aplicados são revertidos.
// A gravação do status é condicionada ao status lido (compare-and-swap).
func (s *Service) Transition(ctx context.Context, id string, target domain.ExchangeStatus, changes domain.ExchangeChanges) (domain.TransitionResult, error) {
	start := s.now()
	fields := map[string]interface{}{"exchange_id": id, "target": string(target)}

	if !target.Valid() {
		s.observe(ctx, "", invalidStatusLabel, "INVALID_STATUS", start)
		return domain.TransitionResult{}, apperror.NewInvalidStatusError(string(target))
	}

	var (
		result domain.TransitionResult
		from   domain.ExchangeStatus
	)
	err := s.tx.WithinTx(ctx, func(r domain.ExchangeTxRepos) error {
		current, err := r.Exchanges().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		from = current.Status

		if current.Status == target {
			// O status não muda, mas os demais campos enviados são gravados.
			if rest := changes.WithoutStatus(); !rest.IsEmpty() {
				current, err = r.Exchanges().Update(ctx, id, rest)
				if err != nil {
					if apperror.IsAppError(err) {
						return err
					}
					return apperror.NewPersistFailedError(fmt.Sprintf("troca %s", id), err)
				}
			}
			result = domain.TransitionResult{
				Exchange: current,
				Changed:  false,
				Message:  fmt.Sprintf("A troca já está com status %s.", target),
			}
			return nil
		}

		if !current.Status.CanTransitionTo(target) {
			return apperror.NewInvalidTransitionError(string(current.Status), string(target))
		}

		var applied []domain.StockAdjustmentRequest
		if target == domain.ExchangeStatusApproved {
			if current.ShouldAdjustStock() {
				applied, err = s.reconcileStock(ctx, r.Stock(), current)
				if err != nil {
					return err
				}
			} else {
				s.logger.Info("Aprovação sem movimentação de estoque: variações ausentes ou iguais.", fields)
			}
		}

		updated, err := r.Exchanges().UpdateStatusIfCurrent(ctx, id, current.Status, target, changes)
		if err != nil {
			s.compensate(ctx, r.Stock(), current.ID, applied)
			var conflict *apperror.ConflictError
			if errors.As(err, &conflict) {
				return err
			}
			return apperror.NewPersistFailedError(fmt.Sprintf("status da troca %s", id), err)
		}

		s.writeAudit(ctx, r.AuditLogs(), current, updated)

		result = domain.TransitionResult{
			Exchange: updated,
			Changed:  true,
			Message:  fmt.Sprintf("Status da troca atualizado para %s.", target),
		}
		return nil
	})
	if err != nil {
		if !apperror.IsAppError(err) {
			err = apperror.NewPersistFailedError(fmt.Sprintf("transação da troca %s", id), err)
		}
		_, category, _ := apperror.MapToHTTPStatus(err)
		s.observe(ctx, from, target, category, start)
		s.logger.Warn("Transição de troca rejeitada.", map[string]interface{}{"exchange_id": id, "target": string(target), "error": err.Error()})
		return domain.TransitionResult{}, err
	}

	outcome := "changed"
	if !result.Changed {
		outcome = "noop"
	}
	s.observe(ctx, from, target, outcome, start)
	fields["from"] = string(from)
	fields["changed"] = result.Changed
	s.logger.Info("Transição de troca concluída.", fields)
	return result, nil
}

// reconcileStock aplica a saída da variação nova e a entrada da devolvida.
// Retorna os movimentos aplicados para eventual compensação.
func (s *Service) reconcileStock(ctx context.Context, ledger domain.StockLedger, ex domain.Exchange) ([]domain.StockAdjustmentRequest, error) {
	outgoing := domain.StockAdjustmentRequest{
		VariantID:   *ex.NewVariationID,
		LocationID:  ex.LocationID,
		Delta:       -1,
		Reason:      fmt.Sprintf("Exchange #%s - Outgoing", ex.ID),
		ReferenceID: ex.ID,
	}
	if _, err := ledger.UpdateStockLevel(ctx, outgoing); err != nil {
		return nil, apperror.NewStockAdjustmentFailedError(fmt.Sprintf("saída da variação %s", outgoing.VariantID), err)
	}
	s.metrics.ObserveStockMovement(ctx, "outgoing", outgoing.Delta)

	returned := domain.StockAdjustmentRequest{
		VariantID:   *ex.ReturnedVariationID,
		LocationID:  ex.LocationID,
		Delta:       1,
		Reason:      fmt.Sprintf("Exchange #%s - Returned", ex.ID),
		ReferenceID: ex.ID,
	}
	if _, err := ledger.UpdateStockLevel(ctx, returned); err != nil {
		s.compensate(ctx, ledger, ex.ID, []domain.StockAdjustmentRequest{outgoing})
		return nil, apperror.NewStockAdjustmentFailedError(fmt.Sprintf("entrada da variação %s", returned.VariantID), err)
	}
	s.metrics.ObserveStockMovement(ctx, "returned", returned.Delta)

	return []domain.StockAdjustmentRequest{outgoing, returned}, nil
}

// compensate reverte, em ordem inversa, os movimentos aplicados.
// Falhas aqui só podem ser registradas: a reconciliação manual usa o reference_id.
func (s *Service) compensate(ctx context.Context, ledger domain.StockLedger, exchangeID string, applied []domain.StockAdjustmentRequest) {
	for i := len(applied) - 1; i >= 0; i-- {
		reverse := domain.StockAdjustmentRequest{
			VariantID:   applied[i].VariantID,
			LocationID:  applied[i].LocationID,
			Delta:       -applied[i].Delta,
			Reason:      fmt.Sprintf("Exchange #%s - Compensation", exchangeID),
			ReferenceID: exchangeID,
		}
		if _, err := ledger.UpdateStockLevel(ctx, reverse); err != nil {
			s.logger.Error(fmt.Sprintf("Falha ao compensar movimento de estoque da troca %s (variação %s, delta %d).", exchangeID, reverse.VariantID, reverse.Delta), err)
			continue
		}
		s.metrics.ObserveStockMovement(ctx, "compensation", reverse.Delta)
	}
}

type auditSnapshot struct {
	Status      domain.ExchangeStatus `json:"status"`
	ProcessedBy string                `json:"processed_by"`
	ExchangedAt time.Time             `json:"exchanged_at"`
	Reason      string                `json:"reason"`
}

func snapshot(ex domain.Exchange) string {
	b, err := json.Marshal(auditSnapshot{Status: ex.Status, ProcessedBy: ex.ProcessedBy, ExchangedAt: ex.ExchangedAt, Reason: ex.Reason})
	if err != nil {
		return "{}"
	}
	return string(b)
}

// writeAudit registra a transição. Falha de auditoria não desfaz a transição.
func (s *Service) writeAudit(ctx context.Context, audit domain.AuditLogRepository, before, after domain.Exchange) {
	entry := domain.AuditLog{
		ActorStaffID: domain.ActorFromContext(ctx),
		Action:       domain.AuditActionUpdateExchangeStatus,
		ResourceType: domain.AuditResourceExchange,
		ResourceID:   after.ID,
		BeforeJSON:   snapshot(before),
		AfterJSON:    snapshot(after),
		CreatedAt:    s.now(),
	}
	if err := audit.Create(ctx, entry); err != nil {
		s.logger.Warn("Falha ao gravar auditoria da transição.", map[string]interface{}{"exchange_id": after.ID, "error": err.Error()})
	}
}

func (s *Service) observe(ctx context.Context, from, to domain.ExchangeStatus, outcome string, start time.Time) {
	s.metrics.ObserveTransition(ctx, string(from), string(to), outcome, s.now().Sub(start))
}
