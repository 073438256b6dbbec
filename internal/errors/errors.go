package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError é a interface central para todos os erros customizados do GoStore.
// Ela permite que o código externo (Handler) acesse a Categoria e a Mensagem do erro.
type AppError interface {
	Error() string    // Implementa a interface error padrão do Go
	Category() string // Categoria do erro (e.g., "VALIDATION", "NOT_FOUND", "INTERNAL")
	HTTPStatus() int  // Código HTTP sugerido para o Handler
	Unwrap() error    // Permite encapsular erros subjacentes (original error)
}

// --- Tipos de Erro Específicos (Erros de Domínio) ---

// ValidationError representa falhas de validação de dados de entrada.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string    { return fmt.Sprintf("Erro de Validação: %s", e.Msg) }
func (e *ValidationError) Category() string { return "VALIDATION_ERROR" }
func (e *ValidationError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *ValidationError) Unwrap() error    { return nil }

// NewValidationError cria um novo erro de validação.
func NewValidationError(msg string) AppError {
	return &ValidationError{Msg: msg}
}

// NotFoundError representa a ausência de um recurso solicitado.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string    { return fmt.Sprintf("Recurso não encontrado: %s", e.Msg) }
func (e *NotFoundError) Category() string { return "NOT_FOUND" }
func (e *NotFoundError) HTTPStatus() int  { return http.StatusNotFound } // 404
func (e *NotFoundError) Unwrap() error    { return nil }

// NewNotFoundError cria um novo erro de recurso não encontrado.
func NewNotFoundError(msg string) AppError {
	return &NotFoundError{Msg: msg}
}

// ConflictError representa um conflito na regra de negócio (e.g., OCC, recurso duplicado).
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string    { return fmt.Sprintf("Conflito de estado: %s", e.Msg) }
func (e *ConflictError) Category() string { return "CONFLICT" }
func (e *ConflictError) HTTPStatus() int  { return http.StatusConflict } // 409
func (e *ConflictError) Unwrap() error    { return nil }

// NewConflictError cria um novo erro de conflito (usado em OCC e CAS de status).
func NewConflictError(msg string) AppError {
	return &ConflictError{Msg: msg}
}

// UnauthorizedError representa credenciais ausentes ou inválidas.
type UnauthorizedError struct {
	Msg string
}

func (e *UnauthorizedError) Error() string    { return fmt.Sprintf("Não autorizado: %s", e.Msg) }
func (e *UnauthorizedError) Category() string { return "UNAUTHORIZED" }
func (e *UnauthorizedError) HTTPStatus() int  { return http.StatusUnauthorized } // 401
func (e *UnauthorizedError) Unwrap() error    { return nil }

// NewUnauthorizedError cria um novo erro de autenticação.
func NewUnauthorizedError(msg string) AppError {
	return &UnauthorizedError{Msg: msg}
}

// ForbiddenError representa um usuário autenticado sem a permissão necessária.
type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string    { return fmt.Sprintf("Acesso negado: %s", e.Msg) }
func (e *ForbiddenError) Category() string { return "FORBIDDEN" }
func (e *ForbiddenError) HTTPStatus() int  { return http.StatusForbidden } // 403
func (e *ForbiddenError) Unwrap() error    { return nil }

// NewForbiddenError cria um novo erro de autorização.
func NewForbiddenError(msg string) AppError {
	return &ForbiddenError{Msg: msg}
}

// --- Erros do fluxo de Trocas (Exchange) ---

// InvalidStatusError indica um valor de status fora do enum conhecido.
type InvalidStatusError struct {
	Value string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("Status inválido: '%s' (esperado Pending, Approved ou Rejected)", e.Value)
}
func (e *InvalidStatusError) Category() string { return "INVALID_STATUS" }
func (e *InvalidStatusError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *InvalidStatusError) Unwrap() error    { return nil }

// NewInvalidStatusError cria um erro de status inválido.
func NewInvalidStatusError(value string) AppError {
	return &InvalidStatusError{Value: value}
}

// InvalidTransitionError indica uma transição não permitida pela máquina de estados.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("Transição inválida: %s -> %s", e.From, e.To)
}
func (e *InvalidTransitionError) Category() string { return "INVALID_TRANSITION" }
func (e *InvalidTransitionError) HTTPStatus() int  { return http.StatusConflict } // 409
func (e *InvalidTransitionError) Unwrap() error    { return nil }

// NewInvalidTransitionError cria um erro de transição inválida.
func NewInvalidTransitionError(from, to string) AppError {
	return &InvalidTransitionError{From: from, To: to}
}

// ReferencedEntityMissingError indica que uma entidade referenciada não existe.
type ReferencedEntityMissingError struct {
	Entity string // e.g., "customer", "returned_item", "new_item", "staff"
	ID     string
}

func (e *ReferencedEntityMissingError) Error() string {
	return fmt.Sprintf("Entidade referenciada não encontrada: %s '%s'", e.Entity, e.ID)
}
func (e *ReferencedEntityMissingError) Category() string { return "REFERENCED_ENTITY_MISSING" }
func (e *ReferencedEntityMissingError) HTTPStatus() int  { return http.StatusUnprocessableEntity } // 422
func (e *ReferencedEntityMissingError) Unwrap() error    { return nil }

// NewReferencedEntityMissingError cria um erro de referência ausente.
func NewReferencedEntityMissingError(entity, id string) AppError {
	return &ReferencedEntityMissingError{Entity: entity, ID: id}
}

// StockAdjustmentFailedError indica que o ledger de estoque rejeitou um movimento.
// O status da troca não foi persistido.
type StockAdjustmentFailedError struct {
	Msg string
	Err error
}

func (e *StockAdjustmentFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Falha no ajuste de estoque: %s: %s", e.Msg, e.Err.Error())
	}
	return fmt.Sprintf("Falha no ajuste de estoque: %s", e.Msg)
}
func (e *StockAdjustmentFailedError) Category() string { return "STOCK_ADJUSTMENT_FAILED" }
func (e *StockAdjustmentFailedError) HTTPStatus() int  { return http.StatusConflict } // 409
func (e *StockAdjustmentFailedError) Unwrap() error    { return e.Err }

// NewStockAdjustmentFailedError cria um erro de falha no ledger de estoque.
func NewStockAdjustmentFailedError(msg string, err error) AppError {
	return &StockAdjustmentFailedError{Msg: msg, Err: err}
}

// PersistFailedError indica que a escrita final do status falhou.
type PersistFailedError struct {
	Msg string
	Err error
}

func (e *PersistFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Falha ao persistir: %s: %s", e.Msg, e.Err.Error())
	}
	return fmt.Sprintf("Falha ao persistir: %s", e.Msg)
}
func (e *PersistFailedError) Category() string { return "PERSIST_FAILED" }
func (e *PersistFailedError) HTTPStatus() int  { return http.StatusInternalServerError } // 500
func (e *PersistFailedError) Unwrap() error    { return e.Err }

// NewPersistFailedError cria um erro de falha de persistência.
func NewPersistFailedError(msg string, err error) AppError {
	return &PersistFailedError{Msg: msg, Err: err}
}

// --- Tipos de Erro de Infraestrutura (Encapsulamento) ---

// InternalError representa falhas inesperadas no servidor, serviço ou repositório.
type InternalError struct {
	Msg string
	Err error // Erro original subjacente (e.g., erro do driver SQL)
}

func (e *InternalError) Error() string    { return fmt.Sprintf("Erro Interno: %s", e.Msg) }
func (e *InternalError) Category() string { return "INTERNAL_ERROR" }
func (e *InternalError) HTTPStatus() int  { return http.StatusInternalServerError } // 500
func (e *InternalError) Unwrap() error    { return e.Err }

// NewInternalError cria um erro de servidor (para falhas de lógica ou código não esperado).
func NewInternalError(msg string, err error) AppError {
	return &InternalError{Msg: msg, Err: err}
}

// NewDBError é um atalho para criar um InternalError específico de falhas no DB.
func NewDBError(msg string, err error) AppError {
	return NewInternalError(fmt.Sprintf("%s (DB): %s", msg, err.Error()), err)
}

// --- Helpers ---

// IsNotFound informa se algum erro da cadeia é um NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsAppError informa se algum erro da cadeia já é tipado.
func IsAppError(err error) bool {
	var appErr AppError
	return errors.As(err, &appErr)
}

// MapToHTTPStatus recebe um erro e o traduz para o código HTTP e corpo de resposta.
func MapToHTTPStatus(err error) (int, string, string) {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus(), appErr.Category(), appErr.Error()
	}

	// Erro não tipado: tratado como erro interno genérico.
	return http.StatusInternalServerError, "UNKNOWN_ERROR", "Ocorreu um erro inesperado."
}
