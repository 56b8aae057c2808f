package models

import (
	"fmt"

	"github.com/pkg/errors"
)

// ошибки ядра, по ним контроллеры выбирают http статус
var (
	ErrAccountNotFound        = errors.New("счёт не найден")
	ErrHoldNotFound           = errors.New("резерв не найден")
	ErrRequestNotFound        = errors.New("заявка не найдена")
	ErrDuplicateRequest       = errors.New("повторный запрос с тем же ключом идемпотентности")
	ErrInvalidTransactionType = errors.New("недопустимый тип транзакции")
	ErrForbidden              = errors.New("операция недоступна")
	ErrNoEligibleApprover     = errors.New("не найден согласующий")
)

// InsufficientCreditsError - на счёте недостаточно доступных кредитов
type InsufficientCreditsError struct {
	Available int64
	Required  int64
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("недостаточно кредитов: доступно %v, требуется %v", e.Available, e.Required)
}

// InvalidHoldStateError - операция недопустима в текущем статусе резерва
type InvalidHoldStateError struct {
	Status HoldStatus
	Op     string
}

func (e *InvalidHoldStateError) Error() string {
	return fmt.Sprintf("операция %v недопустима для резерва в статусе %v", e.Op, e.Status)
}

// InvalidTransitionError - недопустимый переход статуса заявки
type InvalidTransitionError struct {
	From RequestStatus
	Op   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("операция %v недопустима для заявки в статусе %v", e.Op, e.From)
}
