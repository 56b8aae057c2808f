package creditapimodels

import (
	"procurement-backend/models"
	dbmodels "procurement-backend/models/db"
	"time"

	"github.com/pkg/errors"
)

type Balance struct {
	AccountID        string `json:"account_id"`
	CompanyID        string `json:"company_id"`
	TotalCredits     int64  `json:"total_credits"`
	BonusCredits     int64  `json:"bonus_credits"`
	LedgerCredits    int64  `json:"ledger_credits"`
	LedgerDebits     int64  `json:"ledger_debits"`
	UsedCredits      int64  `json:"used_credits"`
	ReservedCredits  int64  `json:"reserved_credits"`
	AvailableCredits int64  `json:"available_credits"`
	SubscriptionTier string `json:"subscription_tier"`
	SubscriptionEnd  string `json:"subscription_end"` // YYYY-MM-DD, UTC
	DaysRemaining    int    `json:"days_remaining"`
}

type HoldView struct {
	ID          string            `json:"id"`
	AccountID   string            `json:"account_id"`
	RequestID   string            `json:"request_id"`
	Amount      int64             `json:"amount"`
	Status      models.HoldStatus `json:"status"`
	StatusName  string            `json:"status_name"`
	CreatedAt   time.Time         `json:"created_at"`
	ReleasedAt  *time.Time        `json:"released_at,omitempty"`
	ConvertedAt *time.Time        `json:"converted_at,omitempty"`
}

func HoldViewFromRec(rec dbmodels.CreditHold) HoldView {
	return HoldView{
		ID:          rec.ID,
		AccountID:   rec.AccountID,
		RequestID:   rec.RequestID,
		Amount:      rec.Amount,
		Status:      rec.Status,
		StatusName:  rec.Status.ToHuman(),
		CreatedAt:   rec.CreatedAt,
		ReleasedAt:  rec.ReleasedAt,
		ConvertedAt: rec.ConvertedAt,
	}
}

// CreateHoldData - резерв идемпотентен по паре (счёт, заявка),
// отдельный ключ идемпотентности не нужен
type CreateHoldData struct {
	AccountID string `json:"account_id"`
	RequestID string `json:"request_id"`
	Amount    int64  `json:"amount"`
}

func (r CreateHoldData) Validate() error {
	if r.AccountID == "" {
		return errors.New("не указан счёт")
	}
	if r.RequestID == "" {
		return errors.New("не указана заявка")
	}
	if r.Amount <= 0 {
		return errors.New("сумма должна быть положительной")
	}
	return nil
}

type HoldResult struct {
	HoldID           string            `json:"hold_id"`
	Amount           int64             `json:"amount"`
	Status           models.HoldStatus `json:"status"`
	AvailableCredits int64             `json:"available_credits"`
	Created          bool              `json:"created"`
}

type ConvertResult struct {
	HoldID           string `json:"hold_id"`
	LedgerEntryID    string `json:"ledger_entry_id"`
	Amount           int64  `json:"amount"`
	AvailableCredits int64  `json:"available_credits"`
}

type DirectSpendData struct {
	AccountID       string                 `json:"account_id"`
	Amount          int64                  `json:"amount"`
	TransactionType models.TransactionType `json:"transaction_type"`
	ReferenceType   models.ReferenceType   `json:"reference_type"`
	ReferenceID     string                 `json:"reference_id"`
	Description     string                 `json:"description"`
	IdempotencyKey  string                 `json:"idempotency_key"`
	UserID          string                 `json:"-"`
}

func (r DirectSpendData) Validate() error {
	if r.AccountID == "" {
		return errors.New("не указан счёт")
	}
	if r.Amount <= 0 {
		return errors.New("сумма должна быть положительной")
	}
	if !r.TransactionType.IsValid() || !r.TransactionType.IsDebit() {
		return models.ErrInvalidTransactionType
	}
	if !r.ReferenceType.IsValid() {
		return errors.New("недопустимый тип ссылки")
	}
	if r.IdempotencyKey == "" {
		return errors.New("не указан ключ идемпотентности")
	}
	return nil
}

type SpendResult struct {
	LedgerEntryID    string `json:"ledger_entry_id"`
	Amount           int64  `json:"amount"`
	AvailableCredits int64  `json:"available_credits"`
}

type TransactionsFilter struct {
	Limit           int                    `json:"limit"`
	Offset          int                    `json:"offset"`
	StartDate       *time.Time             `json:"start_date"`
	EndDate         *time.Time             `json:"end_date"`
	TransactionType models.TransactionType `json:"transaction_type"`
}

const transactionsLimitMax = 100

// GetLimit возвращает лимит страницы, не больше допустимого максимума
func (r TransactionsFilter) GetLimit() int {
	if r.Limit <= 0 {
		return 50
	}
	if r.Limit > transactionsLimitMax {
		return transactionsLimitMax
	}
	return r.Limit
}

type LedgerEntryView struct {
	ID                  string                 `json:"id"`
	AccountID           string                 `json:"account_id"`
	EntryType           models.LedgerEntryType `json:"entry_type"`
	Amount              int64                  `json:"amount"`
	TransactionType     models.TransactionType `json:"transaction_type"`
	TransactionTypeName string                 `json:"transaction_type_name"`
	ReferenceType       models.ReferenceType   `json:"reference_type"`
	ReferenceID         string                 `json:"reference_id,omitempty"`
	Description         string                 `json:"description,omitempty"`
	PerformedBy         string                 `json:"performed_by,omitempty"`
	CreatedAt           time.Time              `json:"created_at"`
}

func LedgerEntryViewFromRec(rec dbmodels.LedgerEntry) LedgerEntryView {
	return LedgerEntryView{
		ID:                  rec.ID,
		AccountID:           rec.AccountID,
		EntryType:           rec.EntryType,
		Amount:              rec.Amount,
		TransactionType:     rec.TransactionType,
		TransactionTypeName: rec.TransactionType.ToHuman(),
		ReferenceType:       rec.ReferenceType,
		ReferenceID:         rec.ReferenceID,
		Description:         rec.Description,
		PerformedBy:         rec.PerformedBy,
		CreatedAt:           rec.CreatedAt,
	}
}

type TransactionsResult struct {
	Entries []LedgerEntryView `json:"entries"`
	Total   int64             `json:"total"`
	HasMore bool              `json:"has_more"`
}
