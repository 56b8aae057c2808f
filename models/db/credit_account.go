package dbmodels

import (
	"procurement-backend/models"
	"time"

	"github.com/pkg/errors"
)

type CreditAccount struct {
	BaseModel
	CompanyID         string `gorm:"type:varchar(36);index"`
	SubscriptionTier  string `gorm:"type:varchar(50)"`
	TotalCredits      int64
	BonusCredits      int64
	SubscriptionStart time.Time
	SubscriptionEnd   time.Time
}

func (a CreditAccount) Validate() error {
	if a.CompanyID == "" {
		return errors.New("не указана компания")
	}
	if a.TotalCredits < 0 {
		return errors.New("отрицательное базовое начисление")
	}
	if a.BonusCredits < 0 {
		return errors.New("отрицательное бонусное начисление")
	}
	return nil
}

type LedgerEntry struct {
	BaseModel
	AccountID       string                 `gorm:"type:varchar(36);uniqueIndex:idx_ledger_account_idem_key"`
	EntryType       models.LedgerEntryType `gorm:"type:varchar(10)"`
	Amount          int64
	TransactionType models.TransactionType `gorm:"type:varchar(20)"`
	ReferenceType   models.ReferenceType   `gorm:"type:varchar(20)"`
	ReferenceID     string                 `gorm:"type:varchar(36)"`
	Description     string
	PerformedBy     string `gorm:"type:varchar(36)"`
	IdempotencyKey  string `gorm:"type:varchar(128);uniqueIndex:idx_ledger_account_idem_key"`
}

func (e LedgerEntry) Validate() error {
	if e.AccountID == "" {
		return errors.New("не указан счёт")
	}
	if e.Amount <= 0 {
		return errors.New("не указана сумма")
	}
	if !e.TransactionType.IsValid() {
		return models.ErrInvalidTransactionType
	}
	if e.EntryType != e.TransactionType.EntryType() {
		return errors.Errorf("направление %v не соответствует типу транзакции %v", e.EntryType, e.TransactionType)
	}
	if !e.ReferenceType.IsValid() {
		return errors.New("недопустимый тип ссылки")
	}
	if e.IdempotencyKey == "" {
		return errors.New("не указан ключ идемпотентности")
	}
	return nil
}

type CreditHold struct {
	BaseModel
	AccountID   string `gorm:"type:varchar(36);uniqueIndex:idx_hold_account_request;index:idx_hold_account_status"`
	RequestID   string `gorm:"type:varchar(36);uniqueIndex:idx_hold_account_request"`
	Amount      int64
	Status      models.HoldStatus `gorm:"type:varchar(20);index:idx_hold_account_status"`
	ReleasedAt  *time.Time
	ConvertedAt *time.Time
}

func (h CreditHold) Validate() error {
	if h.AccountID == "" {
		return errors.New("не указан счёт")
	}
	if h.RequestID == "" {
		return errors.New("не указана заявка")
	}
	if h.Amount <= 0 {
		return errors.New("не указана сумма")
	}
	return nil
}

// ConversionKey - детерминированный ключ идемпотентности проводки списания резерва
func (h CreditHold) ConversionKey() string {
	return models.HoldConversionKeyPrefix + h.ID
}
