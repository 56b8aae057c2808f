package ledgerstore

import (
	"procurement-backend/models"
	creditapimodels "procurement-backend/models/api/credit"
	dbmodels "procurement-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.LedgerEntry) (id string, err error)
	GetByKey(accountID, idempotencyKey string) (rec *dbmodels.LedgerEntry, err error)
	SumByEntryType(accountID string, entryType models.LedgerEntryType) (sum int64, err error)
	List(accountID string, filter creditapimodels.TransactionsFilter) (list []dbmodels.LedgerEntry, rowCount int64, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

// Create добавляет проводку, журнал только на добавление -
// записи не обновляются и не удаляются
func (i impl) Create(rec dbmodels.LedgerEntry) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", err
	}
	err := i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByKey(accountID, idempotencyKey string) (*dbmodels.LedgerEntry, error) {
	rec := dbmodels.LedgerEntry{}
	err := i.db.
		Where("account_id = ?", accountID).
		Where("idempotency_key = ?", idempotencyKey).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) SumByEntryType(accountID string, entryType models.LedgerEntryType) (int64, error) {
	var sum int64
	err := i.db.
		Model(&dbmodels.LedgerEntry{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("account_id = ?", accountID).
		Where("entry_type = ?", entryType).
		Scan(&sum).
		Error
	if err != nil {
		return 0, err
	}
	return sum, nil
}

func (i impl) List(accountID string, filter creditapimodels.TransactionsFilter) ([]dbmodels.LedgerEntry, int64, error) {
	tx := i.db.
		Model(&dbmodels.LedgerEntry{}).
		Where("account_id = ?", accountID)
	if filter.TransactionType != "" {
		tx = tx.Where("transaction_type = ?", filter.TransactionType)
	}
	if filter.StartDate != nil {
		tx = tx.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		tx = tx.Where("created_at <= ?", *filter.EndDate)
	}
	var rowCount int64
	err := tx.Count(&rowCount).Error
	if err != nil {
		return nil, 0, err
	}
	list := []dbmodels.LedgerEntry{}
	err = tx.
		Order("created_at DESC").
		Limit(filter.GetLimit()).
		Offset(filter.Offset).
		Find(&list).
		Error
	if err != nil {
		return nil, 0, err
	}
	return list, rowCount, nil
}
