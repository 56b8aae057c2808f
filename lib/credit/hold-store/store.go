package creditholdstore

import (
	"procurement-backend/models"
	dbmodels "procurement-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.CreditHold) (id string, err error)
	GetByID(id string) (rec *dbmodels.CreditHold, err error)
	GetByIDForUpdate(id string) (rec *dbmodels.CreditHold, err error)
	GetByRequest(accountID, requestID string) (rec *dbmodels.CreditHold, err error)
	GetActiveByRequestID(requestID string) (rec *dbmodels.CreditHold, err error)
	ListActive(accountID string) (list []dbmodels.CreditHold, err error)
	SumActive(accountID string) (sum int64, err error)
	Update(id string, updMap map[string]interface{}) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.CreditHold) (string, error) {
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

func (i impl) GetByID(id string) (*dbmodels.CreditHold, error) {
	rec := dbmodels.CreditHold{}
	err := i.db.
		Where("id = ?", id).
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

// GetByIDForUpdate блокирует строку резерва,
// берётся после блокировки заявки и до блокировки счёта
func (i impl) GetByIDForUpdate(id string) (*dbmodels.CreditHold, error) {
	rec := dbmodels.CreditHold{}
	err := i.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
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

func (i impl) GetByRequest(accountID, requestID string) (*dbmodels.CreditHold, error) {
	rec := dbmodels.CreditHold{}
	err := i.db.
		Where("account_id = ?", accountID).
		Where("request_id = ?", requestID).
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

func (i impl) GetActiveByRequestID(requestID string) (*dbmodels.CreditHold, error) {
	rec := dbmodels.CreditHold{}
	err := i.db.
		Where("request_id = ?", requestID).
		Where("status = ?", models.HoldStatusActive).
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

func (i impl) ListActive(accountID string) ([]dbmodels.CreditHold, error) {
	list := []dbmodels.CreditHold{}
	err := i.db.
		Where("account_id = ?", accountID).
		Where("status = ?", models.HoldStatusActive).
		Order("created_at DESC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) SumActive(accountID string) (int64, error) {
	var sum int64
	err := i.db.
		Model(&dbmodels.CreditHold{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("account_id = ?", accountID).
		Where("status = ?", models.HoldStatusActive).
		Scan(&sum).
		Error
	if err != nil {
		return 0, err
	}
	return sum, nil
}

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	err := i.db.
		Model(&dbmodels.CreditHold{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}
