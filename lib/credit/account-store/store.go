package creditaccountstore

import (
	dbmodels "procurement-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	GetByID(id string) (rec *dbmodels.CreditAccount, err error)
	GetByIDForUpdate(id string) (rec *dbmodels.CreditAccount, err error)
	GetByCompanyID(companyID string) (rec *dbmodels.CreditAccount, err error)
	GetForUser(userID string) (rec *dbmodels.CreditAccount, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) GetByID(id string) (*dbmodels.CreditAccount, error) {
	rec := dbmodels.CreditAccount{}
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

// GetByIDForUpdate берёт эксклюзивную блокировку строки счёта,
// точка сериализации всех операций по балансу
func (i impl) GetByIDForUpdate(id string) (*dbmodels.CreditAccount, error) {
	rec := dbmodels.CreditAccount{}
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

// GetByCompanyID при нескольких счетах выбирает последний созданный
func (i impl) GetByCompanyID(companyID string) (*dbmodels.CreditAccount, error) {
	rec := dbmodels.CreditAccount{}
	err := i.db.
		Where("company_id = ?", companyID).
		Order("created_at DESC").
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

// GetForUser ищет счёт через членство в командах,
// при нескольких счетах побеждает последний созданный
func (i impl) GetForUser(userID string) (*dbmodels.CreditAccount, error) {
	rec := dbmodels.CreditAccount{}
	err := i.db.
		Model(&dbmodels.CreditAccount{}).
		Joins("JOIN teams ON teams.company_id = credit_accounts.company_id").
		Joins("JOIN team_memberships ON team_memberships.team_id = teams.id").
		Where("team_memberships.user_id = ?", userID).
		Order("credit_accounts.created_at DESC").
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
