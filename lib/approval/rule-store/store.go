package approvalrulestore

import (
	dbmodels "procurement-backend/models/db"

	"gorm.io/gorm"
)

type Provider interface {
	ListActive(companyID string) (list []dbmodels.ApprovalRule, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

// ListActive возвращает активные правила компании,
// порядок - по приоритету, затем по дате создания
func (i impl) ListActive(companyID string) ([]dbmodels.ApprovalRule, error) {
	list := []dbmodels.ApprovalRule{}
	err := i.db.
		Where("company_id = ?", companyID).
		Where("is_active = ?", true).
		Order("priority ASC").
		Order("created_at ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
