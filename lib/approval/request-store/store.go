package approvalrequeststore

import (
	"procurement-backend/models"
	approvalapimodels "procurement-backend/models/api/approval"
	dbmodels "procurement-backend/models/db"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.ApprovalRequest) (id string, err error)
	GetByID(id string) (rec *dbmodels.ApprovalRequest, err error)
	GetByIDForUpdate(id string) (rec *dbmodels.ApprovalRequest, err error)
	Update(id string, updMap map[string]interface{}) error
	List(companyID string, filter approvalapimodels.RequestsFilter) (list []dbmodels.ApprovalRequest, rowCount int64, err error)
	ListForApprover(approverID string) (list []dbmodels.ApprovalRequest, err error)
	ListExpired(now time.Time, limit int) (list []dbmodels.ApprovalRequest, err error)
	ListEscalatable(now time.Time, window time.Duration, limit int) (list []dbmodels.ApprovalRequest, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ApprovalRequest) (string, error) {
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

func (i impl) GetByID(id string) (*dbmodels.ApprovalRequest, error) {
	rec := dbmodels.ApprovalRequest{}
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

// GetByIDForUpdate блокирует строку заявки,
// точка сериализации переходов её статуса
func (i impl) GetByIDForUpdate(id string) (*dbmodels.ApprovalRequest, error) {
	rec := dbmodels.ApprovalRequest{}
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

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	err := i.db.
		Model(&dbmodels.ApprovalRequest{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) List(companyID string, filter approvalapimodels.RequestsFilter) ([]dbmodels.ApprovalRequest, int64, error) {
	tx := i.db.
		Model(&dbmodels.ApprovalRequest{}).
		Where("company_id = ?", companyID)
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	if filter.RequesterID != "" {
		tx = tx.Where("requester_id = ?", filter.RequesterID)
	}
	var rowCount int64
	err := tx.Count(&rowCount).Error
	if err != nil {
		return nil, 0, err
	}
	list := []dbmodels.ApprovalRequest{}
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

func (i impl) ListForApprover(approverID string) ([]dbmodels.ApprovalRequest, error) {
	list := []dbmodels.ApprovalRequest{}
	err := i.db.
		Where("current_approver_id = ?", approverID).
		Where("status = ?", models.RequestStatusPending).
		Order("created_at ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ListExpired - заявки на согласовании с истёкшим дедлайном
func (i impl) ListExpired(now time.Time, limit int) ([]dbmodels.ApprovalRequest, error) {
	list := []dbmodels.ApprovalRequest{}
	err := i.db.
		Where("status = ?", models.RequestStatusPending).
		Where("expires_at IS NOT NULL").
		Where("expires_at <= ?", now).
		Order("expires_at ASC").
		Limit(limit).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ListEscalatable - заявки уровня approver с дедлайном в окне (now, now+window]
func (i impl) ListEscalatable(now time.Time, window time.Duration, limit int) ([]dbmodels.ApprovalRequest, error) {
	list := []dbmodels.ApprovalRequest{}
	err := i.db.
		Where("status = ?", models.RequestStatusPending).
		Where("approval_level = ?", models.ApprovalLevelApprover).
		Where("expires_at IS NOT NULL").
		Where("expires_at > ?", now).
		Where("expires_at <= ?", now.Add(window)).
		Order("expires_at ASC").
		Limit(limit).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
