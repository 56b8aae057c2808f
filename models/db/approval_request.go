package dbmodels

import (
	"procurement-backend/models"
	"time"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
)

type ApprovalRequest struct {
	BaseModel
	CompanyID         string `gorm:"type:varchar(36);index"`
	TeamID            string `gorm:"type:varchar(36)"`
	RequesterID       string `gorm:"type:varchar(36)"`
	RequestType       string `gorm:"type:varchar(50)"`
	Title             string `gorm:"type:varchar(255)"`
	Description       string
	Context           datatypes.JSON       `gorm:"type:jsonb"`
	EstimatedCredits  int64
	ActualCredits     *int64
	Status            models.RequestStatus `gorm:"type:varchar(20);index:idx_request_status_expires;index:idx_request_approver_status,priority:2"`
	ApprovalLevel     models.ApprovalLevel `gorm:"type:varchar(20)"`
	CurrentApproverID *string              `gorm:"type:varchar(36);index:idx_request_approver_status,priority:1"`
	DecidedBy         *string              `gorm:"type:varchar(36)"`
	DecisionReason    string
	SubmittedAt       *time.Time
	DecidedAt         *time.Time
	FulfilledAt       *time.Time
	ExpiresAt         *time.Time `gorm:"index:idx_request_status_expires"`
}

func (r ApprovalRequest) Validate() error {
	if r.CompanyID == "" {
		return errors.New("не указана компания")
	}
	if r.RequesterID == "" {
		return errors.New("не указан автор заявки")
	}
	if r.Title == "" {
		return errors.New("не указано название заявки")
	}
	if r.EstimatedCredits <= 0 {
		return errors.New("не указана оценка в кредитах")
	}
	return nil
}

type ApprovalEvent struct {
	BaseModel
	RequestID         string                   `gorm:"type:varchar(36);index"`
	EventType         models.ApprovalEventType `gorm:"type:varchar(20)"`
	PerformedBy       string                   `gorm:"type:varchar(36)"`
	PerformedBySystem bool
	FromStatus        models.RequestStatus `gorm:"type:varchar(20)"`
	ToStatus          models.RequestStatus `gorm:"type:varchar(20)"`
	Reason            string
	Metadata          datatypes.JSON `gorm:"type:jsonb"`
}

type ApprovalRule struct {
	BaseModel
	CompanyID       string `gorm:"type:varchar(36);index"`
	MinCredits      int64
	MaxCredits      *int64 // nil = без верхней границы
	ApproverRole    models.ApprovalLevel `gorm:"type:varchar(20)"`
	EscalationHours *int
	Priority        int
	IsActive        bool
}

func (r ApprovalRule) Validate() error {
	if r.CompanyID == "" {
		return errors.New("не указана компания")
	}
	if r.MinCredits < 0 {
		return errors.New("отрицательная нижняя граница")
	}
	if r.MaxCredits != nil && *r.MaxCredits < r.MinCredits {
		return errors.New("верхняя граница меньше нижней")
	}
	if !r.ApproverRole.IsValid() {
		return errors.New("недопустимый уровень согласования")
	}
	return nil
}

// Matches - попадает ли сумма в диапазон правила
func (r ApprovalRule) Matches(credits int64) bool {
	if !r.IsActive {
		return false
	}
	if credits < r.MinCredits {
		return false
	}
	return r.MaxCredits == nil || *r.MaxCredits >= credits
}
