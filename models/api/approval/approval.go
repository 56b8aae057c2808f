package approvalapimodels

import (
	"procurement-backend/models"
	dbmodels "procurement-backend/models/db"
	"time"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
)

type SubmitRequestData struct {
	CompanyID        string         `json:"-"`
	TeamID           string         `json:"-"`
	RequesterID      string         `json:"-"`
	RequestType      string         `json:"request_type"`
	Title            string         `json:"title"`
	Description      string         `json:"description,omitempty"`
	Context          datatypes.JSON `json:"context,omitempty"`
	EstimatedCredits int64          `json:"estimated_credits"`
}

func (r SubmitRequestData) Validate() error {
	if r.Title == "" {
		return errors.New("не указано название заявки")
	}
	if r.EstimatedCredits <= 0 {
		return errors.New("оценка в кредитах должна быть положительной")
	}
	return nil
}

type SubmitResult struct {
	Request       RequestView          `json:"request"`
	Status        models.RequestStatus `json:"status"`
	ApprovalLevel models.ApprovalLevel `json:"approval_level"`
	HoldID        *string              `json:"hold_id,omitempty"`
	AutoApproved  bool                 `json:"auto_approved"`
}

type DecisionData struct {
	Reason string `json:"reason,omitempty"`
}

type FulfillData struct {
	ActualCredits *int64 `json:"actual_credits,omitempty"`
}

type RequestView struct {
	ID                string               `json:"id"`
	CompanyID         string               `json:"company_id"`
	TeamID            string               `json:"team_id,omitempty"`
	RequesterID       string               `json:"requester_id"`
	RequestType       string               `json:"request_type,omitempty"`
	Title             string               `json:"title"`
	Description       string               `json:"description,omitempty"`
	Context           datatypes.JSON       `json:"context,omitempty"`
	EstimatedCredits  int64                `json:"estimated_credits"`
	ActualCredits     *int64               `json:"actual_credits,omitempty"`
	Status            models.RequestStatus `json:"status"`
	StatusName        string               `json:"status_name"`
	ApprovalLevel     models.ApprovalLevel `json:"approval_level"`
	CurrentApproverID *string              `json:"current_approver_id,omitempty"`
	DecidedBy         *string              `json:"decided_by,omitempty"`
	DecisionReason    string               `json:"decision_reason,omitempty"`
	SubmittedAt       *time.Time           `json:"submitted_at,omitempty"`
	DecidedAt         *time.Time           `json:"decided_at,omitempty"`
	FulfilledAt       *time.Time           `json:"fulfilled_at,omitempty"`
	ExpiresAt         *time.Time           `json:"expires_at,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

func RequestViewFromRec(rec dbmodels.ApprovalRequest) RequestView {
	return RequestView{
		ID:                rec.ID,
		CompanyID:         rec.CompanyID,
		TeamID:            rec.TeamID,
		RequesterID:       rec.RequesterID,
		RequestType:       rec.RequestType,
		Title:             rec.Title,
		Description:       rec.Description,
		Context:           rec.Context,
		EstimatedCredits:  rec.EstimatedCredits,
		ActualCredits:     rec.ActualCredits,
		Status:            rec.Status,
		StatusName:        rec.Status.ToHuman(),
		ApprovalLevel:     rec.ApprovalLevel,
		CurrentApproverID: rec.CurrentApproverID,
		DecidedBy:         rec.DecidedBy,
		DecisionReason:    rec.DecisionReason,
		SubmittedAt:       rec.SubmittedAt,
		DecidedAt:         rec.DecidedAt,
		FulfilledAt:       rec.FulfilledAt,
		ExpiresAt:         rec.ExpiresAt,
		CreatedAt:         rec.CreatedAt,
		UpdatedAt:         rec.UpdatedAt,
	}
}

type EventView struct {
	ID                string                   `json:"id"`
	RequestID         string                   `json:"request_id"`
	EventType         models.ApprovalEventType `json:"event_type"`
	PerformedBy       string                   `json:"performed_by,omitempty"`
	PerformedBySystem bool                     `json:"performed_by_system"`
	FromStatus        models.RequestStatus     `json:"from_status,omitempty"`
	ToStatus          models.RequestStatus     `json:"to_status,omitempty"`
	Reason            string                   `json:"reason,omitempty"`
	Metadata          datatypes.JSON           `json:"metadata,omitempty"`
	CreatedAt         time.Time                `json:"created_at"`
}

func EventViewFromRec(rec dbmodels.ApprovalEvent) EventView {
	return EventView{
		ID:                rec.ID,
		RequestID:         rec.RequestID,
		EventType:         rec.EventType,
		PerformedBy:       rec.PerformedBy,
		PerformedBySystem: rec.PerformedBySystem,
		FromStatus:        rec.FromStatus,
		ToStatus:          rec.ToStatus,
		Reason:            rec.Reason,
		Metadata:          rec.Metadata,
		CreatedAt:         rec.CreatedAt,
	}
}

type RequestWithEvents struct {
	RequestView
	Events []EventView `json:"events"`
}

type RequestsFilter struct {
	Status      models.RequestStatus `json:"status"`
	RequesterID string               `json:"requester_id"`
	Limit       int                  `json:"limit"`
	Offset      int                  `json:"offset"`
}

const requestsLimitMax = 100

func (r RequestsFilter) GetLimit() int {
	if r.Limit <= 0 {
		return 50
	}
	if r.Limit > requestsLimitMax {
		return requestsLimitMax
	}
	return r.Limit
}

type SchedulerResult struct {
	Success bool     `json:"success"`
	Count   int      `json:"count"`
	IDs     []string `json:"ids"`
}
