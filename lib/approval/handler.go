package approvalhandler

import (
	"context"
	"encoding/json"
	"time"

	"procurement-backend/db"
	approvaleventstore "procurement-backend/lib/approval/event-store"
	approvalrequeststore "procurement-backend/lib/approval/request-store"
	approvalrulestore "procurement-backend/lib/approval/rule-store"
	credithandler "procurement-backend/lib/credit"
	creditaccountstore "procurement-backend/lib/credit/account-store"
	creditholdstore "procurement-backend/lib/credit/hold-store"
	orgstore "procurement-backend/lib/org/store"
	"procurement-backend/models"
	approvalapimodels "procurement-backend/models/api/approval"
	creditapimodels "procurement-backend/models/api/credit"
	dbmodels "procurement-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Provider interface {
	SubmitRequest(data approvalapimodels.SubmitRequestData) (result *approvalapimodels.SubmitResult, err error)
	ApproveRequest(requestID, approverID, reason string) (view *approvalapimodels.RequestView, err error)
	DenyRequest(requestID, approverID, reason string) (view *approvalapimodels.RequestView, err error)
	CancelRequest(requestID, userID, reason string) (view *approvalapimodels.RequestView, err error)
	FulfillRequest(requestID, userID string, actualCredits *int64) (view *approvalapimodels.RequestView, err error)
	GetRequestWithEvents(id string) (view *approvalapimodels.RequestWithEvents, err error)
	GetRequests(companyID string, filter approvalapimodels.RequestsFilter) (list []approvalapimodels.RequestView, rowCount int64, err error)
	GetApprovalQueue(approverID string) (list []approvalapimodels.RequestView, err error)
	ProcessExpirations(ctx context.Context) (result *approvalapimodels.SchedulerResult, err error)
	ProcessEscalations(ctx context.Context) (result *approvalapimodels.SchedulerResult, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		requestStore: approvalrequeststore.NewInstance(db.DB),
		eventStore:   approvaleventstore.NewInstance(db.DB),
	}
}

type impl struct {
	requestStore approvalrequeststore.Provider
	eventStore   approvaleventstore.Provider
}

func (i impl) SubmitRequest(data approvalapimodels.SubmitRequestData) (*approvalapimodels.SubmitResult, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	logger := log.
		WithField("company_id", data.CompanyID).
		WithField("requester_id", data.RequesterID)
	var result *approvalapimodels.SubmitResult
	err := db.WithTransaction(func(tx *gorm.DB) error {
		accountStore := creditaccountstore.NewInstance(tx)
		requestStore := approvalrequeststore.NewInstance(tx)
		eventStore := approvaleventstore.NewInstance(tx)
		ruleStore := approvalrulestore.NewInstance(tx)

		acc, err := accountStore.GetByCompanyID(data.CompanyID)
		if err != nil {
			return err
		}
		if acc == nil {
			return models.ErrAccountNotFound
		}
		rules, err := ruleStore.ListActive(data.CompanyID)
		if err != nil {
			return err
		}
		route := resolveRoute(rules, data.EstimatedCredits, ladderFromConfig())
		now := time.Now()
		rec := dbmodels.ApprovalRequest{
			CompanyID:        data.CompanyID,
			TeamID:           data.TeamID,
			RequesterID:      data.RequesterID,
			RequestType:      data.RequestType,
			Title:            data.Title,
			Description:      data.Description,
			Context:          data.Context,
			EstimatedCredits: data.EstimatedCredits,
			ApprovalLevel:    route.Level,
			SubmittedAt:      &now,
		}

		if route.Level == models.ApprovalLevelAuto {
			rec.Status = models.RequestStatusApproved
			rec.DecidedAt = &now
			rec.DecisionReason = "автоматическое согласование"
			requestID, err := requestStore.Create(rec)
			if err != nil {
				return err
			}
			_, err = credithandler.DirectSpendInTx(tx, creditapimodels.DirectSpendData{
				AccountID:       acc.ID,
				Amount:          data.EstimatedCredits,
				TransactionType: models.TransactionTypeSpend,
				ReferenceType:   models.ReferenceTypeRequest,
				ReferenceID:     requestID,
				Description:     data.Title,
				IdempotencyKey:  "request_spend_" + requestID,
				UserID:          data.RequesterID,
			})
			if err != nil {
				return err
			}
			_, err = eventStore.Create(dbmodels.ApprovalEvent{
				RequestID:         requestID,
				EventType:         models.ApprovalEventAutoApproved,
				PerformedBy:       data.RequesterID,
				PerformedBySystem: true,
				FromStatus:        models.RequestStatusPending,
				ToStatus:          models.RequestStatusApproved,
			})
			if err != nil {
				return err
			}
			created, err := requestStore.GetByID(requestID)
			if err != nil {
				return err
			}
			result = &approvalapimodels.SubmitResult{
				Request:       approvalapimodels.RequestViewFromRec(*created),
				Status:        models.RequestStatusApproved,
				ApprovalLevel: models.ApprovalLevelAuto,
				AutoApproved:  true,
			}
			return nil
		}

		rec.Status = models.RequestStatusPending
		expiresAt := now.Add(time.Duration(route.EscalationHours) * time.Hour)
		rec.ExpiresAt = &expiresAt
		requestID, err := requestStore.Create(rec)
		if err != nil {
			return err
		}
		hold, err := credithandler.CreateHoldInTx(tx, creditapimodels.CreateHoldData{
			AccountID: acc.ID,
			RequestID: requestID,
			Amount:    data.EstimatedCredits,
		})
		if err != nil {
			return err
		}
		approverID, err := i.findApprover(tx, data.TeamID, data.RequesterID, route.Level)
		if err != nil {
			return err
		}
		if approverID != nil {
			err = requestStore.Update(requestID, map[string]interface{}{
				"CurrentApproverID": approverID,
			})
			if err != nil {
				return err
			}
		} else {
			// нет согласующего - заявка остаётся на согласовании,
			// её подхватит задача эскалации
			logger.WithField("request_id", requestID).Warn("не найден согласующий для заявки")
		}
		_, err = eventStore.Create(dbmodels.ApprovalEvent{
			RequestID:   requestID,
			EventType:   models.ApprovalEventSubmitted,
			PerformedBy: data.RequesterID,
			FromStatus:  models.RequestStatusDraft,
			ToStatus:    models.RequestStatusPending,
		})
		if err != nil {
			return err
		}
		created, err := requestStore.GetByID(requestID)
		if err != nil {
			return err
		}
		result = &approvalapimodels.SubmitResult{
			Request:       approvalapimodels.RequestViewFromRec(*created),
			Status:        models.RequestStatusPending,
			ApprovalLevel: route.Level,
			HoldID:        &hold.HoldID,
			AutoApproved:  false,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// findApprover ищет согласующего в команде по уровню заявки:
// для approver сначала роль approver, затем admin/owner,
// для admin только admin/owner
func (i impl) findApprover(tx *gorm.DB, teamID, requesterID string, level models.ApprovalLevel) (*string, error) {
	if teamID == "" {
		return nil, nil
	}
	store := orgstore.NewInstance(tx)
	if level == models.ApprovalLevelApprover {
		candidates, err := store.ListTeamMembersByRoles(teamID, []models.TeamRole{models.TeamRoleApprover})
		if err != nil {
			return nil, err
		}
		if selected := selectApprover(candidates, requesterID); selected != nil {
			return &selected.UserID, nil
		}
	}
	candidates, err := store.ListTeamMembersByRoles(teamID, []models.TeamRole{models.TeamRoleAdmin, models.TeamRoleOwner})
	if err != nil {
		return nil, err
	}
	if selected := selectApprover(candidates, requesterID); selected != nil {
		return &selected.UserID, nil
	}
	return nil, nil
}

func (i impl) ApproveRequest(requestID, approverID, reason string) (*approvalapimodels.RequestView, error) {
	var view *approvalapimodels.RequestView
	err := db.WithTransaction(func(tx *gorm.DB) error {
		requestStore := approvalrequeststore.NewInstance(tx)
		eventStore := approvaleventstore.NewInstance(tx)
		holdStore := creditholdstore.NewInstance(tx)

		rec, err := requestStore.GetByIDForUpdate(requestID)
		if err != nil {
			return err
		}
		if rec == nil {
			return models.ErrRequestNotFound
		}
		if !rec.Status.CanTransitionTo(models.RequestStatusApproved) {
			return &models.InvalidTransitionError{From: rec.Status, Op: "approve"}
		}
		role, err := orgstore.NewInstance(tx).GetCompanyRole(rec.CompanyID, approverID)
		if err != nil {
			return err
		}
		if !CanUserApprove(*rec, approverID, role) {
			return models.ErrForbidden
		}
		now := time.Now()
		err = requestStore.Update(requestID, map[string]interface{}{
			"Status":         models.RequestStatusApproved,
			"DecidedBy":      &approverID,
			"DecisionReason": reason,
			"DecidedAt":      &now,
		})
		if err != nil {
			return err
		}
		hold, err := holdStore.GetActiveByRequestID(requestID)
		if err != nil {
			return err
		}
		if hold != nil {
			_, err = credithandler.ConvertHoldInTx(tx, hold.ID, approverID)
			if err != nil {
				return err
			}
		} else {
			log.WithField("request_id", requestID).Warn("у согласованной заявки нет активного резерва")
		}
		_, err = eventStore.Create(dbmodels.ApprovalEvent{
			RequestID:   requestID,
			EventType:   models.ApprovalEventApproved,
			PerformedBy: approverID,
			FromStatus:  models.RequestStatusPending,
			ToStatus:    models.RequestStatusApproved,
			Reason:      reason,
		})
		if err != nil {
			return err
		}
		updated, err := requestStore.GetByID(requestID)
		if err != nil {
			return err
		}
		v := approvalapimodels.RequestViewFromRec(*updated)
		view = &v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (i impl) DenyRequest(requestID, approverID, reason string) (*approvalapimodels.RequestView, error) {
	if reason == "" {
		return nil, errors.New("не указана причина отклонения")
	}
	var view *approvalapimodels.RequestView
	err := db.WithTransaction(func(tx *gorm.DB) error {
		requestStore := approvalrequeststore.NewInstance(tx)
		eventStore := approvaleventstore.NewInstance(tx)
		holdStore := creditholdstore.NewInstance(tx)

		rec, err := requestStore.GetByIDForUpdate(requestID)
		if err != nil {
			return err
		}
		if rec == nil {
			return models.ErrRequestNotFound
		}
		if !rec.Status.CanTransitionTo(models.RequestStatusDenied) {
			return &models.InvalidTransitionError{From: rec.Status, Op: "deny"}
		}
		role, err := orgstore.NewInstance(tx).GetCompanyRole(rec.CompanyID, approverID)
		if err != nil {
			return err
		}
		if !CanUserApprove(*rec, approverID, role) {
			return models.ErrForbidden
		}
		now := time.Now()
		err = requestStore.Update(requestID, map[string]interface{}{
			"Status":         models.RequestStatusDenied,
			"DecidedBy":      &approverID,
			"DecisionReason": reason,
			"DecidedAt":      &now,
		})
		if err != nil {
			return err
		}
		err = releaseRequestHold(tx, holdStore, requestID)
		if err != nil {
			return err
		}
		_, err = eventStore.Create(dbmodels.ApprovalEvent{
			RequestID:   requestID,
			EventType:   models.ApprovalEventDenied,
			PerformedBy: approverID,
			FromStatus:  models.RequestStatusPending,
			ToStatus:    models.RequestStatusDenied,
			Reason:      reason,
		})
		if err != nil {
			return err
		}
		updated, err := requestStore.GetByID(requestID)
		if err != nil {
			return err
		}
		v := approvalapimodels.RequestViewFromRec(*updated)
		view = &v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (i impl) CancelRequest(requestID, userID, reason string) (*approvalapimodels.RequestView, error) {
	var view *approvalapimodels.RequestView
	err := db.WithTransaction(func(tx *gorm.DB) error {
		requestStore := approvalrequeststore.NewInstance(tx)
		eventStore := approvaleventstore.NewInstance(tx)
		holdStore := creditholdstore.NewInstance(tx)

		rec, err := requestStore.GetByIDForUpdate(requestID)
		if err != nil {
			return err
		}
		if rec == nil {
			return models.ErrRequestNotFound
		}
		if !rec.Status.CanTransitionTo(models.RequestStatusCancelled) {
			return &models.InvalidTransitionError{From: rec.Status, Op: "cancel"}
		}
		role, err := orgstore.NewInstance(tx).GetCompanyRole(rec.CompanyID, userID)
		if err != nil {
			return err
		}
		if !CanUserCancel(*rec, userID, role) {
			return models.ErrForbidden
		}
		fromStatus := rec.Status
		now := time.Now()
		err = requestStore.Update(requestID, map[string]interface{}{
			"Status":         models.RequestStatusCancelled,
			"DecisionReason": reason,
			"DecidedAt":      &now,
		})
		if err != nil {
			return err
		}
		err = releaseRequestHold(tx, holdStore, requestID)
		if err != nil {
			return err
		}
		_, err = eventStore.Create(dbmodels.ApprovalEvent{
			RequestID:   requestID,
			EventType:   models.ApprovalEventCancelled,
			PerformedBy: userID,
			FromStatus:  fromStatus,
			ToStatus:    models.RequestStatusCancelled,
			Reason:      reason,
		})
		if err != nil {
			return err
		}
		updated, err := requestStore.GetByID(requestID)
		if err != nil {
			return err
		}
		v := approvalapimodels.RequestViewFromRec(*updated)
		view = &v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (i impl) FulfillRequest(requestID, userID string, actualCredits *int64) (*approvalapimodels.RequestView, error) {
	var view *approvalapimodels.RequestView
	err := db.WithTransaction(func(tx *gorm.DB) error {
		requestStore := approvalrequeststore.NewInstance(tx)
		eventStore := approvaleventstore.NewInstance(tx)

		rec, err := requestStore.GetByIDForUpdate(requestID)
		if err != nil {
			return err
		}
		if rec == nil {
			return models.ErrRequestNotFound
		}
		if !rec.Status.CanTransitionTo(models.RequestStatusFulfilled) {
			return &models.InvalidTransitionError{From: rec.Status, Op: "fulfill"}
		}
		role, err := orgstore.NewInstance(tx).GetCompanyRole(rec.CompanyID, userID)
		if err != nil {
			return err
		}
		if !CanUserFulfill(*rec, userID, role) {
			return models.ErrForbidden
		}
		actual := rec.EstimatedCredits
		if actualCredits != nil {
			actual = *actualCredits
		}
		now := time.Now()
		err = requestStore.Update(requestID, map[string]interface{}{
			"Status":        models.RequestStatusFulfilled,
			"ActualCredits": &actual,
			"FulfilledAt":   &now,
		})
		if err != nil {
			return err
		}
		// расхождение оценки и факта не корректирует журнал,
		// оно видно в метаданных события
		metadata, _ := json.Marshal(map[string]int64{
			"estimated_credits": rec.EstimatedCredits,
			"actual_credits":    actual,
		})
		_, err = eventStore.Create(dbmodels.ApprovalEvent{
			RequestID:   requestID,
			EventType:   models.ApprovalEventFulfilled,
			PerformedBy: userID,
			FromStatus:  models.RequestStatusApproved,
			ToStatus:    models.RequestStatusFulfilled,
			Metadata:    datatypes.JSON(metadata),
		})
		if err != nil {
			return err
		}
		updated, err := requestStore.GetByID(requestID)
		if err != nil {
			return err
		}
		v := approvalapimodels.RequestViewFromRec(*updated)
		view = &v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// releaseRequestHold снимает активный резерв заявки, если он ещё есть
func releaseRequestHold(tx *gorm.DB, holdStore creditholdstore.Provider, requestID string) error {
	hold, err := holdStore.GetActiveByRequestID(requestID)
	if err != nil {
		return err
	}
	if hold == nil {
		return nil
	}
	_, err = credithandler.ReleaseHoldInTx(tx, hold.ID)
	return err
}

func (i impl) GetRequestWithEvents(id string) (*approvalapimodels.RequestWithEvents, error) {
	rec, err := i.requestStore.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, models.ErrRequestNotFound
	}
	events, err := i.eventStore.List(id)
	if err != nil {
		return nil, err
	}
	view := approvalapimodels.RequestWithEvents{
		RequestView: approvalapimodels.RequestViewFromRec(*rec),
		Events:      make([]approvalapimodels.EventView, 0, len(events)),
	}
	for _, event := range events {
		view.Events = append(view.Events, approvalapimodels.EventViewFromRec(event))
	}
	return &view, nil
}

func (i impl) GetRequests(companyID string, filter approvalapimodels.RequestsFilter) ([]approvalapimodels.RequestView, int64, error) {
	list, rowCount, err := i.requestStore.List(companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	views := make([]approvalapimodels.RequestView, 0, len(list))
	for _, rec := range list {
		views = append(views, approvalapimodels.RequestViewFromRec(rec))
	}
	return views, rowCount, nil
}

func (i impl) GetApprovalQueue(approverID string) ([]approvalapimodels.RequestView, error) {
	list, err := i.requestStore.ListForApprover(approverID)
	if err != nil {
		return nil, err
	}
	views := make([]approvalapimodels.RequestView, 0, len(list))
	for _, rec := range list {
		views = append(views, approvalapimodels.RequestViewFromRec(rec))
	}
	return views, nil
}
