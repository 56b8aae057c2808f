package approvalhandler

import (
	"context"
	"time"

	"procurement-backend/config"
	"procurement-backend/db"
	approvaleventstore "procurement-backend/lib/approval/event-store"
	approvalrequeststore "procurement-backend/lib/approval/request-store"
	creditholdstore "procurement-backend/lib/credit/hold-store"
	"procurement-backend/lib/utils/helpers"
	"procurement-backend/models"
	approvalapimodels "procurement-backend/models/api/approval"
	dbmodels "procurement-backend/models/db"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// лимит заявок на один проход фоновой задачи
const schedulerBatchLimit = 500

// ProcessExpirations переводит просроченные заявки в expired и снимает резервы.
// Каждая заявка обрабатывается в своей транзакции, ошибка одной не валит проход
func (i impl) ProcessExpirations(ctx context.Context) (*approvalapimodels.SchedulerResult, error) {
	now := time.Now()
	list, err := i.requestStore.ListExpired(now, schedulerBatchLimit)
	if err != nil {
		return nil, err
	}
	result := approvalapimodels.SchedulerResult{Success: true, IDs: []string{}}
	for _, rec := range list {
		if helpers.IsContextDone(ctx) {
			break
		}
		err = i.expireRequest(rec.ID, now)
		if err != nil {
			log.
				WithError(err).
				WithField("request_id", rec.ID).
				Error("не удалось просрочить заявку")
			continue
		}
		result.Count++
		result.IDs = append(result.IDs, rec.ID)
	}
	return &result, nil
}

func (i impl) expireRequest(requestID string, now time.Time) error {
	return db.WithTransaction(func(tx *gorm.DB) error {
		requestStore := approvalrequeststore.NewInstance(tx)
		eventStore := approvaleventstore.NewInstance(tx)
		holdStore := creditholdstore.NewInstance(tx)

		rec, err := requestStore.GetByIDForUpdate(requestID)
		if err != nil {
			return err
		}
		// перепроверка под блокировкой - заявку могли успеть решить
		if rec == nil || rec.Status != models.RequestStatusPending {
			return nil
		}
		if rec.ExpiresAt == nil || rec.ExpiresAt.After(now) {
			return nil
		}
		err = requestStore.Update(requestID, map[string]interface{}{
			"Status":    models.RequestStatusExpired,
			"DecidedAt": &now,
		})
		if err != nil {
			return err
		}
		err = releaseRequestHold(tx, holdStore, requestID)
		if err != nil {
			return err
		}
		_, err = eventStore.Create(dbmodels.ApprovalEvent{
			RequestID:         requestID,
			EventType:         models.ApprovalEventExpired,
			PerformedBy:       models.SystemUser,
			PerformedBySystem: true,
			FromStatus:        models.RequestStatusPending,
			ToStatus:          models.RequestStatusExpired,
			Reason:            "истёк срок согласования",
		})
		return err
	})
}

// ProcessEscalations поднимает заявки уровня approver на уровень admin,
// когда до дедлайна остаётся меньше окна эскалации
func (i impl) ProcessEscalations(ctx context.Context) (*approvalapimodels.SchedulerResult, error) {
	now := time.Now()
	window := time.Duration(config.Conf.Scheduler.EscalationWindowHours) * time.Hour
	list, err := i.requestStore.ListEscalatable(now, window, schedulerBatchLimit)
	if err != nil {
		return nil, err
	}
	result := approvalapimodels.SchedulerResult{Success: true, IDs: []string{}}
	for _, rec := range list {
		if helpers.IsContextDone(ctx) {
			break
		}
		err = i.escalateRequest(rec.ID, now, window)
		if err != nil {
			log.
				WithError(err).
				WithField("request_id", rec.ID).
				Error("не удалось эскалировать заявку")
			continue
		}
		result.Count++
		result.IDs = append(result.IDs, rec.ID)
	}
	return &result, nil
}

func (i impl) escalateRequest(requestID string, now time.Time, window time.Duration) error {
	return db.WithTransaction(func(tx *gorm.DB) error {
		requestStore := approvalrequeststore.NewInstance(tx)
		eventStore := approvaleventstore.NewInstance(tx)

		rec, err := requestStore.GetByIDForUpdate(requestID)
		if err != nil {
			return err
		}
		if rec == nil || rec.Status != models.RequestStatusPending {
			return nil
		}
		if rec.ApprovalLevel != models.ApprovalLevelApprover {
			return nil
		}
		if rec.ExpiresAt == nil || !rec.ExpiresAt.After(now) || rec.ExpiresAt.After(now.Add(window)) {
			return nil
		}
		approverID, err := i.findApprover(tx, rec.TeamID, rec.RequesterID, models.ApprovalLevelAdmin)
		if err != nil {
			return err
		}
		if approverID == nil {
			return models.ErrNoEligibleApprover
		}
		expiresAt := now.Add(time.Duration(config.Conf.Approval.AdminSLAHours) * time.Hour)
		err = requestStore.Update(requestID, map[string]interface{}{
			"ApprovalLevel":     models.ApprovalLevelAdmin,
			"CurrentApproverID": approverID,
			"ExpiresAt":         &expiresAt,
		})
		if err != nil {
			return err
		}
		_, err = eventStore.Create(dbmodels.ApprovalEvent{
			RequestID:         requestID,
			EventType:         models.ApprovalEventEscalated,
			PerformedBy:       models.SystemUser,
			PerformedBySystem: true,
			FromStatus:        models.RequestStatusPending,
			ToStatus:          models.RequestStatusPending,
			Reason:            "эскалация на уровень администратора",
		})
		return err
	})
}
