package approvalworker

import (
	"context"
	"time"

	"procurement-backend/config"
	approvalhandler "procurement-backend/lib/approval"
	baseworker "procurement-backend/lib/utils/base-worker"
)

func StartExpirationWorker(ctx context.Context) {
	interval := time.Duration(config.Conf.Scheduler.RunIntervalMin) * time.Minute
	i := &expirationImpl{
		BaseImpl: *baseworker.NewInstance("ApprovalExpirationWorker", 30*time.Second, interval),
	}
	go i.Run(ctx, i.handle)
}

type expirationImpl struct {
	baseworker.BaseImpl
}

func (i expirationImpl) handle(ctx context.Context) {
	logger := i.GetLogger()
	result, err := approvalhandler.Instance.ProcessExpirations(ctx)
	if err != nil {
		logger.WithError(err).Error("Ошибка обработки просроченных заявок")
		return
	}
	if result.Count > 0 {
		logger.Infof("Просрочено заявок: %v", result.Count)
	}
}

func StartEscalationWorker(ctx context.Context) {
	interval := time.Duration(config.Conf.Scheduler.RunIntervalMin) * time.Minute
	i := &escalationImpl{
		BaseImpl: *baseworker.NewInstance("ApprovalEscalationWorker", 30*time.Second, interval),
	}
	go i.Run(ctx, i.handle)
}

type escalationImpl struct {
	baseworker.BaseImpl
}

func (i escalationImpl) handle(ctx context.Context) {
	logger := i.GetLogger()
	result, err := approvalhandler.Instance.ProcessEscalations(ctx)
	if err != nil {
		logger.WithError(err).Error("Ошибка эскалации заявок")
		return
	}
	if result.Count > 0 {
		logger.Infof("Эскалировано заявок: %v", result.Count)
	}
}
