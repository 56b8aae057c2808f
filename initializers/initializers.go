package initializers

import (
	"context"
	"time"

	"procurement-backend/config"
	"procurement-backend/fiberlog"
	approvalhandler "procurement-backend/lib/approval"
	approvalworker "procurement-backend/lib/approval/worker"
	credithandler "procurement-backend/lib/credit"
	xlsexport "procurement-backend/lib/export/xls"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	xlsexport.NewHandler()
	credithandler.NewHandler()
	approvalhandler.NewHandler()
	go initWorkers(ctx)
}

// запускаем с промежутком в 10 сек чтоб размыть нагрузку
func initWorkers(ctx context.Context) {
	// Задача перевода просроченных заявок в expired
	approvalworker.StartExpirationWorker(ctx)

	if makeTimeGap(ctx) {
		// Задача эскалации заявок с приближающимся дедлайном
		approvalworker.StartEscalationWorker(ctx)
	}
}

func makeTimeGap(ctx context.Context) (canRun bool) {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(time.Second * 10):
		return true
	}
}
