package db

import (
	dbmodels "procurement-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("Запуск миграций")
	if err := DB.AutoMigrate(&dbmodels.Company{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Company")
	}
	if err := DB.AutoMigrate(&dbmodels.Team{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Team")
	}
	if err := DB.AutoMigrate(&dbmodels.TeamMembership{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры TeamMembership")
	}
	if err := DB.AutoMigrate(&dbmodels.CreditAccount{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры CreditAccount")
	}
	if err := DB.AutoMigrate(&dbmodels.LedgerEntry{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры LedgerEntry")
	}
	// составной индекс журнала, created_at в нём из встроенной BaseModel
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_ledger_account_created ON ledger_entries (account_id, created_at DESC);")
	if err := DB.AutoMigrate(&dbmodels.CreditHold{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры CreditHold")
	}
	if err := DB.AutoMigrate(&dbmodels.ApprovalRequest{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ApprovalRequest")
	}
	if err := DB.AutoMigrate(&dbmodels.ApprovalEvent{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ApprovalEvent")
	}
	if err := DB.AutoMigrate(&dbmodels.ApprovalRule{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ApprovalRule")
	}
	log.Info("Миграция прошла успешно")
	return nil
}
