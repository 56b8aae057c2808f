package credithandler

import (
	"time"

	creditholdstore "procurement-backend/lib/credit/hold-store"
	ledgerstore "procurement-backend/lib/credit/ledger-store"
	"procurement-backend/models"
	creditapimodels "procurement-backend/models/api/credit"
	dbmodels "procurement-backend/models/db"

	"gorm.io/gorm"
)

// CalcAvailable - доступный остаток счёта:
// базовое и бонусное начисление плюс кредитовые проводки
// минус дебетовые проводки и активные резервы
func CalcAvailable(acc dbmodels.CreditAccount, credits, debits, reserved int64) int64 {
	return acc.TotalCredits + acc.BonusCredits + credits - debits - reserved
}

// DaysRemaining - остаток дней подписки по календарным суткам UTC,
// неполный день считается целиком
func DaysRemaining(now, end time.Time) int {
	now = now.UTC()
	end = end.UTC()
	if !end.After(now) {
		return 0
	}
	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	days := int(endDay.Sub(nowDay).Hours() / 24)
	if end.After(endDay) {
		days++
	}
	return days
}

// balanceForAccount собирает баланс тремя независимыми агрегатами,
// журнал и резервы не соединяются в один запрос чтобы не умножать строки
func balanceForAccount(tx *gorm.DB, acc dbmodels.CreditAccount) (*creditapimodels.Balance, error) {
	entryStore := ledgerstore.NewInstance(tx)
	holdStore := creditholdstore.NewInstance(tx)

	credits, err := entryStore.SumByEntryType(acc.ID, models.LedgerEntryTypeCredit)
	if err != nil {
		return nil, err
	}
	debits, err := entryStore.SumByEntryType(acc.ID, models.LedgerEntryTypeDebit)
	if err != nil {
		return nil, err
	}
	reserved, err := holdStore.SumActive(acc.ID)
	if err != nil {
		return nil, err
	}
	return &creditapimodels.Balance{
		AccountID:        acc.ID,
		CompanyID:        acc.CompanyID,
		TotalCredits:     acc.TotalCredits,
		BonusCredits:     acc.BonusCredits,
		LedgerCredits:    credits,
		LedgerDebits:     debits,
		UsedCredits:      debits,
		ReservedCredits:  reserved,
		AvailableCredits: CalcAvailable(acc, credits, debits, reserved),
		SubscriptionTier: acc.SubscriptionTier,
		SubscriptionEnd:  acc.SubscriptionEnd.UTC().Format("2006-01-02"),
		DaysRemaining:    DaysRemaining(time.Now(), acc.SubscriptionEnd),
	}, nil
}
