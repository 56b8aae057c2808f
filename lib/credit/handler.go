package credithandler

import (
	"bytes"
	"time"

	"procurement-backend/db"
	creditaccountstore "procurement-backend/lib/credit/account-store"
	creditholdstore "procurement-backend/lib/credit/hold-store"
	ledgerstore "procurement-backend/lib/credit/ledger-store"
	xlsexport "procurement-backend/lib/export/xls"
	"procurement-backend/models"
	creditapimodels "procurement-backend/models/api/credit"
	dbmodels "procurement-backend/models/db"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	GetAccountForUser(userID string) (rec *dbmodels.CreditAccount, err error)
	GetAccountForCompany(companyID string) (rec *dbmodels.CreditAccount, err error)
	GetBalance(accountID string) (balance *creditapimodels.Balance, err error)
	CreateHold(data creditapimodels.CreateHoldData) (result *creditapimodels.HoldResult, err error)
	ReleaseHold(holdID string) (hold *creditapimodels.HoldView, err error)
	ConvertHold(holdID, userID string) (result *creditapimodels.ConvertResult, err error)
	DirectSpend(data creditapimodels.DirectSpendData) (result *creditapimodels.SpendResult, err error)
	GetTransactions(accountID string, filter creditapimodels.TransactionsFilter) (result *creditapimodels.TransactionsResult, err error)
	ExportTransactions(accountID string, filter creditapimodels.TransactionsFilter) (buf *bytes.Buffer, err error)
	GetActiveHolds(accountID string) (list []creditapimodels.HoldView, err error)
	GetHoldByID(id string) (hold *creditapimodels.HoldView, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		accountStore: creditaccountstore.NewInstance(db.DB),
		entryStore:   ledgerstore.NewInstance(db.DB),
		holdStore:    creditholdstore.NewInstance(db.DB),
	}
}

type impl struct {
	accountStore creditaccountstore.Provider
	entryStore   ledgerstore.Provider
	holdStore    creditholdstore.Provider
}

func (i impl) GetAccountForUser(userID string) (*dbmodels.CreditAccount, error) {
	return i.accountStore.GetForUser(userID)
}

func (i impl) GetAccountForCompany(companyID string) (*dbmodels.CreditAccount, error) {
	return i.accountStore.GetByCompanyID(companyID)
}

func (i impl) GetBalance(accountID string) (*creditapimodels.Balance, error) {
	acc, err := i.accountStore.GetByID(accountID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, models.ErrAccountNotFound
	}
	return balanceForAccount(db.DB, *acc)
}

func (i impl) CreateHold(data creditapimodels.CreateHoldData) (*creditapimodels.HoldResult, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	var result *creditapimodels.HoldResult
	err := db.WithTransaction(func(tx *gorm.DB) error {
		var txErr error
		result, txErr = CreateHoldInTx(tx, data)
		return txErr
	})
	if err != nil {
		if db.IsDuplicateErr(err) {
			return nil, models.ErrDuplicateRequest
		}
		return nil, err
	}
	return result, nil
}

// CreateHoldInTx резервирует кредиты в рамках открытой транзакции.
// Идемпотентна по (счёт, заявка): существующий резерв возвращается как есть
func CreateHoldInTx(tx *gorm.DB, data creditapimodels.CreateHoldData) (*creditapimodels.HoldResult, error) {
	accountStore := creditaccountstore.NewInstance(tx)
	holdStore := creditholdstore.NewInstance(tx)

	acc, err := accountStore.GetByIDForUpdate(data.AccountID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, models.ErrAccountNotFound
	}
	existed, err := holdStore.GetByRequest(data.AccountID, data.RequestID)
	if err != nil {
		return nil, err
	}
	balance, err := balanceForAccount(tx, *acc)
	if err != nil {
		return nil, err
	}
	if existed != nil {
		return &creditapimodels.HoldResult{
			HoldID:           existed.ID,
			Amount:           existed.Amount,
			Status:           existed.Status,
			AvailableCredits: balance.AvailableCredits,
			Created:          false,
		}, nil
	}
	if balance.AvailableCredits < data.Amount {
		return nil, &models.InsufficientCreditsError{
			Available: balance.AvailableCredits,
			Required:  data.Amount,
		}
	}
	rec := dbmodels.CreditHold{
		AccountID: data.AccountID,
		RequestID: data.RequestID,
		Amount:    data.Amount,
		Status:    models.HoldStatusActive,
	}
	id, err := holdStore.Create(rec)
	if err != nil {
		return nil, err
	}
	return &creditapimodels.HoldResult{
		HoldID:           id,
		Amount:           data.Amount,
		Status:           models.HoldStatusActive,
		AvailableCredits: balance.AvailableCredits - data.Amount,
		Created:          true,
	}, nil
}

func (i impl) ReleaseHold(holdID string) (*creditapimodels.HoldView, error) {
	var view *creditapimodels.HoldView
	err := db.WithTransaction(func(tx *gorm.DB) error {
		rec, txErr := ReleaseHoldInTx(tx, holdID)
		if txErr != nil {
			return txErr
		}
		v := creditapimodels.HoldViewFromRec(*rec)
		view = &v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// ReleaseHoldInTx снимает резерв, допустимо только из статуса active
func ReleaseHoldInTx(tx *gorm.DB, holdID string) (*dbmodels.CreditHold, error) {
	holdStore := creditholdstore.NewInstance(tx)
	rec, err := holdStore.GetByIDForUpdate(holdID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, models.ErrHoldNotFound
	}
	if rec.Status != models.HoldStatusActive {
		return nil, &models.InvalidHoldStateError{Status: rec.Status, Op: "release"}
	}
	now := time.Now()
	err = holdStore.Update(holdID, map[string]interface{}{
		"Status":     models.HoldStatusReleased,
		"ReleasedAt": &now,
	})
	if err != nil {
		return nil, err
	}
	rec.Status = models.HoldStatusReleased
	rec.ReleasedAt = &now
	return rec, nil
}

func (i impl) ConvertHold(holdID, userID string) (*creditapimodels.ConvertResult, error) {
	var result *creditapimodels.ConvertResult
	err := db.WithTransaction(func(tx *gorm.DB) error {
		var txErr error
		result, txErr = ConvertHoldInTx(tx, holdID, userID)
		return txErr
	})
	if err != nil {
		if db.IsDuplicateErr(err) {
			return nil, models.ErrDuplicateRequest
		}
		return nil, err
	}
	return result, nil
}

// ConvertHoldInTx атомарно закрывает резерв и добавляет дебетовую проводку
// hold_conversion с детерминированным ключом идемпотентности.
// Порядок блокировок: резерв, затем счёт
func ConvertHoldInTx(tx *gorm.DB, holdID, userID string) (*creditapimodels.ConvertResult, error) {
	accountStore := creditaccountstore.NewInstance(tx)
	holdStore := creditholdstore.NewInstance(tx)
	entryStore := ledgerstore.NewInstance(tx)

	rec, err := holdStore.GetByIDForUpdate(holdID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, models.ErrHoldNotFound
	}
	if rec.Status != models.HoldStatusActive {
		return nil, &models.InvalidHoldStateError{Status: rec.Status, Op: "convert"}
	}
	acc, err := accountStore.GetByIDForUpdate(rec.AccountID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, models.ErrAccountNotFound
	}
	now := time.Now()
	err = holdStore.Update(holdID, map[string]interface{}{
		"Status":      models.HoldStatusConverted,
		"ConvertedAt": &now,
	})
	if err != nil {
		return nil, err
	}
	entryID, err := entryStore.Create(dbmodels.LedgerEntry{
		AccountID:       rec.AccountID,
		EntryType:       models.LedgerEntryTypeDebit,
		Amount:          rec.Amount,
		TransactionType: models.TransactionTypeHoldConversion,
		ReferenceType:   models.ReferenceTypeRequest,
		ReferenceID:     rec.RequestID,
		Description:     "списание по согласованной заявке",
		PerformedBy:     userID,
		IdempotencyKey:  rec.ConversionKey(),
	})
	if err != nil {
		return nil, err
	}
	balance, err := balanceForAccount(tx, *acc)
	if err != nil {
		return nil, err
	}
	return &creditapimodels.ConvertResult{
		HoldID:           holdID,
		LedgerEntryID:    entryID,
		Amount:           rec.Amount,
		AvailableCredits: balance.AvailableCredits,
	}, nil
}

func (i impl) DirectSpend(data creditapimodels.DirectSpendData) (*creditapimodels.SpendResult, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	var result *creditapimodels.SpendResult
	err := db.WithTransaction(func(tx *gorm.DB) error {
		var txErr error
		result, txErr = DirectSpendInTx(tx, data)
		return txErr
	})
	if err != nil {
		if db.IsDuplicateErr(err) {
			return nil, models.ErrDuplicateRequest
		}
		return nil, err
	}
	return result, nil
}

// DirectSpendInTx списывает кредиты без резерва.
// Повтор с тем же ключом идемпотентности возвращает исходный результат
func DirectSpendInTx(tx *gorm.DB, data creditapimodels.DirectSpendData) (*creditapimodels.SpendResult, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	accountStore := creditaccountstore.NewInstance(tx)
	entryStore := ledgerstore.NewInstance(tx)

	acc, err := accountStore.GetByIDForUpdate(data.AccountID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, models.ErrAccountNotFound
	}
	existed, err := entryStore.GetByKey(data.AccountID, data.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	balance, err := balanceForAccount(tx, *acc)
	if err != nil {
		return nil, err
	}
	if existed != nil {
		return &creditapimodels.SpendResult{
			LedgerEntryID:    existed.ID,
			Amount:           existed.Amount,
			AvailableCredits: balance.AvailableCredits,
		}, nil
	}
	if balance.AvailableCredits < data.Amount {
		return nil, &models.InsufficientCreditsError{
			Available: balance.AvailableCredits,
			Required:  data.Amount,
		}
	}
	entryID, err := entryStore.Create(dbmodels.LedgerEntry{
		AccountID:       data.AccountID,
		EntryType:       data.TransactionType.EntryType(),
		Amount:          data.Amount,
		TransactionType: data.TransactionType,
		ReferenceType:   data.ReferenceType,
		ReferenceID:     data.ReferenceID,
		Description:     data.Description,
		PerformedBy:     data.UserID,
		IdempotencyKey:  data.IdempotencyKey,
	})
	if err != nil {
		return nil, err
	}
	return &creditapimodels.SpendResult{
		LedgerEntryID:    entryID,
		Amount:           data.Amount,
		AvailableCredits: balance.AvailableCredits - data.Amount,
	}, nil
}

func (i impl) GetTransactions(accountID string, filter creditapimodels.TransactionsFilter) (*creditapimodels.TransactionsResult, error) {
	acc, err := i.accountStore.GetByID(accountID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, models.ErrAccountNotFound
	}
	list, rowCount, err := i.entryStore.List(accountID, filter)
	if err != nil {
		return nil, err
	}
	entries := make([]creditapimodels.LedgerEntryView, 0, len(list))
	for _, rec := range list {
		entries = append(entries, creditapimodels.LedgerEntryViewFromRec(rec))
	}
	return &creditapimodels.TransactionsResult{
		Entries: entries,
		Total:   rowCount,
		HasMore: int64(filter.Offset+len(list)) < rowCount,
	}, nil
}

func (i impl) ExportTransactions(accountID string, filter creditapimodels.TransactionsFilter) (*bytes.Buffer, error) {
	result, err := i.GetTransactions(accountID, filter)
	if err != nil {
		return nil, err
	}
	buf, err := xlsexport.Instance.ExportLedgerEntries(result.Entries)
	if err != nil {
		log.WithError(err).Error("ошибка выгрузки операций в xlsx")
		return nil, err
	}
	return buf, nil
}

func (i impl) GetActiveHolds(accountID string) ([]creditapimodels.HoldView, error) {
	list, err := i.holdStore.ListActive(accountID)
	if err != nil {
		return nil, err
	}
	views := make([]creditapimodels.HoldView, 0, len(list))
	for _, rec := range list {
		views = append(views, creditapimodels.HoldViewFromRec(rec))
	}
	return views, nil
}

func (i impl) GetHoldByID(id string) (*creditapimodels.HoldView, error) {
	rec, err := i.holdStore.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, models.ErrHoldNotFound
	}
	view := creditapimodels.HoldViewFromRec(*rec)
	return &view, nil
}
