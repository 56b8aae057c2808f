package models

type LedgerEntryType string

const (
	LedgerEntryTypeCredit LedgerEntryType = "credit"
	LedgerEntryTypeDebit  LedgerEntryType = "debit"
)

type TransactionType string

const (
	TransactionTypeAllocation     TransactionType = "allocation"
	TransactionTypeSpend          TransactionType = "spend"
	TransactionTypeHoldConversion TransactionType = "hold_conversion"
	TransactionTypeRefund         TransactionType = "refund"
	TransactionTypeAdjustment     TransactionType = "adjustment"
	TransactionTypeExpiry         TransactionType = "expiry"
	TransactionTypeRollover       TransactionType = "rollover"
)

// разбиение типов транзакций по направлению, hold_conversion всегда дебет
var transactionEntryType = map[TransactionType]LedgerEntryType{
	TransactionTypeAllocation:     LedgerEntryTypeCredit,
	TransactionTypeRefund:         LedgerEntryTypeCredit,
	TransactionTypeRollover:       LedgerEntryTypeCredit,
	TransactionTypeSpend:          LedgerEntryTypeDebit,
	TransactionTypeAdjustment:     LedgerEntryTypeDebit,
	TransactionTypeExpiry:         LedgerEntryTypeDebit,
	TransactionTypeHoldConversion: LedgerEntryTypeDebit,
}

func (t TransactionType) IsValid() bool {
	_, exist := transactionEntryType[t]
	return exist
}

func (t TransactionType) EntryType() LedgerEntryType {
	return transactionEntryType[t]
}

func (t TransactionType) IsDebit() bool {
	return transactionEntryType[t] == LedgerEntryTypeDebit
}

var transactionTypeHumanName = map[TransactionType]string{
	TransactionTypeAllocation:     "Начисление",
	TransactionTypeSpend:          "Списание",
	TransactionTypeHoldConversion: "Списание резерва",
	TransactionTypeRefund:         "Возврат",
	TransactionTypeAdjustment:     "Корректировка",
	TransactionTypeExpiry:         "Сгорание",
	TransactionTypeRollover:       "Перенос остатка",
}

func (t TransactionType) ToHuman() string {
	if human, exist := transactionTypeHumanName[t]; exist {
		return human
	}
	return string(t)
}

type ReferenceType string

const (
	ReferenceTypeRequest      ReferenceType = "request"
	ReferenceTypeSubscription ReferenceType = "subscription"
	ReferenceTypeAdmin        ReferenceType = "admin"
	ReferenceTypeSystem       ReferenceType = "system"
)

func (r ReferenceType) IsValid() bool {
	switch r {
	case ReferenceTypeRequest, ReferenceTypeSubscription, ReferenceTypeAdmin, ReferenceTypeSystem:
		return true
	}
	return false
}

type HoldStatus string

const (
	HoldStatusActive    HoldStatus = "active"
	HoldStatusReleased  HoldStatus = "released"
	HoldStatusConverted HoldStatus = "converted"
	HoldStatusExpired   HoldStatus = "expired"
)

// active - единственный нетерминальный статус резерва
func (s HoldStatus) IsTerminal() bool {
	return s != HoldStatusActive
}

var holdStatusHumanName = map[HoldStatus]string{
	HoldStatusActive:    "Активен",
	HoldStatusReleased:  "Снят",
	HoldStatusConverted: "Списан",
	HoldStatusExpired:   "Истёк",
}

func (s HoldStatus) ToHuman() string {
	if human, exist := holdStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

// HoldConversionKeyPrefix - префикс детерминированного ключа идемпотентности
// для проводки списания резерва
const HoldConversionKeyPrefix = "hold_convert_"
