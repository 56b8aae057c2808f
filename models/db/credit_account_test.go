package dbmodels

import (
	"testing"

	"procurement-backend/models"

	"github.com/stretchr/testify/require"
)

func TestLedgerEntryValidate(t *testing.T) {
	valid := LedgerEntry{
		AccountID:       "acc",
		EntryType:       models.LedgerEntryTypeDebit,
		Amount:          100,
		TransactionType: models.TransactionTypeSpend,
		ReferenceType:   models.ReferenceTypeRequest,
		IdempotencyKey:  "key",
	}
	t.Run(`валидная проводка`, func(t *testing.T) {
		require.Nil(t, valid.Validate())
	})
	t.Run(`направление обязано соответствовать типу транзакции`, func(t *testing.T) {
		entry := valid
		entry.EntryType = models.LedgerEntryTypeCredit
		require.NotNil(t, entry.Validate())

		entry = valid
		entry.TransactionType = models.TransactionTypeAllocation
		require.NotNil(t, entry.Validate())
	})
	t.Run(`сумма строго положительная`, func(t *testing.T) {
		entry := valid
		entry.Amount = 0
		require.NotNil(t, entry.Validate())
		entry.Amount = -5
		require.NotNil(t, entry.Validate())
	})
	t.Run(`ключ идемпотентности обязателен`, func(t *testing.T) {
		entry := valid
		entry.IdempotencyKey = ""
		require.NotNil(t, entry.Validate())
	})
}
