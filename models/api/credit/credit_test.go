package creditapimodels

import (
	"testing"

	"procurement-backend/models"

	"github.com/stretchr/testify/require"
)

func TestDirectSpendDataValidate(t *testing.T) {
	valid := DirectSpendData{
		AccountID:       "acc",
		Amount:          100,
		TransactionType: models.TransactionTypeSpend,
		ReferenceType:   models.ReferenceTypeAdmin,
		IdempotencyKey:  "key",
	}
	t.Run(`валидные данные`, func(t *testing.T) {
		require.Nil(t, valid.Validate())
	})
	t.Run(`кредитовый тип недопустим`, func(t *testing.T) {
		data := valid
		data.TransactionType = models.TransactionTypeAllocation
		require.ErrorIs(t, data.Validate(), models.ErrInvalidTransactionType)
		data.TransactionType = models.TransactionTypeRefund
		require.ErrorIs(t, data.Validate(), models.ErrInvalidTransactionType)
	})
	t.Run(`обязательные поля`, func(t *testing.T) {
		data := valid
		data.Amount = 0
		require.NotNil(t, data.Validate())
		data = valid
		data.IdempotencyKey = ""
		require.NotNil(t, data.Validate())
	})
}

func TestTransactionsFilterGetLimit(t *testing.T) {
	t.Run(`лимит по умолчанию`, func(t *testing.T) {
		require.Equal(t, 50, TransactionsFilter{}.GetLimit())
		require.Equal(t, 50, TransactionsFilter{Limit: -1}.GetLimit())
	})
	t.Run(`лимит ограничен максимумом`, func(t *testing.T) {
		require.Equal(t, 100, TransactionsFilter{Limit: 500}.GetLimit())
		require.Equal(t, 100, TransactionsFilter{Limit: 100}.GetLimit())
	})
	t.Run(`лимит в допустимых границах`, func(t *testing.T) {
		require.Equal(t, 10, TransactionsFilter{Limit: 10}.GetLimit())
	})
}
