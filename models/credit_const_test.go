package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransactionType(t *testing.T) {
	t.Run(`кредитовые и дебетовые типы не пересекаются`, func(t *testing.T) {
		creditTypes := []TransactionType{TransactionTypeAllocation, TransactionTypeRefund, TransactionTypeRollover}
		debitTypes := []TransactionType{TransactionTypeSpend, TransactionTypeAdjustment, TransactionTypeExpiry, TransactionTypeHoldConversion}
		for _, tt := range creditTypes {
			require.True(t, tt.IsValid())
			require.Equal(t, LedgerEntryTypeCredit, tt.EntryType())
			require.False(t, tt.IsDebit())
		}
		for _, tt := range debitTypes {
			require.True(t, tt.IsValid())
			require.Equal(t, LedgerEntryTypeDebit, tt.EntryType())
			require.True(t, tt.IsDebit())
		}
	})
	t.Run(`неизвестный тип невалиден`, func(t *testing.T) {
		require.False(t, TransactionType("bonus").IsValid())
		require.False(t, TransactionType("").IsValid())
	})
}

func TestHoldStatus(t *testing.T) {
	t.Run(`active - единственный нетерминальный статус`, func(t *testing.T) {
		require.False(t, HoldStatusActive.IsTerminal())
		require.True(t, HoldStatusReleased.IsTerminal())
		require.True(t, HoldStatusConverted.IsTerminal())
		require.True(t, HoldStatusExpired.IsTerminal())
	})
}
