package credithandler

import (
	"testing"
	"time"

	dbmodels "procurement-backend/models/db"

	"github.com/stretchr/testify/require"
)

func TestCalcAvailable(t *testing.T) {
	acc := dbmodels.CreditAccount{
		TotalCredits: 1000,
		BonusCredits: 200,
	}
	t.Run(`резервы и дебеты уменьшают остаток`, func(t *testing.T) {
		require.Equal(t, int64(1000+200+500-300-150), CalcAvailable(acc, 500, 300, 150))
	})
	t.Run(`без проводок остаток равен начислениям`, func(t *testing.T) {
		require.Equal(t, int64(1200), CalcAvailable(acc, 0, 0, 0))
	})
	t.Run(`остаток может уйти в минус только расчётно`, func(t *testing.T) {
		require.Equal(t, int64(-100), CalcAvailable(acc, 0, 1300, 0))
	})
}

func TestDaysRemaining(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	t.Run(`подписка истекла`, func(t *testing.T) {
		require.Equal(t, 0, DaysRemaining(now, now))
		require.Equal(t, 0, DaysRemaining(now, now.Add(-time.Hour)))
	})
	t.Run(`неполный день считается целиком`, func(t *testing.T) {
		end := time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)
		require.Equal(t, 2, DaysRemaining(now, end))
	})
	t.Run(`конец дня в полночь не добавляет сутки`, func(t *testing.T) {
		end := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
		require.Equal(t, 2, DaysRemaining(now, end))
	})
	t.Run(`часовой пояс приводится к UTC`, func(t *testing.T) {
		msk := time.FixedZone("MSK", 3*60*60)
		end := time.Date(2026, 3, 11, 2, 0, 0, 0, msk) // 2026-03-10 23:00 UTC
		require.Equal(t, 1, DaysRemaining(now, end))
	})
}

func TestConversionKey(t *testing.T) {
	hold := dbmodels.CreditHold{}
	hold.ID = "0c9c9f9e-1111-2222-3333-444455556666"
	require.Equal(t, "hold_convert_0c9c9f9e-1111-2222-3333-444455556666", hold.ConversionKey())
}
