package approvalhandler

import (
	"testing"

	"procurement-backend/models"
	dbmodels "procurement-backend/models/db"

	"github.com/stretchr/testify/require"
)

var testLadder = routeLadder{
	AutoLimit:        500,
	AdminLimit:       2000,
	ApproverSLAHours: 48,
	AdminSLAHours:    24,
}

func TestRouteByLadder(t *testing.T) {
	t.Run(`малые суммы согласуются автоматически`, func(t *testing.T) {
		require.Equal(t, models.ApprovalLevelAuto, routeByLadder(0, testLadder).Level)
		require.Equal(t, models.ApprovalLevelAuto, routeByLadder(300, testLadder).Level)
		require.Equal(t, models.ApprovalLevelAuto, routeByLadder(499, testLadder).Level)
	})
	t.Run(`средние суммы идут согласующему`, func(t *testing.T) {
		decision := routeByLadder(500, testLadder)
		require.Equal(t, models.ApprovalLevelApprover, decision.Level)
		require.Equal(t, 48, decision.EscalationHours)
		require.Equal(t, models.ApprovalLevelApprover, routeByLadder(1000, testLadder).Level)
		require.Equal(t, models.ApprovalLevelApprover, routeByLadder(1999, testLadder).Level)
	})
	t.Run(`крупные суммы идут администратору`, func(t *testing.T) {
		decision := routeByLadder(2000, testLadder)
		require.Equal(t, models.ApprovalLevelAdmin, decision.Level)
		require.Equal(t, 24, decision.EscalationHours)
		require.Equal(t, models.ApprovalLevelAdmin, routeByLadder(1000000, testLadder).Level)
	})
}

func TestResolveRoute(t *testing.T) {
	maxCredits := func(v int64) *int64 { return &v }
	hours := func(v int) *int { return &v }

	t.Run(`правило перекрывает лестницу`, func(t *testing.T) {
		rules := []dbmodels.ApprovalRule{
			{MinCredits: 0, MaxCredits: maxCredits(10000), ApproverRole: models.ApprovalLevelAdmin, EscalationHours: hours(6), IsActive: true},
		}
		decision := resolveRoute(rules, 100, testLadder)
		require.Equal(t, models.ApprovalLevelAdmin, decision.Level)
		require.Equal(t, 6, decision.EscalationHours)
	})
	t.Run(`первое подходящее правило выигрывает`, func(t *testing.T) {
		// список уже отсортирован по приоритету
		rules := []dbmodels.ApprovalRule{
			{MinCredits: 0, MaxCredits: maxCredits(1000), ApproverRole: models.ApprovalLevelAuto, IsActive: true},
			{MinCredits: 0, MaxCredits: nil, ApproverRole: models.ApprovalLevelAdmin, IsActive: true},
		}
		require.Equal(t, models.ApprovalLevelAuto, resolveRoute(rules, 800, testLadder).Level)
		require.Equal(t, models.ApprovalLevelAdmin, resolveRoute(rules, 1500, testLadder).Level)
	})
	t.Run(`неактивное правило пропускается`, func(t *testing.T) {
		rules := []dbmodels.ApprovalRule{
			{MinCredits: 0, MaxCredits: nil, ApproverRole: models.ApprovalLevelAdmin, IsActive: false},
		}
		require.Equal(t, models.ApprovalLevelAuto, resolveRoute(rules, 100, testLadder).Level)
	})
	t.Run(`часы по умолчанию берутся из лестницы`, func(t *testing.T) {
		rules := []dbmodels.ApprovalRule{
			{MinCredits: 0, MaxCredits: nil, ApproverRole: models.ApprovalLevelApprover, IsActive: true},
		}
		require.Equal(t, 48, resolveRoute(rules, 100, testLadder).EscalationHours)
	})
	t.Run(`без правил работает лестница`, func(t *testing.T) {
		require.Equal(t, models.ApprovalLevelAuto, resolveRoute(nil, 300, testLadder).Level)
		require.Equal(t, models.ApprovalLevelApprover, resolveRoute(nil, 1000, testLadder).Level)
		require.Equal(t, models.ApprovalLevelAdmin, resolveRoute(nil, 2000, testLadder).Level)
	})
}

func TestRuleMatches(t *testing.T) {
	maxCredits := func(v int64) *int64 { return &v }
	t.Run(`границы диапазона включены`, func(t *testing.T) {
		rule := dbmodels.ApprovalRule{MinCredits: 100, MaxCredits: maxCredits(200), IsActive: true}
		require.False(t, rule.Matches(99))
		require.True(t, rule.Matches(100))
		require.True(t, rule.Matches(200))
		require.False(t, rule.Matches(201))
	})
	t.Run(`nil - без верхней границы`, func(t *testing.T) {
		rule := dbmodels.ApprovalRule{MinCredits: 100, IsActive: true}
		require.True(t, rule.Matches(1000000))
	})
}

func TestSelectApprover(t *testing.T) {
	member := func(userID string) dbmodels.TeamMembership {
		return dbmodels.TeamMembership{UserID: userID}
	}
	t.Run(`автор заявки исключается`, func(t *testing.T) {
		selected := selectApprover([]dbmodels.TeamMembership{member("u1"), member("u2")}, "u1")
		require.NotNil(t, selected)
		require.Equal(t, "u2", selected.UserID)
	})
	t.Run(`берётся первый кандидат стабильного порядка`, func(t *testing.T) {
		selected := selectApprover([]dbmodels.TeamMembership{member("u1"), member("u2")}, "u9")
		require.NotNil(t, selected)
		require.Equal(t, "u1", selected.UserID)
	})
	t.Run(`единственный кандидат - автор`, func(t *testing.T) {
		require.Nil(t, selectApprover([]dbmodels.TeamMembership{member("u1")}, "u1"))
	})
	t.Run(`нет кандидатов`, func(t *testing.T) {
		require.Nil(t, selectApprover(nil, "u1"))
	})
}

func TestAuthorizationPredicates(t *testing.T) {
	pending := dbmodels.ApprovalRequest{
		RequesterID:   "author",
		Status:        models.RequestStatusPending,
		ApprovalLevel: models.ApprovalLevelApprover,
	}
	approved := pending
	approved.Status = models.RequestStatusApproved
	fulfilled := pending
	fulfilled.Status = models.RequestStatusFulfilled

	t.Run(`согласовать может подходящая роль, но не автор`, func(t *testing.T) {
		require.True(t, CanUserApprove(pending, "other", models.TeamRoleApprover))
		require.True(t, CanUserApprove(pending, "other", models.TeamRoleOwner))
		require.False(t, CanUserApprove(pending, "other", models.TeamRoleMember))
		require.False(t, CanUserApprove(pending, "author", models.TeamRoleOwner))
		require.False(t, CanUserApprove(approved, "other", models.TeamRoleOwner))
	})
	t.Run(`admin-уровень требует admin или owner`, func(t *testing.T) {
		adminLevel := pending
		adminLevel.ApprovalLevel = models.ApprovalLevelAdmin
		require.False(t, CanUserApprove(adminLevel, "other", models.TeamRoleApprover))
		require.True(t, CanUserApprove(adminLevel, "other", models.TeamRoleAdmin))
	})
	t.Run(`отменить может автор или админ`, func(t *testing.T) {
		require.True(t, CanUserCancel(pending, "author", models.TeamRoleMember))
		require.True(t, CanUserCancel(approved, "author", models.TeamRoleMember))
		require.True(t, CanUserCancel(pending, "other", models.TeamRoleAdmin))
		require.False(t, CanUserCancel(pending, "other", models.TeamRoleApprover))
		require.False(t, CanUserCancel(fulfilled, "author", models.TeamRoleOwner))
	})
	t.Run(`исполнить можно только согласованную заявку`, func(t *testing.T) {
		require.True(t, CanUserFulfill(approved, "author", models.TeamRoleMember))
		require.True(t, CanUserFulfill(approved, "other", models.TeamRoleOwner))
		require.False(t, CanUserFulfill(approved, "other", models.TeamRoleApprover))
		require.False(t, CanUserFulfill(pending, "author", models.TeamRoleMember))
	})
}
