package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestStatusTransitions(t *testing.T) {
	t.Run(`pending решается в четыре статуса`, func(t *testing.T) {
		require.True(t, RequestStatusPending.CanTransitionTo(RequestStatusApproved))
		require.True(t, RequestStatusPending.CanTransitionTo(RequestStatusDenied))
		require.True(t, RequestStatusPending.CanTransitionTo(RequestStatusCancelled))
		require.True(t, RequestStatusPending.CanTransitionTo(RequestStatusExpired))
		require.False(t, RequestStatusPending.CanTransitionTo(RequestStatusFulfilled))
		require.False(t, RequestStatusPending.CanTransitionTo(RequestStatusDraft))
	})
	t.Run(`approved исполняется либо отменяется`, func(t *testing.T) {
		require.True(t, RequestStatusApproved.CanTransitionTo(RequestStatusFulfilled))
		require.True(t, RequestStatusApproved.CanTransitionTo(RequestStatusCancelled))
		require.False(t, RequestStatusApproved.CanTransitionTo(RequestStatusDenied))
		require.False(t, RequestStatusApproved.CanTransitionTo(RequestStatusPending))
	})
	t.Run(`терминальные статусы не имеют переходов`, func(t *testing.T) {
		for _, status := range []RequestStatus{RequestStatusDenied, RequestStatusCancelled, RequestStatusExpired, RequestStatusFulfilled} {
			require.True(t, status.IsTerminal())
			for _, to := range []RequestStatus{RequestStatusDraft, RequestStatusPending, RequestStatusApproved, RequestStatusDenied, RequestStatusCancelled, RequestStatusExpired, RequestStatusFulfilled} {
				require.False(t, status.CanTransitionTo(to))
			}
		}
	})
	t.Run(`draft подаётся или отменяется`, func(t *testing.T) {
		require.True(t, RequestStatusDraft.CanTransitionTo(RequestStatusPending))
		require.True(t, RequestStatusDraft.CanTransitionTo(RequestStatusCancelled))
		require.False(t, RequestStatusDraft.CanTransitionTo(RequestStatusApproved))
	})
}

func TestTeamRole(t *testing.T) {
	t.Run(`решение на уровне approver`, func(t *testing.T) {
		require.True(t, TeamRoleApprover.CanDecideAt(ApprovalLevelApprover))
		require.True(t, TeamRoleAdmin.CanDecideAt(ApprovalLevelApprover))
		require.True(t, TeamRoleOwner.CanDecideAt(ApprovalLevelApprover))
		require.False(t, TeamRoleMember.CanDecideAt(ApprovalLevelApprover))
	})
	t.Run(`решение на уровне admin`, func(t *testing.T) {
		require.False(t, TeamRoleApprover.CanDecideAt(ApprovalLevelAdmin))
		require.True(t, TeamRoleAdmin.CanDecideAt(ApprovalLevelAdmin))
		require.True(t, TeamRoleOwner.CanDecideAt(ApprovalLevelAdmin))
	})
	t.Run(`уровень auto не решается вручную`, func(t *testing.T) {
		require.False(t, TeamRoleOwner.CanDecideAt(ApprovalLevelAuto))
	})
}
