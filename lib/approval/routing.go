package approvalhandler

import (
	"procurement-backend/config"
	"procurement-backend/models"
	dbmodels "procurement-backend/models/db"
)

type routeDecision struct {
	Level           models.ApprovalLevel
	EscalationHours int
}

type routeLadder struct {
	AutoLimit        int64
	AdminLimit       int64
	ApproverSLAHours int
	AdminSLAHours    int
}

func ladderFromConfig() routeLadder {
	return routeLadder{
		AutoLimit:        config.Conf.Approval.AutoLimit,
		AdminLimit:       config.Conf.Approval.AdminLimit,
		ApproverSLAHours: config.Conf.Approval.ApproverSLAHours,
		AdminSLAHours:    config.Conf.Approval.AdminSLAHours,
	}
}

// resolveRoute выбирает уровень согласования для суммы:
// сначала правила компании, иначе лестница по умолчанию
func resolveRoute(rules []dbmodels.ApprovalRule, credits int64, ladder routeLadder) routeDecision {
	if decision := routeByRules(rules, credits, ladder); decision != nil {
		return *decision
	}
	return routeByLadder(credits, ladder)
}

// routeByRules берёт первое подходящее правило,
// список отсортирован по приоритету и дате создания
func routeByRules(rules []dbmodels.ApprovalRule, credits int64, ladder routeLadder) *routeDecision {
	for _, rule := range rules {
		if !rule.Matches(credits) {
			continue
		}
		decision := routeDecision{Level: rule.ApproverRole}
		if rule.EscalationHours != nil {
			decision.EscalationHours = *rule.EscalationHours
		} else {
			decision.EscalationHours = defaultSLAHours(rule.ApproverRole, ladder)
		}
		return &decision
	}
	return nil
}

func routeByLadder(credits int64, ladder routeLadder) routeDecision {
	switch {
	case credits < ladder.AutoLimit:
		return routeDecision{Level: models.ApprovalLevelAuto}
	case credits < ladder.AdminLimit:
		return routeDecision{Level: models.ApprovalLevelApprover, EscalationHours: ladder.ApproverSLAHours}
	default:
		return routeDecision{Level: models.ApprovalLevelAdmin, EscalationHours: ladder.AdminSLAHours}
	}
}

func defaultSLAHours(level models.ApprovalLevel, ladder routeLadder) int {
	switch level {
	case models.ApprovalLevelApprover:
		return ladder.ApproverSLAHours
	case models.ApprovalLevelAdmin:
		return ladder.AdminSLAHours
	}
	return 0
}

// selectApprover выбирает согласующего из кандидатов, автор заявки исключается.
// Кандидаты отсортированы стабильно, выбор детерминирован между повторами
func selectApprover(candidates []dbmodels.TeamMembership, requesterID string) *dbmodels.TeamMembership {
	for _, candidate := range candidates {
		if candidate.UserID == requesterID {
			continue
		}
		return &candidate
	}
	return nil
}

// ролевые предикаты - чистые функции над заявкой и ролью пользователя

func CanUserApprove(rec dbmodels.ApprovalRequest, userID string, role models.TeamRole) bool {
	if rec.Status != models.RequestStatusPending {
		return false
	}
	if userID == rec.RequesterID {
		return false
	}
	return role.CanDecideAt(rec.ApprovalLevel)
}

// CanUserCancel - отмена доступна только автору заявки либо админу/владельцу
func CanUserCancel(rec dbmodels.ApprovalRequest, userID string, role models.TeamRole) bool {
	if rec.Status != models.RequestStatusPending && rec.Status != models.RequestStatusApproved {
		return false
	}
	return userID == rec.RequesterID || role.IsAdminOrOwner()
}

func CanUserFulfill(rec dbmodels.ApprovalRequest, userID string, role models.TeamRole) bool {
	if rec.Status != models.RequestStatusApproved {
		return false
	}
	return userID == rec.RequesterID || role.IsAdminOrOwner()
}
