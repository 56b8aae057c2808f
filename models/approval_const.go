package models

type RequestStatus string

const (
	RequestStatusDraft     RequestStatus = "draft"
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusDenied    RequestStatus = "denied"
	RequestStatusCancelled RequestStatus = "cancelled"
	RequestStatusExpired   RequestStatus = "expired"
	RequestStatusFulfilled RequestStatus = "fulfilled"
)

// таблица допустимых переходов статусов заявки,
// draft зарезервирован - создание заявки идёт сразу в pending/approved
var requestStatusTransitions = map[RequestStatus][]RequestStatus{
	RequestStatusDraft:     {RequestStatusPending, RequestStatusCancelled},
	RequestStatusPending:   {RequestStatusApproved, RequestStatusDenied, RequestStatusCancelled, RequestStatusExpired},
	RequestStatusApproved:  {RequestStatusFulfilled, RequestStatusCancelled},
	RequestStatusDenied:    {},
	RequestStatusCancelled: {},
	RequestStatusExpired:   {},
	RequestStatusFulfilled: {},
}

func (s RequestStatus) CanTransitionTo(to RequestStatus) bool {
	for _, allowed := range requestStatusTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s RequestStatus) IsTerminal() bool {
	return len(requestStatusTransitions[s]) == 0
}

var requestStatusHumanName = map[RequestStatus]string{
	RequestStatusDraft:     "Черновик",
	RequestStatusPending:   "На согласовании",
	RequestStatusApproved:  "Согласована",
	RequestStatusDenied:    "Отклонена",
	RequestStatusCancelled: "Отменена",
	RequestStatusExpired:   "Просрочена",
	RequestStatusFulfilled: "Исполнена",
}

func (s RequestStatus) ToHuman() string {
	if human, exist := requestStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

type ApprovalLevel string

const (
	ApprovalLevelAuto     ApprovalLevel = "auto"
	ApprovalLevelApprover ApprovalLevel = "approver"
	ApprovalLevelAdmin    ApprovalLevel = "admin"
)

func (l ApprovalLevel) IsValid() bool {
	switch l {
	case ApprovalLevelAuto, ApprovalLevelApprover, ApprovalLevelAdmin:
		return true
	}
	return false
}

var approvalLevelHumanName = map[ApprovalLevel]string{
	ApprovalLevelAuto:     "Автоматически",
	ApprovalLevelApprover: "Согласующий",
	ApprovalLevelAdmin:    "Администратор",
}

func (l ApprovalLevel) ToHuman() string {
	if human, exist := approvalLevelHumanName[l]; exist {
		return human
	}
	return string(l)
}

type ApprovalEventType string

const (
	ApprovalEventSubmitted    ApprovalEventType = "submitted"
	ApprovalEventAutoApproved ApprovalEventType = "auto_approved"
	ApprovalEventApproved     ApprovalEventType = "approved"
	ApprovalEventDenied       ApprovalEventType = "denied"
	ApprovalEventCancelled    ApprovalEventType = "cancelled"
	ApprovalEventExpired      ApprovalEventType = "expired"
	ApprovalEventEscalated    ApprovalEventType = "escalated"
	ApprovalEventFulfilled    ApprovalEventType = "fulfilled"
)

type TeamRole string

const (
	TeamRoleMember   TeamRole = "member"
	TeamRoleApprover TeamRole = "approver"
	TeamRoleAdmin    TeamRole = "admin"
	TeamRoleOwner    TeamRole = "owner"
)

func (r TeamRole) IsAdminOrOwner() bool {
	return r == TeamRoleAdmin || r == TeamRoleOwner
}

// CanDecideAt - может ли роль принимать решение по заявке данного уровня
func (r TeamRole) CanDecideAt(level ApprovalLevel) bool {
	switch level {
	case ApprovalLevelApprover:
		return r == TeamRoleApprover || r.IsAdminOrOwner()
	case ApprovalLevelAdmin:
		return r.IsAdminOrOwner()
	}
	return false
}

const SystemUser = "Система"
