package orgstore

import (
	"procurement-backend/models"
	dbmodels "procurement-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	GetTeam(teamID string) (rec *dbmodels.Team, err error)
	GetMembership(teamID, userID string) (rec *dbmodels.TeamMembership, err error)
	ListTeamMembersByRoles(teamID string, roles []models.TeamRole) (list []dbmodels.TeamMembership, err error)
	GetCompanyRole(companyID, userID string) (role models.TeamRole, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) GetTeam(teamID string) (*dbmodels.Team, error) {
	rec := dbmodels.Team{}
	err := i.db.
		Where("id = ?", teamID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetMembership(teamID, userID string) (*dbmodels.TeamMembership, error) {
	rec := dbmodels.TeamMembership{}
	err := i.db.
		Where("team_id = ?", teamID).
		Where("user_id = ?", userID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// ListTeamMembersByRoles возвращает участников команды с заданными ролями,
// порядок стабильный - по дате вступления, затем по id
func (i impl) ListTeamMembersByRoles(teamID string, roles []models.TeamRole) ([]dbmodels.TeamMembership, error) {
	list := []dbmodels.TeamMembership{}
	err := i.db.
		Where("team_id = ?", teamID).
		Where("role IN ?", roles).
		Order("created_at ASC").
		Order("id ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// GetCompanyRole возвращает старшую роль пользователя среди команд компании
func (i impl) GetCompanyRole(companyID, userID string) (models.TeamRole, error) {
	list := []dbmodels.TeamMembership{}
	err := i.db.
		Model(&dbmodels.TeamMembership{}).
		Joins("JOIN teams ON teams.id = team_memberships.team_id").
		Where("teams.company_id = ?", companyID).
		Where("team_memberships.user_id = ?", userID).
		Find(&list).
		Error
	if err != nil {
		return "", err
	}
	best := models.TeamRole("")
	rank := map[models.TeamRole]int{
		models.TeamRoleMember:   1,
		models.TeamRoleApprover: 2,
		models.TeamRoleAdmin:    3,
		models.TeamRoleOwner:    4,
	}
	for _, m := range list {
		if rank[m.Role] > rank[best] {
			best = m.Role
		}
	}
	return best, nil
}
