package dbmodels

import (
	"procurement-backend/models"
)

// организационные сущности ведутся внешним контуром,
// ядро читает их только для маршрутизации и поиска счёта

type Company struct {
	BaseModel
	Name string `gorm:"type:varchar(255)"`
}

type Team struct {
	BaseModel
	CompanyID string `gorm:"type:varchar(36);index"`
	Name      string `gorm:"type:varchar(255)"`
}

type TeamMembership struct {
	BaseModel
	TeamID string          `gorm:"type:varchar(36);uniqueIndex:idx_membership_team_user"`
	UserID string          `gorm:"type:varchar(36);uniqueIndex:idx_membership_team_user;index"`
	Role   models.TeamRole `gorm:"type:varchar(20)"`
}
