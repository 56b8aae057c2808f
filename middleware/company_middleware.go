package middleware

import (
	authutils "procurement-backend/lib/utils/auth-utils"
	"procurement-backend/models"
	apimodels "procurement-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

func GetUserCompany(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if company, exist := claims["company"]; exist {
		return company.(string)
	}
	return ""
}

func GetUserTeam(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if team, exist := claims["team"]; exist {
		return team.(string)
	}
	return ""
}

func GetUserID(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if sub, exist := claims["sub"]; exist {
		return sub.(string)
	}
	return ""
}

func GetUserRole(ctx *fiber.Ctx) models.TeamRole {
	claims := authutils.GetClaims(ctx)
	if role, exist := claims["role"]; exist {
		if stringRole, ok := role.(string); ok && stringRole != "" {
			return models.TeamRole(stringRole)
		}
	}
	return ""
}

func AdminRoleRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		if !GetUserRole(ctx).IsAdminOrOwner() {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("операция недоступна"))
		}
		return ctx.Next()
	}
}
