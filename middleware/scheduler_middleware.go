package middleware

import (
	"crypto/subtle"

	"procurement-backend/config"
	apimodels "procurement-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

const schedulerKeyHeader = "X-Scheduler-Key"

// SchedulerSecretRequired защищает служебные ручки планировщика общим секретом
func SchedulerSecretRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		secret := config.Conf.Scheduler.Secret
		key := ctx.Get(schedulerKeyHeader)
		if secret == "" || subtle.ConstantTimeCompare([]byte(key), []byte(secret)) != 1 {
			return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError("доступ запрещён"))
		}
		return ctx.Next()
	}
}
