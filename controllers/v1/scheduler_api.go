package apiv1

import (
	"procurement-backend/controllers"
	approvalhandler "procurement-backend/lib/approval"
	apimodels "procurement-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

type schedulerApiController struct {
	controllers.BaseAPIController
}

// InitSchedulerApiRouters - служебные ручки планировщика,
// группа защищена общим секретом в заголовке X-Scheduler-Key
func InitSchedulerApiRouters(app fiber.Router) {
	controller := schedulerApiController{}
	app.Route("scheduler", func(router fiber.Router) {
		router.Post("expire", controller.processExpirations)
		router.Post("escalate", controller.processEscalations)
	})
}

// @Summary Просрочить заявки
// @Tags Планировщик
// @Description Перевести заявки с истёкшим дедлайном в expired и снять резервы
// @Param   X-Scheduler-Key		header		string	true	"Scheduler secret"
// @Success 200 {object} apimodels.Response{data=approvalapimodels.SchedulerResult}
// @Failure 401 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/scheduler/expire [post]
func (c *schedulerApiController) processExpirations(ctx *fiber.Ctx) error {
	result, err := approvalhandler.Instance.ProcessExpirations(ctx.UserContext())
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка обработки просроченных заявок")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Эскалировать заявки
// @Tags Планировщик
// @Description Поднять заявки с приближающимся дедлайном на уровень администратора
// @Param   X-Scheduler-Key		header		string	true	"Scheduler secret"
// @Success 200 {object} apimodels.Response{data=approvalapimodels.SchedulerResult}
// @Failure 401 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/scheduler/escalate [post]
func (c *schedulerApiController) processEscalations(ctx *fiber.Ctx) error {
	result, err := approvalhandler.Instance.ProcessEscalations(ctx.UserContext())
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка эскалации заявок")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}
