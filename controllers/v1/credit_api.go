package apiv1

import (
	"fmt"
	"time"

	"procurement-backend/controllers"
	credithandler "procurement-backend/lib/credit"
	"procurement-backend/middleware"
	"procurement-backend/models"
	apimodels "procurement-backend/models/api"
	creditapimodels "procurement-backend/models/api/credit"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type creditApiController struct {
	controllers.BaseAPIController
}

func InitCreditApiRouters(app fiber.Router) {
	controller := creditApiController{}
	app.Route("credits", func(router fiber.Router) {
		router.Get("balance", controller.getBalance)
		router.Put("transactions", controller.getTransactions)
		router.Put("transactions/export", controller.exportTransactions)
		router.Get("holds", controller.getActiveHolds)
		router.Get("holds/:id", controller.getHold)
		router.Post("holds", middleware.AdminRoleRequired(), controller.createHold)
		router.Post("holds/:id/release", middleware.AdminRoleRequired(), controller.releaseHold)
		router.Post("holds/:id/convert", middleware.AdminRoleRequired(), controller.convertHold)
		router.Post("spend", middleware.AdminRoleRequired(), controller.directSpend)
	})
}

// @Summary Баланс кредитов
// @Tags Кредиты
// @Description Баланс кредитного счёта компании
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=creditapimodels.Balance}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/credits/balance [get]
func (c *creditApiController) getBalance(ctx *fiber.Ctx) error {
	companyID := middleware.GetUserCompany(ctx)
	acc, err := credithandler.Instance.GetAccountForCompany(companyID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения кредитного счёта")
	}
	if acc == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError(models.ErrAccountNotFound.Error()))
	}
	balance, err := credithandler.Instance.GetBalance(acc.ID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения баланса")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(balance))
}

// @Summary История операций
// @Tags Кредиты
// @Description История операций по кредитному счёту
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 creditapimodels.TransactionsFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]creditapimodels.LedgerEntryView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/credits/transactions [put]
func (c *creditApiController) getTransactions(ctx *fiber.Ctx) error {
	var payload creditapimodels.TransactionsFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	companyID := middleware.GetUserCompany(ctx)
	acc, err := credithandler.Instance.GetAccountForCompany(companyID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения кредитного счёта")
	}
	if acc == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError(models.ErrAccountNotFound.Error()))
	}
	result, err := credithandler.Instance.GetTransactions(acc.ID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения истории операций")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(result.Entries, result.Total))
}

// @Summary История операций. Выгрузить в Excel
// @Tags Кредиты
// @Description История операций по кредитному счёту. Выгрузить в Excel
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 creditapimodels.TransactionsFilter	true	"request body"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/credits/transactions/export [put]
func (c *creditApiController) exportTransactions(ctx *fiber.Ctx) error {
	var payload creditapimodels.TransactionsFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	companyID := middleware.GetUserCompany(ctx)
	acc, err := credithandler.Instance.GetAccountForCompany(companyID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения кредитного счёта")
	}
	if acc == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError(models.ErrAccountNotFound.Error()))
	}
	data, err := credithandler.Instance.ExportTransactions(acc.ID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выгрузки истории операций в Excel")
	}
	fileName := fmt.Sprintf("transactions-%v.xlsx", time.Now().Format("20060102-150405"))
	ctx.Set("Content-Type", "application/vnd.ms-excel")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return ctx.SendStream(data)
}

// @Summary Активные резервы
// @Tags Кредиты
// @Description Список активных резервов по счёту компании
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]creditapimodels.HoldView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/credits/holds [get]
func (c *creditApiController) getActiveHolds(ctx *fiber.Ctx) error {
	companyID := middleware.GetUserCompany(ctx)
	acc, err := credithandler.Instance.GetAccountForCompany(companyID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения кредитного счёта")
	}
	if acc == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError(models.ErrAccountNotFound.Error()))
	}
	list, err := credithandler.Instance.GetActiveHolds(acc.ID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка резервов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Резерв
// @Tags Кредиты
// @Description Данные резерва
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"id резерва"
// @Success 200 {object} apimodels.Response{data=creditapimodels.HoldView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/credits/holds/{id} [get]
func (c *creditApiController) getHold(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	if id == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не указан id резерва"))
	}
	hold, err := credithandler.Instance.GetHoldByID(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения резерва")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(hold))
}

// @Summary Создать резерв
// @Tags Кредиты
// @Description Зарезервировать кредиты под заявку
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 creditapimodels.CreateHoldData	true	"request body"
// @Success 200 {object} apimodels.Response{data=creditapimodels.HoldResult}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/credits/holds [post]
func (c *creditApiController) createHold(ctx *fiber.Ctx) error {
	var payload creditapimodels.CreateHoldData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := credithandler.Instance.CreateHold(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка резервирования кредитов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Снять резерв
// @Tags Кредиты
// @Description Снять активный резерв и вернуть кредиты в доступные
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"id резерва"
// @Success 200 {object} apimodels.Response{data=creditapimodels.HoldView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/credits/holds/{id}/release [post]
func (c *creditApiController) releaseHold(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	if id == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не указан id резерва"))
	}
	hold, err := credithandler.Instance.ReleaseHold(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка снятия резерва")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(hold))
}

// @Summary Списать резерв
// @Tags Кредиты
// @Description Превратить активный резерв в списание по журналу
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"id резерва"
// @Success 200 {object} apimodels.Response{data=creditapimodels.ConvertResult}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/credits/holds/{id}/convert [post]
func (c *creditApiController) convertHold(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	if id == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не указан id резерва"))
	}
	userID := middleware.GetUserID(ctx)
	result, err := credithandler.Instance.ConvertHold(id, userID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка списания резерва")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Прямое списание
// @Tags Кредиты
// @Description Списать кредиты со счёта без заявки
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 creditapimodels.DirectSpendData	true	"request body"
// @Success 200 {object} apimodels.Response{data=creditapimodels.SpendResult}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/credits/spend [post]
func (c *creditApiController) directSpend(ctx *fiber.Ctx) error {
	var payload creditapimodels.DirectSpendData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	payload.UserID = middleware.GetUserID(ctx)
	// у ручных списаний нет естественного ключа идемпотентности
	if payload.IdempotencyKey == "" {
		payload.IdempotencyKey = "admin_" + uuid.New().String()
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := credithandler.Instance.DirectSpend(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка списания кредитов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}
