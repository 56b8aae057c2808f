package apiv1

import (
	"procurement-backend/controllers"
	approvalhandler "procurement-backend/lib/approval"
	"procurement-backend/middleware"
	apimodels "procurement-backend/models/api"
	approvalapimodels "procurement-backend/models/api/approval"

	"github.com/gofiber/fiber/v2"
)

type approvalApiController struct {
	controllers.BaseAPIController
}

func InitApprovalApiRouters(app fiber.Router) {
	controller := approvalApiController{}
	app.Route("approvals", func(router fiber.Router) {
		router.Post("requests", controller.submitRequest)
		router.Put("requests/list", controller.getRequests)
		router.Get("requests/queue", controller.getQueue)
		router.Get("requests/:id", controller.getRequest)
		router.Post("requests/:id/approve", controller.approveRequest)
		router.Post("requests/:id/deny", controller.denyRequest)
		router.Post("requests/:id/cancel", controller.cancelRequest)
		router.Post("requests/:id/fulfill", controller.fulfillRequest)
	})
}

// @Summary Подать заявку
// @Tags Согласование
// @Description Подать заявку на согласование расхода кредитов
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 approvalapimodels.SubmitRequestData	true	"request body"
// @Success 200 {object} apimodels.Response{data=approvalapimodels.SubmitResult}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/approvals/requests [post]
func (c *approvalApiController) submitRequest(ctx *fiber.Ctx) error {
	var payload approvalapimodels.SubmitRequestData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	payload.CompanyID = middleware.GetUserCompany(ctx)
	payload.TeamID = middleware.GetUserTeam(ctx)
	payload.RequesterID = middleware.GetUserID(ctx)
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := approvalhandler.Instance.SubmitRequest(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка подачи заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Список заявок
// @Tags Согласование
// @Description Список заявок компании с фильтром
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 approvalapimodels.RequestsFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]approvalapimodels.RequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/approvals/requests/list [put]
func (c *approvalApiController) getRequests(ctx *fiber.Ctx) error {
	var payload approvalapimodels.RequestsFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	companyID := middleware.GetUserCompany(ctx)
	list, rowCount, err := approvalhandler.Instance.GetRequests(companyID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка заявок")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Очередь согласования
// @Tags Согласование
// @Description Заявки, ожидающие решения текущего пользователя
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]approvalapimodels.RequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/approvals/requests/queue [get]
func (c *approvalApiController) getQueue(ctx *fiber.Ctx) error {
	userID := middleware.GetUserID(ctx)
	list, err := approvalhandler.Instance.GetApprovalQueue(userID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения очереди согласования")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Заявка
// @Tags Согласование
// @Description Заявка с историей событий
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"id заявки"
// @Success 200 {object} apimodels.Response{data=approvalapimodels.RequestWithEvents}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/approvals/requests/{id} [get]
func (c *approvalApiController) getRequest(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	if id == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не указан id заявки"))
	}
	view, err := approvalhandler.Instance.GetRequestWithEvents(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Согласовать заявку
// @Tags Согласование
// @Description Согласовать заявку и списать зарезервированные кредиты
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"id заявки"
// @Param	body body	 approvalapimodels.DecisionData	true	"request body"
// @Success 200 {object} apimodels.Response{data=approvalapimodels.RequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/approvals/requests/{id}/approve [post]
func (c *approvalApiController) approveRequest(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	if id == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не указан id заявки"))
	}
	var payload approvalapimodels.DecisionData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	view, err := approvalhandler.Instance.ApproveRequest(id, userID, payload.Reason)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка согласования заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Отклонить заявку
// @Tags Согласование
// @Description Отклонить заявку с обязательной причиной, резерв снимается
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"id заявки"
// @Param	body body	 approvalapimodels.DecisionData	true	"request body"
// @Success 200 {object} apimodels.Response{data=approvalapimodels.RequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/approvals/requests/{id}/deny [post]
func (c *approvalApiController) denyRequest(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	if id == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не указан id заявки"))
	}
	var payload approvalapimodels.DecisionData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if payload.Reason == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не указана причина отклонения"))
	}
	userID := middleware.GetUserID(ctx)
	view, err := approvalhandler.Instance.DenyRequest(id, userID, payload.Reason)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отклонения заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Отменить заявку
// @Tags Согласование
// @Description Отменить заявку, резерв снимается
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"id заявки"
// @Param	body body	 approvalapimodels.DecisionData	true	"request body"
// @Success 200 {object} apimodels.Response{data=approvalapimodels.RequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/approvals/requests/{id}/cancel [post]
func (c *approvalApiController) cancelRequest(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	if id == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не указан id заявки"))
	}
	var payload approvalapimodels.DecisionData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	view, err := approvalhandler.Instance.CancelRequest(id, userID, payload.Reason)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отмены заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Исполнить заявку
// @Tags Согласование
// @Description Отметить согласованную заявку исполненной
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"id заявки"
// @Param	body body	 approvalapimodels.FulfillData	true	"request body"
// @Success 200 {object} apimodels.Response{data=approvalapimodels.RequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/approvals/requests/{id}/fulfill [post]
func (c *approvalApiController) fulfillRequest(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	if id == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не указан id заявки"))
	}
	var payload approvalapimodels.FulfillData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	view, err := approvalhandler.Instance.FulfillRequest(id, userID, payload.ActualCredits)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка исполнения заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}
