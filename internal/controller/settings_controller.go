package controller

import (
	"deal-alert-be/internal/dto"
	"deal-alert-be/internal/entity"
	"deal-alert-be/internal/pkg/serverutils"
	"deal-alert-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISettingsController interface {
	RegisterRoutes(r fiber.Router)
	GetSettings(ctx *fiber.Ctx) error
	UpdateSettings(ctx *fiber.Ctx) error
	ResetSettings(ctx *fiber.Ctx) error
	AddKeyword(ctx *fiber.Ctx) error
	RemoveKeyword(ctx *fiber.Ctx) error
	AddKeywordCategory(ctx *fiber.Ctx) error
	RemoveKeywordCategory(ctx *fiber.Ctx) error
}

type settingsController struct {
	storage   service.IStorageService
	broadcast service.IBroadcastService
	scheduler service.ISchedulerService
}

func NewSettingsController(storage service.IStorageService, broadcast service.IBroadcastService, scheduler service.ISchedulerService) ISettingsController {
	return &settingsController{storage: storage, broadcast: broadcast, scheduler: scheduler}
}

func (c *settingsController) RegisterRoutes(r fiber.Router) {
	r.Get("/settings", c.GetSettings)
	r.Put("/settings", c.UpdateSettings)
	r.Post("/settings/reset", c.ResetSettings)
	r.Post("/keywords", c.AddKeyword)
	r.Delete("/keywords/:categoryId/:keyword", c.RemoveKeyword)
	r.Post("/keyword-categories", c.AddKeywordCategory)
	r.Delete("/keyword-categories/:categoryId", c.RemoveKeywordCategory)
}

func (c *settingsController) GetSettings(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get settings", c.storage.Settings()))
}

func (c *settingsController) UpdateSettings(ctx *fiber.Ctx) error {
	var patch dto.SettingsPatch
	if err := ctx.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid settings body")
	}

	if err := serverutils.ValidateRequest(patch); err != nil {
		return err
	}

	updated := c.storage.UpdateSettings(patch)
	c.broadcast.SendSettingsUpdated(updated)
	c.scheduler.Nudge()
	return ctx.JSON(serverutils.SuccessResponse("Settings updated", updated))
}

func (c *settingsController) ResetSettings(ctx *fiber.Ctx) error {
	updated := c.storage.ResetSettings()
	c.broadcast.SendSettingsUpdated(updated)
	c.scheduler.Nudge()
	return ctx.JSON(serverutils.SuccessResponse("Settings reset to defaults", updated))
}

func (c *settingsController) AddKeyword(ctx *fiber.Ctx) error {
	var req dto.AddKeywordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid keyword body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if !c.storage.AddKeyword(req.CategoryId, req.Keyword) {
		return fiber.NewError(fiber.StatusConflict, "keyword already exists or category not found")
	}

	updated := c.storage.Settings()
	c.broadcast.SendSettingsUpdated(updated)
	return ctx.JSON(serverutils.SuccessResponse("Keyword added", updated.Keywords))
}

func (c *settingsController) RemoveKeyword(ctx *fiber.Ctx) error {
	categoryId := ctx.Params("categoryId")
	keyword := ctx.Params("keyword")

	if !c.storage.RemoveKeyword(categoryId, keyword) {
		return fiber.NewError(fiber.StatusNotFound, "keyword not found")
	}

	updated := c.storage.Settings()
	c.broadcast.SendSettingsUpdated(updated)
	return ctx.JSON(serverutils.SuccessResponse("Keyword removed", updated.Keywords))
}

func (c *settingsController) AddKeywordCategory(ctx *fiber.Ctx) error {
	var req dto.AddKeywordCategoryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid category body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}
	c.storage.AddKeywordCategory(entity.KeywordCategory{
		Id:       req.Id,
		Name:     req.Name,
		Icon:     req.Icon,
		Enabled:  req.Enabled,
		Priority: priority,
		Keywords: req.Keywords,
	})

	updated := c.storage.Settings()
	c.broadcast.SendSettingsUpdated(updated)
	return ctx.JSON(serverutils.SuccessResponse("Keyword category added", updated.Keywords))
}

func (c *settingsController) RemoveKeywordCategory(ctx *fiber.Ctx) error {
	categoryId := ctx.Params("categoryId")

	if !c.storage.RemoveKeywordCategory(categoryId) {
		return fiber.NewError(fiber.StatusNotFound, "keyword category not found")
	}

	updated := c.storage.Settings()
	c.broadcast.SendSettingsUpdated(updated)
	return ctx.JSON(serverutils.SuccessResponse("Keyword category removed", updated.Keywords))
}
