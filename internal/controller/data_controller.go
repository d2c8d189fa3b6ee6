package controller

import (
	"deal-alert-be/internal/dto"
	"deal-alert-be/internal/pkg/serverutils"
	"deal-alert-be/internal/repository/memory"
	"deal-alert-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDataController interface {
	RegisterRoutes(r fiber.Router)
	GetStats(ctx *fiber.Ctx) error
	TriggerRefresh(ctx *fiber.Ctx) error
	TriggerTestAlert(ctx *fiber.Ctx) error
	ResetData(ctx *fiber.Ctx) error
	ExportData(ctx *fiber.Ctx) error
	ImportData(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type dataController struct {
	alerts   service.IAlertService
	storage  service.IStorageService
	refresh  service.IRefreshService
	sessions *memory.SessionRegistry
}

func NewDataController(
	alerts service.IAlertService,
	storage service.IStorageService,
	refresh service.IRefreshService,
	sessions *memory.SessionRegistry,
) IDataController {
	return &dataController{
		alerts:   alerts,
		storage:  storage,
		refresh:  refresh,
		sessions: sessions,
	}
}

func (c *dataController) RegisterRoutes(r fiber.Router) {
	r.Get("/stats", c.GetStats)
	r.Post("/crawl", c.TriggerRefresh)
	r.Post("/test/alert", c.TriggerTestAlert)
	r.Delete("/data/reset", c.ResetData)
	r.Get("/data/export", c.ExportData)
	r.Post("/data/import", c.ImportData)
	r.Get("/health", c.Health)
}

func (c *dataController) GetStats(ctx *fiber.Ctx) error {
	res := dto.StatsResponse{
		Stats:    c.storage.Stats(),
		Sessions: c.sessions.Stats(),
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get stats", res))
}

func (c *dataController) TriggerRefresh(ctx *fiber.Ctx) error {
	if err := c.refresh.RequestRefresh(ctx.Context(), "api"); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Refresh queued", nil))
}

func (c *dataController) TriggerTestAlert(ctx *fiber.Ctx) error {
	alert := c.alerts.TriggerTestAlert()
	return ctx.JSON(serverutils.SuccessResponse("Test alert created", alert))
}

func (c *dataController) ResetData(ctx *fiber.Ctx) error {
	c.storage.ResetAllData()
	return ctx.JSON(serverutils.SuccessResponse("All data reset", nil))
}

func (c *dataController) ExportData(ctx *fiber.Ctx) error {
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="deal-alert-export.json"`)
	return ctx.JSON(c.storage.Export())
}

func (c *dataController) ImportData(ctx *fiber.Ctx) error {
	var data dto.DataImport
	if err := ctx.BodyParser(&data); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid import body")
	}

	c.storage.Import(data)
	return ctx.JSON(serverutils.SuccessResponse("Data imported", c.storage.Stats()))
}

func (c *dataController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("ok", fiber.Map{
		"status": "healthy",
	}))
}
