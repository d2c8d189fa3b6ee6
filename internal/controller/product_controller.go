package controller

import (
	"deal-alert-be/internal/dto"
	"deal-alert-be/internal/pkg/serverutils"
	"deal-alert-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IProductController interface {
	RegisterRoutes(r fiber.Router)
	GetProducts(ctx *fiber.Ctx) error
	GetAlerts(ctx *fiber.Ctx) error
	MarkSeen(ctx *fiber.Ctx) error
	BanProduct(ctx *fiber.Ctx) error
	GetBanned(ctx *fiber.Ctx) error
	UnbanProduct(ctx *fiber.Ctx) error
	ClearBanned(ctx *fiber.Ctx) error
	ClearViewed(ctx *fiber.Ctx) error
}

type productController struct {
	alerts  service.IAlertService
	storage service.IStorageService
}

func NewProductController(alerts service.IAlertService, storage service.IStorageService) IProductController {
	return &productController{alerts: alerts, storage: storage}
}

func (c *productController) RegisterRoutes(r fiber.Router) {
	r.Get("/products", c.GetProducts)
	r.Get("/alerts", c.GetAlerts)
	r.Post("/products/:productId/seen", c.MarkSeen)
	r.Post("/products/:productId/ban", c.BanProduct)
	r.Get("/banned-products", c.GetBanned)
	r.Delete("/banned-products/:productId", c.UnbanProduct)
	r.Delete("/banned-products", c.ClearBanned)
	r.Delete("/viewed-products", c.ClearViewed)
}

func (c *productController) GetProducts(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get products", c.storage.CurrentProducts()))
}

func (c *productController) GetAlerts(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get active alerts", c.alerts.ActiveAlerts()))
}

func (c *productController) MarkSeen(ctx *fiber.Ctx) error {
	productId := ctx.Params("productId")
	if productId == "" {
		return fiber.NewError(fiber.StatusBadRequest, "productId is required")
	}

	c.alerts.MarkSeen(productId)
	return ctx.JSON(serverutils.SuccessResponse("Product marked as seen", fiber.Map{"productId": productId}))
}

func (c *productController) BanProduct(ctx *fiber.Ctx) error {
	productId := ctx.Params("productId")
	if productId == "" {
		return fiber.NewError(fiber.StatusBadRequest, "productId is required")
	}

	var req dto.BanProductRequest
	// Body is optional here; the path param is authoritative.
	_ = ctx.BodyParser(&req)

	c.alerts.BanProduct(productId, req.Title)
	return ctx.JSON(serverutils.SuccessResponse("Product banned", fiber.Map{"productId": productId}))
}

func (c *productController) GetBanned(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get banned products", c.storage.BannedProducts()))
}

func (c *productController) UnbanProduct(ctx *fiber.Ctx) error {
	productId := ctx.Params("productId")
	if !c.alerts.UnbanProduct(productId) {
		return fiber.NewError(fiber.StatusNotFound, "product is not banned")
	}
	return ctx.JSON(serverutils.SuccessResponse("Product unbanned", fiber.Map{"productId": productId}))
}

func (c *productController) ClearBanned(ctx *fiber.Ctx) error {
	c.storage.ClearBannedProducts()
	return ctx.JSON(serverutils.SuccessResponse("Banned products cleared", nil))
}

func (c *productController) ClearViewed(ctx *fiber.Ctx) error {
	c.storage.ClearViewedProducts()
	return ctx.JSON(serverutils.SuccessResponse("Viewed products cleared", nil))
}
