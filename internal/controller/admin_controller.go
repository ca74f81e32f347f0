package controller

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"trip-assistant-be/internal/dto"
	"trip-assistant-be/internal/pkg/logger"
	"trip-assistant-be/internal/pkg/serverutils"
	"trip-assistant-be/pkg/tripcache"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	GetCache(ctx *fiber.Ctx) error
	ClearCache(ctx *fiber.Ctx) error
	ClearAllCaches(ctx *fiber.Ctx) error
	GetSummary(ctx *fiber.Ctx) error
	GetLogs(ctx *fiber.Ctx) error
}

type adminController struct {
	cache     *tripcache.Manager
	logs      logger.LogReader
	jwtSecret string
	logger    logger.ILogger
}

// NewAdminController serves trip cache maintenance. logs may be nil when the
// logger does not write a readable file.
func NewAdminController(cache *tripcache.Manager, logs logger.LogReader, jwtSecret string, log logger.ILogger) IAdminController {
	return &adminController{cache: cache, logs: logs, jwtSecret: jwtSecret, logger: log}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin")
	h.Use(serverutils.AdminMiddleware(c.jwtSecret))

	h.Get("/cache/:userId", c.GetCache)
	h.Delete("/cache/:userId", c.ClearCache)
	h.Delete("/cache", c.ClearAllCaches)
	h.Get("/summary/:userId", c.GetSummary)
	h.Get("/logs", c.GetLogs)
}

func (c *adminController) GetCache(ctx *fiber.Ctx) error {
	userID := ctx.Params("userId")
	doc, err := c.cache.Read(ctx.UserContext(), userID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	if doc == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "No trip cache for this user"))
	}
	return ctx.JSON(serverutils.SuccessResponse("Trip cache", doc))
}

func (c *adminController) ClearCache(ctx *fiber.Ctx) error {
	userID := ctx.Params("userId")
	if err := c.cache.Clear(ctx.UserContext(), userID); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	c.logger.Info("ADMIN", "Trip cache cleared", map[string]interface{}{"user_id": userID, "admin": ctx.Locals("admin_id")})
	return ctx.JSON(serverutils.SuccessResponse("Trip cache cleared", dto.ClearCacheResponse{UserID: userID}))
}

func (c *adminController) ClearAllCaches(ctx *fiber.Ctx) error {
	if err := c.cache.ClearAll(ctx.UserContext()); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	c.logger.Warn("ADMIN", "All trip caches cleared", map[string]interface{}{"admin": ctx.Locals("admin_id")})
	return ctx.JSON(serverutils.SuccessResponse("All trip caches cleared", dto.ClearCacheResponse{All: true}))
}

func (c *adminController) GetSummary(ctx *fiber.Ctx) error {
	userID := ctx.Params("userId")
	doc, err := c.cache.Read(ctx.UserContext(), userID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Trip summary", dto.SummaryResponse{
		UserID:  userID,
		Summary: tripcache.Summarize(doc),
	}))
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	if c.logs == nil {
		return ctx.JSON(serverutils.SuccessResponse("System logs", []logger.LogEntry{}))
	}
	page, _ := strconv.Atoi(ctx.Query("page", "1"))
	limit, _ := strconv.Atoi(ctx.Query("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 50
	}

	entries, err := c.logs.GetLogs(ctx.Query("level", ""), limit, (page-1)*limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("System logs", entries))
}
