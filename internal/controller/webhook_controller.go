package controller

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"trip-assistant-be/internal/constant"
	"trip-assistant-be/internal/dto"
	"trip-assistant-be/internal/pkg/logger"
	"trip-assistant-be/internal/pkg/serverutils"
	"trip-assistant-be/internal/service"
)

// messageTimeout bounds one inbound message, long enough for a reservation
// call to finish
const messageTimeout = 5 * time.Minute

// BotAPI is the part of the Telegram client the webhook needs
type BotAPI interface {
	SendMessage(ctx context.Context, chatID int64, text string) (int64, error)
	SendChatAction(ctx context.Context, chatID int64, action string) error
	SetWebhook(ctx context.Context, baseURL string) error
	WebhookInfo(ctx context.Context) (map[string]any, error)
}

type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
	Webhook(ctx *fiber.Ctx) error
	SetupWebhook(ctx *fiber.Ctx) error
	CheckWebhook(ctx *fiber.Ctx) error
	// Wait blocks until every accepted update has been answered
	Wait()
}

type webhookController struct {
	service   service.IAssistantService
	bot       BotAPI
	publicURL string
	logger    logger.ILogger
	validate  *validator.Validate

	inflight sync.WaitGroup
}

func NewWebhookController(svc service.IAssistantService, bot BotAPI, publicURL string, log logger.ILogger) IWebhookController {
	return &webhookController{
		service:   svc,
		bot:       bot,
		publicURL: publicURL,
		logger:    log,
		validate:  validator.New(),
	}
}

func (c *webhookController) RegisterRoutes(r fiber.Router) {
	r.Get("/", c.Health)
	r.Post("/webhook", c.Webhook)
	r.Get("/setup_webhook", c.SetupWebhook)
	r.Get("/check_webhook", c.CheckWebhook)
}

func (c *webhookController) Health(ctx *fiber.Ctx) error {
	return ctx.SendString("Trip Assistant Bot is running!")
}

// Webhook acknowledges every update at once and answers in the background.
// Malformed updates are dropped so Telegram does not redeliver them.
func (c *webhookController) Webhook(ctx *fiber.Ctx) error {
	var update dto.WebhookUpdate
	if err := ctx.BodyParser(&update); err != nil {
		c.logger.Warn("WEBHOOK", "Unparseable update", map[string]interface{}{"error": err.Error()})
		return ctx.SendStatus(fiber.StatusOK)
	}
	msg := update.Message
	if msg == nil || strings.TrimSpace(msg.Text) == "" {
		return ctx.SendStatus(fiber.StatusOK)
	}
	if err := c.validate.Struct(msg); err != nil {
		c.logger.Warn("WEBHOOK", "Invalid update", map[string]interface{}{"update_id": update.UpdateID, "error": err.Error()})
		return ctx.SendStatus(fiber.StatusOK)
	}

	m := *msg
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		c.process(m)
	}()
	return ctx.SendStatus(fiber.StatusOK)
}

func (c *webhookController) process(msg dto.WebhookMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), messageTimeout)
	defer cancel()

	chatID := msg.Chat.ID
	// the trip cache belongs to the sender; replies go back to the chat
	user := dto.UserInfo{
		ID:        strconv.FormatInt(msg.From.ID, 10),
		ChatID:    strconv.FormatInt(chatID, 10),
		FirstName: msg.From.FirstName,
		Username:  msg.From.Username,
	}
	text := strings.TrimSpace(msg.Text)
	command, arg := splitCommand(text)

	c.logger.Info("WEBHOOK", "Message received", map[string]interface{}{"chat_id": chatID, "user_id": user.ID, "command": command})

	var reply string
	switch command {
	case "/start":
		reply = constant.WelcomeMessage
	case "/summary":
		reply = c.service.HandleSummaryRequest(ctx, user.ID)
	case "/call":
		reply = c.service.HandleCallRequest(ctx, user.ID, arg)
	default:
		if err := c.bot.SendChatAction(ctx, chatID, "typing"); err != nil {
			c.logger.Warn("WEBHOOK", "Failed to send typing action", map[string]interface{}{"chat_id": chatID, "error": err.Error()})
		}
		reply = c.service.HandleMessage(ctx, text, user)
	}

	if _, err := c.bot.SendMessage(ctx, chatID, reply); err != nil {
		c.logger.Error("WEBHOOK", "Failed to send reply", map[string]interface{}{"chat_id": chatID, "error": err.Error()})
	}
}

// splitCommand separates "/call +1415" into "/call" and "+1415". Plain
// text yields an empty command. A "@botname" suffix is dropped.
func splitCommand(text string) (command, arg string) {
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	command, arg, _ = strings.Cut(text, " ")
	command, _, _ = strings.Cut(command, "@")
	return strings.ToLower(command), strings.TrimSpace(arg)
}

func (c *webhookController) SetupWebhook(ctx *fiber.Ctx) error {
	base := ctx.Query("url", c.publicURL)
	if base == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "url query parameter or PUBLIC_URL is required"))
	}
	if err := c.bot.SetWebhook(ctx.UserContext(), base); err != nil {
		c.logger.Error("WEBHOOK", "Failed to set webhook", map[string]interface{}{"url": base, "error": err.Error()})
		return ctx.Status(fiber.StatusBadGateway).JSON(serverutils.ErrorResponse(502, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Webhook set", dto.SetupWebhookResponse{
		WebhookURL: strings.TrimRight(base, "/") + "/webhook",
	}))
}

func (c *webhookController) CheckWebhook(ctx *fiber.Ctx) error {
	info, err := c.bot.WebhookInfo(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusBadGateway).JSON(serverutils.ErrorResponse(502, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Webhook info", info))
}

func (c *webhookController) Wait() {
	c.inflight.Wait()
}
