package handler

import (
	"compta-pme-api/internal/apperror"
	"compta-pme-api/internal/service"
	"compta-pme-api/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

type ChatHandler struct {
	chatService service.ChatService
}

func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Chat answers a question with a canned reply
// POST /api/v1/chat
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req service.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidJSON
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return apperror.NewValidation("Validation failed: " + errs[0].String())
	}

	return c.JSON(h.chatService.Reply(req.Message))
}
