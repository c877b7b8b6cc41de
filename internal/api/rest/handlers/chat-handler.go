package handlers

import (
	"github.com/chatterly/chat_service/internal/api/rest/middleware"
	"github.com/chatterly/chat_service/internal/dto"
	"github.com/chatterly/chat_service/internal/helper"
	"github.com/chatterly/chat_service/internal/services"
	"github.com/chatterly/chat_service/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type ChatHandler struct {
	svc  services.ChatService
	auth helper.Auth
}

func NewChatHandler(svc services.ChatService, auth helper.Auth) *ChatHandler {
	return &ChatHandler{svc: svc, auth: auth}
}

func (h *ChatHandler) SetupRoutes(app *fiber.App) {
	chat := app.Group("/api/chat", middleware.AuthMiddleware(h.auth))

	chat.Post("/create", h.CreateChat)
	chat.Post("/message", h.SendMessage)
	chat.Get("/list", h.ListUserChats)
	chat.Get("/by-participants", h.GetChatByParticipants)
	chat.Get("/:chatId/messages", h.ListMessages)
	chat.Get("/:chatId", h.GetChatInfo)
	chat.Delete("/delete", h.DeleteChat)
}

func (h *ChatHandler) CreateChat(ctx *fiber.Ctx) error {
	var requestBody dto.CreateChatRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "participants are required")
	}

	chat, err := h.svc.CreateChat(ctx.Context(), requestBody.Participants)
	if err != nil {
		return utils.ResponseAppError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, chat)
}

func (h *ChatHandler) SendMessage(ctx *fiber.Ctx) error {
	user, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseAppError(ctx, err)
	}

	var requestBody dto.NewMessageRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid input")
	}

	msg, err := h.svc.SendMessage(ctx.Context(), user.ID, requestBody)
	if err != nil {
		return utils.ResponseAppError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, msg)
}

func (h *ChatHandler) ListUserChats(ctx *fiber.Ctx) error {
	user, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseAppError(ctx, err)
	}

	chats, err := h.svc.ListUserChats(user.ID)
	if err != nil {
		return utils.ResponseAppError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, chats)
}

// GetChatByParticipants resolves the chat for the current user and a friend,
// e.g. /api/chat/by-participants?friendId=42
func (h *ChatHandler) GetChatByParticipants(ctx *fiber.Ctx) error {
	user, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseAppError(ctx, err)
	}

	friendID := ctx.QueryInt("friendId")
	if friendID <= 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "friendId is required")
	}

	chat, err := h.svc.GetChatByParticipants(user.ID, uint(friendID))
	if err != nil {
		return utils.ResponseAppError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, chat)
}

func (h *ChatHandler) ListMessages(ctx *fiber.Ctx) error {
	chatID, err := ctx.ParamsInt("chatId")
	if err != nil || chatID <= 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "valid chat id is required")
	}

	msgs, err := h.svc.ListMessages(uint(chatID))
	if err != nil {
		return utils.ResponseAppError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, msgs)
}

func (h *ChatHandler) GetChatInfo(ctx *fiber.Ctx) error {
	chatID, err := ctx.ParamsInt("chatId")
	if err != nil || chatID <= 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "valid chat id is required")
	}

	chat, participants, err := h.svc.GetChatInfo(uint(chatID))
	if err != nil {
		return utils.ResponseAppError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"chat":         chat,
		"participants": participants,
	})
}

func (h *ChatHandler) DeleteChat(ctx *fiber.Ctx) error {
	user, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseAppError(ctx, err)
	}

	friendID := ctx.QueryInt("friendId")
	if friendID <= 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "friendId is required")
	}

	if err := h.svc.DeleteChat(ctx.Context(), user.ID, uint(friendID)); err != nil {
		return utils.ResponseAppError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "chat deleted")
}
