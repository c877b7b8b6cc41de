package handlers

import (
	"github.com/chatterly/chat_service/internal/api/rest/middleware"
	"github.com/chatterly/chat_service/internal/dto"
	"github.com/chatterly/chat_service/internal/helper"
	"github.com/chatterly/chat_service/internal/services"
	"github.com/chatterly/chat_service/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	svc  services.UserService
	auth helper.Auth
}

func NewUserHandler(svc services.UserService, auth helper.Auth) *UserHandler {
	return &UserHandler{svc: svc, auth: auth}
}

func (h *UserHandler) SetupRoutes(app *fiber.App) {
	users := app.Group("/api/users", middleware.AuthMiddleware(h.auth))

	// Relationships
	users.Post("/add", h.SendFriendRequest)
	users.Post("/accept-friend", h.AcceptFriendRequest)
	users.Post("/decline-friend", h.DeclineFriendRequest)
	users.Delete("/remove", h.RemoveFriend)
	users.Get("/requests/incoming", h.ListIncomingRequests)
	users.Get("/requests/outgoing", h.ListOutgoingRequests)

	// Profile
	users.Get("/me", h.GetProfile)
	users.Get("/search", h.SearchUsers)
	users.Patch("/bio", h.UpdateBio)
	users.Patch("/name", h.UpdateName)
}

func (h *UserHandler) SendFriendRequest(ctx *fiber.Ctx) error {
	user, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseAppError(ctx, err)
	}

	var requestBody dto.AddFriendRequest
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.ReceiverEmail == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "receiver email is required")
	}

	if err := h.svc.SendFriendRequest(ctx.Context(), user.ID, requestBody.ReceiverEmail); err != nil {
		return utils.ResponseAppError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, "friend request sent")
}

func (h *UserHandler) AcceptFriendRequest(ctx *fiber.Ctx) error {
	user, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseAppError(ctx, err)
	}

	var requestBody dto.RespondFriendRequest
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.SenderID == 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "sender id is required")
	}

	if err := h.svc.AcceptFriendRequest(ctx.Context(), requestBody.SenderID, user.ID); err != nil {
		return utils.ResponseAppError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "friend request accepted")
}

func (h *UserHandler) DeclineFriendRequest(ctx *fiber.Ctx) error {
	user, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseAppError(ctx, err)
	}

	var requestBody dto.RespondFriendRequest
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.SenderID == 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "sender id is required")
	}

	if err := h.svc.DeclineFriendRequest(ctx.Context(), requestBody.SenderID, user.ID); err != nil {
		return utils.ResponseAppError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "friend request declined")
}

func (h *UserHandler) RemoveFriend(ctx *fiber.Ctx) error {
	user, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseAppError(ctx, err)
	}

	var requestBody dto.RemoveFriendRequest
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.FriendID == 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "friend id is required")
	}

	if err := h.svc.RemoveFriend(ctx.Context(), user.ID, requestBody.FriendID); err != nil {
		return utils.ResponseAppError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "friend removed")
}

func (h *UserHandler) ListIncomingRequests(ctx *fiber.Ctx) error {
	user, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseAppError(ctx, err)
	}

	reqs, err := h.svc.ListIncomingRequests(user.ID)
	if err != nil {
		return utils.ResponseAppError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, reqs)
}

func (h *UserHandler) ListOutgoingRequests(ctx *fiber.Ctx) error {
	user, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseAppError(ctx, err)
	}

	reqs, err := h.svc.ListOutgoingRequests(user.ID)
	if err != nil {
		return utils.ResponseAppError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, reqs)
}

func (h *UserHandler) GetProfile(ctx *fiber.Ctx) error {
	user, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseAppError(ctx, err)
	}

	profile, err := h.svc.GetProfile(user.ID)
	if err != nil {
		return utils.ResponseAppError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, profile)
}

// SearchUsers matches email or name substrings, e.g. /api/users/search?email=bob
func (h *UserHandler) SearchUsers(ctx *fiber.Ctx) error {
	email := ctx.Query("email")
	name := ctx.Query("name")
	if email == "" && name == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "provide email or name to search")
	}

	users, err := h.svc.SearchUsers(email, name)
	if err != nil {
		return utils.ResponseAppError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, users)
}

func (h *UserHandler) UpdateBio(ctx *fiber.Ctx) error {
	user, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseAppError(ctx, err)
	}

	var requestBody dto.UpdateBioRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid input")
	}

	bio, err := h.svc.UpdateBio(user.ID, requestBody.Bio)
	if err != nil {
		return utils.ResponseAppError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{"bio": bio})
}

func (h *UserHandler) UpdateName(ctx *fiber.Ctx) error {
	user, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseAppError(ctx, err)
	}

	var requestBody dto.UpdateNameRequest
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.Name == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "name is required")
	}

	name, err := h.svc.UpdateName(user.ID, requestBody.Name)
	if err != nil {
		return utils.ResponseAppError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{"name": name})
}
