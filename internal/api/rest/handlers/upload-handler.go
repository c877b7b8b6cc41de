package handlers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/chatterly/chat_service/internal/api/rest/middleware"
	"github.com/chatterly/chat_service/internal/helper"
	"github.com/chatterly/chat_service/internal/interfaces"
	"github.com/chatterly/chat_service/internal/services"
	"github.com/chatterly/chat_service/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const maxUploadBytes = 25 << 20 // 25 MB

var allowedPhotoExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true,
}

var allowedMediaExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true,
	".mp4": true, ".mov": true, ".webm": true,
	".mp3": true, ".wav": true, ".ogg": true, ".m4a": true,
	".pdf": true, ".zip": true, ".txt": true,
}

type UploadResponse struct {
	URL string `json:"url"`
}

type UploadHandler struct {
	up      interfaces.Uploader
	userSvc services.UserService
	auth    helper.Auth
}

func NewUploadHandler(up interfaces.Uploader, userSvc services.UserService, auth helper.Auth) *UploadHandler {
	return &UploadHandler{up: up, userSvc: userSvc, auth: auth}
}

func (h *UploadHandler) SetupRoutes(app *fiber.App) {
	uploads := app.Group("/api/uploads", middleware.AuthMiddleware(h.auth))

	uploads.Post("/photo", h.UploadPhoto)
	uploads.Post("/media", h.UploadMedia)
}

// UploadPhoto stores a new profile photo and points the user record at it.
// form-data: file=<image>
func (h *UploadHandler) UploadPhoto(ctx *fiber.Ctx) error {
	user, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseAppError(ctx, err)
	}

	b, ext, err := h.readUpload(ctx, allowedPhotoExt)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	filename := fmt.Sprintf("%d-%s%s", user.ID, uuid.NewString(), ext)
	url, err := h.up.UploadBytes(ctx.Context(), "avatars", filename, b)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadGateway, "upload failed")
	}

	if err := h.userSvc.SetPhoto(user.ID, url); err != nil {
		return utils.ResponseAppError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, UploadResponse{URL: url})
}

// UploadMedia stores a chat attachment and returns its reference. The client
// sends the returned url as the content of a media message.
// form-data: file=<media>
func (h *UploadHandler) UploadMedia(ctx *fiber.Ctx) error {
	user, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseAppError(ctx, err)
	}

	b, ext, err := h.readUpload(ctx, allowedMediaExt)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	filename := fmt.Sprintf("%d-%s%s", user.ID, uuid.NewString(), ext)
	url, err := h.up.UploadBytes(ctx.Context(), "chat-media", filename, b)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadGateway, "upload failed")
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, UploadResponse{URL: url})
}

func (h *UploadHandler) readUpload(ctx *fiber.Ctx, allowed map[string]bool) ([]byte, string, error) {
	file, err := ctx.FormFile("file")
	if err != nil {
		return nil, "", fmt.Errorf("file is required")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowed[ext] {
		return nil, "", fmt.Errorf("file type %s is not allowed", ext)
	}

	f, err := file.Open()
	if err != nil {
		return nil, "", fmt.Errorf("unable to read file")
	}
	defer f.Close()

	b, err := utils.ReadAllLimit(f, maxUploadBytes)
	if err != nil {
		return nil, "", err
	}
	return b, ext, nil
}
