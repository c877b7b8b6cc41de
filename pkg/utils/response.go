package utils

import (
	"github.com/chatterly/chat_service/internal/apperr"
	"github.com/gofiber/fiber/v2"
)

func ResponseError(ctx *fiber.Ctx, status int, msg string) error {
	return ctx.Status(status).JSON(fiber.Map{
		"error": msg,
	})
}

func ResponseSuccess(ctx *fiber.Ctx, status int, data interface{}) error {
	return ctx.Status(status).JSON(fiber.Map{"data": data})
}

// ResponseAppError maps the error taxonomy onto HTTP statuses; anything
// unclassified is a plain 500.
func ResponseAppError(ctx *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		status = fiber.StatusNotFound
	case apperr.KindConflict:
		status = fiber.StatusConflict
	case apperr.KindInvalidInput:
		status = fiber.StatusBadRequest
	case apperr.KindUnauthorized:
		status = fiber.StatusUnauthorized
	case apperr.KindExpiredCredential:
		status = fiber.StatusUnauthorized
	case apperr.KindUpstreamFailure:
		status = fiber.StatusBadGateway
	}
	return ResponseError(ctx, status, err.Error())
}
