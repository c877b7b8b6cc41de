package utils

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/chatterly/chat_service/internal/apperr"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseAppErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", apperr.NotFound("no such user"), fiber.StatusNotFound},
		{"conflict", apperr.Conflict("already friends"), fiber.StatusConflict},
		{"invalid input", apperr.InvalidInput("missing fields"), fiber.StatusBadRequest},
		{"unauthorized", apperr.Unauthorized("invalid token"), fiber.StatusUnauthorized},
		{"expired credential", apperr.Expired("token expired"), fiber.StatusUnauthorized},
		{"store outage", apperr.Upstream("failed to find user by email", errors.New("connection refused")), fiber.StatusBadGateway},
		{"unclassified", errors.New("plain failure"), fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return ResponseAppError(c, tc.err)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
