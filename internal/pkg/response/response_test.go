package response

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"
)

func TestMessageFor(t *testing.T) {
	require.Equal(t, MessageTooManyRequests, MessageFor(fiber.StatusTooManyRequests))
	require.Equal(t, MessageInternalServerError, MessageFor(fiber.StatusBadGateway))
	require.Equal(t, MessageError, MessageFor(fiber.StatusTeapot))
}

func TestCreated_FillsDefaultMessage(t *testing.T) {
	app := fiber.New()
	app.Post("/", func(c fiber.Ctx) error {
		return Created(c, "", map[string]string{"id": "1"})
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var env Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.Equal(t, fiber.StatusCreated, env.Status)
	require.Equal(t, MessageCreated, env.Message)
}

func TestError_ClampsInvalidStatus(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c fiber.Ctx) error {
		return Error(c, 42, "", nil)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
