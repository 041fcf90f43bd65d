package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	app := fiber.New()
	app.Use(requestid.New(requestid.Config{Header: "X-Ray-ID"}))
	app.Get("/", func(c *fiber.Ctx) error {
		return Error(c, http.StatusConflict, "already exists")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Ray-ID", "ray-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "already exists", body.Message)
	assert.Equal(t, "ray-123", body.RayID)
}

func TestRayID_Missing(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(RayID(c))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	buf := make([]byte, 16)
	n, _ := resp.Body.Read(buf)
	assert.Equal(t, "unknown", string(buf[:n]))
}
