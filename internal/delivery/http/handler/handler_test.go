package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"skill-hire/internal/delivery/http/middleware"
	"skill-hire/internal/domain/user"
	"skill-hire/internal/session"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// newTestApp mounts register under an app that uses the production error
// middleware. When sess is non-nil it is attached to every request.
func newTestApp(sess *session.Session, register func(r fiber.Router)) *fiber.App {
	log, _ := test.NewNullLogger()
	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(log).Middleware())
	if sess != nil {
		s := *sess
		app.Use(func(c fiber.Ctx) error {
			c.Locals(middleware.CtxSessionKey, s)
			return c.Next()
		})
	}
	register(app)
	return app
}

func do(t *testing.T, app *fiber.App, method, path string, body any) (int, envelope) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func workerSession() *session.Session {
	return &session.Session{ID: uuid.New(), UserID: uuid.New(), RecordID: uuid.New(), Email: "w@x.test", Role: user.RoleWorker}
}

func businessSession() *session.Session {
	return &session.Session{ID: uuid.New(), UserID: uuid.New(), RecordID: uuid.New(), Email: "ops@acme.test", Role: user.RoleBusiness}
}

func TestHealth(t *testing.T) {
	up := pingerFunc(func() error { return nil })
	down := pingerFunc(func() error { return io.ErrUnexpectedEOF })

	app := newTestApp(nil, func(r fiber.Router) { NewHealthHandler(up, down).RegisterRoutes(r) })
	code, env := do(t, app, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, code)
	h := decodeData[healthResponse](t, env)
	require.Equal(t, "degraded", h.Status)
	require.Equal(t, "down", h.Cache)

	app = newTestApp(nil, func(r fiber.Router) { NewHealthHandler(down, nil).RegisterRoutes(r) })
	code, env = do(t, app, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusServiceUnavailable, code)
	h = decodeData[healthResponse](t, env)
	require.Equal(t, "down", h.Database)
	require.Equal(t, "disabled", h.Cache)
}

func TestErrorMiddleware_HidesInternalErrors(t *testing.T) {
	log, hook := test.NewNullLogger()
	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(log).Middleware())
	app.Get("/boom", func(c fiber.Ctx) error { return internalError(io.ErrClosedPipe) })
	app.Get("/panic", func(c fiber.Ctx) error { panic("kaboom") })

	code, env := do(t, app, http.MethodGet, "/boom", nil)
	require.Equal(t, http.StatusInternalServerError, code)
	require.Equal(t, "internal server error", env.Message)
	require.NotContains(t, string(env.Data), "closed pipe")
	require.NotNil(t, hook.LastEntry())

	code, _ = do(t, app, http.MethodGet, "/panic", nil)
	require.Equal(t, http.StatusInternalServerError, code)
	require.Equal(t, "panic recovered", hook.LastEntry().Message)
}
