package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/akyravish/secure-user-service/pkg/util"
)

func limiterApp(t *testing.T, limiters ...*Limiter) *fiber.App {
	t.Helper()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			appErr := apperrors.ToAppError(err)
			return c.Status(appErr.HTTPStatus).JSON(fiber.Map{"code": appErr.Code})
		},
	})
	for _, l := range limiters {
		app.Use(l.Handle)
	}
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })
	return app
}

func newTestLimiter(t *testing.T, scope string, window time.Duration, max int) (*Limiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewScoped(client, scope, window, max, zap.NewNop()), mr
}

func doRequest(t *testing.T, app *fiber.App) *http.Response {
	t.Helper()

	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestLimiterAllowsWithinBudget(t *testing.T) {
	limiter, _ := newTestLimiter(t, "test", time.Minute, 3)
	app := limiterApp(t, limiter)

	for i := 0; i < 3; i++ {
		resp := doRequest(t, app)
		assert.Equal(t, http.StatusOK, resp.StatusCode, "request %d", i+1)
		assert.Equal(t, "3", resp.Header.Get("X-RateLimit-Limit"))
	}
}

func TestLimiterRejectsOverBudget(t *testing.T) {
	limiter, _ := newTestLimiter(t, "test", time.Minute, 3)
	app := limiterApp(t, limiter)

	for i := 0; i < 3; i++ {
		doRequest(t, app)
	}

	resp := doRequest(t, app)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
	assert.Equal(t, "0", resp.Header.Get("X-RateLimit-Remaining"))
}

func TestLimiterResetsAfterWindow(t *testing.T) {
	limiter, mr := newTestLimiter(t, "test", time.Minute, 1)
	app := limiterApp(t, limiter)

	resp := doRequest(t, app)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, app)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	mr.FastForward(61 * time.Second)

	resp = doRequest(t, app)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLimiterSetsRemainingHeader(t *testing.T) {
	limiter, _ := newTestLimiter(t, "test", time.Minute, 5)
	app := limiterApp(t, limiter)

	resp := doRequest(t, app)
	assert.Equal(t, "4", resp.Header.Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, resp.Header.Get("X-RateLimit-Reset"))

	resp = doRequest(t, app)
	assert.Equal(t, "3", resp.Header.Get("X-RateLimit-Remaining"))
}

func TestScopedLimitersDoNotCrossCount(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	global := NewScoped(client, "global", time.Minute, 100, zap.NewNop())
	strict := NewScoped(client, "login", time.Minute, 1, zap.NewNop())

	strictApp := limiterApp(t, global, strict)

	resp := doRequest(t, strictApp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// strict scope is exhausted, global still has budget
	resp = doRequest(t, strictApp)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	globalOnly := limiterApp(t, global)
	resp = doRequest(t, globalOnly)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLimiterFailsOpenWhenStoreDown(t *testing.T) {
	limiter, mr := newTestLimiter(t, "test", time.Minute, 1)
	app := limiterApp(t, limiter)

	mr.Close()

	resp := doRequest(t, app)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
