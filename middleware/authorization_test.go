package middleware_test

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"movein-backend/db/models"
	"movein-backend/internal/testutil"
	"movein-backend/middleware"
	"movein-backend/token"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticResolver struct {
	profiles map[uuid.UUID]*models.Profile
}

func (r *staticResolver) ResolveProfile(userID uuid.UUID, email string) (*models.Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, middleware.ErrAccountNotFound
	}
	return p, nil
}

func newAppContext(t *testing.T, profiles ...*models.Profile) (*middleware.AppContext, *testutil.MemoryStore) {
	t.Helper()
	maker, err := token.NewPasetoMaker("12345678901234567890123456789012")
	require.NoError(t, err)

	resolver := &staticResolver{profiles: map[uuid.UUID]*models.Profile{}}
	for _, p := range profiles {
		resolver.profiles[p.ID] = p
	}
	store := testutil.NewMemoryStore()
	return &middleware.AppContext{
		PasetoMaker: maker,
		Ctx:         context.Background(),
		Sessions:    store,
		Profiles:    resolver,
	}, store
}

func protectedApp(appCtx *middleware.AppContext) *fiber.App {
	app := fiber.New()
	app.Get("/me", middleware.ProtectedRoute(appCtx), func(c *fiber.Ctx) error {
		profile, ok := middleware.CurrentProfile(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendString(profile.Email)
	})
	app.Get("/admin", middleware.ProtectedRoute(appCtx), middleware.RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestProtectedRouteAcceptsAccessTokenCookie(t *testing.T) {
	profile := &models.Profile{ID: uuid.New(), Email: "tenant@example.com", Role: models.UserRole}
	appCtx, _ := newAppContext(t, profile)
	app := protectedApp(appCtx)

	access, err := appCtx.PasetoMaker.CreateToken(token.AccessToken, profile.ID, profile.Email, time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Cookie", "access_token="+access)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestProtectedRouteAcceptsBearerHeader(t *testing.T) {
	profile := &models.Profile{ID: uuid.New(), Email: "tenant@example.com", Role: models.UserRole}
	appCtx, _ := newAppContext(t, profile)
	app := protectedApp(appCtx)

	access, err := appCtx.PasetoMaker.CreateToken(token.AccessToken, profile.ID, profile.Email, time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestProtectedRouteWithoutSession(t *testing.T) {
	appCtx, _ := newAppContext(t)
	app := protectedApp(appCtx)

	resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRouteRotatesRefreshToken(t *testing.T) {
	profile := &models.Profile{ID: uuid.New(), Email: "tenant@example.com", Role: models.UserRole}
	appCtx, store := newAppContext(t, profile)
	app := protectedApp(appCtx)

	refresh, err := appCtx.PasetoMaker.CreateToken(token.RefreshToken, profile.ID, profile.Email, time.Hour)
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), "refresh_token:"+refresh, profile.ID.String(), time.Hour))

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Cookie", "refresh_token="+refresh)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Old token redeemed, a new one stored in its place.
	_, err = store.Get(context.Background(), "refresh_token:"+refresh)
	assert.ErrorIs(t, err, middleware.ErrSessionNotFound)
	assert.Equal(t, 1, store.Len())
	assert.NotEmpty(t, resp.Header.Values("Set-Cookie"))

	// Replaying the redeemed token fails.
	req = httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Cookie", "refresh_token="+refresh)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRouteRefreshTokenRedeemedOnce(t *testing.T) {
	profile := &models.Profile{ID: uuid.New(), Email: "tenant@example.com", Role: models.UserRole}
	appCtx, store := newAppContext(t, profile)
	app := protectedApp(appCtx)

	refresh, err := appCtx.PasetoMaker.CreateToken(token.RefreshToken, profile.ID, profile.Email, time.Hour)
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), "refresh_token:"+refresh, profile.ID.String(), time.Hour))

	const attempts = 8
	statuses := make([]int, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest("GET", "/me", nil)
			req.Header.Set("Cookie", "refresh_token="+refresh)
			resp, err := app.Test(req)
			if err == nil {
				statuses[i] = resp.StatusCode
			}
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, s := range statuses {
		if s == fiber.StatusOK {
			ok++
		} else {
			assert.Equal(t, fiber.StatusUnauthorized, s)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, store.Len(), "only the winner's rotated token is stored")
}

func TestProtectedRouteRejectsRefreshTokenAsBearer(t *testing.T) {
	profile := &models.Profile{ID: uuid.New(), Email: "tenant@example.com", Role: models.UserRole}
	appCtx, _ := newAppContext(t, profile)
	app := protectedApp(appCtx)

	refresh, err := appCtx.PasetoMaker.CreateToken(token.RefreshToken, profile.ID, profile.Email, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRouteUnknownAccount(t *testing.T) {
	appCtx, _ := newAppContext(t)
	app := protectedApp(appCtx)

	access, err := appCtx.PasetoMaker.CreateToken(token.AccessToken, uuid.New(), "ghost@example.com", time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Cookie", "access_token="+access)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAdmin(t *testing.T) {
	tenant := &models.Profile{ID: uuid.New(), Email: "tenant@example.com", Role: models.UserRole}
	admin := &models.Profile{ID: uuid.New(), Email: "admin@example.com", Role: models.AdminRole}
	appCtx, _ := newAppContext(t, tenant, admin)
	app := protectedApp(appCtx)

	cases := []struct {
		name    string
		profile *models.Profile
		status  int
	}{
		{"tenant is forbidden", tenant, fiber.StatusForbidden},
		{"admin passes", admin, fiber.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			access, err := appCtx.PasetoMaker.CreateToken(token.AccessToken, tc.profile.ID, tc.profile.Email, time.Minute)
			require.NoError(t, err)
			req := httptest.NewRequest("GET", "/admin", nil)
			req.Header.Set("Cookie", "access_token="+access)
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestRateLimit(t *testing.T) {
	app := fiber.New()
	app.Post("/login", middleware.RateLimit(middleware.NewIPRateLimiter(2)), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
	resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}
