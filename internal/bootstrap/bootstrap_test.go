package bootstrap_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dawn/internal/bootstrap"
	"dawn/internal/platform/config"
	"dawn/internal/platform/httpserver"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newApp(t *testing.T, driver string) *bootstrap.App {
	t.Helper()
	dir := t.TempDir()
	cfg, err := config.New(dir)
	require.NoError(t, err)
	cfg.Storage.Driver = driver
	cfg.Storage.JournalDir = filepath.Join(dir, "journal")

	app, err := bootstrap.New(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func do(t *testing.T, h http.Handler, method, path, device, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if device != "" {
		req.Header.Set(httpserver.DeviceHeader, device)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouterHealthAndMetrics(t *testing.T) {
	t.Parallel()

	app := newApp(t, "sqlite")
	h := app.Router()

	rec := do(t, h, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/session/start", "phone-1", `{"context":"standard"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "dawn_sessions_started_total")
}

func TestRouterSessionLifecycle(t *testing.T) {
	t.Parallel()

	for _, driver := range []string{"sqlite", "file"} {
		t.Run(driver, func(t *testing.T) {
			t.Parallel()

			app := newApp(t, driver)
			h := app.Router()

			rec := do(t, h, http.MethodPost, "/api/session/start", "phone-1", `{"context":"low_light"}`)
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
			var started struct {
				SessionID string `json:"session_id"`
				DayIndex  int    `json:"day_index"`
				Protocol  struct {
					ID string `json:"id"`
				} `json:"protocol"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))
			assert.Equal(t, 0, started.DayIndex)
			assert.Equal(t, "low_light-day0", started.Protocol.ID)

			rec = do(t, h, http.MethodPost, "/api/session/start", "phone-1", `{"context":"standard"}`)
			assert.Equal(t, http.StatusConflict, rec.Code)

			rec = do(t, h, http.MethodGet, "/api/session/active", "phone-1", "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), started.SessionID)

			// Another device sees nothing.
			rec = do(t, h, http.MethodGet, "/api/session/active", "phone-2", "")
			assert.Equal(t, http.StatusNotFound, rec.Code)

			rec = do(t, h, http.MethodGet, "/api/entitlement", "phone-1", "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), `"plan":"free"`)
		})
	}
}

func TestNewFallsBackToDeviceOwner(t *testing.T) {
	t.Parallel()

	app := newApp(t, "sqlite")
	assert.NotEmpty(t, app.DeviceID)
	assert.Equal(t, app.DeviceID, app.OwnerID)
}
