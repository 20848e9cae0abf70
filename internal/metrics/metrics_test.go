package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	recorder, err := NewRecorder("robopass")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, recorder.Shutdown(context.Background()))
	}()

	ctx := context.Background()
	recorder.RecordCommand(ctx, "login", "success", 25*time.Millisecond)
	recorder.RecordCommand(ctx, "login", "error", 25*time.Millisecond)

	t.Run("middleware records requests", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		router := gin.New()
		router.Use(recorder.GinMiddleware())
		router.GET("/v1/access", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/access", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("exposition format carries both dimensions", func(t *testing.T) {
		rec := httptest.NewRecorder()
		recorder.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		body, err := io.ReadAll(rec.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "robopass_commands_total")
		assert.Contains(t, string(body), "robopass_command_duration_seconds")
		assert.Contains(t, string(body), "robopass_http_requests_total")
	})
}
