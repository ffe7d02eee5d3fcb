// file: internal/server/logger_test.go
// version: 2.0.0
// guid: 2e3f4a5b-6c7d-8e9f-0a1b-2c3d4e5f6a7b

package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdfalk/asset-store/internal/server/middleware"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	r := gin.New()
	r.Use(middleware.RequestID(), RequestLogger(base))
	r.GET("/ok", func(c *gin.Context) {
		zerolog.Ctx(c.Request.Context()).Debug().Msg("inside handler")
		c.String(http.StatusOK, "ok")
	})
	r.GET("/bad", func(c *gin.Context) { RespondWithBadRequest(c, "nope") })

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	r.ServeHTTP(httptest.NewRecorder(), req)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/bad", nil))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)

	var inside, access, warn, badAccess map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &inside))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &access))
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &warn))
	require.NoError(t, json.Unmarshal([]byte(lines[3]), &badAccess))

	assert.Equal(t, "req-123", inside["request_id"])
	assert.Equal(t, "inside handler", inside["message"])

	assert.Equal(t, "request", access["message"])
	assert.Equal(t, "info", access["level"])
	assert.Equal(t, float64(http.StatusOK), access["status"])
	assert.Equal(t, "/ok", access["path"])

	assert.Equal(t, "warn", warn["level"])
	assert.Equal(t, "nope", warn["message"])
	assert.Equal(t, "warn", badAccess["level"])
	assert.Equal(t, float64(http.StatusBadRequest), badAccess["status"])
}
