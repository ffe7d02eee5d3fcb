// file: internal/server/middleware/request_size_test.go
// version: 2.0.0
// guid: 8f5ed221-2f04-49aa-86f7-f63fa1732b2d

package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMethodHasBody(t *testing.T) {
	t.Parallel()

	assert.True(t, methodHasBody(http.MethodPost))
	assert.True(t, methodHasBody(http.MethodPut))
	assert.True(t, methodHasBody(http.MethodPatch))
	assert.False(t, methodHasBody(http.MethodGet))
	assert.False(t, methodHasBody(http.MethodDelete))
}

func TestMaxRequestBodySize_Middleware(t *testing.T) {
	t.Parallel()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(MaxRequestBodySize(8))
	router.PUT("/api/v1/assets/config", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})
	router.GET("/api/v1/assets/config", func(c *gin.Context) { c.Status(http.StatusOK) })

	over := httptest.NewRequest(http.MethodPut, "/api/v1/assets/config", bytes.NewReader(bytes.Repeat([]byte("a"), 9)))
	overResp := httptest.NewRecorder()
	router.ServeHTTP(overResp, over)
	assert.Equal(t, http.StatusRequestEntityTooLarge, overResp.Code)

	within := httptest.NewRequest(http.MethodPut, "/api/v1/assets/config", bytes.NewReader([]byte("{}")))
	withinResp := httptest.NewRecorder()
	router.ServeHTTP(withinResp, within)
	assert.Equal(t, http.StatusOK, withinResp.Code)

	// Unknown length bodies are cut off by the reader instead.
	chunked := httptest.NewRequest(http.MethodPut, "/api/v1/assets/config", io.NopCloser(bytes.NewReader(bytes.Repeat([]byte("b"), 32))))
	chunked.ContentLength = -1
	chunkedResp := httptest.NewRecorder()
	router.ServeHTTP(chunkedResp, chunked)
	assert.Equal(t, http.StatusRequestEntityTooLarge, chunkedResp.Code)

	getResp := httptest.NewRecorder()
	router.ServeHTTP(getResp, httptest.NewRequest(http.MethodGet, "/api/v1/assets/config", nil))
	assert.Equal(t, http.StatusOK, getResp.Code)
}

func TestMaxRequestBodySize_DefaultLimit(t *testing.T) {
	t.Parallel()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(MaxRequestBodySize(0))
	router.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/x", bytes.NewReader(make([]byte, DefaultBodyLimit+1))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)
}
