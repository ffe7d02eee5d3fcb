// file: internal/server/error_handler_test.go
// version: 2.0.0
// guid: 6e7f8a9b-0c1d-2e3f-4a5b-6c7d8e9f0a1b

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func TestRespondWithError_Helpers(t *testing.T) {
	tests := []struct {
		name    string
		respond func(c *gin.Context)
		status  int
		code    string
		message string
	}{
		{"bad request", func(c *gin.Context) { RespondWithBadRequest(c, "test error") }, http.StatusBadRequest, "BAD_REQUEST", "test error"},
		{"validation", func(c *gin.Context) { RespondWithValidationError(c, "page", "must be a number") }, http.StatusBadRequest, "VALIDATION_ERROR", "validation error: page (must be a number)"},
		{"internal", func(c *gin.Context) { RespondWithInternalError(c, "store error") }, http.StatusInternalServerError, "INTERNAL_ERROR", "store error"},
		{"unavailable", func(c *gin.Context) { RespondWithServiceUnavailable(c, "not ready") }, http.StatusServiceUnavailable, "UNAVAILABLE", "not ready"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := testContext("/")
			tt.respond(c)

			assert.Equal(t, tt.status, w.Code)
			assert.True(t, c.IsAborted())
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, ErrorResponse{Error: tt.message, Code: tt.code, Status: tt.status}, body)
		})
	}
}

func TestRespondWithOK(t *testing.T) {
	c, w := testContext("/")
	RespondWithOK(c, []string{"a"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":["a"]}`, w.Body.String())
}

func TestHandleBindError(t *testing.T) {
	c, _ := testContext("/")
	assert.False(t, HandleBindError(c, nil))

	c, w := testContext("/")
	assert.True(t, HandleBindError(c, errors.New("unexpected EOF")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request: unexpected EOF")

	c, w = testContext("/")
	assert.True(t, HandleBindError(c, errors.New("Key: 'x' Error:Field validation for 'x' failed on the 'required' tag")))
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestParseQueryInt(t *testing.T) {
	c, _ := testContext("/?page=3&bad=x&blank=")
	v, ok := ParseQueryInt(c, "page", 1)
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	v, ok = ParseQueryInt(c, "missing", 7)
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	v, ok = ParseQueryInt(c, "blank", 7)
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	_, ok = ParseQueryInt(c, "bad", 1)
	assert.False(t, ok)
}

func TestParseQueryString(t *testing.T) {
	c, _ := testContext("/?query=+cats+&sortBy=latest")
	assert.Equal(t, "cats", ParseQueryString(c, "q", "query"))
	assert.Equal(t, "latest", ParseQueryString(c, "sort_by", "sortBy"))
	assert.Equal(t, "", ParseQueryString(c, "color"))
}
