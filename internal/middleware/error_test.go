package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redconnect/redconnect-api/internal/handler"
	apperrors "github.com/redconnect/redconnect-api/pkg/errors"
)

func errorRouter(h gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/test", h)
	return r
}

func performRequest(r *gin.Engine) (*httptest.ResponseRecorder, *handler.Response) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	r.ServeHTTP(w, req)

	var resp handler.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, &resp
}

func TestErrorHandlerRendersAppError(t *testing.T) {
	r := errorRouter(func(c *gin.Context) {
		handler.Error(c, apperrors.Conflict("request already decided", nil))
	})

	w, resp := performRequest(r)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "request already decided", resp.Message)
}

func TestErrorHandlerHidesInternalDetails(t *testing.T) {
	r := errorRouter(func(c *gin.Context) {
		handler.Error(c, errors.New("pq: password authentication failed"))
	})

	w, resp := performRequest(r)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", resp.Message)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestErrorHandlerMasksInternalAppErrorMessage(t *testing.T) {
	r := errorRouter(func(c *gin.Context) {
		handler.Error(c, apperrors.Internal("failed to load stock", errors.New("dial tcp: timeout")))
	})

	w, resp := performRequest(r)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", resp.Message)
}

func TestErrorHandlerSkipsWrittenResponses(t *testing.T) {
	r := errorRouter(func(c *gin.Context) {
		c.JSON(http.StatusTeapot, handler.NewErrorResponse("already handled"))
		_ = c.Error(apperrors.Validation("late error", nil))
	})

	w, resp := performRequest(r)

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "already handled", resp.Message)
}

func TestErrorHandlerNoErrors(t *testing.T) {
	r := errorRouter(func(c *gin.Context) {
		c.JSON(http.StatusOK, handler.NewSuccessResponse("fine"))
	})

	w, resp := performRequest(r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", resp.Status)
}
