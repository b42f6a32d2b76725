package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "dawn/internal/platform/errors"
)

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var statusByCode = map[string]int{
	"invalid_input":         http.StatusBadRequest,
	"not_found":             http.StatusNotFound,
	"no_active_session":     http.StatusNotFound,
	"active_session_exists": http.StatusConflict,
	"session_completed":     http.StatusConflict,
	"upgrade_required":      http.StatusPaymentRequired,
}

// StatusFor maps application errors to HTTP status codes and stable codes.
func StatusFor(err error) (int, string) {
	code := apperrors.Code(err)
	if status, ok := statusByCode[code]; ok {
		return status, code
	}
	return http.StatusInternalServerError, apperrors.CodeInternal
}

// AbortWithError writes err as an ErrorResponse and stops the handler chain.
func AbortWithError(c *gin.Context, err error) {
	status, code := StatusFor(err)
	_ = c.Error(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg, Code: code})
}

// BindError reports a request that failed binding or validation.
func BindError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "invalid_input"})
}
