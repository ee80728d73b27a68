package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/huynhanx03/go-indexq/pkg/common/apperr"
)

var httpStatus = map[int]int{
	apperr.CodeSuccess:          http.StatusOK,
	apperr.CodeParamInvalid:     http.StatusBadRequest,
	apperr.CodeValidationFailed: http.StatusBadRequest,
	apperr.CodeNotFound:         http.StatusNotFound,
	apperr.CodeQueueFull:        http.StatusConflict,
	apperr.CodeInvalidID:        http.StatusUnprocessableEntity,
	apperr.CodeInternalServer:   http.StatusInternalServerError,
}

var messages = map[int]string{
	apperr.CodeSuccess:          "success",
	apperr.CodeParamInvalid:     "invalid parameters",
	apperr.CodeValidationFailed: "validation failed",
	apperr.CodeNotFound:         "not found",
	apperr.CodeQueueFull:        "queue is full",
	apperr.CodeInvalidID:        "invalid id",
	apperr.CodeInternalServer:   "internal server error",
}

// Response is the envelope of every JSON reply.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// StatusOf returns the HTTP status for a business code.
func StatusOf(code int) int {
	if s, ok := httpStatus[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// SuccessResponse writes data with the given code.
func SuccessResponse(c *gin.Context, code int, data any) {
	c.JSON(StatusOf(code), Response{
		Code:    code,
		Message: messages[code],
		Data:    data,
	})
}

// ErrorResponse writes an error reply and aborts the chain.
// An *apperr.AppError overrides code and status.
func ErrorResponse(c *gin.Context, code int, err any) {
	status := StatusOf(code)
	msg := messages[code]

	if appErr, ok := err.(error); ok {
		if e, found := apperr.As(appErr); found {
			code, status, msg = e.Code, e.HTTPStatus, e.Message
		}
	}

	c.AbortWithStatusJSON(status, Response{
		Code:    code,
		Message: msg,
		Error:   ToErrorResponse(err),
	})
}

// ToErrorResponse renders err as a string.
func ToErrorResponse(err any) string {
	switch e := err.(type) {
	case nil:
		return ""
	case string:
		return e
	case error:
		return e.Error()
	default:
		return "unknown error"
	}
}
