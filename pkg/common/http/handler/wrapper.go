package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-indexq/pkg/common/apperr"
	"github.com/huynhanx03/go-indexq/pkg/common/http/request"
	"github.com/huynhanx03/go-indexq/pkg/common/http/response"
)

// HandlerFunc is the generic function signature
type HandlerFunc[T any, R any] func(context.Context, *T) (R, error)

// Wrap converts a generic handler to a Gin handler.
// Errors that carry no AppError are logged and reported as internal errors.
func Wrap[T any, R any](log *zap.Logger, h HandlerFunc[T, R]) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := request.ParseRequest[T](c)
		if err != nil {
			response.ErrorResponse(c, apperr.CodeParamInvalid, err)
			return
		}

		res, err := h(c.Request.Context(), req)
		if err != nil {
			if _, ok := apperr.As(err); !ok {
				log.Error("unhandled error",
					zap.String("path", c.FullPath()),
					zap.Error(err))
			}
			response.ErrorResponse(c, apperr.CodeInternalServer, err)
			return
		}

		response.SuccessResponse(c, apperr.CodeSuccess, res)
	}
}
