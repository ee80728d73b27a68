package request

import (
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/huynhanx03/go-indexq/pkg/common/apperr"
	"github.com/huynhanx03/go-indexq/pkg/common/http/response"
	"github.com/huynhanx03/go-indexq/pkg/common/http/validation"
)

// ParseRequest binds path parameters and the JSON body into T and validates it.
func ParseRequest[T any](c *gin.Context) (*T, error) {
	var req T
	if len(c.Params) > 0 {
		if err := c.ShouldBindUri(&req); err != nil {
			return nil, apperr.Wrap(err, apperr.CodeParamInvalid, "invalid path", response.StatusOf(apperr.CodeParamInvalid))
		}
	}

	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, apperr.Wrap(err, apperr.CodeParamInvalid, "invalid body", response.StatusOf(apperr.CodeParamInvalid))
		}
	}

	if ok, msg := validation.IsRequestValid(req); !ok {
		return nil, apperr.Wrap(errors.New(msg), apperr.CodeValidationFailed, "validation failed", response.StatusOf(apperr.CodeValidationFailed))
	}

	return &req, nil
}
