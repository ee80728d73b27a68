package validation

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// IsRequestValid validates req against its `validate` tags.
// It returns false and a readable message on the first failure set.
func IsRequestValid(req any) (bool, string) {
	err := instance().Struct(req)
	if err == nil {
		return true, ""
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return false, err.Error()
	}

	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
	}
	return false, strings.Join(msgs, "; ")
}
