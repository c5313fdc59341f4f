package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// BaseResponse is the envelope every REST endpoint answers with.
type BaseResponse[T any] struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

func SuccessResponse[T any](message string, data T) BaseResponse[T] {
	return BaseResponse[T]{
		Code:    200,
		Status:  "success",
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) BaseResponse[any] {
	return BaseResponse[any]{
		Code:    code,
		Status:  "error",
		Message: message,
	}
}

var validate = validator.New()

// ValidateRequest runs struct tag validation and flattens the failures
// into one readable message.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		var errs validator.ValidationErrors
		if ok := isValidationErrors(err, &errs); !ok {
			return err
		}
		parts := make([]string, 0, len(errs))
		for _, fe := range errs {
			parts = append(parts, fmt.Sprintf("field '%s' failed on '%s'", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("validation failed: %s", strings.Join(parts, "; "))
	}
	return nil
}

func isValidationErrors(err error, target *validator.ValidationErrors) bool {
	ve, ok := err.(validator.ValidationErrors)
	if ok {
		*target = ve
	}
	return ok
}
