package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ReadAndValidateRequest binds, defaults, and validates a request.
func ReadAndValidateRequest(c echo.Context, req interface{}) interface{} {
	// Bind request
	if err := c.Bind(req); err != nil {
		return validatorDefaultRules(err)
	}

	// Set default values
	if err := defaults.Set(req); err != nil {
		return validatorDefaultRules(err)
	}

	// Validate struct
	if err := validate.StructCtx(c.Request().Context(), req); err != nil {
		return validatorDefaultRules(err)
	}

	return nil
}

func validatorDefaultRules(err error) interface{} {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		errs := make([]ValidationError, 0, len(validationErrors))
		for _, e := range validationErrors {
			code := "ERR_" + strings.ToUpper(e.Tag())
			errs = append(errs, ValidationError{
				Code:    code,
				Field:   e.Field(),
				Message: getErrorMessage(e),
				Params:  getErrorParams(e),
			})
		}
		return errs
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		return []ValidationError{{
			Code:    "ERR_UNKNOWN",
			Message: fmt.Sprintf("%v", he.Message),
		}}
	}

	return []ValidationError{{
		Code:    "ERR_UNKNOWN",
		Message: err.Error(),
	}}
}

func getErrorMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "alphanum":
		return fmt.Sprintf("%s must contain only letters and digits", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}

func getErrorParams(fe validator.FieldError) map[string]interface{} {
	params := make(map[string]interface{})

	switch fe.Tag() {
	case "min":
		params["min"] = fe.Param()
	case "max":
		params["max"] = fe.Param()
	case "oneof":
		params["options"] = strings.Split(fe.Param(), " ")
	}

	return params
}
