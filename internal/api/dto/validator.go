package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// msisdnPattern is the accepted E.164 shape: a leading + followed by
// one or more ASCII digits, nothing else.
var msisdnPattern = regexp.MustCompile(`^\+\d+$`)

func newValidator() *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("msisdn", func(fl validator.FieldLevel) bool {
		return msisdnPattern.MatchString(fl.Field().String())
	})

	_ = v.RegisterValidation("iso8601utc", func(fl validator.FieldLevel) bool {
		return isISO8601UTC(fl.Field().String())
	})

	// Report json tag names instead of Go field names in errors.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// isISO8601UTC requires the explicit Z designator, then checks the
// value parses as a real date-time once Z is normalized to a zero
// offset. Malformed calendar or clock components are rejected.
func isISO8601UTC(ts string) bool {
	if !strings.HasSuffix(ts, "Z") {
		return false
	}
	normalized := strings.TrimSuffix(ts, "Z") + "+00:00"
	_, err := time.Parse(time.RFC3339, normalized)
	return err == nil
}

// ValidationError aggregates every constraint violation found in one
// payload into a single error carrying per-field details.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Details, "; ")
}

// ParseWebhookMessage decodes and validates a raw webhook body. It is
// pure: no side effects, any violation comes back as *ValidationError.
func ParseWebhookMessage(body []byte) (*WebhookMessageRequest, error) {
	var req WebhookMessageRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, &ValidationError{Details: []string{"body is not a valid JSON object: " + err.Error()}}
	}

	if err := validate.Struct(&req); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return nil, &ValidationError{Details: []string{err.Error()}}
		}

		var details []string
		for _, fieldErr := range err.(validator.ValidationErrors) {
			details = append(details, describeViolation(fieldErr))
		}
		return nil, &ValidationError{Details: details}
	}

	return &req, nil
}

func describeViolation(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "msisdn":
		return fmt.Sprintf("%s must be in E.164 format (start with + followed by digits)", fe.Field())
	case "iso8601utc":
		return fmt.Sprintf("%s must be a valid ISO-8601 timestamp ending with Z", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
	}
}
