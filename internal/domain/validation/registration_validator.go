// Package validation turns loosely-typed request payloads into validated domain submissions.
package validation

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"membership/internal/domain/entity"
	domainerrors "membership/internal/domain/errors"
	"membership/internal/errors"

	"github.com/go-playground/validator/v10"
)

// registrationField binds a payload key to the submission field it fills.
// emptyRule and emptyParam name the rule a present but empty string breaks;
// "required" is reserved for absent keys.
type registrationField struct {
	name       string
	emptyRule  string
	emptyParam string
	target     func(*entity.RegistrationSubmission) *string
}

// registrationFields is also the order in which violations are reported.
var registrationFields = []registrationField{
	{"firstName", "min", "2", func(s *entity.RegistrationSubmission) *string { return &s.FirstName }},
	{"lastName", "min", "2", func(s *entity.RegistrationSubmission) *string { return &s.LastName }},
	{"email", "email", "", func(s *entity.RegistrationSubmission) *string { return &s.Email }},
	{"phone", "min", "10", func(s *entity.RegistrationSubmission) *string { return &s.Phone }},
	{"idNumber", "min", "5", func(s *entity.RegistrationSubmission) *string { return &s.IDNumber }},
	{"county", "min", "2", func(s *entity.RegistrationSubmission) *string { return &s.County }},
	{"password", "min", "6", func(s *entity.RegistrationSubmission) *string { return &s.Password }},
}

const (
	maxBytesTag = "maxbytes"

	// passwordMaxBytes must match the maxbytes tag on RegistrationSubmission.Password.
	passwordMaxBytes = "72"
)

// Validator wraps a go-playground validator configured to report JSON field names.
// It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registering a static func with a fixed tag cannot fail.
	_ = v.RegisterValidation(maxBytesTag, maxBytes)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	return &Validator{validate: v}
}

// Registration validates a raw sign-up payload. It never touches the store, so an
// already registered email passes here and fails later on the unique index.
// On failure the returned *domainerrors.ValidationError lists every violated field.
func (v *Validator) Registration(payload map[string]any) (*entity.RegistrationSubmission, error) {
	submission := &entity.RegistrationSubmission{}
	byField := make(map[string]domainerrors.FieldViolation)

	for _, field := range registrationFields {
		raw, present := payload[field.name]
		if !present {
			continue
		}

		value, ok := raw.(string)
		if !ok {
			byField[field.name] = domainerrors.FieldViolation{
				Field:   field.name,
				Rule:    "type",
				Param:   "string",
				Message: fmt.Sprintf("Expected string, received %s", jsonTypeName(raw)),
			}

			continue
		}

		if value == "" {
			byField[field.name] = domainerrors.FieldViolation{
				Field:   field.name,
				Rule:    field.emptyRule,
				Param:   field.emptyParam,
				Message: ruleMessage(field.emptyRule, field.emptyParam),
			}

			continue
		}

		*field.target(submission) = value
	}

	if err := v.Struct(submission); err != nil {
		var validationErr *domainerrors.ValidationError
		if !errors.As(err, &validationErr) {
			return nil, err
		}
		for _, violation := range validationErr.Violations() {
			if _, seen := byField[violation.Field]; !seen {
				byField[violation.Field] = violation
			}
		}
	}

	if len(byField) == 0 {
		return submission, nil
	}

	violations := make([]domainerrors.FieldViolation, 0, len(byField))
	for _, field := range registrationFields {
		if violation, ok := byField[field.name]; ok {
			violations = append(violations, violation)
		}
	}

	return nil, domainerrors.NewValidationError(violations)
}

// Struct validates a tagged struct and reports all failing fields.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.Wrap(err, "validate struct")
	}

	violations := make([]domainerrors.FieldViolation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, domainerrors.FieldViolation{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Param:   fe.Param(),
			Message: ruleMessage(fe.Tag(), fe.Param()),
		})
	}

	return domainerrors.NewValidationError(violations)
}

// PasswordTooLong is the violation reported when a password exceeds what the hasher accepts.
func PasswordTooLong() domainerrors.FieldViolation {
	return domainerrors.FieldViolation{
		Field:   "password",
		Rule:    maxBytesTag,
		Param:   passwordMaxBytes,
		Message: ruleMessage(maxBytesTag, passwordMaxBytes),
	}
}

func ruleMessage(rule, param string) string {
	switch rule {
	case "required":
		return "Required"
	case "min":
		return fmt.Sprintf("String must contain at least %s character(s)", param)
	case "email":
		return "Invalid email"
	case maxBytesTag:
		return fmt.Sprintf("String must contain at most %s byte(s)", param)
	default:
		return fmt.Sprintf("Failed on the '%s' rule", rule)
	}
}

// maxBytes bounds the UTF-8 encoded length of a string; bcrypt only accepts
// passwords up to 72 bytes.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}

	return len(fl.Field().String()) <= limit
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64, float32, int, int64, json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
