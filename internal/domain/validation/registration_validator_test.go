package validation

import (
	"strings"
	"testing"

	domainerrors "membership/internal/domain/errors"
	"membership/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPayload() map[string]any {
	return map[string]any{
		"firstName": "Jane",
		"lastName":  "Doe",
		"email":     "jane@example.com",
		"phone":     "0712345678",
		"idNumber":  "12345678",
		"county":    "Nairobi",
		"password":  "secret1",
	}
}

func requireViolations(t *testing.T, err error) *domainerrors.ValidationError {
	t.Helper()

	var validationErr *domainerrors.ValidationError
	require.True(t, errors.As(err, &validationErr), "expected ValidationError, got %v", err)

	return validationErr
}

func TestRegistration_Valid(t *testing.T) {
	v := New()

	sub, err := v.Registration(validPayload())

	require.NoError(t, err)
	assert.Equal(t, "Jane", sub.FirstName)
	assert.Equal(t, "Doe", sub.LastName)
	assert.Equal(t, "jane@example.com", sub.Email)
	assert.Equal(t, "0712345678", sub.Phone)
	assert.Equal(t, "12345678", sub.IDNumber)
	assert.Equal(t, "Nairobi", sub.County)
	assert.Equal(t, "secret1", sub.Password)
}

func TestRegistration_IgnoresUnknownFields(t *testing.T) {
	payload := validPayload()
	payload["role"] = "admin"

	sub, err := New().Registration(payload)

	require.NoError(t, err)
	assert.NotNil(t, sub)
}

func TestRegistration_ReportsEveryViolatedField(t *testing.T) {
	payload := validPayload()
	payload["firstName"] = "A"
	payload["email"] = "not-an-email"
	payload["phone"] = "071"
	payload["password"] = "123"

	sub, err := New().Registration(payload)

	assert.Nil(t, sub)
	validationErr := requireViolations(t, err)
	assert.Equal(t, []string{"firstName", "email", "phone", "password"}, validationErr.Fields())

	violations := validationErr.Violations()
	assert.Equal(t, "min", violations[0].Rule)
	assert.Equal(t, "2", violations[0].Param)
	assert.Equal(t, "String must contain at least 2 character(s)", violations[0].Message)
	assert.Equal(t, "Invalid email", violations[1].Message)
	assert.Equal(t, "String must contain at least 10 character(s)", violations[2].Message)
	assert.Equal(t, "String must contain at least 6 character(s)", violations[3].Message)
}

func TestRegistration_EmptyPayload(t *testing.T) {
	_, err := New().Registration(map[string]any{})

	validationErr := requireViolations(t, err)
	assert.Equal(t,
		[]string{"firstName", "lastName", "email", "phone", "idNumber", "county", "password"},
		validationErr.Fields(),
	)
	for _, violation := range validationErr.Violations() {
		assert.Equal(t, "Required", violation.Message)
	}
}

func TestRegistration_WrongTypes(t *testing.T) {
	payload := validPayload()
	payload["phone"] = float64(712345678)
	payload["county"] = nil
	payload["idNumber"] = true

	_, err := New().Registration(payload)

	validationErr := requireViolations(t, err)
	assert.Equal(t, []string{"phone", "idNumber", "county"}, validationErr.Fields())

	violations := validationErr.Violations()
	assert.Equal(t, "Expected string, received number", violations[0].Message)
	assert.Equal(t, "Expected string, received boolean", violations[1].Message)
	assert.Equal(t, "Expected string, received null", violations[2].Message)
}

func TestRegistration_BoundaryLengths(t *testing.T) {
	tests := []struct {
		field string
		value string
		valid bool
	}{
		{"firstName", "Al", true},
		{"lastName", "D", false},
		{"phone", "0712345678", true},
		{"phone", "071234567", false},
		{"idNumber", "12345", true},
		{"idNumber", "1234", false},
		{"county", "Ba", true},
		{"password", "123456", true},
		{"password", "12345", false},
	}

	for _, tt := range tests {
		t.Run(tt.field+"="+tt.value, func(t *testing.T) {
			payload := validPayload()
			payload[tt.field] = tt.value

			_, err := New().Registration(payload)
			if tt.valid {
				assert.NoError(t, err)

				return
			}
			validationErr := requireViolations(t, err)
			assert.Equal(t, []string{tt.field}, validationErr.Fields())
		})
	}
}

func TestStruct_UsesJSONNames(t *testing.T) {
	type probe struct {
		Email string `json:"email" validate:"required,email"`
	}

	err := New().Struct(&probe{Email: "nope"})

	validationErr := requireViolations(t, err)
	assert.Equal(t, []string{"email"}, validationErr.Fields())
}

func TestRegistration_EmptyStringsReportTheirRule(t *testing.T) {
	payload := map[string]any{
		"firstName": "",
		"lastName":  "",
		"email":     "",
		"phone":     "",
		"idNumber":  "",
		"county":    "",
		"password":  "",
	}

	_, err := New().Registration(payload)
	validationErr := requireViolations(t, err)

	want := []struct {
		field, rule, param, message string
	}{
		{"firstName", "min", "2", "String must contain at least 2 character(s)"},
		{"lastName", "min", "2", "String must contain at least 2 character(s)"},
		{"email", "email", "", "Invalid email"},
		{"phone", "min", "10", "String must contain at least 10 character(s)"},
		{"idNumber", "min", "5", "String must contain at least 5 character(s)"},
		{"county", "min", "2", "String must contain at least 2 character(s)"},
		{"password", "min", "6", "String must contain at least 6 character(s)"},
	}
	violations := validationErr.Violations()
	require.Len(t, violations, len(want))
	for i, w := range want {
		assert.Equal(t, w.field, violations[i].Field)
		assert.Equal(t, w.rule, violations[i].Rule, w.field)
		assert.Equal(t, w.param, violations[i].Param, w.field)
		assert.Equal(t, w.message, violations[i].Message, w.field)
	}
}

func TestRegistration_EmptyStringNextToMissingField(t *testing.T) {
	payload := validPayload()
	payload["county"] = ""
	delete(payload, "phone")

	_, err := New().Registration(payload)
	validationErr := requireViolations(t, err)

	violations := validationErr.Violations()
	require.Len(t, violations, 2)
	assert.Equal(t, "phone", violations[0].Field)
	assert.Equal(t, "Required", violations[0].Message)
	assert.Equal(t, "county", violations[1].Field)
	assert.Equal(t, "String must contain at least 2 character(s)", violations[1].Message)
}

func TestRegistration_PasswordByteLimit(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{name: "72 ascii bytes", password: strings.Repeat("a", 72), valid: true},
		{name: "73 ascii bytes", password: strings.Repeat("a", 73), valid: false},
		{name: "80 ascii bytes", password: strings.Repeat("a", 80), valid: false},
		{name: "36 two-byte runes", password: strings.Repeat("é", 36), valid: true},
		{name: "37 two-byte runes", password: strings.Repeat("é", 37), valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validPayload()
			payload["password"] = tt.password

			_, err := New().Registration(payload)
			if tt.valid {
				assert.NoError(t, err)

				return
			}

			validationErr := requireViolations(t, err)
			require.Equal(t, []string{"password"}, validationErr.Fields())
			assert.Equal(t, PasswordTooLong(), validationErr.Violations()[0])
			assert.Equal(t, "String must contain at most 72 byte(s)", validationErr.Violations()[0].Message)
		})
	}
}
