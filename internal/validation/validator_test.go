package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "storefront/internal/errors"
	"storefront/internal/model"
)

func TestStruct_ReportsJSONFieldName(t *testing.T) {
	v := New()

	user := &model.User{FirstName: "Jane", LastName: "Doe", Email: "not-an-email"}
	err := v.Struct("user", user)

	var appErr *apperrors.Error
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, "user", appErr.Entity)
	assert.Equal(t, "email", appErr.Field)
	assert.Equal(t, "email", appErr.Constraint)
}

func TestStruct_Valid(t *testing.T) {
	v := New()

	user := &model.User{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com"}
	assert.NoError(t, v.Struct("user", user))
}

func TestPhoneRule(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		valid bool
	}{
		{name: "plain digits", phone: "0123456789", valid: true},
		{name: "international", phone: "+1 (555) 123-4567", valid: true},
		{name: "dashes", phone: "555-123-4567", valid: true},
		{name: "too short", phone: "12345", valid: false},
		{name: "letters", phone: "call-me-maybe", valid: false},
		{name: "empty is allowed", phone: "", valid: true},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &model.User{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", PhoneNumber: tt.phone}
			err := v.Struct("user", user)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.True(t, apperrors.IsValidation(err))
			}
		})
	}
}

func TestVar(t *testing.T) {
	v := New()

	assert.NoError(t, v.Var("user", "password", "required,min=6", "secret123"))

	err := v.Var("user", "password", "required,min=6", "abc")
	var appErr *apperrors.Error
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, "password", appErr.Field)
}
