package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMobile(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"9876543210", "+919876543210"},
		{"+919876543210", "+919876543210"},
		{"08765432109", "+918765432109"},
		{"0008765432109", "+918765432109"},
		{" 98765 43210 ", "+919876543210"},
		{"+9876543210", "+919876543210"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeMobile(tt.in), tt.in)
	}
}

func TestIsValidMobile(t *testing.T) {
	assert.True(t, IsValidMobile("+919876543210"))
	assert.True(t, IsValidMobile("+916382914506"))
	assert.False(t, IsValidMobile("+915876543210"))
	assert.False(t, IsValidMobile("+91987654321"))
	assert.False(t, IsValidMobile("9876543210"))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("admin@example.com"))
	assert.False(t, IsValidEmail("admin@example"))
	assert.False(t, IsValidEmail("not-an-email"))
}

func TestCustomRules(t *testing.T) {
	v := validator.New()
	require.NoError(t, v.RegisterValidation("mobile", Mobile))
	require.NoError(t, v.RegisterValidation("role", OneOf("admin", "reviewer", "employee")))

	type payload struct {
		Mobile string `validate:"required,mobile"`
		Role   string `validate:"role"`
	}

	assert.NoError(t, v.Struct(payload{Mobile: "9876543210", Role: "reviewer"}))
	assert.NoError(t, v.Struct(payload{Mobile: "+919876543210"}))
	assert.Error(t, v.Struct(payload{Mobile: "12345", Role: "admin"}))
	assert.Error(t, v.Struct(payload{Mobile: "9876543210", Role: "owner"}))
}
