package validation_test

import (
	"errors"
	"testing"

	"sweepo-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"+15551234567", true},
		{"(555) 123-4567", true},
		{"555.123.4567", true},
		{"+44 20 7946 0958", true},
		{"1234567", true},
		{"123", false},
		{"123456", false},
		{"1234567890123456", false},
		{"555-CALL-NOW", false},
		{"++15551234567", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			assert.Equal(t, tt.want, validation.IsPhone(tt.phone))
		})
	}
}

type contactForm struct {
	Name          string `validate:"required"`
	Email         string `validate:"required,email"`
	Phone         string `validate:"valid_phone"`
	PreferredTime string `validate:"oneof=morning evening"`
}

func TestFormatValidationErrors(t *testing.T) {
	v := validation.New()

	t.Run("Should report every field in declaration order", func(t *testing.T) {
		err := v.Struct(contactForm{Email: "nope", Phone: "12", PreferredTime: "noon"})
		require.Error(t, err)

		assert.Equal(t, []string{
			"The Name field is required.",
			"The Email field is not a valid e-mail address.",
			"The Phone field is not a valid phone number.",
			"The Preferred Time field is invalid (oneof).",
		}, validation.FormatValidationErrors(err))
	})

	t.Run("Should leave an empty phone to the required rule", func(t *testing.T) {
		err := v.Struct(contactForm{Name: "A", Email: "a@example.com", PreferredTime: "morning"})
		assert.NoError(t, err)
	})

	t.Run("Should pass through errors that are not validation errors", func(t *testing.T) {
		msgs := validation.FormatValidationErrors(errors.New("boom"))
		assert.Equal(t, []string{"boom"}, msgs)
	})
}
