package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhoneNumber(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"ten digits", "7025096502", "+17025096502"},
		{"dashed", "702-509-6502", "+17025096502"},
		{"parenthesized", "(702) 509-6502", "+17025096502"},
		{"eleven digits with country code", "17025096502", "+17025096502"},
		{"already e164", "+17025096502", "+17025096502"},
		{"international", "+447911123456", "+447911123456"},
		{"too short", "509-6502", ""},
		{"too long without plus", "170250965021", ""},
		{"empty", "", ""},
		{"letters only", "call me", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizePhoneNumber(tc.input))
		})
	}
}

func TestValidatePhoneNumber(t *testing.T) {
	assert.True(t, ValidatePhoneNumber("7025096502"))
	assert.True(t, ValidatePhoneNumber("+17025096502"))
	assert.False(t, ValidatePhoneNumber(""))
	assert.False(t, ValidatePhoneNumber("12345"))
}
