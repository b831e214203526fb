package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("risk.officer@bank.com.cn"))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail(""))
}

func TestValidatePhone(t *testing.T) {
	assert.NoError(t, ValidatePhone("13812345678"))
	assert.Error(t, ValidatePhone("12812345678"))
	assert.Error(t, ValidatePhone("1381234567"))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "华东制造", SanitizeString("华东\x00制造\x1f"))
}
