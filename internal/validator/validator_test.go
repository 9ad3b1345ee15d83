package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type phoneForm struct {
	Phone string `json:"phone" validate:"required,cnmobile"`
	Note  string `json:"note" validate:"omitempty,cnmobile"`
}

func TestValidateCNMobile(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&phoneForm{Phone: "13812345678"}))
	assert.NoError(t, v.Validate(&phoneForm{Phone: "19900000000"}))
}

func TestValidateCNMobileRejects(t *testing.T) {
	v := New()

	for _, phone := range []string{
		"12812345678", // second digit out of range
		"1381234567",  // too short
		"138123456789",
		"abcdefghijk",
	} {
		err := v.Validate(&phoneForm{Phone: phone})
		require.Error(t, err, "phone %q", phone)

		vErr, ok := err.(*ValidationError)
		require.True(t, ok)
		// Field names come from the JSON tag.
		assert.Contains(t, vErr.Errors, "phone")
	}
}

func TestValidateRequiredUsesJSONTag(t *testing.T) {
	v := New()

	err := v.Validate(&phoneForm{})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "This field is required", vErr.Errors["phone"])
}

func TestValidateOptionalFieldSkipsEmpty(t *testing.T) {
	v := New()

	// Note is omitempty so an empty value passes the cnmobile rule.
	assert.NoError(t, v.Validate(&phoneForm{Phone: "13812345678", Note: ""}))
	assert.Error(t, v.Validate(&phoneForm{Phone: "13812345678", Note: "nope"}))
}
