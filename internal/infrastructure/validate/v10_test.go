package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signUpForm struct {
	Username string `json:"username" validate:"required"`
	Percent  *int   `json:"percent" validate:"omitempty,min=0,max=100"`
}

func TestStruct(t *testing.T) {
	v := NewValidator()

	errs := v.Struct(&signUpForm{Username: "casey"})
	assert.Nil(t, errs)

	// field names in errors come from the json tag
	errs = v.Struct(&signUpForm{})
	require.Len(t, errs, 1)
	assert.Equal(t, "username", errs[0].Domain)

	over := 150
	errs = v.Struct(&signUpForm{Username: "casey", Percent: &over})
	require.Len(t, errs, 1)
	assert.Equal(t, "percent", errs[0].Domain)

	under := -5
	errs = v.Struct(&signUpForm{Username: "casey", Percent: &under})
	require.Len(t, errs, 1)
	assert.Equal(t, "percent", errs[0].Domain)
}

func TestAllEmpty(t *testing.T) {
	v := NewValidator()

	err := v.AllEmpty([]string{"image_url", "recognized_text"}, "", "")
	require.NotNil(t, err)
	assert.Equal(t, "image_url,recognized_text", err.Domain)

	assert.Nil(t, v.AllEmpty([]string{"image_url", "recognized_text"}, "", "1 h 45 m"))
}
