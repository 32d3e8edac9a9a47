package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatorKeepsFirstError(t *testing.T) {
	v := New()
	assert.True(t, v.Valid())

	v.Check(false, "title", "must be provided")
	v.Check(false, "title", "must not be more than 500 bytes long")
	v.Check(true, "author", "must be provided")

	assert.False(t, v.Valid())
	assert.Equal(t, map[string]string{"title": "must be provided"}, v.Errors)
}

func TestNotBlank(t *testing.T) {
	assert.True(t, NotBlank("Dune"))
	assert.False(t, NotBlank(""))
	assert.False(t, NotBlank(" \t\n"))
}

func TestMaxBytes(t *testing.T) {
	assert.True(t, MaxBytes(strings.Repeat("a", 500), 500))
	assert.False(t, MaxBytes(strings.Repeat("a", 501), 500))
}

func TestUnique(t *testing.T) {
	assert.True(t, Unique([]int64{1, 2, 3}))
	assert.False(t, Unique([]int64{1, 2, 1}))
	assert.True(t, Unique([]string{}))
}
