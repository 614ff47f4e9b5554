package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Email string  `validate:"required,email"`
	Hours float64 `validate:"gte=0"`
	Kind  string  `validate:"omitempty,oneof=A B"`
}

func TestValidate(t *testing.T) {
	assert.Nil(t, Validate(sample{Email: "a@b.co", Hours: 1, Kind: "A"}))

	errs := Validate(sample{Email: "nope", Hours: -1, Kind: "C"})
	assert.Equal(t, "email", errs["Email"])
	assert.Equal(t, "gte", errs["Hours"])
	assert.Equal(t, "oneof", errs["Kind"])
}

func TestVar(t *testing.T) {
	assert.True(t, Var("rvp@example.com", "required,email"))
	assert.False(t, Var("", "required,email"))
}
