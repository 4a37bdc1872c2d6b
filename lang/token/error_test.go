package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mna/syphon/lang/token"
)

func TestErrorFormatsWithLocation(t *testing.T) {
	err := token.Undefined(token.Location{Line: 3, Column: 5}, "x")
	assert.Equal(t, "3:5: undefined name 'x'", err.Error())
}

func TestStackOverflowHasNoLocation(t *testing.T) {
	assert.Equal(t, "stack overflow", token.ErrStackOverflow.Error())
	assert.False(t, token.ErrStackOverflow.HasLoc)
}

func TestListAggregatesErrors(t *testing.T) {
	var l token.List
	assert.NoError(t, l.Err())

	l.Add(token.Invalid(token.DefaultLocation, "token"))
	assert.EqualError(t, l.Err(), "1:1: invalid token")

	l.Add(token.Invalid(token.DefaultLocation, "token"))
	assert.Contains(t, l.Error(), "and 1 more errors")
}
