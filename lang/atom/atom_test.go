package atom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mna/syphon/lang/atom"
)

func TestInternIsStable(t *testing.T) {
	a := atom.Intern("foo")
	b := atom.Intern("foo")
	assert.Equal(t, a, b)
	assert.Equal(t, "foo", a.String())
}

func TestInternDistinguishesNames(t *testing.T) {
	a := atom.Intern("bar")
	b := atom.Intern("baz")
	assert.NotEqual(t, a, b)
}

func TestZeroAtomIsInvalid(t *testing.T) {
	assert.Panics(t, func() { atom.Name(atom.Atom(0)) })
}

func TestNamePanicsOnUnknownAtom(t *testing.T) {
	assert.Panics(t, func() { atom.Name(atom.Atom(1 << 40)) })
}
