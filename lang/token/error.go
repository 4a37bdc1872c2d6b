package token

import "fmt"

// Error is a located diagnostic, grounded on
// original_source/crates/errors/src/lib.rs's SyphonError::Message variant.
// StackOverflow (the original's other variant) is reported as a plain
// *Error with no Location, since it is raised by the VM well past any
// single source position (spec.md §7).
type Error struct {
	Location Location
	HasLoc   bool
	Content  string
}

func (e *Error) Error() string {
	if e.HasLoc {
		return fmt.Sprintf("%s: %s", e.Location, e.Content)
	}
	return e.Content
}

func located(loc Location, content string) *Error {
	return &Error{Location: loc, HasLoc: true, Content: content}
}

// Invalid reports a malformed token or construct at loc.
func Invalid(loc Location, what string) *Error {
	return located(loc, fmt.Sprintf("invalid %s", what))
}

// Unsupported reports an operation that has no meaning for its operands.
func Unsupported(loc Location, what string) *Error {
	return located(loc, fmt.Sprintf("unsupported %s", what))
}

// Undefined reports a reference to a name that does not resolve.
func Undefined(loc Location, name string) *Error {
	return located(loc, fmt.Sprintf("undefined name '%s'", name))
}

// Unexpected reports a token that was not expected to appear.
func Unexpected(loc Location, what string) *Error {
	return located(loc, fmt.Sprintf("unexpected %s", what))
}

// Expected reports that something was required but not found.
func Expected(loc Location, what string) *Error {
	return located(loc, fmt.Sprintf("expected %s", what))
}

// ExpectedGot reports a mismatch between what was wanted and what appeared.
func ExpectedGot(loc Location, want, got string) *Error {
	return located(loc, fmt.Sprintf("expected %s, got %s", want, got))
}

// UnableTo reports an action the interpreter refused to perform.
func UnableTo(loc Location, what string) *Error {
	return located(loc, fmt.Sprintf("unable to %s", what))
}

// Mismatched reports operands of incompatible kinds.
func Mismatched(loc Location, what string) *Error {
	return located(loc, fmt.Sprintf("mismatched %s", what))
}

// ErrStackOverflow is raised when the VM's call depth exceeds
// vm.Config.MaxCallDepth. It carries no Location: by the time it is
// detected the call chain is already too deep to usefully pin to one
// source position, matching SyphonError::StackOverflow in the original.
var ErrStackOverflow = &Error{Content: "stack overflow"}

// List aggregates diagnostics the way the teacher's scanner.ErrorList
// does, for symmetry with a future multi-error mode; spec.md's §4.2
// first-error-abort semantics mean this is normally of length 1.
type List struct {
	Errors []*Error
}

func (l *List) Add(e *Error) { l.Errors = append(l.Errors, e) }

func (l *List) Err() error {
	if len(l.Errors) == 0 {
		return nil
	}
	return l
}

func (l *List) Error() string {
	switch len(l.Errors) {
	case 0:
		return "no errors"
	case 1:
		return l.Errors[0].Error()
	default:
		s := l.Errors[0].Error()
		return fmt.Sprintf("%s (and %d more errors)", s, len(l.Errors)-1)
	}
}
