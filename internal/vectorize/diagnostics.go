package vectorize

import (
	"fmt"

	"github.com/fatih/color"
)

// Diagnostic reports a host-invariant violation: a programming error in the
// host IR that the pass cannot recover from, e.g. a chain member that isn't
// actually present in its block, or a memory op with a nil pointer operand
// after the collector already accepted it. These are distinct from every
// other rejection in this package, which are silent, non-fatal skips.
type Diagnostic struct {
	Component string // which component detected the violation
	Message   string
}

func (d Diagnostic) String() string {
	bold := color.New(color.Bold, color.FgRed).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	return fmt.Sprintf("%s %s %s", bold("host-invariant violation:"), dim("["+d.Component+"]"), d.Message)
}

// PassError wraps a Diagnostic recovered from a panic, the form Run returns
// to its caller instead of letting the panic cross the pass boundary.
type PassError struct {
	Diagnostic Diagnostic
}

func (e *PassError) Error() string { return e.Diagnostic.String() }

// invariant panics with a Diagnostic if cond is false. Used at points where
// a failure means this package's own preconditions were violated by a
// caller bug rather than by ordinary unvectorizable input: a supposed chain
// member missing from its block, a memory op missing its pointer operand,
// and the like.
func invariant(component string, cond bool, format string, args ...interface{}) {
	if cond {
		return
	}
	panic(Diagnostic{Component: component, Message: fmt.Sprintf(format, args...)})
}

// recoverPassError turns a panicking Diagnostic into a *PassError, letting
// Run's caller receive an error instead of crashing. Any other panic value
// (not a Diagnostic) is re-raised: this package only converts its own
// documented invariant violations, never masks an unrelated bug.
func recoverPassError(err *error) {
	r := recover()
	if r == nil {
		return
	}
	d, ok := r.(Diagnostic)
	if !ok {
		panic(r)
	}
	*err = &PassError{Diagnostic: d}
}
