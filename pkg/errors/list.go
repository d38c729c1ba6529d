package errors

import (
	"fmt"
	"strings"
)

// List collects the failures of a fail-complete run. The zero value is
// an empty list ready to use.
type List struct {
	Errors []error
}

// Append adds err to the list. Nested lists are flattened and nil errors
// are ignored.
func (l *List) Append(err error) {
	if err == nil {
		return
	}
	if nested, ok := err.(*List); ok {
		l.Errors = append(l.Errors, nested.Errors...)
		return
	}
	l.Errors = append(l.Errors, err)
}

// Len returns the number of collected errors
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Errors)
}

// ErrOrNil returns the list as an error, or nil when it is empty. Always
// return through this so an empty list never turns into a non-nil error.
func (l *List) ErrOrNil() error {
	if l.Len() == 0 {
		return nil
	}
	return l
}

// Error implements the error interface
func (l *List) Error() string {
	switch len(l.Errors) {
	case 0:
		return "no errors"
	case 1:
		return l.Errors[0].Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d errors occurred:", len(l.Errors))
	for _, err := range l.Errors {
		b.WriteString("\n  * ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Unwrap exposes every member to errors.Is and errors.As
func (l *List) Unwrap() []error {
	return l.Errors
}

// Flatten returns the individual errors held by err. A single error is
// returned as a one-element slice.
func Flatten(err error) []error {
	if err == nil {
		return nil
	}
	if l, ok := err.(*List); ok {
		return l.Errors
	}
	return []error{err}
}

// CountByCode tallies the structured errors in err by code
func CountByCode(err error) map[ErrorCode]int {
	counts := make(map[ErrorCode]int)
	for _, e := range Flatten(err) {
		counts[GetErrorCode(e)]++
	}
	return counts
}
