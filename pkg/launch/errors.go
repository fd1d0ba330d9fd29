package launch

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateOption  = errors.New("duplicate option")
	ErrInvalidCondition = errors.New("invalid condition")
	ErrMissingDefault   = errors.New("missing default")
	ErrUndeclaredOption = errors.New("undeclared option")
)

type DuplicateOptionError struct {
	Name string
}

func (e *DuplicateOptionError) Error() string {
	return fmt.Sprintf("duplicate option %q", e.Name)
}

func (e *DuplicateOptionError) Is(target error) bool {
	return target == ErrDuplicateOption
}

type InvalidConditionError struct {
	Option string
	Value  string
}

func (e *InvalidConditionError) Error() string {
	return fmt.Sprintf("option %q: %q is not a boolean literal (expected true, false, 1 or 0)", e.Option, e.Value)
}

func (e *InvalidConditionError) Is(target error) bool {
	return target == ErrInvalidCondition
}

// MissingDefaultError reports an option declared without a default, or with
// a default that does not parse as the option's kind.
type MissingDefaultError struct {
	Name   string
	Reason string
}

func (e *MissingDefaultError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("option %q has no default", e.Name)
	}
	return fmt.Sprintf("option %q has no usable default: %s", e.Name, e.Reason)
}

func (e *MissingDefaultError) Is(target error) bool {
	return target == ErrMissingDefault
}

type UndeclaredOptionError struct {
	Name string
	// Context names the site that referenced the option ("override", or a process name).
	Context string
}

func (e *UndeclaredOptionError) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("undeclared option %q", e.Name)
	}
	return fmt.Sprintf("%s: undeclared option %q", e.Context, e.Name)
}

func (e *UndeclaredOptionError) Is(target error) bool {
	return target == ErrUndeclaredOption
}
