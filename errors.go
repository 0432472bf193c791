package paramcheck

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Sentinel errors for use with errors.Is.
var (
	// ErrInvalid marks a parameter value that failed its check.
	ErrInvalid = errors.New("invalid parameter")

	// ErrDenied marks a request refused by a checker or a permission.
	ErrDenied = errors.New("permission denied")

	// ErrDefinition marks a malformed parameter declaration.
	ErrDefinition = errors.New("invalid parameter definition")
)

// ValidationErrors maps field names to their validation errors. It is
// ozzo-validation's Errors type and marshals to a JSON object.
type ValidationErrors = validation.Errors

// Failure is returned by a checker to reject a value with a message that is
// shown to the client as-is.
type Failure struct {
	Msg string
}

// Fail returns a *Failure carrying msg.
func Fail(msg string) error {
	return &Failure{Msg: msg}
}

func (e *Failure) Error() string { return e.Msg }

// Is reports whether target is ErrInvalid.
func (e *Failure) Is(target error) bool { return target == ErrInvalid }

// Denial is returned by a checker to stop the request with 403.
type Denial struct {
	Msg string
}

// Deny returns a *Denial carrying msg.
func Deny(msg string) error {
	return &Denial{Msg: msg}
}

func (e *Denial) Error() string { return e.Msg }

// Is reports whether target is ErrDenied.
func (e *Denial) Is(target error) bool { return target == ErrDenied }

// DefinitionError describes a parameter declaration that cannot be used.
type DefinitionError struct {
	// Param is the offending parameter name, empty when not applicable.
	Param string
	// Message describes the problem.
	Message string
}

func (e *DefinitionError) Error() string {
	msg := "invalid parameter definition"
	if e.Param != "" {
		msg += " " + e.Param
	}
	return msg + ": " + e.Message
}

// Is reports whether target is ErrDefinition.
func (e *DefinitionError) Is(target error) bool { return target == ErrDefinition }
