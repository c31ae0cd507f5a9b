package setup

import (
	"errors"
	"fmt"
)

// Kind classifies why a stage failed.
type Kind string

const (
	// KindToolNotFound means conda itself could not be launched.
	KindToolNotFound Kind = "tool_not_found"
	// KindLaunchFailure means a required subprocess could not be started.
	KindLaunchFailure Kind = "launch_failure"
	// KindCommandFailed means a subprocess ran but exited non-zero.
	KindCommandFailed Kind = "command_failed"
	// KindVerificationMismatch means output did not satisfy the expected pattern.
	KindVerificationMismatch Kind = "verification_mismatch"
	// KindInputClosed means stdin ended before a yes/no answer was given.
	KindInputClosed Kind = "input_closed"
)

// Error is a fatal stage failure. Message is the one-line reason shown to the
// operator above the failure banner.
type Error struct {
	Kind    Kind
	Stage   Stage
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Headline() string { return e.Message }

func newError(kind Kind, stage Stage, message string, err error) *Error {
	return &Error{Kind: kind, Stage: stage, Message: message, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var setupErr *Error
	if errors.As(err, &setupErr) {
		return setupErr.Kind
	}
	return ""
}
