package errorutil

import (
	"fmt"

	"github.com/rs/zerolog"
)

// HandleError logs err at error level when it is non-nil
func HandleError(log zerolog.Logger, err error, msg string) {
	if err != nil {
		log.Error().Err(err).Msg(msg)
	}
}

// WrapError wraps an error with additional context
func WrapError(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Headline returns the short operator-facing message of err when it
// provides one, otherwise err.Error().
func Headline(err error) string {
	if err == nil {
		return ""
	}
	if h, ok := err.(interface{ Headline() string }); ok {
		return h.Headline()
	}
	return err.Error()
}
