// Package apps holds what the front-ends share besides the wiring in apps/shared.
package apps

import "github.com/pkg/errors"

// ArgumentError reports a malformed command line argument. It is shown to the user
// and never reported as a failure.
type ArgumentError struct {
	Arg string // empty when the message names it
	msg string
}

func NewArgumentError(arg, msg string) *ArgumentError {
	return &ArgumentError{Arg: arg, msg: msg}
}

func (err *ArgumentError) Error() string {
	if err.Arg == "" {
		return err.msg
	}
	return err.Arg + ": " + err.msg
}

func IsArgument(err error) bool {
	var aErr *ArgumentError
	return errors.As(err, &aErr)
}
