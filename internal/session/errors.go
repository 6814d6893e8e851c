package session

import (
	"errors"
	"fmt"
)

// ErrInterrupted reports an external abort during a run. The session is
// fail-fast: the run's partial record is discarded and the session dies.
var ErrInterrupted = errors.New("user interrupt")

// UnknownCommandError reports a script line starting with an unrecognized
// command word.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command %q", e.Name)
}

// ArgumentCountError reports a command invoked with the wrong arity.
type ArgumentCountError struct {
	Command string
	Got     int
	Want    int
}

func (e *ArgumentCountError) Error() string {
	return fmt.Sprintf("%s: expected %d argument(s), got %d", e.Command, e.Want, e.Got)
}

// NonNumericArgumentError reports an argument that failed numeric parsing.
type NonNumericArgumentError struct {
	Command string
	Value   string
}

func (e *NonNumericArgumentError) Error() string {
	return fmt.Sprintf("%s: non-numeric argument %q", e.Command, e.Value)
}
