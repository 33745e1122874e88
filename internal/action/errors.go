package action

import (
	"errors"
	"fmt"
)

// ErrCancelled signals that the user dismissed a prompt. Dispatch treats it
// as a silent no-op.
var ErrCancelled = errors.New("cancelled")

// InvalidInputError reports a prompt answer that violates its constraint.
// The command that asked is not executed.
type InvalidInputError struct {
	Prompt string
	Value  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Prompt == "" {
		return fmt.Sprintf("invalid input %q: %s", e.Value, e.Reason)
	}
	return fmt.Sprintf("%s: invalid input %q: %s", e.Prompt, e.Value, e.Reason)
}

// IsInvalidInput reports whether err carries an InvalidInputError.
func IsInvalidInput(err error) bool {
	var target *InvalidInputError
	return errors.As(err, &target)
}
