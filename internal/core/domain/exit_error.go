package domain

import "fmt"

// ExitError records the exit status of a failed task command. The CLI exits
// with the code of the first failing child process, so the code must survive
// the error chain up to main.
type ExitError struct {
	Task string
	Code int
	Err  error
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("task %q exited with code %d", e.Task, e.Code)
}

// Unwrap returns the underlying process error.
func (e *ExitError) Unwrap() error {
	return e.Err
}
