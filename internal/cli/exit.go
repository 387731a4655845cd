package cli

// ExitCodeFetchFailed is returned when holdings could not be loaded for non-interactive output.
const ExitCodeFetchFailed = 2

// ExitError carries a specific process exit code up to main.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}
