package routing

import "fmt"

// Error codes surfaced to callers.
const (
	CodeConfiguration = "CONFIGURATION_ERROR"
	CodeOptimization  = "OPTIMIZATION_ERROR"
)

// Error is the structured failure type for the routing engine. Algorithm
// names the strategy (or "vehicle_routing" for orchestration failures).
type Error struct {
	Code      string
	Algorithm string
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Algorithm, e.Code, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func configErr(algorithm string, err error) *Error {
	return &Error{Code: CodeConfiguration, Algorithm: algorithm, Err: err}
}

func optErr(algorithm string, err error) *Error {
	return &Error{Code: CodeOptimization, Algorithm: algorithm, Err: err}
}
