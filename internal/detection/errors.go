package detection

import "fmt"

// Error reports a failure inside a named estimator. Estimator failures are
// recoverable: the caller substitutes a neutral map and continues with the
// remaining estimators.
type Error struct {
	Estimator string
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("estimator %q: %v", e.Estimator, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Failure is the caller-visible record of an estimator that was replaced
// by a neutral probability map during a classification run.
type Failure struct {
	Estimator string `json:"estimator"`
	Reason    string `json:"reason"`
}
