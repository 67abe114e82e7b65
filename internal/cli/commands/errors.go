package commands

import "errors"

// ErrTestsFailed is returned by the run command in strict mode when any test did not pass.
// The report has already been printed, so callers should exit without another message.
var ErrTestsFailed = errors.New("tests failed")
