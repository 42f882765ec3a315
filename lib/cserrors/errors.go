// Package cserrors provides error handling and logging utilities for the command layer.
package cserrors

import (
	"fmt"

	"github.com/unclesp1d3r/pwpolicycost/appstate"
)

// LogAndReturn logs message with err on the error logger and returns err
// wrapped with message, or nil when err is nil.
func LogAndReturn(message string, err error) error {
	if err == nil {
		return nil
	}

	appstate.ErrorLogger.Error(message, "error", err)

	return fmt.Errorf("%s: %w", message, err)
}
