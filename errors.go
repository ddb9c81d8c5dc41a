package reagent

import (
	"strings"

	"github.com/samber/oops"
)

// Wire-level error codes. These are the values carried by streaming error
// events and by error payloads on the REST surface.
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeToolValidation = "TOOL_VALIDATION_ERROR"
	CodeExecution      = "EXECUTION_ERROR"
	CodeUnknown        = "UNKNOWN"
)

// contextViolations is the oops context key under which tool-validation
// errors carry their violation list.
const contextViolations = "violations"

// ErrStreamingUnsupported is returned when a streaming transport cannot be
// established, e.g. the response writer does not support flushing.
var ErrStreamingUnsupported = oops.Code(CodeValidation).Errorf("streaming is not supported on this connection")

func newValidationError(format string, args ...any) error {
	return oops.Code(CodeValidation).Errorf(format, args...)
}

// newToolValidationError builds a TOOL_VALIDATION_ERROR carrying the tool
// name and the list of violated constraints.
func newToolValidationError(tool string, violations []string) error {
	return oops.
		Code(CodeToolValidation).
		With("tool", tool).
		With(contextViolations, violations).
		Errorf("tool %q input failed validation: %s",
			tool, strings.Join(violations, "; "))
}

func newExecutionError(format string, args ...any) error {
	return oops.Code(CodeExecution).Errorf(format, args...)
}

func wrapExecutionError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return oops.Code(CodeExecution).Wrapf(err, format, args...)
}

// CodeOf returns the wire code for err, or CodeUnknown when err carries no
// recognized code. Returns "" for nil.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	if oopsErr, ok := oops.AsOops(err); ok {
		if code, ok := oopsErr.Code().(string); ok && code != "" {
			return code
		}
	}
	return CodeUnknown
}

// Violations returns the violated-constraint list attached to a
// TOOL_VALIDATION_ERROR, or nil for any other error.
func Violations(err error) []string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return nil
	}
	violations, _ := oopsErr.Context()[contextViolations].([]string)
	return violations
}
