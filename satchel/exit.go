package satchel

import (
	"errors"
	"reflect"

	"github.com/satchel-cli/satchel/middleware"
)

const exitMetadataKey = "__exit_error__"

// ExitError is a sentinel used to request a specific exit code from
// inside handlers.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "exit"
}

// ExitCodeDefaults holds the fallback codes.
type ExitCodeDefaults struct {
	Success      int // default: 0
	GeneralError int // default: 1
	MisuseError  int // default: 2
}

func defaultExitDefaults() ExitCodeDefaults {
	return ExitCodeDefaults{Success: 0, GeneralError: 1, MisuseError: 2}
}

// ExitCodeManager maps errors and diagnostic kinds to process exit
// codes.
type ExitCodeManager struct {
	codesByKind map[DiagnosticKind]int
	codesByType map[reflect.Type]int
	defaults    ExitCodeDefaults
}

func newExitCodeManager() *ExitCodeManager {
	m := &ExitCodeManager{
		codesByKind: make(map[DiagnosticKind]int),
		codesByType: make(map[reflect.Type]int),
		defaults:    defaultExitDefaults(),
	}

	// Malformed command lines are misuse; a failed response file read
	// is an environment problem, not the user's syntax.
	for _, kind := range []DiagnosticKind{
		DiagEmptyInput,
		DiagUnknownOption,
		DiagUnexpectedArgument,
		DiagMissingValue,
		DiagMalformedQuoting,
		DiagInvalidValue,
		DiagArityViolation,
	} {
		m.codesByKind[kind] = m.defaults.MisuseError
	}
	m.codesByKind[DiagResponseFile] = m.defaults.GeneralError

	m.codesByType[reflect.TypeOf(&middleware.TimeoutError{})] = m.defaults.GeneralError
	m.codesByType[reflect.TypeOf(&middleware.RecoveryError{})] = m.defaults.GeneralError
	return m
}

// DefineKind overrides the exit code for a diagnostic kind. The
// mapping applies when a *RunError reaches the runner.
func (e *ExitCodeManager) DefineKind(kind DiagnosticKind, code int) *ExitCodeManager {
	e.codesByKind[kind] = code
	return e
}

// DefineError maps a concrete error value (by its dynamic type) to an
// exit code. An explicit ExitError from the handler still wins.
func (e *ExitCodeManager) DefineError(err error, code int) *ExitCodeManager {
	if err == nil {
		return e
	}
	e.codesByType[reflect.TypeOf(err)] = code
	return e
}

// Default replaces the fallback codes.
func (e *ExitCodeManager) Default(d ExitCodeDefaults) *ExitCodeManager {
	e.defaults = d
	return e
}

// resolve converts an error to an exit code. Precedence:
//  1. ExitError (requested code)
//  2. RunError, mapped by its first diagnostic's kind
//  3. Concrete error type mapping (DefineError)
//  4. Defaults
func (e *ExitCodeManager) resolve(err error) int {
	if err == nil {
		return e.defaults.Success
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var runErr *RunError
	if errors.As(err, &runErr) {
		if len(runErr.Pack.Diagnostics) > 0 {
			if code, ok := e.codesByKind[runErr.Pack.Diagnostics[0].Kind]; ok {
				return code
			}
		}
		return e.defaults.MisuseError
	}

	for t, code := range e.codesByType {
		if errors.As(err, reflect.New(t).Interface()) {
			return code
		}
	}

	return e.defaults.GeneralError
}
