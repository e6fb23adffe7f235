package satchel

import "strings"

// DiagnosticKind categorizes diagnostics. Kinds drive exit-code mapping
// in the Runner (via ExitCodeManager) and let callers filter problems
// without matching on message text.
type DiagnosticKind string

const (
	DiagEmptyInput         DiagnosticKind = "empty_input"
	DiagUnknownOption      DiagnosticKind = "unknown_option"
	DiagUnexpectedArgument DiagnosticKind = "unexpected_argument"
	DiagMissingValue       DiagnosticKind = "missing_value"
	DiagMalformedQuoting   DiagnosticKind = "malformed_quoting"
	DiagInvalidValue       DiagnosticKind = "invalid_value"
	DiagResponseFile       DiagnosticKind = "response_file"
	DiagArityViolation     DiagnosticKind = "arity_violation"
)

// Diagnostic is one ordered, immutable problem report. Diagnostics are
// never fatal: the parser records them and keeps consuming tokens, so
// one invocation surfaces as many problems as possible.
type Diagnostic struct {
	Kind    DiagnosticKind
	Message string

	// Option is the prefixed display name of the option involved, when
	// one is known.
	Option string

	// Suggestion is a close declared name for unknown-option and
	// unexpected-argument diagnostics, found by fuzzy matching.
	Suggestion string
}

// String renders the diagnostic including its suggestion, if any.
func (d Diagnostic) String() string {
	if d.Suggestion == "" {
		return d.Message
	}
	var b strings.Builder
	b.WriteString(d.Message)
	b.WriteString(" (did you mean '")
	b.WriteString(d.Suggestion)
	b.WriteString("'?)")
	return b.String()
}
