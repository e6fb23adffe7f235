package satchel

// Arity is the cardinality constraint on how many values an option may
// collect during one parse.
type Arity int

const (
	Zero       Arity = iota // flag only, no values
	ZeroOrOne               // optional single value
	ExactlyOne              // required single value
	ZeroOrMore              // any number of values
	OneOrMore               // at least one value
)

// String returns a human-readable cardinality, used in diagnostics.
func (a Arity) String() string {
	switch a {
	case Zero:
		return "no values"
	case ZeroOrOne:
		return "at most one value"
	case ExactlyOne:
		return "exactly one value"
	case ZeroOrMore:
		return "any number of values"
	case OneOrMore:
		return "at least one value"
	default:
		return "unknown cardinality"
	}
}

// max returns the value ceiling for the arity, or -1 when unbounded.
func (a Arity) max() int {
	switch a {
	case Zero:
		return 0
	case ZeroOrOne, ExactlyOne:
		return 1
	default:
		return -1
	}
}

// min returns the minimum number of values the arity demands.
func (a Arity) min() int {
	switch a {
	case ExactlyOne, OneOrMore:
		return 1
	default:
		return 0
	}
}

// satisfied reports whether a bound value count meets the arity.
func (a Arity) satisfied(count int) bool {
	if count < a.min() {
		return false
	}
	if m := a.max(); m >= 0 && count > m {
		return false
	}
	return true
}

// ConvertFunc turns raw option text into a domain value. Returning an
// error records an invalid-value diagnostic instead of binding.
type ConvertFunc func(raw string) (any, error)

// Option describes one declared option of a command: a named option
// when Long or Short is set, a positional when both are empty.
// Options are immutable once parsing starts.
type Option struct {
	Long        string
	Short       string
	Description string
	Arity       Arity

	convert ConvertFunc
}

// Converter sets the value-conversion function and returns the option
// for declaration chaining.
func (o *Option) Converter(fn ConvertFunc) *Option {
	o.convert = fn
	return o
}

// Positional reports whether the option is matched by position rather
// than by name.
func (o *Option) Positional() bool {
	return o.Long == "" && o.Short == ""
}

// PreferredName returns the prefixed display name for diagnostics and
// usage text. Positionals have none; callers name them by position.
func (o *Option) PreferredName() string {
	if o.Long != "" {
		return "--" + o.Long
	}
	if o.Short != "" {
		return "-" + o.Short
	}
	return ""
}

// acceptsZero reports whether the option may legally end a parse with
// no values. Bundled short options other than the last must pass this.
func (o *Option) acceptsZero() bool {
	return o.Arity.min() == 0
}
