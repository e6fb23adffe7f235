package satchel

// Value is one parsed option value. Raw always holds the text exactly
// as it appeared on the input after quote stripping; Data holds the
// converter's result and is nil when the option has no converter.
type Value struct {
	Raw  string
	Data any
}

// Argument is the runtime binding of one option descriptor to the
// values encountered for it, in input order. At most one Argument
// exists per descriptor per parse; it is created the first time its
// option is matched.
type Argument struct {
	Option *Option
	Values []Value
}

// Len returns the number of bound values.
func (a *Argument) Len() int { return len(a.Values) }

// Strings returns the raw texts of the bound values in input order.
func (a *Argument) Strings() []string {
	out := make([]string, len(a.Values))
	for i, v := range a.Values {
		out[i] = v.Raw
	}
	return out
}

// headroom reports whether the argument may accept another value under
// its option's arity.
func (a *Argument) headroom() bool {
	m := a.Option.Arity.max()
	return m < 0 || len(a.Values) < m
}

// Pack is the aggregate result of one parse call: the resolved
// (possibly nested) command, the bound arguments in encounter order,
// and the ordered diagnostics. A Pack is produced fresh per parse and
// is never shared between parses. Absence of diagnostics signals
// success; callers must inspect Diagnostics, since partial success
// (some arguments bound, some problems) is a valid outcome.
type Pack struct {
	Program     string
	Command     *Command
	Arguments   []*Argument
	Diagnostics []Diagnostic
}

// Argument looks up a bound named argument by its bare long or short
// name on the resolved command. It returns nil when the option was
// never matched or is not declared.
func (p *Pack) Argument(name string) *Argument {
	opt := p.Command.lookup(name)
	if opt == nil {
		return nil
	}
	return p.find(opt)
}

// Positional looks up a bound positional argument by its 0-based
// declared position among the resolved command's positionals. It
// returns nil when out of range or never bound.
func (p *Pack) Positional(index int) *Argument {
	pos := p.Command.positionals
	if index < 0 || index >= len(pos) {
		return nil
	}
	return p.find(pos[index])
}

func (p *Pack) find(opt *Option) *Argument {
	for _, arg := range p.Arguments {
		if arg.Option == opt {
			return arg
		}
	}
	return nil
}

// argument returns the existing binding for opt, creating it on first
// match so that Arguments keeps encounter order.
func (p *Pack) argument(opt *Option) *Argument {
	if arg := p.find(opt); arg != nil {
		return arg
	}
	arg := &Argument{Option: opt}
	p.Arguments = append(p.Arguments, arg)
	return arg
}

func (p *Pack) diag(d Diagnostic) {
	p.Diagnostics = append(p.Diagnostics, d)
}
