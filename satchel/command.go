package satchel

// Command is one node of the caller-built command tree: a name, its
// declared options (named and positional, in declaration order) and
// its subcommands. The tree is read-only during parsing; the engine
// never mutates it, so distinct parsers may walk the same tree
// concurrently.
type Command struct {
	name        string
	description string

	// Handler is opaque to the engine; the Runner dispatches it after
	// a diagnostic-free parse.
	Handler Handler

	options     []*Option
	positionals []*Option
	longs       map[string]*Option
	shorts      map[string]*Option

	subcommands []*Command
	subIndex    map[string]*Command
	parent      *Command
}

// NewCommand creates a root command.
func NewCommand(name, description string) *Command {
	return &Command{
		name:        name,
		description: description,
		longs:       make(map[string]*Option),
		shorts:      make(map[string]*Option),
		subIndex:    make(map[string]*Command),
	}
}

// Name returns the command name.
func (c *Command) Name() string { return c.name }

// Description returns the command description.
func (c *Command) Description() string { return c.description }

// Option declares a named option. Either name may be empty, but not
// both; use Positional for unnamed options. Returns the option for
// Converter chaining.
func (c *Command) Option(long, short, description string, arity Arity) *Option {
	opt := &Option{
		Long:        long,
		Short:       short,
		Description: description,
		Arity:       arity,
	}
	c.options = append(c.options, opt)
	if long != "" {
		c.longs[long] = opt
	}
	if short != "" {
		c.shorts[short] = opt
	}
	return opt
}

// Positional declares an unnamed option matched by position. Declaration
// order among positionals fixes their binding order.
func (c *Command) Positional(description string, arity Arity) *Option {
	opt := &Option{
		Description: description,
		Arity:       arity,
	}
	c.options = append(c.options, opt)
	c.positionals = append(c.positionals, opt)
	return opt
}

// Subcommand declares a child command and returns it for further
// declaration chaining.
func (c *Command) Subcommand(name, description string) *Command {
	sub := NewCommand(name, description)
	sub.parent = c
	c.subcommands = append(c.subcommands, sub)
	c.subIndex[name] = sub
	return sub
}

// Path returns the space-joined command names from the root down to
// this command.
func (c *Command) Path() string {
	if c.parent == nil {
		return c.name
	}
	return c.parent.Path() + " " + c.name
}

// Handle sets the command handler and returns the command for chaining.
func (c *Command) Handle(h Handler) *Command {
	c.Handler = h
	return c
}

// Options returns the declared options in declaration order.
func (c *Command) Options() []*Option { return c.options }

// Positionals returns the declared positional options in order.
func (c *Command) Positionals() []*Option { return c.positionals }

// Subcommands returns the declared subcommands in declaration order.
func (c *Command) Subcommands() []*Command { return c.subcommands }

// subcommand performs an exact-name child lookup.
func (c *Command) subcommand(name string) *Command {
	return c.subIndex[name]
}

// lookup resolves a bare option name against long then short names.
func (c *Command) lookup(name string) *Option {
	if opt := c.longs[name]; opt != nil {
		return opt
	}
	return c.shorts[name]
}

// optionNames returns every declared long and short name, used for
// suggestion matching on unknown-option diagnostics.
func (c *Command) optionNames() []string {
	names := make([]string, 0, len(c.longs)+len(c.shorts))
	for name := range c.longs {
		names = append(names, name)
	}
	for name := range c.shorts {
		names = append(names, name)
	}
	return names
}

// subcommandNames returns every declared child name.
func (c *Command) subcommandNames() []string {
	names := make([]string, 0, len(c.subIndex))
	for name := range c.subIndex {
		names = append(names, name)
	}
	return names
}
