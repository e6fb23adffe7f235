package satchel

import (
	"fmt"
	"strings"

	"github.com/satchel-cli/satchel/internal/fuzzy"
)

// suggestDistance is the maximum edit distance for "did you mean"
// suggestions on unknown names.
const suggestDistance = 2

// Parser consumes the token stream against a command tree. A Parser is
// reusable but not safe for concurrent use; every Parse call produces
// one fresh Pack and never mutates the tree, so concurrent parses of
// the same tree need one Parser each.
type Parser struct {
	root    *Command
	matcher *fuzzy.Matcher

	// Per-parse state, reset on every Parse call.
	pack *Pack
	cmd  *Command
	tz   *tokenizer

	// subsAllowed holds until the first token that is not a matching
	// subcommand name, or until option or escape processing begins.
	// optsAllowed holds until the bare escape token. Both turn off
	// permanently for the remainder of the parse.
	subsAllowed bool
	optsAllowed bool

	// pending is the argument awaiting an attached value; when the
	// name was unknown the diagnostic is already recorded and
	// pendingUnknown drops the would-be value instead.
	pending        *Argument
	pendingUnknown bool

	// current is the last matched named argument, still eligible to
	// absorb following tokens while its arity has headroom.
	current *Argument
}

// NewParser creates a parser over a caller-owned command tree.
func NewParser(root *Command) *Parser {
	return &Parser{
		root:    root,
		matcher: fuzzy.NewMatcher(suggestDistance),
	}
}

// Parse is the convenience entry point for one-shot parsing.
func Parse(root *Command, args []string) *Pack {
	return NewParser(root).Parse(args)
}

// Parse converts the argument vector into a Pack. It never fails on
// malformed input: problems become ordered diagnostics and parsing
// continues with the next token.
func (p *Parser) Parse(args []string) *Pack {
	p.reset()
	p.pack = &Pack{Program: p.root.name, Command: p.root}
	p.cmd = p.root

	if len(args) == 0 {
		p.pack.diag(Diagnostic{Kind: DiagEmptyInput, Message: "empty argument list"})
		return p.pack
	}

	p.tz = newTokenizer(args, p.pack.diag)
	for {
		tok, ok := p.tz.next()
		if !ok {
			break
		}
		p.consume(tok)
	}
	if p.pending != nil || p.pendingUnknown {
		// The tokenizer always surfaces the attached value read
		// immediately after the name part.
		panic("satchel: internal error: attached value never surfaced")
	}

	p.validate()
	return p.pack
}

func (p *Parser) reset() {
	p.pack = nil
	p.cmd = nil
	p.tz = nil
	p.subsAllowed = true
	p.optsAllowed = true
	p.pending = nil
	p.pendingUnknown = false
	p.current = nil
}

// consume classifies one token. The rules apply in strict priority
// order; the first that binds the token wins.
func (p *Parser) consume(tok token) {
	// Attached name part: the next read carries its value.
	if tok.attached {
		if p.pending != nil || p.pendingUnknown {
			panic("satchel: internal error: consecutive attached-value tokens")
		}
		p.subsAllowed = false
		if arg, ok := p.matchOption(tok.text); ok {
			p.pending = arg
		} else {
			p.unknownOption(tok)
			p.pendingUnknown = true
		}
		return
	}

	// Value owed to the previous attached name.
	if p.pending != nil || p.pendingUnknown {
		arg := p.pending
		unknown := p.pendingUnknown
		p.pending, p.pendingUnknown = nil, false
		if unknown {
			return // already diagnosed; drop the value
		}
		if !tok.hadText {
			p.pack.diag(Diagnostic{
				Kind:    DiagMissingValue,
				Message: "missing value for option '" + arg.Option.PreferredName() + "'",
				Option:  arg.Option.PreferredName(),
			})
			return
		}
		p.bindValue(arg, tok)
		p.current = arg
		return
	}

	// Bare escape: everything after is positional-only.
	if p.optsAllowed && tok.text == "--" && len(tok.raw) == 2 {
		p.optsAllowed = false
		p.subsAllowed = false
		p.current = nil
		p.tz.literalMode()
		return
	}

	// Subcommand descent; the first non-matching token ends it for the
	// rest of the parse.
	if p.subsAllowed {
		if sub := p.cmd.subcommand(tok.text); sub != nil {
			p.cmd = sub
			p.pack.Command = sub
			return
		}
		p.subsAllowed = false
	}

	// Full or bundled option name.
	if p.optsAllowed && looksLikeOption(tok.text) {
		if arg, ok := p.matchOption(tok.text); ok {
			p.current = arg
			return
		}
	}

	// More values for the most recently matched option.
	if p.current != nil && p.current.headroom() {
		p.bindValue(p.current, tok)
		return
	}

	// Next positional with headroom, created on demand.
	if arg := p.nextPositional(); arg != nil {
		p.bindValue(arg, tok)
		return
	}

	p.unexpected(tok)
}

// looksLikeOption reports whether a token begins with a recognized
// option prefix character.
func looksLikeOption(text string) bool {
	return len(text) > 0 && (text[0] == '-' || text[0] == '/')
}

// matchOption resolves an option-shaped token to its (created or
// reused) argument. Full-name matching tries long then short names;
// single-dash and slash prefixes additionally try bundling. Bundling
// is all-or-nothing: every character must resolve to a declared short
// option, and every character but the last must tolerate zero values.
// The returned argument is the one eligible to receive a value (the
// last of a bundle).
func (p *Parser) matchOption(text string) (*Argument, bool) {
	var name string
	bundle := false
	switch {
	case strings.HasPrefix(text, "--") && len(text) > 2:
		name = text[2:]
	case len(text) > 1 && (text[0] == '-' || text[0] == '/'):
		name = text[1:]
		bundle = true
	default:
		return nil, false
	}

	if opt := p.cmd.lookup(name); opt != nil {
		return p.pack.argument(opt), true
	}

	if !bundle || len(name) < 2 {
		return nil, false
	}
	runes := []rune(name)
	opts := make([]*Option, len(runes))
	for i, r := range runes {
		opt := p.cmd.shorts[string(r)]
		if opt == nil {
			return nil, false
		}
		if i < len(runes)-1 && !opt.acceptsZero() {
			return nil, false
		}
		opts[i] = opt
	}
	var last *Argument
	for _, opt := range opts {
		last = p.pack.argument(opt)
	}
	return last, true
}

// nextPositional finds the first declared positional whose argument
// still has arity headroom. A positional is used up once its ceiling
// is reached and the search advances past it permanently.
func (p *Parser) nextPositional() *Argument {
	for _, opt := range p.cmd.positionals {
		if arg := p.pack.find(opt); arg != nil {
			if arg.headroom() {
				return arg
			}
			continue
		}
		if opt.Arity.max() == 0 {
			continue
		}
		return p.pack.argument(opt)
	}
	return nil
}

// bindValue runs the value phase for one token: deferred quoting
// diagnostics surface here, then the option's converter (when set)
// decides between a bound value and an invalid-value diagnostic.
func (p *Parser) bindValue(arg *Argument, tok token) {
	if tok.badQuote {
		p.pack.diag(Diagnostic{
			Kind:    DiagMalformedQuoting,
			Message: "malformed quoting in '" + tok.raw + "'",
			Option:  arg.Option.PreferredName(),
		})
		return
	}
	opt := arg.Option
	if opt.convert != nil {
		v, err := opt.convert(tok.text)
		if err != nil {
			p.pack.diag(Diagnostic{
				Kind:    DiagInvalidValue,
				Message: fmt.Sprintf("invalid value '%s' for %s: %v", tok.text, p.describe(opt), err),
				Option:  opt.PreferredName(),
			})
			return
		}
		arg.Values = append(arg.Values, Value{Raw: tok.text, Data: v})
		return
	}
	arg.Values = append(arg.Values, Value{Raw: tok.text})
}

// describe names an option for diagnostics: by preferred name, or for
// positionals by 1-based declared position.
func (p *Parser) describe(opt *Option) string {
	if !opt.Positional() {
		return "option '" + opt.PreferredName() + "'"
	}
	for i, pos := range p.cmd.positionals {
		if pos == opt {
			return fmt.Sprintf("positional argument %d", i+1)
		}
	}
	return "positional argument"
}

func (p *Parser) unknownOption(tok token) {
	d := Diagnostic{
		Kind:    DiagUnknownOption,
		Message: "unknown option: " + tok.raw,
	}
	if s := p.suggestOption(tok.text); s != "" {
		d.Suggestion = s
	}
	p.pack.diag(d)
}

func (p *Parser) unexpected(tok token) {
	// An option-shaped token that bound nowhere reads as a typo'd
	// option, not stray data.
	if p.optsAllowed && looksLikeOption(tok.text) {
		p.unknownOption(tok)
		return
	}
	d := Diagnostic{
		Kind:    DiagUnexpectedArgument,
		Message: "unexpected argument: " + tok.raw,
	}
	if len(p.cmd.subcommands) > 0 {
		d.Suggestion = p.matcher.FindBest(tok.text, p.cmd.subcommandNames())
	}
	p.pack.diag(d)
}

// suggestOption fuzzy-matches a failed option token against the active
// command's declared names and returns a prefixed suggestion.
func (p *Parser) suggestOption(text string) string {
	name := strings.TrimLeft(text, "-/")
	best := p.matcher.FindBest(name, p.cmd.optionNames())
	if best == "" {
		return ""
	}
	if len(best) == 1 {
		return "-" + best
	}
	return "--" + best
}

// validate is the post-pass arity check over every declared option of
// the resolved command, named and positional alike.
func (p *Parser) validate() {
	posIndex := 0
	for _, opt := range p.cmd.options {
		if opt.Positional() {
			posIndex++
		}
		count := 0
		if arg := p.pack.find(opt); arg != nil {
			count = len(arg.Values)
		}
		if opt.Arity.satisfied(count) {
			continue
		}
		var msg string
		if opt.Positional() {
			msg = fmt.Sprintf("positional argument %d expects %s, got %d", posIndex, opt.Arity, count)
		} else {
			msg = fmt.Sprintf("option '%s' expects %s, got %d", opt.PreferredName(), opt.Arity, count)
		}
		p.pack.diag(Diagnostic{
			Kind:    DiagArityViolation,
			Message: msg,
			Option:  opt.PreferredName(),
		})
	}
}
