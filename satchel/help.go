package satchel

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// ShowHelp renders usage for the given command to the runner's output
// stream.
func (r *Runner) ShowHelp(cmd *Command) error {
	out := r.io.Out()
	header := color.New(color.Bold)
	if r.io.SupportsColor() {
		header.EnableColor()
	} else {
		header.DisableColor()
	}

	if cmd.description != "" {
		fmt.Fprintf(out, "%s\n\n", cmd.description)
	}

	fmt.Fprintf(out, "%s %s\n", header.Sprint("Usage:"), usageLine(cmd))

	if len(cmd.subcommands) > 0 {
		fmt.Fprintf(out, "\n%s\n", header.Sprint("Commands:"))
		width := 0
		for _, sub := range cmd.subcommands {
			if len(sub.name) > width {
				width = len(sub.name)
			}
		}
		for _, sub := range cmd.subcommands {
			fmt.Fprintf(out, "  %-*s  %s\n", width, sub.name, sub.description)
		}
	}

	named := namedOptions(cmd)
	if len(named) > 0 {
		fmt.Fprintf(out, "\n%s\n", header.Sprint("Options:"))
		labels := make([]string, len(named))
		width := 0
		for i, opt := range named {
			labels[i] = optionLabel(opt)
			if len(labels[i]) > width {
				width = len(labels[i])
			}
		}
		for i, opt := range named {
			fmt.Fprintf(out, "  %-*s  %s\n", width, labels[i], opt.Description)
		}
	}

	if len(cmd.positionals) > 0 {
		fmt.Fprintf(out, "\n%s\n", header.Sprint("Arguments:"))
		for i, opt := range cmd.positionals {
			fmt.Fprintf(out, "  %d. %s (%s)\n", i+1, opt.Description, opt.Arity)
		}
	}

	return nil
}

func namedOptions(cmd *Command) []*Option {
	named := make([]*Option, 0, len(cmd.options))
	for _, opt := range cmd.options {
		if !opt.Positional() {
			named = append(named, opt)
		}
	}
	return named
}

// usageLine composes the one-line synopsis.
func usageLine(cmd *Command) string {
	var b strings.Builder
	b.WriteString(cmd.Path())
	if len(cmd.subcommands) > 0 {
		b.WriteString(" [command]")
	}
	if len(namedOptions(cmd)) > 0 {
		b.WriteString(" [options]")
	}
	for _, opt := range cmd.positionals {
		b.WriteString(" ")
		b.WriteString(positionalHint(opt))
	}
	return b.String()
}

// optionLabel renders "--long, -s <value>" style labels.
func optionLabel(opt *Option) string {
	var b strings.Builder
	switch {
	case opt.Long != "" && opt.Short != "":
		b.WriteString("--" + opt.Long + ", -" + opt.Short)
	case opt.Long != "":
		b.WriteString("--" + opt.Long)
	default:
		b.WriteString("-" + opt.Short)
	}
	if hint := valueHint(opt.Arity); hint != "" {
		b.WriteString(" " + hint)
	}
	return b.String()
}

func valueHint(a Arity) string {
	switch a {
	case ZeroOrOne:
		return "[value]"
	case ExactlyOne:
		return "<value>"
	case ZeroOrMore:
		return "[value...]"
	case OneOrMore:
		return "<value>..."
	default:
		return ""
	}
}

func positionalHint(opt *Option) string {
	name := "arg"
	if opt.Description != "" {
		name = strings.ToLower(strings.Fields(opt.Description)[0])
	}
	switch opt.Arity {
	case ZeroOrOne:
		return "[" + name + "]"
	case ZeroOrMore:
		return "[" + name + "...]"
	case OneOrMore:
		return "<" + name + ">..."
	default:
		return "<" + name + ">"
	}
}
