package manage

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

func isHelp(arg string) bool {
	return arg == "help" || arg == "-h" || arg == "--help"
}

// Exec runs the command named by the command-line arguments. It is a
// short-hand for
//
//	m.ExecArgs(os.Args[1:])
func (m *Manager) Exec() {
	m.ExecArgs(os.Args[1:])
}

// ExecArgs calls Execute with args, and prints the command's result, if
// any. On error, it prints the error and exits with status 1.
func (m *Manager) ExecArgs(args []string) {
	res, err := m.Execute(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	if res != nil {
		fmt.Fprintln(m.output(), res)
	}
}

// Execute looks up the command whose path is args[0], binds the remaining
// arguments to it, and runs it.
//
// Required arguments are read from positional arguments, in order; optional
// ones from flags. Flag names may use dashes in place of underscores.
// Positional arguments starting with a dash, such as negative numbers, must
// follow a "--" separator:
//
//	add -- -5
//
// If args is empty, or args[0] is "help", a usage message is printed
// instead. "help <path>" prints the usage of a single command.
func (m *Manager) Execute(args []string) (any, error) {
	if len(args) == 0 || isHelp(args[0]) {
		return nil, m.help(args)
	}

	c, ok := m.commands[args[0]]
	if !ok {
		return nil, errors.Errorf("no such command: %q", args[0])
	}

	fs, positional, flags := c.flagSet()
	if err := fs.Parse(args[1:]); err != nil {
		if err == pflag.ErrHelp {
			c.Usage(m.output())
			return nil, nil
		}
		return nil, errors.Wrap(err, c.Path())
	}

	rest := fs.Args()
	if len(rest) < len(positional) {
		return nil, errors.Errorf("%s: missing argument %q", c.Path(), positional[len(rest)].Name)
	}
	if len(rest) > len(positional) {
		return nil, errors.Errorf("%s: unexpected argument %q", c.Path(), rest[len(positional)])
	}

	v := make(Values, len(positional)+len(flags))
	for i, a := range positional {
		v[a.Name] = rest[i]
	}
	for name, get := range flags {
		if val := get(); val != nil {
			v[name] = val
		}
	}

	m.logger().WithField("path", c.Path()).Debug("running command")
	return c.Run(v)
}

// help prints the usage of m, or of the command named by args[1].
func (m *Manager) help(args []string) error {
	if len(args) < 2 {
		m.Usage(m.output())
		return nil
	}
	c, ok := m.commands[args[1]]
	if !ok {
		return errors.Errorf("no such command: %q", args[1])
	}
	c.Usage(m.output())
	return nil
}

// Usage prints the list of registered commands to w.
func (m *Manager) Usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: %s <command> [flags] [--] [arguments]\n", m.Name)
	if len(m.commands) == 0 {
		return
	}

	fmt.Fprintln(w, "\nCommands")
	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)
	defer tw.Flush()
	for _, path := range m.Paths() {
		fmt.Fprintf(tw, "\t\t%s\t%s\n", path, m.commands[path].Description)
	}
}

// Usage prints the arguments and flags of c to w.
func (c *Command) Usage(w io.Writer) {
	if c.Description == "" {
		fmt.Fprintln(w, c.Path())
	} else {
		fmt.Fprintf(w, "%s - %s\n", c.Path(), c.Description)
	}

	fs, positional, _ := c.flagSet()
	if len(positional) > 0 {
		fmt.Fprintln(w, "\nArguments")
		tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)
		for _, a := range positional {
			fmt.Fprintf(tw, "\t\t%s\t%s\n", a.Name, a.Help)
		}
		tw.Flush()
	}
	if fs.HasFlags() {
		fmt.Fprintln(w, "\nFlags")
		fmt.Fprint(w, fs.FlagUsages())
	}
}

// flagSet binds the optional arguments of c to a new FlagSet, and returns it
// along with the required arguments, which are bound by position.
func (c *Command) flagSet() (*pflag.FlagSet, []Arg, map[string]func() any) {
	fs := pflag.NewFlagSet(c.Path(), pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "-", "_"))
	})

	var positional []Arg
	flags := make(map[string]func() any)
	for _, a := range c.args {
		if a.Required {
			positional = append(positional, a)
			continue
		}
		flags[a.Name] = a.Bind(fs)
	}
	return fs, positional, flags
}
