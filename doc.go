// Package manage provides a small registry of commands for command-line
// programs.
//
// A command is either a plain function or a value implementing Runner. Its
// arguments are derived from the parameters it declares: a parameter
// without a default becomes a required, positional argument, and a
// parameter with a default becomes an optional flag. A parameter whose
// default is exactly false becomes a presence flag.
//
// Commands live in a Manager, keyed by their path:
//
//	m := manage.NewManager()
//	m.Register(greet, manage.Params(
//		manage.Required("name"),
//		manage.Optional("shout", false),
//	))
//	m.Register(migrate, manage.Namespace("db"))	// path "db.migrate"
//
// Managers can be merged into one another, optionally under a new
// namespace, which lets independent packages expose their own commands and
// lets a main package stitch them together.
//
// The registry itself never parses input. Execute and Exec form a thin
// invocation layer on top of it that hands each argument's binding options
// to a github.com/spf13/pflag FlagSet.
package manage
