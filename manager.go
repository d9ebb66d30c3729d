package manage

import (
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"
)

// Manager holds a set of commands, keyed by path. The zero value is an
// empty Manager logging to logrus' standard logger and writing to
// os.Stdout.
//
// A Manager is meant to be populated during program setup, and only read
// afterwards. It does no locking of its own: registering commands from
// several goroutines must be serialized by the caller.
type Manager struct {
	// The name of the program, used in usage messages.
	Name string

	commands map[string]*Command
	log      logrus.FieldLogger
	out      io.Writer
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the logger a Manager reports registrations to. The
// default is logrus' standard logger.
func WithLogger(l logrus.FieldLogger) ManagerOption {
	return func(m *Manager) { m.log = l }
}

// WithOutput sets where usage messages and command results are written.
// The default is os.Stdout.
func WithOutput(w io.Writer) ManagerOption {
	return func(m *Manager) { m.out = w }
}

// WithName sets the program name shown in usage messages. The default is
// the base name of os.Args[0].
func WithName(name string) ManagerOption {
	return func(m *Manager) { m.Name = name }
}

// NewManager returns an empty Manager.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		commands: make(map[string]*Command),
		log:      logrus.StandardLogger(),
		out:      os.Stdout,
	}
	if len(os.Args) > 0 {
		m.Name = filepath.Base(os.Args[0])
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register adds a command built from src to m, and returns it. src may be
// anything New accepts, or a *Command, which is registered as is after the
// Namespace option, if any, has been applied to it.
//
// If a command is already registered at the same path, it is replaced.
func (m *Manager) Register(src any, opts ...CommandOption) *Command {
	var c *Command
	if cmd, ok := src.(*Command); ok {
		var cfg commandConfig
		for _, opt := range opts {
			opt(&cfg)
		}
		if cfg.name != "" {
			cmd.Name = cfg.name
		}
		if cfg.namespace != "" {
			cmd.Namespace = cfg.namespace
		}
		if cfg.doc != "" {
			cmd.Description = cfg.doc
		}
		for _, a := range cfg.overrides {
			cmd.AddArgument(a)
		}
		c = cmd
	} else {
		c = New(src, opts...)
	}
	m.add(c, "register")
	return c
}

// Define registers src in m, and returns src unchanged. It allows a command
// to be registered where it is declared:
//
//	var greet = manage.Define(m, func(name string) string {
//		return "hello " + name
//	}, manage.Name("greet"), manage.Params(manage.Required("name")))
func Define[T any](m *Manager, src T, opts ...CommandOption) T {
	m.Register(src, opts...)
	return src
}

// Namespaced returns a function that registers commands in m under the
// namespace ns.
func (m *Manager) Namespaced(ns string) func(src any, opts ...CommandOption) *Command {
	return func(src any, opts ...CommandOption) *Command {
		return m.Register(src, append(opts, Namespace(ns))...)
	}
}

// Merge copies every command of other into m. If namespace is not empty,
// the copies are placed under it, replacing their original namespace.
//
// other is left untouched, and later changes to its commands do not affect
// m.
func (m *Manager) Merge(other *Manager, namespace string) {
	for _, path := range other.Paths() {
		c := other.commands[path].Clone()
		if namespace != "" {
			c.Namespace = namespace
		}
		m.add(c, "merge")
	}
}

// Remove drops the command registered at path, if any.
func (m *Manager) Remove(path string) {
	if _, ok := m.commands[path]; !ok {
		return
	}
	delete(m.commands, path)
	m.logger().WithField("path", path).Debug("removed command")
}

// Command returns the command registered at path.
func (m *Manager) Command(path string) (*Command, bool) {
	c, ok := m.commands[path]
	return c, ok
}

// Commands returns a copy of the path to command mapping of m.
func (m *Manager) Commands() map[string]*Command {
	cmds := make(map[string]*Command, len(m.commands))
	for p, c := range m.commands {
		cmds[p] = c
	}
	return cmds
}

// Paths returns the paths of all registered commands, sorted.
func (m *Manager) Paths() []string {
	paths := make([]string, 0, len(m.commands))
	for p := range m.commands {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (m *Manager) logger() logrus.FieldLogger {
	if m.log == nil {
		return logrus.StandardLogger()
	}
	return m.log
}

func (m *Manager) output() io.Writer {
	if m.out == nil {
		return os.Stdout
	}
	return m.out
}

func (m *Manager) add(c *Command, source string) {
	if m.commands == nil {
		m.commands = make(map[string]*Command)
	}
	path := c.Path()
	log := m.logger().WithFields(logrus.Fields{
		"path":      path,
		"namespace": c.Namespace,
		"source":    source,
	})
	if _, ok := m.commands[path]; ok {
		log.Debug("replacing command")
	} else {
		log.Debug("registered command")
	}
	m.commands[path] = c
}
