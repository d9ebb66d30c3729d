package manage

import (
	"reflect"
	"regexp"
	"runtime"
	"strings"

	"github.com/huandu/xstrings"
	"github.com/pkg/errors"
)

// ErrNoRunner is returned when running a Command that has nothing to run.
var ErrNoRunner = errors.New("command has no runner")

// Command defines the structure of a registered command.
type Command struct {
	// The name of the command.
	Name string

	// An optional namespace qualifying the command's path.
	Namespace string

	// A brief description of the command.
	Description string

	runner Runner
	args   []Arg
}

type commandConfig struct {
	name      string
	namespace string
	doc       string
	params    []Param
	hasParams bool
	args      []Arg
	hasArgs   bool
	overrides []Arg
}

// CommandOption configures how a Command is built.
type CommandOption func(*commandConfig)

// Name overrides the name derived from the command's source.
func Name(name string) CommandOption {
	return func(c *commandConfig) { c.name = name }
}

// Namespace places the command under the given namespace.
func Namespace(ns string) CommandOption {
	return func(c *commandConfig) { c.namespace = ns }
}

// Doc sets the description of the command.
func Doc(doc string) CommandOption {
	return func(c *commandConfig) { c.doc = doc }
}

// Params declares the parameters of a command, in order. For functions,
// the n-th Param names the n-th parameter. For Runners, Params takes
// precedence over Parameterized.
func Params(params ...Param) CommandOption {
	return func(c *commandConfig) {
		c.params = params
		c.hasParams = true
	}
}

// Args sets the command's arguments explicitly, instead of deriving them
// from its parameters.
func Args(args ...Arg) CommandOption {
	return func(c *commandConfig) {
		c.args = args
		c.hasArgs = true
	}
}

// WithArg overrides the argument with the same name as a, once the
// command's arguments have been derived. An argument matching no parameter
// is appended.
func WithArg(a Arg) CommandOption {
	return func(c *commandConfig) { c.overrides = append(c.overrides, a) }
}

// New builds a Command from src, which may be:
//
//   - a Runner, named after its type;
//   - a func(Values) (any, error), or any other function, named after the
//     function;
//   - nil, in which case the Name option is mandatory.
//
// New panics if src is none of these, or if no name can be found for the
// command.
func New(src any, opts ...CommandOption) *Command {
	var cfg commandConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &Command{
		Name:        cfg.name,
		Namespace:   cfg.namespace,
		Description: cfg.doc,
	}

	var params []Param
	switch s := src.(type) {
	case nil:
	case RunFunc:
		c.runner = s
		params = cfg.params
		if c.Name == "" {
			c.Name = funcName(s)
		}
	case func(Values) (any, error):
		c.runner = RunFunc(s)
		params = cfg.params
		if c.Name == "" {
			c.Name = funcName(s)
		}
	case Runner:
		c.runner = s
		if p, ok := s.(Parameterized); ok {
			params = p.Params()
		}
		if cfg.hasParams {
			params = cfg.params
		}
		if c.Name == "" {
			c.Name = typeName(s)
		}
	default:
		fr := newFuncRunner(s, cfg.params)
		c.runner = fr
		params = fr.params
		if c.Name == "" {
			c.Name = funcName(s)
		}
	}

	if d, ok := src.(Describer); ok && c.Description == "" {
		c.Description = d.Description()
	}
	if c.Name == "" {
		panic("cannot create nameless command")
	}

	if cfg.hasArgs {
		for _, a := range cfg.args {
			c.AddArgument(a)
		}
	} else {
		for _, p := range params {
			c.AddArgument(p.Arg())
		}
	}
	for _, a := range cfg.overrides {
		c.AddArgument(a)
	}
	return c
}

// Path returns the name of c, qualified by its namespace if it has one.
func (c *Command) Path() string {
	if c.Namespace == "" {
		return c.Name
	}
	return c.Namespace + "." + c.Name
}

// Args returns a copy of the command's arguments, in declaration order.
func (c *Command) Args() []Arg {
	args := make([]Arg, len(c.args))
	copy(args, c.args)
	return args
}

// Arg returns the argument with the given name.
func (c *Command) Arg(name string) (Arg, bool) {
	for _, a := range c.args {
		if a.Name == name {
			return a, true
		}
	}
	return Arg{}, false
}

// AddArgument adds a to the command's arguments. If an argument with the
// same name exists, a replaces it in place.
func (c *Command) AddArgument(a Arg) {
	for i := range c.args {
		if c.args[i].Name == a.Name {
			c.args[i] = a
			return
		}
	}
	c.args = append(c.args, a)
}

// WithArg calls AddArgument and returns c, so that overrides can be chained
// onto a registered command.
func (c *Command) WithArg(a Arg) *Command {
	c.AddArgument(a)
	return c
}

// Run runs the command with the given values. Errors returned by the
// command are passed through untouched.
func (c *Command) Run(v Values) (any, error) {
	if c.runner == nil {
		return nil, ErrNoRunner
	}
	return c.runner.Run(v)
}

// Clone returns a copy of c that shares its runner, but not its arguments.
func (c *Command) Clone() *Command {
	cc := *c
	cc.args = c.Args()
	return &cc
}

// typeName derives a command name from the type of v: "MyCommand" becomes
// "my_command", and "ClassBased" becomes "class_based".
func typeName(v any) string {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return xstrings.ToSnakeCase(t.Name())
}

var closureName = regexp.MustCompile(`^func\d+$`)

// funcName derives a command name from the name of the function fn:
// "simpleCommand" becomes "simple_command". Anonymous functions have no
// name.
func funcName(fn any) string {
	f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if f == nil {
		return ""
	}
	name := f.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, "-fm")
	for _, part := range strings.Split(name, ".") {
		// Closures have no name of their own.
		if closureName.MatchString(part) {
			return ""
		}
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return xstrings.ToSnakeCase(name)
}
