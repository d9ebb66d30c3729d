package manage

import (
	"fmt"
	"reflect"
	"time"

	"github.com/spf13/pflag"
)

// Keys and values that may appear in an Options mapping.
const (
	OptionDefault = "default"
	OptionType    = "type"
	OptionHelp    = "help"
	OptionAction  = "action"

	// ActionStoreTrue marks a presence flag: the argument is true when
	// the flag is given, and false otherwise.
	ActionStoreTrue = "store_true"
)

var boolType = reflect.TypeOf(false)

// Options are the binding options of an Arg, as handed to an argument
// parser.
type Options map[string]any

// Arg describes a single argument of a Command.
//
// The zero value of Default, Type, and Help means "unset"; a Default of
// false or 0 is a set default.
type Arg struct {
	// The name of the argument.
	Name string

	// Required arguments are bound positionally.
	Required bool

	// The value used when the argument is not given.
	Default any

	// The declared type of the argument. It only affects binding.
	Type reflect.Type

	// A brief description of the argument.
	Help string
}

// ArgOption configures an Arg built with NewArg.
type ArgOption func(*Arg)

// Help sets the help text of an Arg.
func Help(help string) ArgOption {
	return func(a *Arg) { a.Help = help }
}

// Default sets the default value of an Arg.
func Default(v any) ArgOption {
	return func(a *Arg) { a.Default = v }
}

// Type sets the declared type of an Arg to the type of v.
func Type(v any) ArgOption {
	return func(a *Arg) { a.Type = reflect.TypeOf(v) }
}

// IsRequired marks an Arg as required.
func IsRequired() ArgOption {
	return func(a *Arg) { a.Required = true }
}

// NewArg returns an Arg with the given name and options applied.
func NewArg(name string, opts ...ArgOption) Arg {
	a := Arg{Name: name}
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

// IsFlag reports whether a is a presence flag, that is a boolean argument
// defaulting to false.
func (a Arg) IsFlag() bool {
	return a.Type == boolType && a.Default == false
}

// Options derives the binding options of a. They are computed on each call,
// so changes to a are reflected in the next result.
//
// The result never holds a "required" entry: required arguments are bound
// by position.
func (a Arg) Options() Options {
	opts := Options{}
	if a.Default != nil {
		opts[OptionDefault] = a.Default
	}
	if a.Type != nil {
		opts[OptionType] = a.Type
	}
	if a.Help != "" {
		opts[OptionHelp] = a.Help
	}
	if a.IsFlag() {
		delete(opts, OptionType)
		opts[OptionAction] = ActionStoreTrue
	}
	return opts
}

// Bind defines a flag for a on fs, and returns a function that yields the
// flag's value once fs has been parsed.
//
// The flag's type follows the argument's binding options: presence flags
// become bool flags, and other arguments take the type of their default.
// Arguments with no default, or a default of an unsupported type, are bound
// as string flags.
func (a Arg) Bind(fs *pflag.FlagSet) func() any {
	opts := a.Options()
	help, _ := opts[OptionHelp].(string)

	if opts[OptionAction] == ActionStoreTrue {
		p := fs.Bool(a.Name, false, help)
		return func() any { return *p }
	}

	switch def := opts[OptionDefault].(type) {
	case string:
		p := fs.String(a.Name, def, help)
		return func() any { return *p }
	case bool:
		p := fs.Bool(a.Name, def, help)
		return func() any { return *p }
	case int:
		p := fs.Int(a.Name, def, help)
		return func() any { return *p }
	case int64:
		p := fs.Int64(a.Name, def, help)
		return func() any { return *p }
	case float64:
		p := fs.Float64(a.Name, def, help)
		return func() any { return *p }
	case time.Duration:
		p := fs.Duration(a.Name, def, help)
		return func() any { return *p }
	case []string:
		p := fs.StringSlice(a.Name, def, help)
		return func() any { return *p }
	case nil:
		p := fs.String(a.Name, "", help)
		return func() any {
			if !fs.Changed(a.Name) {
				return nil
			}
			return *p
		}
	default:
		p := fs.String(a.Name, fmt.Sprint(def), help)
		return func() any {
			if !fs.Changed(a.Name) {
				return def
			}
			return *p
		}
	}
}
