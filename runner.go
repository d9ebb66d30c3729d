package manage

import (
	"fmt"
	"reflect"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// Runner is implemented by anything that can be run as a command.
type Runner interface {
	Run(Values) (any, error)
}

// Parameterized is implemented by Runners that declare their parameters.
type Parameterized interface {
	Params() []Param
}

// Describer is implemented by command sources that describe themselves.
type Describer interface {
	Description() string
}

// RunFunc adapts an ordinary function to the Runner interface.
type RunFunc func(Values) (any, error)

// Run calls f(v).
func (f RunFunc) Run(v Values) (any, error) {
	return f(v)
}

var (
	errorType    = reflect.TypeOf((*error)(nil)).Elem()
	durationType = reflect.TypeOf(time.Duration(0))
	stringType   = reflect.TypeOf("")
)

// funcRunner runs an arbitrary Go function, passing it Values in the order
// of its declared parameters.
type funcRunner struct {
	fn     reflect.Value
	params []Param
}

// newFuncRunner wraps fn, which must be a function returning nothing, a
// single value, an error, or a value and an error.
//
// Parameters of fn that have no matching Param are named arg0, arg1, and so
// on, and are required.
func newFuncRunner(fn any, params []Param) *funcRunner {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		panic(fmt.Sprintf("manage: cannot use %T as a command", fn))
	}
	t := v.Type()
	if len(params) > t.NumIn() {
		panic(fmt.Sprintf("manage: %d params declared for a function taking %d", len(params), t.NumIn()))
	}
	switch t.NumOut() {
	case 0, 1:
	case 2:
		if t.Out(1) != errorType {
			panic(fmt.Sprintf("manage: second result of %s must be an error", t))
		}
	default:
		panic(fmt.Sprintf("manage: too many results in %s", t))
	}

	ps := make([]Param, t.NumIn())
	copy(ps, params)
	for i := len(params); i < len(ps); i++ {
		ps[i] = Required(fmt.Sprintf("arg%d", i))
	}
	return &funcRunner{fn: v, params: ps}
}

func (f *funcRunner) Run(v Values) (any, error) {
	t := f.fn.Type()
	in := make([]reflect.Value, t.NumIn())
	for i, p := range f.params {
		raw, ok := v[p.Name]
		if !ok && p.HasDefault {
			raw = p.Default
		}
		arg, err := coerce(raw, t.In(i))
		if err != nil {
			return nil, errors.Wrapf(err, "argument %q", p.Name)
		}
		in[i] = arg
	}

	var out []reflect.Value
	if t.IsVariadic() {
		out = f.fn.CallSlice(in)
	} else {
		out = f.fn.Call(in)
	}

	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if t.Out(0) == errorType {
			err, _ := out[0].Interface().(error)
			return nil, err
		}
		return out[0].Interface(), nil
	default:
		err, _ := out[1].Interface().(error)
		return out[0].Interface(), err
	}
}

// coerce converts raw to a value of type t, using cast for values that are
// not directly assignable.
func coerce(raw any, t reflect.Type) (reflect.Value, error) {
	if raw == nil {
		return reflect.Zero(t), nil
	}
	rv := reflect.ValueOf(raw)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}

	var (
		out any
		err error
	)
	switch {
	case t == durationType:
		out, err = cast.ToDurationE(raw)
	case t.Kind() == reflect.String:
		out, err = cast.ToStringE(raw)
	case t.Kind() == reflect.Bool:
		out, err = cast.ToBoolE(raw)
	case t.Kind() >= reflect.Int && t.Kind() <= reflect.Int64:
		out, err = cast.ToInt64E(raw)
	case t.Kind() >= reflect.Uint && t.Kind() <= reflect.Uint64:
		out, err = cast.ToUint64E(raw)
	case t.Kind() == reflect.Float32 || t.Kind() == reflect.Float64:
		out, err = cast.ToFloat64E(raw)
	case t.Kind() == reflect.Slice && t.Elem() == stringType:
		out, err = cast.ToStringSliceE(raw)
	default:
		return reflect.Value{}, errors.Errorf("cannot use %T as %s", raw, t)
	}
	if err != nil {
		return reflect.Value{}, err
	}

	zero := reflect.Zero(t)
	switch n := out.(type) {
	case int64:
		if zero.OverflowInt(n) {
			return reflect.Value{}, errors.Errorf("%v overflows %s", raw, t)
		}
	case uint64:
		if zero.OverflowUint(n) {
			return reflect.Value{}, errors.Errorf("%v overflows %s", raw, t)
		}
	case float64:
		if zero.OverflowFloat(n) {
			return reflect.Value{}, errors.Errorf("%v overflows %s", raw, t)
		}
	}
	return reflect.ValueOf(out).Convert(t), nil
}
