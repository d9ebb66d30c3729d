package manage

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// ClassBased is a Runner declaring its own parameters.
type ClassBased struct{}

func (ClassBased) Params() []Param {
	return []Param{Required("name"), Optional("capitalyze", false)}
}

func (ClassBased) Run(v Values) (any, error) {
	if v.Bool("capitalyze") {
		return strings.ToUpper(v.String("name")), nil
	}
	return v.String("name"), nil
}

type MyCommand struct{}

func (MyCommand) Run(Values) (any, error) { return "hello", nil }

func (MyCommand) Description() string { return "say hello" }

func simpleCommand(name string, capitalyze bool) string {
	if capitalyze {
		return strings.ToUpper(name)
	}
	return name
}

var simpleParams = Params(Required("name"), Optional("capitalyze", false))

func assertNameCapitalyze(t *testing.T, args []Arg) {
	t.Helper()
	require.Len(t, args, 2)

	assert.Equal(t, "name", args[0].Name)
	assert.True(t, args[0].Required)
	assert.Nil(t, args[0].Default)

	assert.Equal(t, "capitalyze", args[1].Name)
	assert.False(t, args[1].Required)
	assert.Equal(t, false, args[1].Default)
	assert.True(t, args[1].IsFlag())
}

func TestNew_ClassBased(t *testing.T) {
	c := New(ClassBased{})

	assert.Equal(t, "class_based", c.Name)
	assertNameCapitalyze(t, c.Args())
}

func TestNew_FunctionBased(t *testing.T) {
	c := New(simpleCommand, simpleParams)

	assert.Equal(t, "simple_command", c.Name)
	assertNameCapitalyze(t, c.Args())
}

func TestNew_SourcesBehaveAlike(t *testing.T) {
	fromType := New(ClassBased{})
	fromFunc := New(simpleCommand, simpleParams)
	fromRunFunc := New(RunFunc(ClassBased{}.Run), simpleParams, Name("class_based"))

	assert.Equal(t, fromType.Args(), fromFunc.Args())
	assert.Equal(t, fromType.Args(), fromRunFunc.Args())

	for _, c := range []*Command{fromType, fromFunc, fromRunFunc} {
		res, err := c.Run(Values{"name": "bob", "capitalyze": true})
		require.NoError(t, err)
		assert.Equal(t, "BOB", res, c.Name)
	}
}

func TestNew_TypeName(t *testing.T) {
	c := New(&MyCommand{})

	assert.Equal(t, "my_command", c.Name)
	assert.Equal(t, "say hello", c.Description)
	assert.Empty(t, c.Args())
}

func TestNew_TrueDefaultIsNotAFlag(t *testing.T) {
	c := New(simpleCommand, Params(Required("name"), Optional("capitalyze", true)))

	a, ok := c.Arg("capitalyze")
	require.True(t, ok)
	assert.Nil(t, a.Type)
	assert.False(t, a.IsFlag())
}

func TestNew_UnnamedFunctionParams(t *testing.T) {
	c := New(func(a, b string) string { return a + b }, Name("concat"))

	args := c.Args()
	require.Len(t, args, 2)
	assert.Equal(t, "arg0", args[0].Name)
	assert.Equal(t, "arg1", args[1].Name)
	assert.True(t, args[1].Required)
}

func TestNew_ExplicitArgs(t *testing.T) {
	c := New(nil, Name("new_command"), Args(NewArg("b"), NewArg("a"), NewArg("b", Help("again"))))

	args := c.Args()
	require.Len(t, args, 2)
	assert.Equal(t, "b", args[0].Name)
	assert.Equal(t, "again", args[0].Help)
	assert.Equal(t, "a", args[1].Name)

	_, err := c.Run(nil)
	assert.Equal(t, ErrNoRunner, err)
}

func TestNew_Nameless(t *testing.T) {
	assert.Panics(t, func() { New(nil) })
}

func TestNew_AnonymousFunctionNeedsName(t *testing.T) {
	assert.PanicsWithValue(t, "cannot create nameless command", func() {
		New(func() string { return "first" })
	})
	assert.PanicsWithValue(t, "cannot create nameless command", func() {
		New(func(v Values) (any, error) { return nil, nil })
	})

	c := New(func() string { return "first" }, Name("first"))
	assert.Equal(t, "first", c.Path())
}

func TestNew_NotAFunction(t *testing.T) {
	assert.Panics(t, func() { New(42, Name("answer")) })
}

func TestCommand_Path(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ident := rapid.StringMatching(`[a-z][a-z0-9_]{0,15}`)
		name := ident.Draw(t, "name")
		ns := ident.Draw(t, "namespace")

		c := New(nil, Name(name))
		if c.Path() != name {
			t.Fatalf("path %q, want %q", c.Path(), name)
		}

		c = New(nil, Name(name), Namespace(ns))
		if want := ns + "." + name; c.Path() != want {
			t.Fatalf("path %q, want %q", c.Path(), want)
		}
	})
}

func TestCommand_AddArgumentReplaces(t *testing.T) {
	c := New(func(newArgument string) string { return newArgument },
		Name("echo"), Params(Required("new_argument")))
	require.Len(t, c.Args(), 1)

	c.AddArgument(NewArg("new_argument", Help("argument help")))

	args := c.Args()
	require.Len(t, args, 1)
	assert.Equal(t, "argument help", args[0].Help)
}

func TestCommand_AddArgumentKeepsCount(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(t, "n")
		args := make([]Arg, n)
		for i := range args {
			args[i] = NewArg(strings.Repeat("a", i+1))
		}
		c := New(nil, Name("cmd"), Args(args...))

		i := rapid.IntRange(0, n-1).Draw(t, "index")
		name := args[i].Name
		c.AddArgument(NewArg(name, Help("first")))
		c.AddArgument(NewArg(name, Help("second"), Default(1)))

		got := c.Args()
		if len(got) != n {
			t.Fatalf("got %d args, want %d", len(got), n)
		}
		if got[i].Name != name || got[i].Help != "second" || got[i].Default != 1 {
			t.Fatalf("arg %d is %+v", i, got[i])
		}
	})
}

func TestCommand_ArgsIsACopy(t *testing.T) {
	c := New(ClassBased{})

	args := c.Args()
	args[0].Help = "changed"

	assert.Empty(t, c.Args()[0].Help)
}

func TestCommand_Clone(t *testing.T) {
	c := New(ClassBased{})
	cc := c.Clone()
	cc.AddArgument(NewArg("name", Help("cloned")))
	cc.Namespace = "other"

	assert.Empty(t, c.Args()[0].Help)
	assert.Equal(t, "class_based", c.Path())
	assert.Equal(t, "other.class_based", cc.Path())
}

func TestCommand_RunPropagatesErrors(t *testing.T) {
	errBoom := errors.New("boom")

	fn := New(func() error { return errBoom }, Name("fails"))
	_, err := fn.Run(nil)
	assert.Equal(t, errBoom, err)

	rf := New(RunFunc(func(Values) (any, error) { return "partial", errBoom }), Name("fails"))
	res, err := rf.Run(nil)
	assert.Equal(t, errBoom, err)
	assert.Equal(t, "partial", res)
}

func TestCommand_RunCoercesValues(t *testing.T) {
	c := New(func(a, b int, scale float64) float64 { return float64(a+b) * scale },
		Name("add"),
		Params(Required("a"), Optional("b", 1), Optional("scale", 1.0)),
	)

	res, err := c.Run(Values{"a": "2"})
	require.NoError(t, err)
	assert.Equal(t, 3.0, res)

	_, err = c.Run(Values{"a": "two"})
	assert.Error(t, err)
}

func TestCommand_RunRejectsOverflow(t *testing.T) {
	c := New(func(n int8, u uint8, f float32) string { return "ok" },
		Name("narrow"),
		Params(Optional("n", 0), Optional("u", 0), Optional("f", 0)),
	)

	tests := []struct {
		name    string
		values  Values
		wantErr string
	}{
		{name: "Int8_InRange", values: Values{"n": "-128", "u": "255", "f": "1.5"}},
		{name: "Int8_Overflow", values: Values{"n": "300"}, wantErr: "300 overflows int8"},
		{name: "Int8_Underflow", values: Values{"n": -129}, wantErr: "-129 overflows int8"},
		{name: "Uint8_Overflow", values: Values{"u": "256"}, wantErr: "256 overflows uint8"},
		{name: "Float32_Overflow", values: Values{"f": "1e40"}, wantErr: "1e40 overflows float32"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := c.Run(tt.values)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "ok", res)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
