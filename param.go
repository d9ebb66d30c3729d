package manage

// Param declares one parameter of a command: its name and, optionally, a
// default value. Go does not keep parameter names at run time, so commands
// declare their parameters explicitly, either through the Params option or
// by implementing Parameterized.
type Param struct {
	Name       string
	Default    any
	HasDefault bool
}

// Required declares a parameter without a default.
func Required(name string) Param {
	return Param{Name: name}
}

// Optional declares a parameter with a default value.
func Optional(name string, def any) Param {
	return Param{Name: name, Default: def, HasDefault: true}
}

// Arg derives the argument that describes p.
//
// Only a default of exactly false marks the argument as a boolean flag; a
// default of true leaves the type unset.
func (p Param) Arg() Arg {
	if !p.HasDefault {
		return Arg{Name: p.Name, Required: true}
	}
	a := Arg{Name: p.Name, Default: p.Default}
	if p.Default == false {
		a.Type = boolType
	}
	return a
}
