package manage

import (
	"time"

	"github.com/spf13/cast"
)

// Values holds the arguments a command is run with, keyed by argument name.
type Values map[string]any

// String returns the named value as a string.
func (v Values) String(name string) string {
	return cast.ToString(v[name])
}

// Bool returns the named value as a bool. Missing values are false.
func (v Values) Bool(name string) bool {
	return cast.ToBool(v[name])
}

// Int returns the named value as an int.
func (v Values) Int(name string) int {
	return cast.ToInt(v[name])
}

// Duration returns the named value as a time.Duration.
func (v Values) Duration(name string) time.Duration {
	return cast.ToDuration(v[name])
}

// Strings returns the named value as a string slice.
func (v Values) Strings(name string) []string {
	return cast.ToStringSlice(v[name])
}
