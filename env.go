package templater

import "os"

// LookupEnv returns the value of the named environment variable, falling
// back to the supplied default when the variable is unset.
//
// An explicitly supplied empty string is a valid default: env_var('X', '')
// yields "" when X is unset, it does not fail. Only a call with no default
// at all produces a MissingEnvVarError.
func LookupEnv(name string, fallback ...string) (string, error) {
	if v, ok := os.LookupEnv(name); ok {
		return v, nil
	}
	if len(fallback) > 0 {
		return fallback[0], nil
	}
	return "", &MissingEnvVarError{Name: name}
}
