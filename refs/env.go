package refs

import (
	"fmt"
	"os"
)

// EnvResolver resolves "env:NAME" references. Unlike the config file's
// env_var() expression there is no default form here: a secret reference
// to an unset variable always fails.
type EnvResolver struct{}

func (EnvResolver) Resolve(name string) (string, error) {
	val, ok := os.LookupEnv(name)
	if !ok {
		return "", fmt.Errorf("%w: environment variable %q", ErrNotFound, name)
	}
	return val, nil
}
