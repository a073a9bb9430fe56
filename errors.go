package templater

import (
	"errors"
	"fmt"
)

// ErrConfigNotFound reports a missing config file. It is wrapped with the
// offending path so callers can match it with errors.Is.
var ErrConfigNotFound = errors.New("templater: config file not found")

// MissingEnvVarError reports an env_var() expression that named an unset
// environment variable without supplying a default.
type MissingEnvVarError struct {
	Name string
}

func (e *MissingEnvVarError) Error() string {
	return fmt.Sprintf("environment variable %q not set and no default provided", e.Name)
}

// ParseError reports a config file whose rendered content is not valid YAML.
// The wrapped yaml error carries the offending line when the parser knows it.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse config %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// RenderError reports a failure from the template engine, passed through
// with the position the engine supplied. Line and Column are zero when the
// engine gave none.
type RenderError struct {
	Filename string
	Line     int
	Column   int
	Err      error
}

func (e *RenderError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("render %s:%d:%d: %v", e.Filename, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("render %s: %v", e.Filename, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
