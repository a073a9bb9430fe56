package templater

import (
	"errors"
	"fmt"
	"os"

	"github.com/flosch/pongo2/v6"
	"go.uber.org/zap"
)

// Option configures a Templater.
type Option func(*Templater)

// WithOverrides supplies invocation-time variable overrides. An override
// replaces a same-named top-level config var wholesale; it never merges
// into a nested map.
func WithOverrides(overrides map[string]any) Option {
	return func(t *Templater) { t.overrides = overrides }
}

// WithLogger sets the logger used for the redacted variable dump emitted
// before each render. Defaults to a nop logger.
func WithLogger(logger *zap.Logger) Option {
	return func(t *Templater) { t.logger = logger }
}

// Templater renders SQL migration scripts with a template environment built
// the way schemachange builds one: search paths from the config
// (modules folder first, then root folder, then extras), resolved variables
// as globals, and the env_var lookup function available inside templates.
//
// A Templater is a single-shot transform: construct one per render request
// from a freshly loaded Config. It holds no state a second request could
// observe.
type Templater struct {
	cfg       *Config
	overrides map[string]any
	logger    *zap.Logger
	set       *pongo2.TemplateSet
	resolved  map[string]any
}

// New builds a Templater from a loaded config. Variable resolution happens
// here, once: overrides win over config vars, and the result is what every
// Render call on this Templater sees.
func New(cfg *Config, opts ...Option) (*Templater, error) {
	t := &Templater{cfg: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(t)
	}
	t.resolved = Merge(cfg.Vars, t.overrides)

	set, err := newTemplateSet(cfg, t.resolved)
	if err != nil {
		return nil, err
	}
	t.set = set
	return t, nil
}

// ResolvedVars returns a copy of the merged variable mapping, the one the
// rendering engine sees. Raw secret values included; never log this, log
// RedactedVars.
func (t *Templater) ResolvedVars() map[string]any {
	return Merge(t.resolved, nil)
}

// RedactedVars returns the merged mapping with secret-classified values
// masked by name (Redact) and secret()-resolved values masked wherever
// they appear. This is the only form of the mapping that may reach logs or
// reports.
func (t *Templater) RedactedVars() map[string]any {
	return scrubValues(Redact(t.resolved), t.cfg.SecretValues())
}

// RenderFile reads a migration script and renders it.
func (t *Templater) RenderFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read script %s: %w", path, err)
	}
	return t.RenderString(path, string(data))
}

// RenderString renders SQL template source. name is used for diagnostics
// only. Engine failures come back as *RenderError carrying the position the
// engine reported; they are passed through, never masked.
func (t *Templater) RenderString(name, src string) (string, error) {
	t.logger.Debug("rendering with resolved variables",
		zap.String("script", name),
		zap.Any("vars", t.RedactedVars()),
	)

	tpl, err := t.set.FromBytes([]byte(src))
	if err != nil {
		return "", wrapRenderError(name, err)
	}
	out, err := tpl.Execute(pongo2.Context{})
	if err != nil {
		return "", wrapRenderError(name, err)
	}
	return out, nil
}

// newTemplateSet builds the engine environment: one filesystem loader per
// search path (tried in order, so a modules-folder fragment shadows a
// root-folder one of the same name), resolved vars and env_var as globals.
func newTemplateSet(cfg *Config, vars map[string]any) (*pongo2.TemplateSet, error) {
	var loaders []pongo2.TemplateLoader
	for _, dir := range searchPath(cfg) {
		loader, err := pongo2.NewLocalFileSystemLoader(dir)
		if err != nil {
			return nil, fmt.Errorf("template search path %s: %w", dir, err)
		}
		loaders = append(loaders, loader)
	}

	set := pongo2.NewSet("schemachange", loaders...)
	for k, v := range vars {
		set.Globals[k] = v
	}
	set.Globals["env_var"] = func(name string, fallback ...string) (string, error) {
		return LookupEnv(name, fallback...)
	}
	if cfg.DbtBuiltins {
		for k, v := range dbtBuiltins(vars) {
			set.Globals[k] = v
		}
	}
	return set, nil
}

// searchPath returns the template lookup directories in priority order:
// modules folder, root folder, then loader_search_path extras.
func searchPath(cfg *Config) []string {
	var dirs []string
	if cfg.ModulesFolder != "" {
		dirs = append(dirs, cfg.ModulesFolder)
	}
	root := cfg.RootFolder
	if root == "" {
		root = "."
	}
	dirs = append(dirs, root)
	return append(dirs, cfg.SearchPaths...)
}

// dbtBuiltins returns inert stand-ins for the dbt functions migration
// scripts sometimes carry over, so such scripts render instead of failing.
// Opt-in via apply_dbt_builtins.
func dbtBuiltins(vars map[string]any) pongo2.Context {
	return pongo2.Context{
		"ref": func(model string) string { return model },
		"source": func(source, table string) string {
			return source + "." + table
		},
		"var": func(name string, fallback ...*pongo2.Value) *pongo2.Value {
			if v, ok := vars[name]; ok {
				return pongo2.AsValue(v)
			}
			if len(fallback) > 0 {
				return fallback[0]
			}
			return pongo2.AsValue(nil)
		},
		"config":         func(args ...*pongo2.Value) string { return "" },
		"is_incremental": func() bool { return false },
	}
}

func wrapRenderError(name string, err error) *RenderError {
	var perr *pongo2.Error
	if errors.As(err, &perr) {
		return &RenderError{Filename: name, Line: perr.Line, Column: perr.Column, Err: err}
	}
	return &RenderError{Filename: name, Err: err}
}
