package templater

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/flosch/pongo2/v6"
	"gopkg.in/yaml.v3"

	"github.com/schematools/schemachange-templater/refs"
)

// Config file names probed by FindConfig, in order.
var configCandidates = []string{
	"schemachange-config.yml",
	"schemachange-config.yaml",
	filepath.Join(".schemachange", "config.yml"),
	filepath.Join(".schemachange", "config.yaml"),
}

// Config is the loaded schemachange configuration tree. It is immutable
// after LoadConfig returns; Merge layers overrides on top without touching
// it.
type Config struct {
	// Path is the file the config was loaded from.
	Path string

	// Vars is the template variable namespace from the config's "vars"
	// key. Nested maps are preserved as maps so template expressions like
	// a.b.c keep navigating them.
	Vars map[string]any

	// ModulesFolder is an additional directory searched for reusable
	// template fragments and macros ("modules-folder" / "modules_folder").
	ModulesFolder string

	// RootFolder anchors relative template lookups ("root-folder" /
	// "root_folder", default ".").
	RootFolder string

	// SearchPaths are further template directories from
	// "loader_search_path" (comma-separated string or list).
	SearchPaths []string

	// DbtBuiltins enables the dbt-style ref/source/var stand-ins
	// ("apply_dbt_builtins", off by default).
	DbtBuiltins bool

	secretValues []string
}

// SecretValues returns the values obtained through secret() references
// during load. Diagnostic output scrubs these by value, on top of the
// name-based Redact.
func (c *Config) SecretValues() []string {
	out := make([]string, len(c.secretValues))
	copy(out, c.secretValues)
	return out
}

// FindConfig probes dir for a schemachange config file and returns its
// path, or "" when none of the candidate names exists.
func FindConfig(dir string) string {
	for _, name := range configCandidates {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// LoadConfig reads, renders, and parses a schemachange config file.
//
// The raw file text is rendered as a template first, so inline expressions
// are evaluated eagerly at load time: env_var("NAME") and
// env_var("NAME", "default") read the process environment (a missing
// variable with no default fails with MissingEnvVarError; an explicit ""
// default succeeds and yields ""), and secret("scheme:ref") resolves a
// secret reference via the refs package, tracking the value for redaction.
// The rendered text is then parsed as YAML.
//
// Errors: ErrConfigNotFound when path does not exist, ParseError when the
// content is not valid YAML or uses broken template syntax,
// MissingEnvVarError as above. No retries; every failure here is a
// configuration defect a second attempt cannot fix.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := &Config{Path: path}
	rendered, err := cfg.renderConfigText(raw)
	if err != nil {
		return nil, err
	}

	doc, err := parseYAMLMap(rendered)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	if err := cfg.populate(doc); err != nil {
		return nil, err
	}
	return cfg, nil
}

// renderConfigText runs the eager template pass over the raw config bytes.
// Typed errors raised by the expression functions take precedence over the
// engine's own wrapping, so callers see MissingEnvVarError and refs errors
// directly.
func (c *Config) renderConfigText(raw []byte) (string, error) {
	// The engine wraps function errors in its own error type; exprErr keeps
	// the first typed failure so it survives intact.
	var exprErr error
	keep := func(err error) error {
		if err != nil && exprErr == nil {
			exprErr = err
		}
		return err
	}

	loader, err := pongo2.NewLocalFileSystemLoader(filepath.Dir(c.Path))
	if err != nil {
		return "", fmt.Errorf("config %s: %w", c.Path, err)
	}
	set := pongo2.NewSet("schemachange-config", loader)
	set.Globals["env_var"] = func(name string, fallback ...string) (string, error) {
		v, lookupErr := LookupEnv(name, fallback...)
		return v, keep(lookupErr)
	}
	set.Globals["secret"] = func(ref string) (string, error) {
		v, resolveErr := refs.Resolve(ref)
		if resolveErr != nil {
			return "", keep(resolveErr)
		}
		c.secretValues = append(c.secretValues, v)
		return v, nil
	}

	tpl, err := set.FromBytes(raw)
	if err != nil {
		return "", &ParseError{Path: c.Path, Err: err}
	}
	out, err := tpl.Execute(pongo2.Context{})
	if err != nil {
		if exprErr != nil {
			return "", fmt.Errorf("config %s: %w", c.Path, exprErr)
		}
		return "", &ParseError{Path: c.Path, Err: err}
	}
	return out, nil
}

func (c *Config) populate(doc map[string]any) error {
	vars, err := mapKey(doc, "vars")
	if err != nil {
		return &ParseError{Path: c.Path, Err: err}
	}
	c.Vars = vars

	c.ModulesFolder = stringKey(doc, "modules-folder", "modules_folder")
	c.RootFolder = stringKey(doc, "root-folder", "root_folder")
	if c.RootFolder == "" {
		c.RootFolder = "."
	}

	paths, err := pathList(doc["loader_search_path"])
	if err != nil {
		return &ParseError{Path: c.Path, Err: err}
	}
	c.SearchPaths = paths

	if flag, ok := doc["apply_dbt_builtins"].(bool); ok {
		c.DbtBuiltins = flag
	}
	return nil
}

// parseYAMLMap decodes rendered config text into a string-keyed tree. An
// empty document yields an empty map, matching a config file with no keys.
func parseYAMLMap(text string) (map[string]any, error) {
	var doc map[string]any
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

func mapKey(doc map[string]any, key string) (map[string]any, error) {
	raw, ok := doc[key]
	if !ok || raw == nil {
		return map[string]any{}, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("key %q must be a mapping, got %T", key, raw)
	}
	return m, nil
}

func stringKey(doc map[string]any, names ...string) string {
	for _, name := range names {
		if s, ok := doc[name].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// pathList accepts the two shapes loader_search_path comes in: a single
// comma-separated string, or a YAML list of strings.
func pathList(raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		var out []string
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("loader_search_path entries must be strings, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("loader_search_path must be a string or list, got %T", raw)
	}
}
