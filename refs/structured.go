package refs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/schematools/schemachange-templater/valuepath"
)

// format bundles the codec for one structured file scheme. The three
// structured schemes differ only in how bytes become a tree and back.
type format struct {
	scheme string
	decode func([]byte, any) error
	encode func(any) ([]byte, error)
}

var formats = []format{
	{scheme: "json:", decode: json.Unmarshal, encode: json.Marshal},
	{scheme: "yaml:", decode: yaml.Unmarshal, encode: yaml.Marshal},
	{scheme: "toml:", decode: toml.Unmarshal, encode: toml.Marshal},
}

// StructuredFileResolver resolves "scheme:/path/file//key.path" references
// against a JSON, YAML, or TOML document. Without a key path the trimmed
// file content is returned verbatim.
type StructuredFileResolver struct {
	format format
}

func (r StructuredFileResolver) Resolve(ref string) (string, error) {
	path, keyPath := splitSourceAndKey(ref)
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("%w: empty file path in %q", ErrBadRef, ref)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", readErr(path, err)
	}
	if keyPath == "" {
		return strings.TrimSpace(string(data)), nil
	}

	var doc map[string]any
	if err := r.format.decode(data, &doc); err != nil {
		return "", fmt.Errorf("parse %s: %w", path, err)
	}

	val, err := valuepath.Walk(doc, valuepath.Split(keyPath))
	if err != nil {
		return "", fmt.Errorf("%w: key path %q in %s: %v", ErrNotFound, keyPath, path, err)
	}
	return r.render(val)
}

// render returns strings as-is, prints other scalars, and re-encodes maps
// and lists in the reference's own format, trimmed.
func (r StructuredFileResolver) render(val any) (string, error) {
	switch v := val.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool, int, int64, uint64, float32, float64:
		return fmt.Sprint(v), nil
	}
	data, err := r.format.encode(val)
	if err != nil {
		return "", fmt.Errorf("encode value: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// readErr maps file-system failures onto the package sentinels.
func readErr(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: %s", ErrForbidden, path)
	}
	return fmt.Errorf("read %s: %w", path, err)
}
