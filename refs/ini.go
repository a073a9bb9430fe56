package refs

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/ini.v1"
)

// INIResolver resolves "ini:/path//Section.Key" references. A key without a
// section ("ini:/path//Key") reads the default section. Dots after the
// first one belong to the key name.
type INIResolver struct{}

func (INIResolver) Resolve(ref string) (string, error) {
	path, keyPath := splitSourceAndKey(ref)
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("%w: empty file path in %q", ErrBadRef, ref)
	}
	if keyPath == "" {
		return "", fmt.Errorf("%w: ini reference %q needs //Section.Key", ErrBadRef, ref)
	}

	cfg, err := ini.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		if errors.Is(err, fs.ErrPermission) {
			return "", fmt.Errorf("%w: %s", ErrForbidden, path)
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	section := ini.DefaultSection
	key := keyPath
	if rawSection, rawKey, found := strings.Cut(keyPath, "."); found {
		section, key = rawSection, rawKey
	}
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("%w: empty key in %q", ErrBadRef, keyPath)
	}

	sec, err := cfg.GetSection(section)
	if err != nil {
		return "", fmt.Errorf("%w: section %q in %s", ErrNotFound, section, path)
	}
	k, err := sec.GetKey(key)
	if err != nil {
		return "", fmt.Errorf("%w: key %q in section %q of %s", ErrNotFound, key, section, path)
	}
	return k.String(), nil
}
