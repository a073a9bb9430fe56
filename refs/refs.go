// Package refs resolves scheme-prefixed secret references that appear in
// schemachange config files through the secret() expression. A reference
// names its source explicitly:
//
//	env:SNOWFLAKE_PASSWORD
//	file:/run/secrets/app.env//DB_PASSWORD
//	yaml:/etc/creds.yml//snowflake.private_key
//	json:/etc/creds.json//tokens.0
//	toml:/etc/creds.toml//database.password
//	ini:/etc/creds.ini//snowflake.password
//
// Structured formats take a dotted key path after "//" (see valuepath);
// without one the whole file content is returned. Resolution is eager and
// single-shot: a reference that cannot be resolved fails the config load.
package refs

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	// ErrNotFound reports a missing file, key, section, or variable.
	ErrNotFound = errors.New("refs: not found")
	// ErrBadRef reports a reference that is malformed or names no known scheme.
	ErrBadRef = errors.New("refs: bad reference")
	// ErrForbidden reports a source the process may not read.
	ErrForbidden = errors.New("refs: forbidden")
)

// Resolver resolves the remainder of a reference after its scheme prefix
// has been cut.
type Resolver interface {
	Resolve(ref string) (string, error)
}

// Registry maps scheme prefixes to resolvers. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	schemes map[string]Resolver
}

// NewRegistry returns a registry with all built-in schemes registered.
func NewRegistry() *Registry {
	r := &Registry{schemes: make(map[string]Resolver)}
	r.Register("env:", EnvResolver{})
	r.Register("file:", KeyValueFileResolver{})
	r.Register("ini:", INIResolver{})
	for _, f := range formats {
		r.Register(f.scheme, StructuredFileResolver{format: f})
	}
	return r
}

// Register adds or replaces the resolver for a scheme. The scheme must end
// with a colon, e.g. "vault:". New schemes keep registration order.
func (r *Registry) Register(scheme string, res Resolver) {
	if scheme == "" || !strings.HasSuffix(scheme, ":") {
		panic(fmt.Sprintf("refs: scheme %q must end with a colon", scheme))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.schemes[scheme]; !exists {
		r.order = append(r.order, scheme)
	}
	r.schemes[scheme] = res
}

// Schemes returns the registered scheme prefixes in registration order.
func (r *Registry) Schemes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Resolve resolves a full reference. Unlike a plain config value, a secret
// reference must name a scheme: an unrecognized prefix is an error rather
// than a pass-through, so a typo like "emv:TOKEN" cannot silently become a
// literal secret value.
func (r *Registry) Resolve(ref string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, scheme := range r.order {
		if rest, ok := strings.CutPrefix(ref, scheme); ok {
			return r.schemes[scheme].Resolve(rest)
		}
	}
	return "", fmt.Errorf("%w: no known scheme in %q (known: %s)",
		ErrBadRef, ref, strings.Join(r.order, " "))
}

var defaultRegistry = NewRegistry()

// Default returns the package-level registry used by Resolve.
func Default() *Registry { return defaultRegistry }

// Resolve resolves a reference against the default registry.
func Resolve(ref string) (string, error) { return defaultRegistry.Resolve(ref) }

// splitSourceAndKey cuts a "path//key.path" reference at its last "//".
// The key part is empty when no "//" is present.
func splitSourceAndKey(ref string) (source, keyPath string) {
	if idx := strings.LastIndex(ref, "//"); idx >= 0 {
		return ref[:idx], ref[idx+2:]
	}
	return ref, ""
}
