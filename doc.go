// Package templater renders Jinja-templated SQL migration scripts the way
// the schemachange database change management tool would, so that linters
// and review tooling can work against fully rendered SQL instead of raw
// template syntax.
//
// The package is a plain function-call library with no plugin registry:
// load a schemachange-config.yml into a Config, merge its vars with
// invocation-time overrides (overrides win), and hand the result to a
// Templater that renders script files with the modules/macros search paths
// the config names.
//
// Variables whose name contains "secret" (case-insensitive substring, so
// "secretary_id" is classified as secret too) or that are nested under a
// key literally named "secrets" are masked by Redact before any diagnostic
// output. The unredacted mapping only ever reaches the rendering engine.
package templater
