// Package form defines the declarative audit form schema: sections, field
// templates, validator declarations and layout modes. Values here are pure
// data; expansion lives in pkg/layout and live state in pkg/instance.
//
// Documents are JSON by default (assets/audits/<id>.json) and may also be
// written in YAML. Validate checks what instantiation relies on
// (unique section keys, unique field names per expansion) while Lint surfaces
// declarations the runtime tolerates but silently ignores.
package form
