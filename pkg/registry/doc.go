// Package registry resolves audit ids to hand-built custom forms that replace
// the generic description-driven renderer.
package registry
