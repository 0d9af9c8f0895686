// Package testsupport loads audit form fixtures and JSON goldens for tests.
// Run with UPDATE_GOLDENS=1 to rewrite goldens from the current output.
package testsupport
