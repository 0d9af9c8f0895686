// Package validators turns declared field rules into executable checks and
// resolves the one message a field shows when it is invalid.
package validators
