// Package rules holds the reactive cross-field rules: date to weekday
// derivation, conditional required-ness of follow-up operator signatures, and
// non-blocking out-of-range warnings. Rules run synchronously inside the
// triggering SetValue and write back silently.
package rules
