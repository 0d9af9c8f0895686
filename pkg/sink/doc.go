// Package sink provides destinations for validated audit submissions: a
// structured log, a JSON lines writer and an HTTP endpoint.
package sink
