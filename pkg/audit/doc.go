// Package audit provides the pieces every concrete audit form composes:
// the View contract, all-or-nothing submission across sections, error
// reports, payload envelopes and small option helpers. Generic and custom
// forms call these free functions instead of inheriting shared behaviour.
package audit
