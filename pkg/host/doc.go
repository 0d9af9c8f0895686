// Package host opens audit forms by id, preferring a registered custom form
// and falling back to the generic renderer over a fetched description.
package host
