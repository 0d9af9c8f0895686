// Package customforms holds the hand-built audit forms that the registry
// substitutes for the generic renderer: the DEMIN plant log sheet and the
// manual water quality snapshot.
package customforms
