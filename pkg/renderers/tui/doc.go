// Package tui fills live audit forms from the terminal. Prompts go through a
// PromptDriver; the default one is backed by survey.
package tui
