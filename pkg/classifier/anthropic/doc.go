// Package anthropic implements the classifier adapter for Anthropic's
// Messages API.
package anthropic
