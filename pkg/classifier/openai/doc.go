// Package openai implements the classifier adapter for OpenAI's Chat
// Completions API.
package openai
