// Package policy holds the static catalog of business policies that govern
// judicial credit acquisition.
//
// The catalog carries no evaluation logic. It is consumed by the rule
// evaluator in pkg/verify and rendered as context for the external
// classifier in pkg/classifier.
package policy
