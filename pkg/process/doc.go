// Package process defines the domain entities of the verification engine:
// judicial process records, their documents and movements, and the decision
// results produced by verifying them.
//
// Records are treated as immutable inputs. The package carries no business
// logic beyond structural validation; the rules that turn a record into a
// decision live in pkg/verify.
package process
