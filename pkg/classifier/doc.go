// Package classifier implements the external classifier boundary of the
// verification engine.
//
// A Classifier turns a rendered policy+record prompt into a structured
// Verdict. The package provides a common HTTP base with connection pooling,
// retries and a typed error taxonomy; provider-specific adapters live in
// the anthropic and openai subpackages and register themselves with the
// factory on import.
//
// The engine treats classifiers strictly as black boxes: decisions they
// cannot express as a well-formed verdict fail closed with a ParseError.
package classifier
