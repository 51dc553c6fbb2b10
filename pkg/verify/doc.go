// Package verify implements the decision engine for judicial process
// verification.
//
// The Evaluator runs the deterministic policy checks. The Verifier
// orchestrates a single verification: rule evaluation first, then, for
// non-conclusive records, a cached or fresh classifier verdict. The
// BatchCoordinator applies the same pipeline to batches with
// partial-failure semantics.
package verify
