// Veredito is a decision engine for judicial process verification.
//
// It classifies judicial process records as approved, rejected or
// incomplete for acquisition, combining a deterministic policy rule
// engine with an external LLM classifier for non-conclusive cases.
//
// Usage:
//
//	# Start server with default configuration
//	veredito run
//
//	# Start with custom configuration file
//	veredito run --config /path/to/config.yaml
//
//	# Show version information
//	veredito version
//
//	# List the policy catalog
//	veredito policies
//
//	# Validate a configuration file
//	veredito validate --config /path/to/config.yaml
//
//	# Verify a record from a JSON file without starting the server
//	veredito verify --file record.json
package main

func main() {
	Execute()
}
