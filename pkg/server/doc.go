// Package server exposes the verification engine over HTTP.
//
// Routes:
//
//	POST   /verify            - decide a single record
//	POST   /verify/batch      - decide a batch of records
//	GET    /process           - list stored decisions
//	GET    /process/{number}  - fetch one stored decision
//	GET    /analytics         - aggregate decision statistics
//	GET    /monitoring/cache  - result cache contents
//	DELETE /monitoring/cache  - clear the result cache
//	GET    /health            - liveness probe
//	GET    /metrics           - Prometheus metrics
package server
