// Package logging configures structured logging for Veredito on top of
// log/slog, with level and format driven by configuration.
package logging
