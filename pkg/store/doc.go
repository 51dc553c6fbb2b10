// Package store persists verification decisions.
//
// Two backends implement the Store interface: an in-memory map for
// development and tests, and a SQLite database for durable deployments.
// A cron-driven RetentionScheduler prunes decisions older than the
// configured retention window.
package store
