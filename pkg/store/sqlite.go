package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"veredito-hq/veredito/pkg/process"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/decisions.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite storage backend.
// It initializes the database schema and enables WAL mode if configured.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "store.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStore{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite store initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

// initialize sets up the database schema and enables WAL mode.
func (s *SQLiteStore) initialize() error {
	if s.config.WALMode {
		_, err := s.db.Exec("PRAGMA journal_mode=WAL;")
		if err != nil {
			return NewStorageError("sqlite", "enable_wal", err)
		}
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	_, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs))
	if err != nil {
		return NewStorageError("sqlite", "set_busy_timeout", err)
	}

	_, err = s.db.Exec(Schema)
	if err != nil {
		return NewStorageError("sqlite", "create_schema", err)
	}

	_, err = s.db.Exec(InsertSchemaVersion, SchemaVersion)
	if err != nil {
		return NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err = s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return NewStorageError("sqlite", "get_schema_version", err)
	}

	if version != SchemaVersion {
		return NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// Save persists a decision, replacing any previous decision for the
// same process number.
func (s *SQLiteStore) Save(ctx context.Context, result *process.DecisionResult) error {
	citations, err := json.Marshal(result.Citations)
	if err != nil {
		return NewStorageError("sqlite", "marshal_citations", err)
	}

	var confidence interface{}
	if result.Confidence != nil {
		confidence = *result.Confidence
	}

	query := `
		INSERT INTO decisions (
			process_number, disposition, rationale, citations, confidence,
			elapsed_ms, provenance, decided_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(process_number) DO UPDATE SET
			disposition = excluded.disposition,
			rationale = excluded.rationale,
			citations = excluded.citations,
			confidence = excluded.confidence,
			elapsed_ms = excluded.elapsed_ms,
			provenance = excluded.provenance,
			decided_at = excluded.decided_at
	`

	_, err = s.db.ExecContext(ctx, query,
		result.ProcessNumber, string(result.Disposition), result.Rationale,
		string(citations), confidence,
		result.Elapsed.Milliseconds(), result.Provenance, result.DecidedAt,
	)
	if err != nil {
		return NewStorageError("sqlite", "save", err)
	}

	return nil
}

// FindByProcessNumber returns the stored decision for the process, or
// (nil, nil) when absent.
func (s *SQLiteStore) FindByProcessNumber(ctx context.Context, number string) (*process.DecisionResult, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT process_number, disposition, rationale, citations, confidence,
			elapsed_ms, provenance, decided_at
		 FROM decisions WHERE process_number = ?`, number)

	result, err := scanDecision(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, NewStorageError("sqlite", "find", err)
	}
	return result, nil
}

// List returns all stored decisions, most recent first.
func (s *SQLiteStore) List(ctx context.Context) ([]*process.DecisionResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT process_number, disposition, rationale, citations, confidence,
			elapsed_ms, provenance, decided_at
		 FROM decisions ORDER BY decided_at DESC`)
	if err != nil {
		return nil, NewStorageError("sqlite", "list", err)
	}
	defer rows.Close()

	results := []*process.DecisionResult{}
	for rows.Next() {
		result, err := scanDecision(rows)
		if err != nil {
			return nil, NewStorageError("sqlite", "scan", err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, NewStorageError("sqlite", "list", err)
	}

	return results, nil
}

// DeleteBefore removes decisions decided before the cutoff.
// Returns the number of decisions deleted.
func (s *SQLiteStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM decisions WHERE decided_at < ?", cutoff)
	if err != nil {
		return 0, NewStorageError("sqlite", "delete_before", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, NewStorageError("sqlite", "delete_before", err)
	}

	return count, nil
}

// Stats returns aggregate counts and rates over stored decisions.
func (s *SQLiteStore) Stats(ctx context.Context) (*AggregateStats, error) {
	stats := &AggregateStats{
		ByProvenance: make(map[string]int),
	}

	var meanElapsedMs sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN disposition = 'approved' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN disposition = 'rejected' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN disposition = 'incomplete' THEN 1 ELSE 0 END), 0),
			AVG(elapsed_ms)
		FROM decisions
	`).Scan(&stats.Total, &stats.Approved, &stats.Rejected, &stats.Incomplete, &meanElapsedMs)
	if err != nil {
		return nil, NewStorageError("sqlite", "stats", err)
	}

	if stats.Total > 0 {
		stats.ApprovalRate = float64(stats.Approved) / float64(stats.Total)
	}
	if meanElapsedMs.Valid {
		stats.MeanElapsed = time.Duration(meanElapsedMs.Float64 * float64(time.Millisecond))
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT provenance, COUNT(*) FROM decisions GROUP BY provenance")
	if err != nil {
		return nil, NewStorageError("sqlite", "stats", err)
	}
	defer rows.Close()

	for rows.Next() {
		var provenance string
		var count int
		if err := rows.Scan(&provenance, &count); err != nil {
			return nil, NewStorageError("sqlite", "scan", err)
		}
		stats.ByProvenance[provenance] = count
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("sqlite", "stats", err)
	}

	return stats, nil
}

// Close releases resources held by the storage backend.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return NewStorageError("sqlite", "close", err)
	}
	s.logger.Info("SQLite store closed")
	return nil
}

// scanner abstracts sql.Row and sql.Rows for scanDecision.
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanDecision scans a database row into a DecisionResult.
func scanDecision(row scanner) (*process.DecisionResult, error) {
	var result process.DecisionResult
	var disposition, citations string
	var confidence sql.NullFloat64
	var elapsedMs int64

	err := row.Scan(
		&result.ProcessNumber, &disposition, &result.Rationale,
		&citations, &confidence,
		&elapsedMs, &result.Provenance, &result.DecidedAt,
	)
	if err != nil {
		return nil, err
	}

	result.Disposition = process.Disposition(disposition)
	result.Elapsed = time.Duration(elapsedMs) * time.Millisecond
	if confidence.Valid {
		v := confidence.Float64
		result.Confidence = &v
	}
	if citations != "" {
		if err := json.Unmarshal([]byte(citations), &result.Citations); err != nil {
			return nil, err
		}
	}

	return &result, nil
}
