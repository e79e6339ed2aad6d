// This file implements a PostgreSQL-backed audit logger. Entries are buffered
// in memory and written in batches to keep audit writes off the request path.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"minflow/pkg/database"
	"minflow/pkg/logger"
)

// auditColumns lists the columns of the audit_log table in insert/select order.
const auditColumns = "id, ts, service, method, action, outcome, user_id, username, client_ip, user_agent, resource, resource_id, request_id, duration_ms, error_code, error_message, metadata, changes"

// auditColumnCount is the number of columns in auditColumns.
const auditColumnCount = 18

// DBLoggerConfig holds configuration for the database audit logger.
type DBLoggerConfig struct {
	Timeout      time.Duration // Timeout for a single batch insert.
	BufferSize   int           // Size of the internal entry buffer.
	BatchSize    int           // Number of entries to accumulate before inserting.
	FlushPeriod  time.Duration // Period to flush an incomplete batch.
	MaxRetries   int           // Number of retries for a failed batch insert.
	RetryBackoff time.Duration // Base backoff between retries (multiplied by attempt).
}

// DefaultDBLoggerConfig returns a DBLoggerConfig with default values.
func DefaultDBLoggerConfig() *DBLoggerConfig {
	return &DBLoggerConfig{
		Timeout:      5 * time.Second,
		BufferSize:   10000,
		BatchSize:    100,
		FlushPeriod:  5 * time.Second,
		MaxRetries:   3,
		RetryBackoff: time.Second,
	}
}

// DBLogger implements the Logger interface by persisting audit entries
// to PostgreSQL. Unlike the file and stdout backends it supports Query.
// Entries are accepted into a buffered channel and inserted in batches
// by a background goroutine.
type DBLogger struct {
	db     database.DB
	config *DBLoggerConfig
	buffer chan *Entry   // Buffered channel for asynchronous entry logging.
	done   chan struct{} // Channel to signal shutdown of the processLoop.
	wg     sync.WaitGroup
}

// NewDBLogger creates a DBLogger on top of an existing database connection
// and starts its background batching goroutine. The logger does not own the
// connection; closing the logger does not close the database.
func NewDBLogger(db database.DB, cfg *DBLoggerConfig) *DBLogger {
	if cfg == nil {
		cfg = DefaultDBLoggerConfig()
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 10000
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushPeriod <= 0 {
		cfg.FlushPeriod = 5 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	l := &DBLogger{
		db:     db,
		config: cfg,
		buffer: make(chan *Entry, cfg.BufferSize),
		done:   make(chan struct{}),
	}

	l.wg.Add(1)
	go l.processLoop()

	return l
}

// Log sends an audit entry to the internal buffer for asynchronous insertion.
// If the buffer is full, the entry is inserted directly (synchronously).
func (l *DBLogger) Log(ctx context.Context, entry *Entry) error {
	select {
	case l.buffer <- entry:
		return nil
	default:
		// Buffer is full, insert directly (synchronously)
		return l.insertBatch(ctx, []*Entry{entry})
	}
}

// Query retrieves audit entries matching the filter, newest first.
func (l *DBLogger) Query(ctx context.Context, filter *QueryFilter) ([]*Entry, error) {
	query, args := buildSelectQuery(filter)

	rows, err := l.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// Close signals the processLoop to stop, waits for it to drain the buffer
// and persist the final batch. The underlying database is left open.
func (l *DBLogger) Close() error {
	close(l.done)
	l.wg.Wait()
	return nil
}

// processLoop accumulates buffered entries into batches and inserts them
// when the batch is full or the flush period elapses. On shutdown it drains
// whatever is left in the buffer and persists the final batch.
func (l *DBLogger) processLoop() {
	defer l.wg.Done()

	ticker := time.NewTicker(l.config.FlushPeriod)
	defer ticker.Stop()

	batch := make([]*Entry, 0, l.config.BatchSize)

	for {
		select {
		case <-l.done:
			for {
				select {
				case entry := <-l.buffer:
					batch = append(batch, entry)
				default:
					l.flushBatch(batch)
					return
				}
			}
		case entry := <-l.buffer:
			batch = append(batch, entry)
			if len(batch) >= l.config.BatchSize {
				l.flushBatch(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			l.flushBatch(batch)
			batch = batch[:0]
		}
	}
}

// flushBatch inserts a batch with retries, logging failures instead of
// propagating them: audit persistence must not take the service down.
func (l *DBLogger) flushBatch(batch []*Entry) {
	if len(batch) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), l.config.Timeout)
	defer cancel()

	if err := l.insertWithRetry(ctx, batch); err != nil {
		logger.Log.Error("Failed to persist audit batch", "error", err, "entries", len(batch))
	}
}

// insertWithRetry attempts a batch insert up to MaxRetries+1 times with a
// linearly growing backoff between attempts.
func (l *DBLogger) insertWithRetry(ctx context.Context, batch []*Entry) error {
	var lastErr error

	for attempt := 0; attempt <= l.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(l.config.RetryBackoff * time.Duration(attempt)):
			}
		}

		if lastErr = l.insertBatch(ctx, batch); lastErr == nil {
			return nil
		}
	}

	return lastErr
}

// insertBatch writes all entries in a single multi-row INSERT statement.
func (l *DBLogger) insertBatch(ctx context.Context, batch []*Entry) error {
	if len(batch) == 0 {
		return nil
	}

	query, args, err := buildInsertQuery(batch)
	if err != nil {
		return err
	}

	if _, err := l.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert audit entries: %w", err)
	}

	return nil
}

// buildInsertQuery renders a multi-row INSERT for the batch along with its
// positional arguments.
func buildInsertQuery(batch []*Entry) (string, []any, error) {
	var sb strings.Builder
	sb.WriteString("INSERT INTO audit_log (")
	sb.WriteString(auditColumns)
	sb.WriteString(") VALUES ")

	args := make([]any, 0, len(batch)*auditColumnCount)
	for i, entry := range batch {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for j := 0; j < auditColumnCount; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", i*auditColumnCount+j+1)
		}
		sb.WriteByte(')')

		metadata, changes, err := encodeEntryJSON(entry)
		if err != nil {
			return "", nil, err
		}

		args = append(args,
			entry.ID, entry.Timestamp, entry.Service, entry.Method,
			string(entry.Action), string(entry.Outcome),
			entry.UserID, entry.Username, entry.ClientIP, entry.UserAgent,
			entry.Resource, entry.ResourceID, entry.RequestID,
			entry.DurationMs, entry.ErrorCode, entry.ErrorMessage,
			metadata, changes,
		)
	}

	return sb.String(), args, nil
}

// encodeEntryJSON marshals the metadata map and change set to JSON for the
// jsonb columns. Empty values are stored as NULL.
func encodeEntryJSON(entry *Entry) ([]byte, []byte, error) {
	var metadata, changes []byte
	var err error

	if len(entry.Metadata) > 0 {
		if metadata, err = json.Marshal(entry.Metadata); err != nil {
			return nil, nil, fmt.Errorf("failed to encode audit metadata: %w", err)
		}
	}
	if entry.Changes != nil {
		if changes, err = json.Marshal(entry.Changes); err != nil {
			return nil, nil, fmt.Errorf("failed to encode audit changes: %w", err)
		}
	}

	return metadata, changes, nil
}

// buildSelectQuery renders a SELECT for the filter. Every non-zero filter
// field becomes a WHERE condition; results are ordered newest first.
func buildSelectQuery(filter *QueryFilter) (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(auditColumns)
	sb.WriteString(" FROM audit_log")

	var conds []string
	var args []any
	add := func(expr string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(expr, len(args)))
	}

	if filter != nil {
		if filter.StartTime != nil {
			add("ts >= $%d", *filter.StartTime)
		}
		if filter.EndTime != nil {
			add("ts < $%d", *filter.EndTime)
		}
		if filter.Service != "" {
			add("service = $%d", filter.Service)
		}
		if filter.Method != "" {
			add("method = $%d", filter.Method)
		}
		if filter.Action != "" {
			add("action = $%d", string(filter.Action))
		}
		if filter.Outcome != "" {
			add("outcome = $%d", string(filter.Outcome))
		}
		if filter.UserID != "" {
			add("user_id = $%d", filter.UserID)
		}
		if filter.Resource != "" {
			add("resource = $%d", filter.Resource)
		}
		if filter.ResourceID != "" {
			add("resource_id = $%d", filter.ResourceID)
		}
	}

	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}
	sb.WriteString(" ORDER BY ts DESC")

	if filter != nil && filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	if filter != nil && filter.Offset > 0 {
		args = append(args, filter.Offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	return sb.String(), args
}

// scanEntry reads one row of auditColumns into an Entry.
func scanEntry(rows pgx.Rows) (*Entry, error) {
	var (
		entry             Entry
		action, outcome   string
		metadata, changes []byte
	)

	if err := rows.Scan(
		&entry.ID, &entry.Timestamp, &entry.Service, &entry.Method,
		&action, &outcome,
		&entry.UserID, &entry.Username, &entry.ClientIP, &entry.UserAgent,
		&entry.Resource, &entry.ResourceID, &entry.RequestID,
		&entry.DurationMs, &entry.ErrorCode, &entry.ErrorMessage,
		&metadata, &changes,
	); err != nil {
		return nil, fmt.Errorf("failed to scan audit entry: %w", err)
	}

	entry.Action = Action(action)
	entry.Outcome = Outcome(outcome)

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &entry.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode audit metadata: %w", err)
		}
	}
	if len(changes) > 0 {
		entry.Changes = &ChangeSet{}
		if err := json.Unmarshal(changes, entry.Changes); err != nil {
			return nil, fmt.Errorf("failed to decode audit changes: %w", err)
		}
	}

	return &entry, nil
}
