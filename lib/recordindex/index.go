// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package recordindex

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/chuteworks/chute/lib/schema/record"
	"github.com/chuteworks/chute/lib/spool"
	"github.com/chuteworks/chute/lib/sqlitepool"
)

// schema is applied to every connection. CREATE IF NOT EXISTS keeps
// it idempotent; a second opener sees the tables already there.
const schema = `
CREATE TABLE IF NOT EXISTS record (
	digest          BLOB PRIMARY KEY,
	time_unix_nano  INTEGER NOT NULL,
	content_type    TEXT NOT NULL DEFAULT '',
	unit            TEXT NOT NULL DEFAULT '',
	spool           TEXT NOT NULL,
	offset          INTEGER NOT NULL,
	size            INTEGER NOT NULL,
	compression     TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS record_time ON record (time_unix_nano DESC);
CREATE INDEX IF NOT EXISTS record_unit_time ON record (unit, time_unix_nano DESC);
`

// Config holds the parameters for opening a record index.
type Config struct {
	// Path is the filesystem path to the index database. Parent
	// directories are created.
	Path string

	// PoolSize is the connection pool size. Defaults to 4 if zero or
	// negative.
	PoolSize int

	// Logger receives operational messages. Nil means silent.
	Logger *slog.Logger
}

// Index is a SQLite index over spool files. Safe for concurrent use.
type Index struct {
	pool   *sqlitepool.Pool
	logger *slog.Logger
}

// Entry is one indexed record: where it lives and the metadata worth
// filtering on without touching the spool.
type Entry struct {
	Digest      record.Digest      `json:"digest"`
	Time        int64              `json:"time_unix_nano"`
	ContentType string             `json:"content_type,omitempty"`
	Unit        string             `json:"unit,omitempty"`
	Spool       string             `json:"spool"`
	Offset      int64              `json:"offset"`
	Size        int64              `json:"size"`
	Compression record.Compression `json:"compression,omitempty"`
}

// ErrNotFound is returned by Lookup when no record has the requested
// digest.
var ErrNotFound = errors.New("record not found in index")

// Open opens (creating if needed) the index database at cfg.Path.
// The caller must Close the index when done.
func Open(cfg Config) (*Index, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("recordindex: Path is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("recordindex: creating index directory: %w", err)
	}

	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = 4
	}

	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:     cfg.Path,
		PoolSize: poolSize,
		Logger:   logger,
		OnConnect: func(conn *sqlite.Conn) error {
			return sqlitex.ExecuteScript(conn, schema, nil)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("recordindex: %w", err)
	}

	return &Index{pool: pool, logger: logger}, nil
}

// Close closes the underlying connection pool.
func (ix *Index) Close() error {
	return ix.pool.Close()
}

// Reindex scans the spool at spoolPath and upserts every record, all
// in one IMMEDIATE transaction. Running it twice is a no-op; running
// it after appends picks up the new tail. Returns the number of
// records scanned.
//
// The spool path is stored in absolute form so lookups resolve
// regardless of the indexing tool's working directory.
func (ix *Index) Reindex(ctx context.Context, spoolPath string) (count int, err error) {
	absolute, err := filepath.Abs(spoolPath)
	if err != nil {
		return 0, fmt.Errorf("recordindex: resolving %q: %w", spoolPath, err)
	}
	file, err := os.Open(absolute)
	if err != nil {
		return 0, fmt.Errorf("recordindex: opening spool: %w", err)
	}
	defer file.Close()

	conn, err := ix.pool.Take(ctx)
	if err != nil {
		return 0, fmt.Errorf("recordindex: reindex: %w", err)
	}
	defer ix.pool.Put(conn)

	endTransaction, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return 0, fmt.Errorf("recordindex: begin transaction: %w", err)
	}
	defer endTransaction(&err)

	scanner := spool.NewScanner(file)
	for scanner.Scan() {
		rec := scanner.Record()
		digest, err := resolveDigest(rec)
		if err != nil {
			return count, fmt.Errorf("recordindex: record at offset %d: %w", scanner.Offset(), err)
		}
		err = sqlitex.Execute(conn, `
			INSERT INTO record
				(digest, time_unix_nano, content_type, unit, spool, offset, size, compression)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (digest) DO UPDATE SET
				time_unix_nano = excluded.time_unix_nano,
				content_type   = excluded.content_type,
				unit           = excluded.unit,
				spool          = excluded.spool,
				offset         = excluded.offset,
				size           = excluded.size,
				compression    = excluded.compression`,
			&sqlitex.ExecOptions{
				Args: []any{
					digest[:],
					rec.Time,
					rec.ContentType,
					rec.Unit,
					absolute,
					scanner.Offset(),
					scanner.Size(),
					string(rec.Compression),
				},
			})
		if err != nil {
			return count, fmt.Errorf("recordindex: upsert record: %w", err)
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("recordindex: scanning %s: %w", absolute, err)
	}

	ix.logger.Info("spool reindexed", "spool", absolute, "records", count)
	return count, nil
}

// resolveDigest returns the record's digest, computing it for legacy
// records written before digests existed. The computed digest goes
// into the index only — the spool record is immutable.
func resolveDigest(rec record.Record) (record.Digest, error) {
	if !rec.Digest.IsZero() {
		return rec.Digest, nil
	}
	payload, err := rec.Payload()
	if err != nil {
		return record.Digest{}, err
	}
	return record.ComputeDigest(payload), nil
}

// Lookup returns the index entry for a digest, or ErrNotFound.
func (ix *Index) Lookup(ctx context.Context, digest record.Digest) (Entry, error) {
	conn, err := ix.pool.Take(ctx)
	if err != nil {
		return Entry{}, fmt.Errorf("recordindex: lookup: %w", err)
	}
	defer ix.pool.Put(conn)

	var entry Entry
	found := false
	err = sqlitex.Execute(conn, `
		SELECT digest, time_unix_nano, content_type, unit, spool, offset, size, compression
		FROM record WHERE digest = ?`,
		&sqlitex.ExecOptions{
			Args: []any{digest[:]},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				found = true
				return scanEntry(stmt, &entry)
			},
		})
	if err != nil {
		return Entry{}, fmt.Errorf("recordindex: lookup: %w", err)
	}
	if !found {
		return Entry{}, fmt.Errorf("recordindex: digest %s: %w", digest, ErrNotFound)
	}
	return entry, nil
}

// Query filters a Search. Zero fields do not constrain.
type Query struct {
	// Unit restricts to records captured by one unit.
	Unit string

	// ContentType is a prefix match, so "application/json" also
	// catches "application/json; charset=utf-8".
	ContentType string

	// Since and Until bound the capture time, in Unix nanoseconds.
	Since int64
	Until int64

	// Limit caps the result count. Zero or negative means 100.
	Limit int
}

// Search returns index entries matching the query, newest first.
func (ix *Index) Search(ctx context.Context, query Query) ([]Entry, error) {
	conn, err := ix.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("recordindex: search: %w", err)
	}
	defer ix.pool.Put(conn)

	limit := query.Limit
	if limit <= 0 {
		limit = 100
	}

	var conditions []string
	var args []any

	if query.Unit != "" {
		conditions = append(conditions, "unit = ?")
		args = append(args, query.Unit)
	}
	if query.ContentType != "" {
		conditions = append(conditions, "content_type LIKE ?")
		args = append(args, query.ContentType+"%")
	}
	if query.Since > 0 {
		conditions = append(conditions, "time_unix_nano >= ?")
		args = append(args, query.Since)
	}
	if query.Until > 0 {
		conditions = append(conditions, "time_unix_nano <= ?")
		args = append(args, query.Until)
	}

	sql := `SELECT digest, time_unix_nano, content_type, unit, spool, offset, size, compression
		FROM record`
	if len(conditions) > 0 {
		sql += " WHERE " + strings.Join(conditions, " AND ")
	}
	sql += " ORDER BY time_unix_nano DESC LIMIT ?"
	args = append(args, limit)

	var entries []Entry
	err = sqlitex.Execute(conn, sql, &sqlitex.ExecOptions{
		Args: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			var entry Entry
			if err := scanEntry(stmt, &entry); err != nil {
				return err
			}
			entries = append(entries, entry)
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("recordindex: search: %w", err)
	}
	return entries, nil
}

// Stats summarizes the index contents.
type Stats struct {
	// Records is the number of indexed records.
	Records int64 `json:"records"`

	// Units is the number of distinct capturing units.
	Units int64 `json:"units"`

	// Spools is the number of distinct spool files.
	Spools int64 `json:"spools"`

	// StoredBytes is the total encoded size of all indexed records,
	// compression included.
	StoredBytes int64 `json:"stored_bytes"`

	// IndexBytes is the size of the index database itself.
	IndexBytes int64 `json:"index_bytes"`
}

// Stats returns counts and sizes over the whole index.
func (ix *Index) Stats(ctx context.Context) (Stats, error) {
	conn, err := ix.pool.Take(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("recordindex: stats: %w", err)
	}
	defer ix.pool.Put(conn)

	var stats Stats
	err = sqlitex.Execute(conn, `
		SELECT COUNT(*), COUNT(DISTINCT unit), COUNT(DISTINCT spool), COALESCE(SUM(size), 0)
		FROM record`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				stats.Records = stmt.ColumnInt64(0)
				stats.Units = stmt.ColumnInt64(1)
				stats.Spools = stmt.ColumnInt64(2)
				stats.StoredBytes = stmt.ColumnInt64(3)
				return nil
			},
		})
	if err != nil {
		return Stats{}, fmt.Errorf("recordindex: stats: %w", err)
	}

	// Database size via page_count * page_size.
	err = sqlitex.Execute(conn,
		"SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()",
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				stats.IndexBytes = stmt.ColumnInt64(0)
				return nil
			},
		})
	if err != nil {
		return Stats{}, fmt.Errorf("recordindex: database size: %w", err)
	}

	return stats, nil
}

// scanEntry fills an Entry from a SELECT row.
func scanEntry(stmt *sqlite.Stmt, entry *Entry) error {
	// Columns: digest(0), time_unix_nano(1), content_type(2),
	// unit(3), spool(4), offset(5), size(6), compression(7)

	stmt.ColumnBytes(0, entry.Digest[:])
	entry.Time = stmt.ColumnInt64(1)
	entry.ContentType = stmt.ColumnText(2)
	entry.Unit = stmt.ColumnText(3)
	entry.Spool = stmt.ColumnText(4)
	entry.Offset = stmt.ColumnInt64(5)
	entry.Size = stmt.ColumnInt64(6)

	compression, err := record.ParseCompression(stmt.ColumnText(7))
	if err != nil {
		return fmt.Errorf("recordindex: %w", err)
	}
	entry.Compression = compression
	return nil
}
