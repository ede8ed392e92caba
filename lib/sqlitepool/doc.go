// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlitepool provides the SQLite connection pool used by every
// Chute component with local structured storage, most prominently the
// record index. It wraps zombiezen.com/go/sqlite with one set of
// pragmas and one pool pattern so the tools never disagree about how
// a database is opened.
//
// The pool is built on zombiezen's sqlitex.Pool, which manages a
// fixed-size set of connections. Callers [Pool.Take] a connection,
// perform work, and [Pool.Put] it back. Connections are NOT safe for
// concurrent use — each goroutine must hold its own connection for
// the duration of its work.
//
// # Pragmas
//
// Every connection in the pool is initialized with these pragmas:
//
//   - journal_mode=WAL: write-ahead logging for concurrent readers
//     and a single writer. An index rebuild does not block searches.
//   - synchronous=NORMAL: transactions survive process crashes but
//     not power failure. Acceptable everywhere Chute uses SQLite: the
//     spool files are the source of truth and an index is rebuilt
//     with one reindex pass.
//   - busy_timeout=5000: wait up to 5 seconds for a write lock
//     instead of returning SQLITE_BUSY immediately.
//   - foreign_keys=ON: enforced referential integrity. Today's
//     schemas are single-table, so this costs nothing; the day a
//     second table appears, the constraint is already on.
//   - cache_size=-8192: 8 MB page cache per connection.
//   - mmap_size=268435456: 256 MB memory-mapped I/O, letting the OS
//     page cache serve index scans without read(2) overhead.
//   - temp_store=MEMORY: temporary tables and indexes in memory.
//
// # Usage
//
//	pool, err := sqlitepool.Open(sqlitepool.Config{
//	    Path:   "/var/lib/chute/index.db",
//	    Logger: logger,
//	    OnConnect: func(conn *sqlite.Conn) error {
//	        return sqlitex.ExecuteScript(conn, schema, nil)
//	    },
//	})
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	conn, err := pool.Take(ctx)
//	if err != nil {
//	    return err
//	}
//	defer pool.Put(conn)
//
// # Design
//
// This package is intentionally thin: it applies the pragmas and
// exposes the underlying zombiezen types directly. There is no query
// builder and no attempt to hide SQLite's connection model. Callers
// write SQL, use sqlitex.Execute for cached statements, and manage
// transactions with sqlitex.ImmediateTransaction.
package sqlitepool
