// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package spool

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/chuteworks/chute/lib/codec"
	"github.com/chuteworks/chute/lib/schema/record"
)

// CompressionThreshold is the payload size, in bytes, at which
// appenders start considering compression. Below it the frame
// overhead and CPU are not worth the saving.
const CompressionThreshold = 4096

// AppendOptions configures an Appender. The zero value appends
// without fsync and with compression enabled.
type AppendOptions struct {
	// Fsync syncs the file after every append, so records survive a
	// crash at the cost of one fsync per request. Capture units that
	// can tolerate losing the last few records leave this off.
	Fsync bool

	// DisableCompression stores every payload verbatim, regardless
	// of size. Useful when the spool lives on a compressing
	// filesystem.
	DisableCompression bool
}

// Appender appends records to a single spool file. It holds an
// exclusive flock on the file for its whole lifetime, so a second
// capture process appending to the same spool fails fast instead of
// interleaving CBOR items. Safe for concurrent use.
type Appender struct {
	path    string
	options AppendOptions

	mutex  sync.Mutex
	file   *os.File
	closed bool
}

// NewAppender opens (creating if needed) the spool at path for
// appending and acquires its flock. Parent directories are created.
// Returns an error naming the path when the spool is already locked
// by another process.
func NewAppender(path string, options AppendOptions) (*Appender, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating spool directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening spool %q: %w", path, err)
	}

	// Non-blocking: a held lock means another capture process owns
	// this spool, and waiting for it would only serialize two
	// processes that should not share a file in the first place.
	if err := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		file.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, fmt.Errorf("spool %q is locked by another process", path)
		}
		return nil, fmt.Errorf("locking spool %q: %w", path, err)
	}

	return &Appender{path: path, options: options, file: file}, nil
}

// Path returns the spool file path.
func (a *Appender) Path() string { return a.path }

// Append compresses the record's payload when worthwhile, encodes the
// record, and writes it to the spool in a single write. Returns the
// encoded size in bytes.
func (a *Appender) Append(rec record.Record) (int, error) {
	if !a.options.DisableCompression {
		compressRecord(&rec)
	}

	encoded, err := codec.Marshal(rec)
	if err != nil {
		return 0, fmt.Errorf("encoding record: %w", err)
	}

	a.mutex.Lock()
	defer a.mutex.Unlock()
	if a.closed {
		return 0, fmt.Errorf("appending to closed spool %q", a.path)
	}
	if _, err := a.file.Write(encoded); err != nil {
		return 0, fmt.Errorf("appending to spool %q: %w", a.path, err)
	}
	if a.options.Fsync {
		if err := a.file.Sync(); err != nil {
			return 0, fmt.Errorf("syncing spool %q: %w", a.path, err)
		}
	}
	return len(encoded), nil
}

// Close releases the flock and closes the spool. Close is idempotent.
func (a *Appender) Close() error {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true
	// Closing the descriptor releases the flock.
	return a.file.Close()
}

// WriteRecordFile writes a single record to its own file, as produced
// by a path template with %T. The file is created fresh; nanosecond
// timestamps in the name make collisions a non-issue. Returns the
// encoded size in bytes.
func WriteRecordFile(path string, rec record.Record, options AppendOptions) (int, error) {
	if !options.DisableCompression {
		compressRecord(&rec)
	}

	encoded, err := codec.Marshal(rec)
	if err != nil {
		return 0, fmt.Errorf("encoding record: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("creating record directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("creating record file %q: %w", path, err)
	}
	if _, err := file.Write(encoded); err != nil {
		file.Close()
		return 0, fmt.Errorf("writing record file %q: %w", path, err)
	}
	if options.Fsync {
		if err := file.Sync(); err != nil {
			file.Close()
			return 0, fmt.Errorf("syncing record file %q: %w", path, err)
		}
	}
	if err := file.Close(); err != nil {
		return 0, fmt.Errorf("closing record file %q: %w", path, err)
	}
	return len(encoded), nil
}

// compressRecord applies the compression policy to an uncompressed
// record in place: payloads at or above CompressionThreshold get the
// algorithm SelectCompression picks for their content type.
// Already-compressed records pass through untouched.
func compressRecord(rec *record.Record) {
	if rec.Compression != record.CompressionNone {
		return
	}
	if len(rec.Data) < CompressionThreshold {
		return
	}
	stored, algorithm, err := record.CompressAuto(rec.Data, rec.ContentType)
	if err != nil {
		// Compression is an optimization; never fail an append over
		// it.
		return
	}
	rec.Data = stored
	rec.Compression = algorithm
}
