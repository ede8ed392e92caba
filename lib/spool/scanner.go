// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package spool

import (
	"errors"
	"fmt"
	"io"

	"github.com/chuteworks/chute/lib/codec"
	"github.com/chuteworks/chute/lib/schema/record"
)

// Scanner iterates the records of a spool sequentially, in the
// bufio.Scanner style:
//
//	scanner := spool.NewScanner(file)
//	for scanner.Scan() {
//		rec := scanner.Record()
//		...
//	}
//	if err := scanner.Err(); err != nil {
//		...
//	}
//
// A spool that ends cleanly between records finishes with a nil Err.
// A truncated or corrupt item stops the scan with an error naming the
// record index and byte offset.
type Scanner struct {
	decoder *codec.Decoder
	current record.Record
	offset  int64
	size    int64
	count   int
	err     error
}

// NewScanner returns a Scanner reading from r. The reader is consumed
// incrementally; the caller keeps ownership (and closes files).
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{decoder: codec.NewDecoder(r)}
}

// Scan advances to the next record. It returns false at the end of
// the spool or on error; Err distinguishes the two.
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}

	start := int64(s.decoder.NumBytesRead())
	var rec record.Record
	if err := s.decoder.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return false
		}
		s.err = fmt.Errorf("decode record %d at offset %d: %w", s.count, start, err)
		return false
	}

	s.current = rec
	s.offset = start
	s.size = int64(s.decoder.NumBytesRead()) - start
	s.count++
	return true
}

// Record returns the record read by the last successful Scan.
func (s *Scanner) Record() record.Record { return s.current }

// Offset returns the byte offset in the spool where the current
// record starts. This is what the record index stores for seeking
// back to a record.
func (s *Scanner) Offset() int64 { return s.offset }

// Size returns the encoded size in bytes of the current record.
func (s *Scanner) Size() int64 { return s.size }

// Err returns the error that stopped the scan, or nil if the spool
// ended cleanly.
func (s *Scanner) Err() error { return s.err }

// ReadRecordAt decodes the single record starting at the given byte
// offset of an io.ReaderAt, typically a spool file located through
// the record index.
func ReadRecordAt(r io.ReaderAt, offset int64) (record.Record, error) {
	var rec record.Record
	section := io.NewSectionReader(r, offset, 1<<62)
	if err := codec.NewDecoder(section).Decode(&rec); err != nil {
		return rec, fmt.Errorf("decode record at offset %d: %w", offset, err)
	}
	return rec, nil
}
