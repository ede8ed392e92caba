// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zeebo/blake3"

	"github.com/chuteworks/chute/lib/codec"
)

// Digest is the 32-byte BLAKE3 keyed hash of a record's uncompressed
// payload.
//
// Encoding: JSON uses "b3:" followed by 64 lowercase hex characters
// (via encoding.TextMarshaler). CBOR uses a 32-byte binary string (via
// cbor.Marshaler), saving 35 bytes per digest compared to the text
// form.
type Digest [32]byte

// domainKey is a 32-byte key for BLAKE3 keyed hashing. Domain
// separation ensures that the same payload bytes produce different
// hashes in different contexts, preventing cross-domain collisions.
type domainKey [32]byte

// recordDomainKey is a fixed constant — changing it invalidates every
// digest already written to spools. The byte values are the ASCII
// encoding of "chute.record.digest.v1", zero-padded to 32 bytes.
// Readable ASCII keeps the key inspectable in hex dumps without
// sacrificing any cryptographic property (BLAKE3 keyed mode treats
// the key as an opaque 32-byte value).
var recordDomainKey = domainKey{
	'c', 'h', 'u', 't', 'e', '.', 'r', 'e', 'c', 'o', 'r', 'd', '.', 'd', 'i', 'g',
	'e', 's', 't', '.', 'v', '1', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// ComputeDigest computes the record-domain BLAKE3 keyed hash of a
// payload. Digests are always computed on uncompressed bytes so the
// same payload hashes identically regardless of how a spool chose to
// compress it.
func ComputeDigest(payload []byte) Digest {
	return keyedHash(recordDomainKey, payload)
}

// keyedHash computes the BLAKE3 keyed hash with the given domain key.
func keyedHash(key domainKey, data []byte) Digest {
	// NewKeyed requires exactly 32 bytes, which domainKey guarantees.
	// The error is only returned for wrong key length, so this cannot
	// fail with our fixed-size type.
	hasher, err := blake3.NewKeyed(key[:])
	if err != nil {
		panic("record: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest
}

// FormatDigest returns the canonical text form of a digest: "b3:"
// followed by 64 lowercase hex characters. This is the format used in
// metadata, logs, CLI arguments, and CLI output.
func FormatDigest(digest Digest) string {
	return "b3:" + hex.EncodeToString(digest[:])
}

// ParseDigest parses the "b3:" + hex text form into a Digest.
func ParseDigest(text string) (Digest, error) {
	var digest Digest
	hexPart, found := strings.CutPrefix(text, "b3:")
	if !found {
		return digest, fmt.Errorf("parsing record digest %q: missing b3: prefix", text)
	}
	decoded, err := hex.DecodeString(hexPart)
	if err != nil {
		return digest, fmt.Errorf("parsing record digest: %w", err)
	}
	if len(decoded) != 32 {
		return digest, fmt.Errorf("record digest is %d bytes, want 32", len(decoded))
	}
	copy(digest[:], decoded)
	return digest, nil
}

// IsZero reports whether this is an uninitialized zero-value Digest.
// Records written by capture pipelines that predate digests decode
// with a zero digest.
func (d Digest) IsZero() bool { return d == Digest{} }

// String returns the canonical "b3:" + hex representation.
func (d Digest) String() string { return FormatDigest(d) }

// MarshalText implements encoding.TextMarshaler. Returns the "b3:" +
// hex form.
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(FormatDigest(d)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty input
// yields the zero digest.
func (d *Digest) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*d = Digest{}
		return nil
	}
	parsed, err := ParseDigest(string(data))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalCBOR implements cbor.Marshaler. Encodes as a CBOR byte
// string (major type 2) containing the raw 32 bytes.
func (d Digest) MarshalCBOR() ([]byte, error) {
	return codec.Marshal(d[:])
}

// UnmarshalCBOR implements cbor.Unmarshaler. Decodes a CBOR byte
// string into the 32-byte array.
func (d *Digest) UnmarshalCBOR(data []byte) error {
	var raw []byte
	if err := codec.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid record digest CBOR: %w", err)
	}
	if len(raw) != 32 {
		return fmt.Errorf("invalid record digest: expected 32 bytes, got %d", len(raw))
	}
	copy(d[:], raw)
	return nil
}

// Record is one captured payload. The short wire names ("t", "d")
// match records written by earlier capture pipelines, so Chute tools
// read old spools and old tools read Chute spools (minus the fields
// they do not know about).
type Record struct {
	// Time is when the payload was captured, as Unix nanoseconds.
	Time int64 `json:"t"`

	// Data is the payload as stored: raw bytes when Compression is
	// CompressionNone, otherwise a compressed frame. Use
	// [Record.Payload] to get the original bytes back.
	Data []byte `json:"d"`

	// ContentType is the payload MIME type, as received from the
	// client or forced by the unit configuration. The capitalized
	// wire name is historical and load-bearing.
	ContentType string `json:"Content-Type,omitempty"`

	// Digest is the keyed BLAKE3 hash of the uncompressed payload.
	// Zero for records written before digests existed.
	Digest Digest `json:"digest"`

	// Compression names the algorithm applied to Data. Empty means
	// Data holds the payload verbatim.
	Compression Compression `json:"compression,omitempty"`

	// Unit names the receiver unit that captured the record. Empty
	// for records encoded outside the capture path.
	Unit string `json:"unit,omitempty"`
}

// New builds an uncompressed record for a payload captured now,
// computing its digest. Spool appenders decide separately whether to
// compress Data before writing.
func New(now time.Time, unit, contentType string, payload []byte) Record {
	return Record{
		Time:        now.UnixNano(),
		Data:        payload,
		ContentType: contentType,
		Digest:      ComputeDigest(payload),
		Unit:        unit,
	}
}

// Timestamp returns the capture time as a time.Time in UTC.
func (r Record) Timestamp() time.Time {
	return time.Unix(0, r.Time).UTC()
}

// Payload returns the uncompressed payload bytes. For uncompressed
// records this is Data itself (no copy).
func (r Record) Payload() ([]byte, error) {
	payload, err := Decompress(r.Data, r.Compression)
	if err != nil {
		return nil, fmt.Errorf("record payload: %w", err)
	}
	return payload, nil
}

// ErrNoDigest is returned by Verify for records that carry no digest
// (typically written by pipelines that predate digests). Absence of a
// digest is not corruption, so callers usually treat this as a skip
// rather than a failure.
var ErrNoDigest = errors.New("record has no digest")

// Verify decompresses the payload, recomputes its digest, and
// compares it to the recorded one. Returns nil when they match,
// ErrNoDigest when the record has no digest, and a descriptive error
// on mismatch or decompression failure.
func (r Record) Verify() error {
	if r.Digest.IsZero() {
		return ErrNoDigest
	}
	payload, err := r.Payload()
	if err != nil {
		return err
	}
	computed := ComputeDigest(payload)
	if computed != r.Digest {
		return fmt.Errorf("record digest mismatch: recorded %s, payload hashes to %s",
			FormatDigest(r.Digest), FormatDigest(computed))
	}
	return nil
}

// Printable reports whether the record's content type is textual:
// any text/ type, or JSON. Printers use this to decide between
// rendering the payload as text and hex-dumping it.
func (r Record) Printable() bool {
	return strings.HasPrefix(r.ContentType, "text/") ||
		strings.HasPrefix(r.ContentType, "application/json")
}
