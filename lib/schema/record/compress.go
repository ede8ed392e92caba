// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression names the algorithm applied to a record's Data field.
// The value is stored verbatim in the record's "compression" wire
// field, so these constants are part of the spool format.
type Compression string

const (
	// CompressionNone stores the payload verbatim. This is the zero
	// value and the only value legacy records can carry.
	CompressionNone Compression = ""

	// CompressionZstd compresses with zstandard at the default level.
	// Best ratio for text and JSON payloads.
	CompressionZstd Compression = "zstd"

	// CompressionLZ4 compresses with block-mode LZ4. Much faster than
	// zstd with a worse ratio; chosen for payloads that compress only
	// moderately.
	CompressionLZ4 Compression = "lz4"
)

// String returns a human-readable name, "none" for the empty value.
func (c Compression) String() string {
	if c == CompressionNone {
		return "none"
	}
	return string(c)
}

// ParseCompression parses a compression name as it appears in
// configuration or on the wire. Both "" and "none" mean no
// compression.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "", "none":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return CompressionNone, fmt.Errorf("unknown compression %q", name)
	}
}

// maxDecompressedBytes caps the payload size Decompress will allocate
// for. A corrupt or hostile frame can claim any length in its prefix;
// nothing legitimate in a spool approaches 1 GiB.
const maxDecompressedBytes = 1 << 30

// Compress compresses a payload with the given algorithm and wraps it
// in a frame that records the original length. For CompressionNone the
// input is returned unchanged (no copy). Returns an error satisfying
// [IsIncompressible] when the framed output would not save at least 5%
// over the original; the caller should store the payload uncompressed.
func Compress(data []byte, algorithm Compression) ([]byte, error) {
	switch algorithm {
	case CompressionNone:
		return data, nil

	case CompressionLZ4:
		return compressLZ4(data)

	case CompressionZstd:
		return compressZstd(data)

	default:
		return nil, fmt.Errorf("unsupported compression %q", algorithm)
	}
}

// Decompress reverses [Compress]. For CompressionNone the input is
// returned unchanged (no copy). The frame's length prefix must match
// the decompressed size exactly — a mismatch means the frame is
// corrupt and returns an error.
func Decompress(data []byte, algorithm Compression) ([]byte, error) {
	switch algorithm {
	case CompressionNone:
		return data, nil
	case CompressionLZ4, CompressionZstd:
	default:
		return nil, fmt.Errorf("unsupported compression %q", algorithm)
	}

	originalSize, prefixLength := binary.Uvarint(data)
	if prefixLength <= 0 {
		return nil, fmt.Errorf("%s decompress: malformed length prefix", algorithm)
	}
	if originalSize > maxDecompressedBytes {
		return nil, fmt.Errorf("%s decompress: frame claims %d bytes, limit is %d",
			algorithm, originalSize, maxDecompressedBytes)
	}
	body := data[prefixLength:]

	if algorithm == CompressionLZ4 {
		return decompressLZ4(body, int(originalSize))
	}
	return decompressZstd(body, int(originalSize))
}

// frame prefixes a compressed body with the uvarint original length.
// Records carry no separate size field, so the frame itself must say
// how large the payload is; the prefix also lets Decompress allocate
// exactly once and verify the result. Enforces the minimum 5% saving.
func frame(originalSize int, body []byte) ([]byte, error) {
	framed := binary.AppendUvarint(make([]byte, 0, binary.MaxVarintLen64+len(body)), uint64(originalSize))
	framed = append(framed, body...)
	if savings := originalSize - len(framed); savings*20 < originalSize {
		return nil, errIncompressible
	}
	return framed, nil
}

// LZ4 compression: block-mode LZ4.

func compressLZ4(data []byte) ([]byte, error) {
	// CompressBlockBound returns the maximum compressed size.
	bound := lz4.CompressBlockBound(len(data))
	destination := make([]byte, bound)

	written, err := lz4.CompressBlock(data, destination, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}

	// CompressBlock returns 0 when it determines the data is
	// incompressible.
	if written == 0 {
		return nil, errIncompressible
	}

	return frame(len(data), destination[:written])
}

func decompressLZ4(compressed []byte, uncompressedSize int) ([]byte, error) {
	destination := make([]byte, uncompressedSize)
	read, err := lz4.UncompressBlock(compressed, destination)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	if read != uncompressedSize {
		return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", read, uncompressedSize)
	}
	return destination, nil
}

// Zstd compression: level 3 (the "default" level — good ratio
// without excessive CPU).

// zstdEncoder and zstdDecoder are reused across calls to avoid
// repeated initialization overhead. zstd.Encoder and zstd.Decoder
// are safe for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
	)
	if err != nil {
		panic("record: zstd encoder initialization failed: " + err.Error())
	}

	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("record: zstd decoder initialization failed: " + err.Error())
	}
}

func compressZstd(data []byte) ([]byte, error) {
	return frame(len(data), zstdEncoder.EncodeAll(data, nil))
}

func decompressZstd(compressed []byte, uncompressedSize int) ([]byte, error) {
	destination := make([]byte, 0, uncompressedSize)
	result, err := zstdDecoder.DecodeAll(compressed, destination)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	if len(result) != uncompressedSize {
		return nil, fmt.Errorf("zstd decompress: got %d bytes, expected %d", len(result), uncompressedSize)
	}
	return result, nil
}

// errIncompressible is returned by compression functions when the
// framed output would not save at least 5% over the input. The caller
// should fall back to CompressionNone.
var errIncompressible = fmt.Errorf("data is incompressible")

// IsIncompressible returns true if the error indicates that data
// could not be usefully compressed.
func IsIncompressible(err error) bool {
	return err == errIncompressible
}

// probeSampleBytes is how much of an unknown payload SelectCompression
// feeds to the zstd probe. Ratios stabilize well before this.
const probeSampleBytes = 4096

// SelectCompression chooses an algorithm for a payload. Content types
// that are already compressed short-circuit to none and textual types
// to zstd. Anything else is probed: a sample is compressed with zstd
// and the ratio decides. At or above 1.5x zstd is worth the CPU,
// between 1.1x and 1.5x LZ4 captures most of the saving cheaply, and
// below 1.1x the payload is stored as-is.
func SelectCompression(data []byte, contentType string) Compression {
	// Headers arrive with parameters ("application/json;
	// charset=utf-8"); match on the media type alone.
	mediaType := contentType
	if semicolon := strings.IndexByte(mediaType, ';'); semicolon >= 0 {
		mediaType = strings.TrimSpace(mediaType[:semicolon])
	}

	switch {
	case strings.HasPrefix(mediaType, "image/"),
		strings.HasPrefix(mediaType, "video/"),
		strings.HasPrefix(mediaType, "audio/"):
		return CompressionNone

	case strings.HasPrefix(mediaType, "text/"):
		return CompressionZstd
	}

	switch mediaType {
	case "application/zstd", "application/x-lz4",
		"application/gzip", "application/x-gzip",
		"application/zip", "application/x-bzip2",
		"application/x-xz", "application/x-7z-compressed":
		return CompressionNone

	case "application/json", "application/x-ndjson",
		"application/xml", "application/javascript",
		"application/sql":
		return CompressionZstd
	}

	// Probe: compress a sample with zstd and check the ratio.
	if len(data) == 0 {
		return CompressionNone
	}
	sample := data
	if len(sample) > probeSampleBytes {
		sample = sample[:probeSampleBytes]
	}
	compressed := zstdEncoder.EncodeAll(sample, nil)
	ratio := float64(len(sample)) / float64(len(compressed))

	switch {
	case ratio >= 1.5:
		return CompressionZstd
	case ratio >= 1.1:
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// CompressAuto compresses a payload with the algorithm
// SelectCompression picks for it. Returns the stored bytes and the
// compression they carry. Incompressible payloads come back unchanged
// with CompressionNone; that is not an error.
func CompressAuto(data []byte, contentType string) ([]byte, Compression, error) {
	algorithm := SelectCompression(data, contentType)

	compressed, err := Compress(data, algorithm)
	if err != nil {
		if IsIncompressible(err) {
			return data, CompressionNone, nil
		}
		return nil, CompressionNone, err
	}

	return compressed, algorithm, nil
}
