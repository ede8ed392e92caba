// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// encMode is the CBOR encoder configured with Core Deterministic
// Encoding (RFC 8949 §4.2): sorted map keys, smallest integer
// encoding, no indefinite-length items. Same logical data always
// produces identical bytes, which is what makes record digests and
// the validate command meaningful.
var encMode cbor.EncMode

// decMode is the CBOR decoder configured to accept standard CBOR.
// Unknown fields are silently ignored for forward compatibility.
var decMode cbor.DecMode

// toolDecMode is the lenient CBOR decoder for inspecting foreign
// CBOR. Unlike decMode it keeps the default map type (map[any]any) so
// integer map keys decode, and it tolerates duplicate map keys; the
// inspection commands and the dump transform need to see what is in
// the stream, not police it.
var toolDecMode cbor.DecMode

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	// Types implementing encoding.TextMarshaler serialize as CBOR text
	// strings via MarshalText. Without this, such types (which usually
	// carry unexported fields) would serialize as empty CBOR maps.
	encOptions.TextMarshaler = cbor.TextMarshalerTextString
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// Chute's own record types never use non-string map keys. When
		// the decoder's target is interface{}/any, it must pick a
		// concrete Go map type; the CBOR default is
		// map[interface{}]interface{} (CBOR allows non-string keys),
		// but that type is incompatible with encoding/json and most Go
		// code expecting map[string]any. This setting only affects
		// any-typed targets — struct field decoding is unaffected.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
		// Mirror of the TextMarshaler setting above for round-trip
		// correctness of TextUnmarshaler types.
		TextUnmarshaler: cbor.TextUnmarshalerTextString,
		// A record with duplicate map keys cannot have come from
		// Chute's deterministic encoder. Rejecting it here stops a
		// crafted spool entry from smuggling a second value past code
		// that already read the first.
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}

	toolDecMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("codec: lenient CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v to CBOR using Core Deterministic Encoding.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// Encoder is a CBOR stream encoder. Type alias so consumers import
// only lib/codec, not fxamacker/cbor directly.
type Encoder = cbor.Encoder

// Decoder is a CBOR stream decoder. Type alias so consumers import
// only lib/codec, not fxamacker/cbor directly.
type Decoder = cbor.Decoder

// RawMessage is a raw encoded CBOR value. It implements
// cbor.Marshaler and cbor.Unmarshaler so it can be used to delay
// CBOR decoding or pre-encode CBOR output.
type RawMessage = cbor.RawMessage

// NewEncoder returns a CBOR encoder that writes to w using Chute's
// standard Core Deterministic Encoding configuration.
func NewEncoder(w io.Writer) *Encoder {
	return encMode.NewEncoder(w)
}

// NewDecoder returns a CBOR decoder that reads from r using Chute's
// standard decoding configuration.
func NewDecoder(r io.Reader) *Decoder {
	return decMode.NewDecoder(r)
}

// ToolUnmarshal decodes CBOR data into v using the lenient inspection
// configuration: default map type (integer keys survive), duplicate
// map keys tolerated. Use for foreign CBOR that only needs to be
// displayed or re-encoded, not trusted.
func ToolUnmarshal(data []byte, v any) error {
	return toolDecMode.Unmarshal(data, v)
}

// NewToolDecoder returns a CBOR stream decoder that reads from r using
// the lenient inspection configuration (see ToolUnmarshal).
func NewToolDecoder(r io.Reader) *Decoder {
	return toolDecMode.NewDecoder(r)
}

// Diagnose returns the CBOR diagnostic notation (RFC 8949 §8) for the
// entire contents of data.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}

// DiagnoseFirst returns the CBOR diagnostic notation for the first
// data item in data, along with the remaining unconsumed bytes. Use
// this to process CBOR sequences one item at a time.
func DiagnoseFirst(data []byte) (string, []byte, error) {
	return cbor.DiagnoseFirst(data)
}
