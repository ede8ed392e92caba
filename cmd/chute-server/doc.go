// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

// chute-server is the capture daemon: an HTTP server that receives
// payload POSTs from capture units and appends them to spool files as
// CBOR records.
//
// Units are declared in a config file (YAML, or JSONC for .json and
// .jsonc paths); each unit names a secret, an output path, and its
// spool policy. A capture is
//
//	POST /c/<secret>?d=<unit>
//
// with the payload as the request body. The response is a bare 204;
// everything else about the capture (timestamp, digest, compression)
// is recorded in the spool. See lib/ingest for the handler and unit
// semantics.
//
// The server logs JSON to stderr and shuts down gracefully on SIGINT
// or SIGTERM, draining in-flight captures before exiting.
package main
