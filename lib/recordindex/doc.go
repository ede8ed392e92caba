// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

// Package recordindex maintains a SQLite index over spool files: one
// row per record, keyed by digest, locating the record by spool path
// and byte offset. The index never stores payloads — spools stay the
// source of truth, and the whole database can be rebuilt with one
// [Index.Reindex] pass per spool.
//
// Lookups answer "where is the record with this digest"; searches
// answer "which records did unit X capture in this window", newest
// first. [Index.Stats] summarizes what is indexed.
//
// Schema creation is idempotent and runs on every connection open, so
// pointing a tool at a fresh database path just works.
package recordindex
