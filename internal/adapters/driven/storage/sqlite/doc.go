// Package sqlite provides a SQLite-backed driven.VectorIndex.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. One database file holds both the text and image indexes; each index is a
// view over the shared records table scoped by index name.
//
// Queries are exact: every candidate row (optionally narrowed by doc_id in SQL) is
// scored with cosine similarity in Go. This suits the single-user corpus sizes the
// service targets; use the pgvector backend for larger collections.
//
// # Schema
//
// The schema is managed through versioned migrations stored in the migrations/
// directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.sercha-rag/data/vectors.db
package sqlite
