// Package storage is the client's durable key/value store: the place where
// the session survives a restart.
//
// Store is deliberately tiny (Get, Set, Remove) so the session layer does not
// care where the bytes live. Two implementations are provided:
//
//   - MemoryStore: process-local map, used by tests and by "-m memory".
//   - SQLiteStore: a single "kv" table in a local SQLite file, schema managed
//     by embedded goose migrations. It implements Transactional, so callers
//     that write several keys together can do it atomically via Atomically.
package storage
