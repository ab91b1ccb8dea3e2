// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple store interfaces
// through a single database connection:
//
//   - DatasetStore: Dataset records and lifecycle status
//   - ChunkStore: Chunks and their embeddings
//   - ConversationStore: Conversations and messages
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Chunk embeddings are stored as little-endian float32
// blobs; chunk metadata and message meta are stored as JSON.
//
// # Data Location
//
// By default, the database is stored at ~/.agrolens/data/agrolens.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
