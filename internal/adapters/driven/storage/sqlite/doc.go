// Package sqlite provides a SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements two store interfaces
// through a single database connection:
//
//   - BlobStore: canonical and rendered document objects with metadata tags
//   - ConfirmationStore: durable confirmation records, so pending approvals survive restarts
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.prdstore/data/prdstore.db
//
// # Thread Safety
//
// All operations are thread-safe. Create-only writes and confirmation
// compare-and-swap are single conditional statements, atomic in SQLite.
package sqlite
