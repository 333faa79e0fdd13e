package history

import (
	"fmt"
)

const BACKEND_MEMORY = "memory"

// BACKEND_SQLITE against ":memory:" holds a single connection, so writes for different
// locations queue behind each other for the length of one short transaction. Only the
// memory backend keeps locations fully independent.
const BACKEND_SQLITE = "sqlite"

// Open builds the configured backend. Neither outlives the process unless a sqlite
// path other than ":memory:" is given.
func Open(backend, path string, now Clock) (Store, error) {
	switch backend {
	case "", BACKEND_MEMORY:
		return NewMemoryStore(now), nil

	case BACKEND_SQLITE:
		if path == "" {
			path = IN_MEMORY
		}
		db, err := Connect(path)
		if err != nil {
			return nil, err
		}
		if err := Migrate(db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to migrate SQL: %w", err)
		}
		return NewSQLiteStore(db, now), nil

	default:
		return nil, fmt.Errorf("unknown history backend: %q", backend)
	}
}
