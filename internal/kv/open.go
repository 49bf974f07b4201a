package kv

import "fmt"

// Backend names accepted by Open and by store.backend in recall.toml.
const (
	BackendJSONL  = "jsonl"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Backends lists the valid backend names.
var Backends = []string{BackendJSONL, BackendSQLite, BackendMemory}

// Open opens the named backend. For jsonl, path is a directory; for sqlite it
// is the database file; memory ignores it.
func Open(backend, path string, opts ...Option) (Store, error) {
	switch backend {
	case BackendJSONL:
		return OpenJSONL(path, opts...)
	case BackendSQLite:
		return OpenSQLite(path, opts...)
	case BackendMemory:
		return NewMemory(opts...), nil
	default:
		return nil, fmt.Errorf("kv: unknown backend %q", backend)
	}
}
