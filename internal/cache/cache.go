// Package cache holds the dedup cache: a key-existence store recording which req_ids
// were fully processed. It is a fast-path skip hint, not the authority on uniqueness;
// the relational primary key is.
package cache

import "context"

// Cache is the dedup cache contract.
type Cache interface {
	// Exists reports whether a completion marker was set for key. It has no side effects.
	Exists(ctx context.Context, key string) (bool, error)
	// Set writes a completion marker for key. Setting the same key twice has no additional effect.
	Set(ctx context.Context, key string, value any) error
}
