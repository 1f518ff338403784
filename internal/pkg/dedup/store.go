// Package dedup implements the short-TTL memory of spec §4.3: pick and
// opposite-market dedup keys, plus the feed cursor. Membership queries
// are exact — no Bloom filter or other probabilistic structure is used,
// because a false positive here silently discards a valuable pick, which
// this design treats as strictly worse than the extra round trip a
// backing-store query costs (spec §4.3's documented rejection rationale).
package dedup

import (
	"context"
	"time"
)

// Store is the contract the rest of the pipeline depends on. All methods
// are synchronous: callers await the result before treating a pick as
// sent, so fire-and-forget writes — which create duplicates under
// concurrent bursts — are structurally impossible through this
// interface.
type Store interface {
	// ExistsAny reports whether any of keys is already recorded. A
	// query failure must propagate as an error, not a false "not
	// found" — callers are required by spec §4.3 to drop the pick
	// rather than risk a duplicate.
	ExistsAny(ctx context.Context, keys ...string) (bool, error)

	// Record writes key with the given TTL. Idempotent: recording an
	// already-present key just refreshes nothing (dedup entries are
	// never refreshed once written, per spec §3's invariants) and
	// still reports success.
	Record(ctx context.Context, key string, ttl time.Duration) error

	// SaveCursor persists the feed pagination token under a fixed key.
	SaveCursor(ctx context.Context, cursor string) error

	// LoadCursor returns the persisted cursor and whether one existed.
	LoadCursor(ctx context.Context) (string, bool, error)
}
