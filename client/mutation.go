package client

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// SyntheticID mints a placeholder identifier for an optimistically created
// item. The prefix keeps it distinct from any server-issued id.
func SyntheticID() string {
	return "temp-" + uuid.NewString()
}

// IsSyntheticID reports whether id was minted by SyntheticID.
func IsSyntheticID(id string) bool {
	return strings.HasPrefix(id, "temp-")
}

// Mutation runs one optimistic write against a single cache key:
// the cache is patched before the network call, rolled back verbatim on
// failure, and always revalidated once the call settles.
type Mutation struct {
	Cache *Cache

	// Key is the list entry the optimistic patch applies to.
	Key Key

	// Optimistic produces the post-mutation cache value from the current one
	// (nil when the key has never been fetched). Leaving it unset skips the
	// optimistic step and just revalidates after the call.
	Optimistic func(current json.RawMessage) json.RawMessage

	// Call performs the network request.
	Call func(ctx context.Context) error

	OnSuccess func()
	OnError   func(err error)
}

// Run executes the mutation. It returns the network error, after rollback
// and callbacks have run.
func (m *Mutation) Run(ctx context.Context) error {
	snapshot, existed := m.Cache.Snapshot(m.Key)

	if m.Optimistic != nil {
		m.Cache.Set(m.Key, m.Optimistic(snapshot))
	}

	err := m.Call(ctx)
	if err != nil {
		m.Cache.Restore(m.Key, snapshot, existed)
	}

	// Whatever happened, the next read must come from the server: the
	// optimistic guess (or the restored snapshot) is not authoritative.
	m.Cache.Invalidate(m.Key)

	if err != nil {
		if m.OnError != nil {
			m.OnError(err)
		}
		return err
	}

	// Settle the cache before reporting success so the caller observes the
	// authoritative state, not the synthetic one.
	if refreshErr := m.Cache.Refresh(ctx, m.Key); refreshErr != nil {
		m.Cache.Invalidate(m.Key)
	}

	if m.OnSuccess != nil {
		m.OnSuccess()
	}
	return nil
}
