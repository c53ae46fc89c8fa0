// Package storage persists the saved-run snapshot and the player profile.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is returned by a store that cannot accept writes.
var ErrUnavailable = errors.New("storage unavailable")

// SnapshotKey is the single logical key the saved run lives under.
const SnapshotKey = "run"

// Store holds opaque JSON documents. Load methods return nil, nil when
// nothing is stored.
type Store interface {
	SaveSnapshot(ctx context.Context, body []byte, savedAt time.Time) error
	LoadSnapshot(ctx context.Context) ([]byte, error)
	ClearSnapshot(ctx context.Context) error
	SaveProfile(ctx context.Context, body []byte) error
	LoadProfile(ctx context.Context) ([]byte, error)
	Close() error
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}
