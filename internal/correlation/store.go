// Package correlation maps opaque provider transaction references back to the
// local order or top-up they belong to. The QR gateway's success redirect only
// carries its own retrieval ref, so the mapping is written when the QR is
// issued and consumed exactly once on the success/fail callback.
package correlation

import (
	"context"
	"errors"
)

type Kind string

const (
	KindOrder Kind = "order"
	KindTopup Kind = "topup"
)

// Entry is a capability lookup, not ownership: the user id is re-checked by
// the caller before the entry is acted on.
type Entry struct {
	Kind   Kind  `json:"kind"`
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`
}

type Store interface {
	Put(ctx context.Context, providerRef string, entry Entry) error
	Get(ctx context.Context, providerRef string) (*Entry, error)
	Delete(ctx context.Context, providerRef string) error
}

var ErrNotFound = errors.New("correlation entry not found")
