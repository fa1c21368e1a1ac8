// Package catalog persists asset records behind a set of pluggable
// storage strategies.
package catalog

import (
	"context"

	"github.com/easelhq/easel/asset"
)

// Entry is the unit of persistence: the asset itself plus where its bytes
// ended up and what they hash to.
type Entry struct {
	Asset    asset.Asset `json:"asset"`
	Location string      `json:"location"`
	SHA256   string      `json:"sha256"`
}

// Store is the contract every catalog strategy implements. Get and Delete
// return ErrNotFound for unknown asset ids.
type Store interface {
	Save(ctx context.Context, entry Entry) error
	Get(ctx context.Context, id string) (*Entry, error)
	List(ctx context.Context, projectID string) ([]Entry, error)
	Delete(ctx context.Context, id string) error
}
