// Package modelstore provides blob storage for trained model artifacts,
// keyed by filename. One model per (player, stat) pair by convention, e.g.
// "edwards_pts_model".
package modelstore

import "context"

// Store persists and retrieves serialized model artifacts.
type Store interface {
	// Save writes an artifact under the given filename, replacing any
	// existing artifact with the same name.
	Save(ctx context.Context, filename string, data []byte) error

	// Load reads the named artifact. Returns models.ErrModelNotFound if the
	// artifact does not exist.
	Load(ctx context.Context, filename string) ([]byte, error)
}
