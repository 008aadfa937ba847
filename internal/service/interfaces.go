package service

import (
	"context"
	"time"
)

// ImageStore persists uploaded images and returns a public reference to them.
type ImageStore interface {
	Save(ctx context.Context, key string, img *Image) (string, error)
	// Delete removes an image previously returned by Save. Unknown
	// references are ignored.
	Delete(ctx context.Context, url string) error
}

// TokenRevoker records revoked token ids until they expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
