// Package storage is the durable home for mirrored assets. The catalog
// only ever records the URL a Put returns, so the backing implementation
// can change without touching the ingestion pipeline.
package storage

import "context"

// Store persists a binary payload under a key and returns the canonical
// URL the payload is served from. Keys must be globally unique; the
// ingestion pipeline guarantees this by embedding a random suffix.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
