// Package imagestore uploads moodboard images to a remote asset host and returns the
// public URL the language model will be pointed at.
package imagestore

import "context"

// Result is what the host hands back for one uploaded image.
type Result struct {
	URL      string
	PublicID string
}

// Store uploads a single base64 data URI. Implementations do not retry.
type Store interface {
	Upload(ctx context.Context, dataURI string) (*Result, error)
}
