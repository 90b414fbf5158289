// Package storage holds the media files (audio clips) referenced by the
// catalog's audio_url cells.
package storage

import "io"

type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
}
