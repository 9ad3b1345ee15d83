package storage

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Remote is the cloud object store the intake pipeline prefers.
// Implementations must be safe for concurrent use.
type Remote interface {
	// Put stores data under a key derived from ownerID and filename and
	// returns that key. openid feeds the best-effort metadata tag.
	Put(ctx context.Context, ownerID, filename string, data []byte, openid string) (string, error)

	// PresignedURL returns a time-limited download URL for a stored key.
	PresignedURL(key string, ttl time.Duration) (string, error)

	// Delete removes a stored object.
	Delete(ctx context.Context, key string) error
}

// Local is the disk fallback used when the remote store is unavailable.
type Local interface {
	// SavePhoto writes under the per-owner photo directory and returns
	// the stored path, which doubles as the persisted reference.
	SavePhoto(ownerID, filename string, data []byte) (string, error)

	// SaveLicense writes under the business-license tree.
	SaveLicense(ownerID, filename string, data []byte) (string, error)

	// URLFor maps a stored local path to its public URL.
	URLFor(path string) string

	// List walks the fallback root.
	List() ([]LocalFile, error)
}

// LocalFile describes one file found under the local fallback root.
type LocalFile struct {
	Path    string    `json:"path"`
	URL     string    `json:"url"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modified_at"`
}

// DefaultPresignTTL applies when callers pass a zero TTL.
const DefaultPresignTTL = 3600 * time.Second

// ErrCredentialsUnavailable means no usable short-lived credentials
// could be obtained. Recoverable; callers fall back to local storage.
var ErrCredentialsUnavailable = errors.New("storage: credentials unavailable")

// FailureClass partitions remote store failures. Every class is
// recoverable at the batch level; it decides logging, not control flow.
type FailureClass int

const (
	FailureUnknown FailureClass = iota
	FailureCredentials
	FailureClient  // object store rejected the request (4xx)
	FailureService // object store or transport fault (5xx, network)
)

// RemoteError wraps a remote store failure with its class.
type RemoteError struct {
	Class FailureClass
	Op    string
	Err   error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("storage: %s failed (class %d): %v", e.Op, e.Class, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}
