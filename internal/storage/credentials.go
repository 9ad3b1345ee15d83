package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// refreshMargin renews credentials this long before they expire, so an
// upload never starts with credentials about to lapse mid-transfer.
const refreshMargin = 5 * time.Minute

const credentialFetchTimeout = 10 * time.Second

// Credentials are the short-lived keys issued by the platform sidecar.
type Credentials struct {
	SecretID    string `json:"TmpSecretId"`
	SecretKey   string `json:"TmpSecretKey"`
	Token       string `json:"Token"`
	ExpiredTime int64  `json:"ExpiredTime"` // unix seconds
}

// ExpiresAt returns the expiry instant.
func (c *Credentials) ExpiresAt() time.Time {
	return time.Unix(c.ExpiredTime, 0)
}

// CredentialSource fetches a fresh credential set.
type CredentialSource interface {
	Fetch(ctx context.Context) (*Credentials, error)
}

// HTTPCredentialSource pulls credentials from the auth endpoint with a
// plain GET. Any network or decode failure maps to
// ErrCredentialsUnavailable; the caller treats it as absence.
type HTTPCredentialSource struct {
	Endpoint string
	Client   *http.Client
}

func NewHTTPCredentialSource(endpoint string) *HTTPCredentialSource {
	return &HTTPCredentialSource{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: credentialFetchTimeout},
	}
}

func (s *HTTPCredentialSource) Fetch(ctx context.Context) (*Credentials, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.Endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCredentialsUnavailable, err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCredentialsUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: auth endpoint returned %d", ErrCredentialsUnavailable, resp.StatusCode)
	}

	var creds Credentials
	if err := json.NewDecoder(resp.Body).Decode(&creds); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCredentialsUnavailable, err)
	}
	if creds.SecretID == "" || creds.SecretKey == "" {
		return nil, fmt.Errorf("%w: incomplete credential response", ErrCredentialsUnavailable)
	}

	return &creds, nil
}

// CredentialCache serves cached credentials until the refresh margin,
// then refreshes. Concurrent callers needing a refresh share a single
// in-flight fetch.
type CredentialCache struct {
	source CredentialSource
	now    func() time.Time

	mu     sync.RWMutex
	cached *Credentials

	group singleflight.Group
}

func NewCredentialCache(source CredentialSource) *CredentialCache {
	return &CredentialCache{
		source: source,
		now:    time.Now,
	}
}

// Get returns valid credentials, refreshing when the cached set is
// absent or inside the refresh margin.
func (c *CredentialCache) Get(ctx context.Context) (*Credentials, error) {
	c.mu.RLock()
	cached := c.cached
	c.mu.RUnlock()

	if cached != nil && c.now().Before(cached.ExpiresAt().Add(-refreshMargin)) {
		return cached, nil
	}

	v, err, _ := c.group.Do("refresh", func() (interface{}, error) {
		// Another caller may have refreshed while we queued.
		c.mu.RLock()
		current := c.cached
		c.mu.RUnlock()
		if current != nil && c.now().Before(current.ExpiresAt().Add(-refreshMargin)) {
			return current, nil
		}

		creds, err := c.source.Fetch(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.cached = creds
		c.mu.Unlock()
		return creds, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Credentials), nil
}
