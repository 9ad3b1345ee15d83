package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	calls int32
	creds *Credentials
	err   error
	delay time.Duration
}

func (s *countingSource) Fetch(ctx context.Context) (*Credentials, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.err != nil {
		return nil, s.err
	}
	c := *s.creds
	return &c, nil
}

func testCreds(expiry time.Time) *Credentials {
	return &Credentials{
		SecretID:    "AKIDtest",
		SecretKey:   "secret",
		Token:       "token-1",
		ExpiredTime: expiry.Unix(),
	}
}

func TestCredentialCacheServesCachedSet(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	source := &countingSource{creds: testCreds(now.Add(30 * time.Minute))}

	cache := NewCredentialCache(source)
	cache.now = func() time.Time { return now }

	first, err := cache.Get(context.Background())
	require.NoError(t, err)
	second, err := cache.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, atomic.LoadInt32(&source.calls))
}

func TestCredentialCacheRefreshesInsideMargin(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// Expires in 4 minutes, inside the 5 minute refresh margin.
	source := &countingSource{creds: testCreds(now.Add(4 * time.Minute))}

	cache := NewCredentialCache(source)
	cache.now = func() time.Time { return now }

	_, err := cache.Get(context.Background())
	require.NoError(t, err)
	_, err = cache.Get(context.Background())
	require.NoError(t, err)

	// Every Get refreshes because the cached set never leaves the margin.
	assert.EqualValues(t, 2, atomic.LoadInt32(&source.calls))
}

func TestCredentialCacheSharesInflightRefresh(t *testing.T) {
	now := time.Now()
	source := &countingSource{
		creds: testCreds(now.Add(time.Hour)),
		delay: 20 * time.Millisecond,
	}
	cache := NewCredentialCache(source)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			creds, err := cache.Get(context.Background())
			assert.NoError(t, err)
			assert.NotNil(t, creds)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&source.calls))
}

func TestCredentialCachePropagatesFetchFailure(t *testing.T) {
	source := &countingSource{err: ErrCredentialsUnavailable}
	cache := NewCredentialCache(source)

	_, err := cache.Get(context.Background())
	assert.ErrorIs(t, err, ErrCredentialsUnavailable)
}

func TestHTTPCredentialSourceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`{"TmpSecretId":"AKIDtest","TmpSecretKey":"secret","Token":"tok","ExpiredTime":1893456000}`))
	}))
	defer srv.Close()

	source := NewHTTPCredentialSource(srv.URL)
	creds, err := source.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "AKIDtest", creds.SecretID)
	assert.Equal(t, "secret", creds.SecretKey)
	assert.Equal(t, "tok", creds.Token)
	assert.Equal(t, time.Unix(1893456000, 0), creds.ExpiresAt())
}

func TestHTTPCredentialSourceFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "garbage body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json"))
			},
		},
		{
			name: "incomplete payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"Token":"tok","ExpiredTime":1893456000}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			source := NewHTTPCredentialSource(srv.URL)
			_, err := source.Fetch(context.Background())
			assert.ErrorIs(t, err, ErrCredentialsUnavailable)
		})
	}
}

func TestHTTPCredentialSourceUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	source := NewHTTPCredentialSource(srv.URL)
	_, err := source.Fetch(context.Background())
	assert.ErrorIs(t, err, ErrCredentialsUnavailable)
}
