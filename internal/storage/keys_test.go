package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveRefBareRemoteKey(t *testing.T) {
	kind, key := ResolveRef("photos/user_abc/f3c1.jpg")
	assert.Equal(t, RefRemote, kind)
	assert.Equal(t, "photos/user_abc/f3c1.jpg", key)
}

func TestResolveRefObjectURL(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		kind RefKind
		key  string
	}{
		{
			name: "cloud scheme",
			ref:  "cloud://env-bucket/photos/user_abc/f3c1.jpg",
			kind: RefRemote,
			key:  "photos/user_abc/f3c1.jpg",
		},
		{
			name: "https endpoint",
			ref:  "https://bucket-125000.cos.ap-shanghai.myqcloud.com/photos/user_abc/f3c1.png",
			kind: RefRemote,
			key:  "photos/user_abc/f3c1.png",
		},
		{
			name: "no path after bucket",
			ref:  "cloud://env-bucket",
			kind: RefUnrecognized,
			key:  "",
		},
		{
			name: "trailing slash only",
			ref:  "cloud://env-bucket/",
			kind: RefUnrecognized,
			key:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, key := ResolveRef(tt.ref)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestResolveRefLocalPaths(t *testing.T) {
	tests := []struct {
		name string
		ref  string
	}{
		{"absolute", "/srv/app/uploads/user_abc/f3c1.jpg"},
		{"relative uploads", "uploads/user_abc/f3c1.jpg"},
		{"dot-slash uploads", "./uploads/user_abc/f3c1.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, path := ResolveRef(tt.ref)
			assert.Equal(t, RefLocal, kind)
			// Local paths are returned verbatim so disk lookups still work.
			assert.Equal(t, tt.ref, path)
		})
	}
}

func TestResolveRefUnrecognized(t *testing.T) {
	for _, ref := range []string{
		"",
		"some-random-string",
		"images/user_abc/f3c1.jpg",
		`C:\temp\f3c1.jpg`,
	} {
		kind, key := ResolveRef(ref)
		assert.Equal(t, RefUnrecognized, kind, "ref %q", ref)
		assert.Empty(t, key)
	}
}

func TestResolveRefIsIdempotentOnRemoteKeys(t *testing.T) {
	_, key := ResolveRef("cloud://env-bucket/photos/user_abc/f3c1.jpg")

	kind, again := ResolveRef(key)
	assert.Equal(t, RefRemote, kind)
	assert.Equal(t, key, again)
}

func TestRemoteKeyRoundTrip(t *testing.T) {
	key := RemoteKey("user_abc", "f3c1.webp")
	assert.Equal(t, "photos/user_abc/f3c1.webp", key)

	kind, resolved := ResolveRef(key)
	assert.Equal(t, RefRemote, kind)
	assert.Equal(t, key, resolved)
}

func TestMimeTypeFor(t *testing.T) {
	assert.Equal(t, "image/jpeg", MimeTypeFor("a.jpg"))
	assert.Equal(t, "image/jpeg", MimeTypeFor("a.JPEG"))
	assert.Equal(t, "image/png", MimeTypeFor("photos/user_abc/b.png"))
	assert.Equal(t, "image/webp", MimeTypeFor("c.webp"))
	assert.Equal(t, "application/pdf", MimeTypeFor("license.pdf"))
	assert.Equal(t, "application/octet-stream", MimeTypeFor("unknown.bin"))
	assert.Equal(t, "application/octet-stream", MimeTypeFor("no-extension"))
}
