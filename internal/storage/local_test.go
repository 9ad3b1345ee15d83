package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSavePhoto(t *testing.T) {
	base := t.TempDir()
	store, err := NewLocalStorage(base, "/uploads")
	require.NoError(t, err)

	path, err := store.SavePhoto("user_abc", "f3c1.jpg", []byte("jpeg-bytes"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(base, "user_abc", "f3c1.jpg"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)
}

func TestLocalStorageSavePhotoSeparatesOwners(t *testing.T) {
	base := t.TempDir()
	store, err := NewLocalStorage(base, "/uploads")
	require.NoError(t, err)

	pathA, err := store.SavePhoto("user_a", "same.jpg", []byte("a"))
	require.NoError(t, err)
	pathB, err := store.SavePhoto("user_b", "same.jpg", []byte("b"))
	require.NoError(t, err)

	assert.NotEqual(t, pathA, pathB)

	a, _ := os.ReadFile(pathA)
	b, _ := os.ReadFile(pathB)
	assert.Equal(t, []byte("a"), a)
	assert.Equal(t, []byte("b"), b)
}

func TestLocalStorageSaveLicense(t *testing.T) {
	base := t.TempDir()
	store, err := NewLocalStorage(base, "/uploads")
	require.NoError(t, err)

	path, err := store.SaveLicense("user_abc", "business_license_1.pdf", []byte("pdf"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(base, "business_licenses", "user_abc", "business_license_1.pdf"), path)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestLocalStorageURLFor(t *testing.T) {
	base := t.TempDir()
	store, err := NewLocalStorage(base, "/uploads/")
	require.NoError(t, err)

	path, err := store.SavePhoto("user_abc", "f3c1.jpg", []byte("x"))
	require.NoError(t, err)

	assert.Equal(t, "/uploads/user_abc/f3c1.jpg", store.URLFor(path))
}

func TestLocalStorageList(t *testing.T) {
	base := t.TempDir()
	store, err := NewLocalStorage(base, "/uploads")
	require.NoError(t, err)

	_, err = store.SavePhoto("user_a", "one.jpg", []byte("1"))
	require.NoError(t, err)
	_, err = store.SavePhoto("user_b", "two.png", []byte("22"))
	require.NoError(t, err)

	files, err := store.List()
	require.NoError(t, err)
	require.Len(t, files, 2)

	byURL := map[string]LocalFile{}
	for _, f := range files {
		byURL[f.URL] = f
	}
	assert.Contains(t, byURL, "/uploads/user_a/one.jpg")
	assert.Contains(t, byURL, "/uploads/user_b/two.png")
	assert.EqualValues(t, 2, byURL["/uploads/user_b/two.png"].Size)
}

func TestLocalStorageListEmpty(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	files, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, files)
}
