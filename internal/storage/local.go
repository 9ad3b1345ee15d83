package storage

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const licenseDir = "business_licenses"

// LocalStorage is the disk fallback. Stored paths are relative to the
// process working directory (e.g. uploads/<owner>/<name>) and are
// persisted verbatim as object references.
type LocalStorage struct {
	basePath string
	baseURL  string
}

func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if basePath == "" {
		basePath = "./uploads"
	}

	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// SavePhoto writes under the per-owner directory, creating it on first
// use, and returns the stored path.
func (s *LocalStorage) SavePhoto(ownerID, filename string, data []byte) (string, error) {
	return s.save(filepath.Join(s.basePath, ownerID), filename, data)
}

// SaveLicense writes under the business-license tree.
func (s *LocalStorage) SaveLicense(ownerID, filename string, data []byte) (string, error) {
	return s.save(filepath.Join(s.basePath, licenseDir, ownerID), filename, data)
}

func (s *LocalStorage) save(dir, filename string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	fullPath := filepath.Join(dir, filename)

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(data); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return fullPath, nil
}

// URLFor maps a stored path to its public URL under the uploads route.
func (s *LocalStorage) URLFor(path string) string {
	rel, err := filepath.Rel(s.basePath, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = strings.TrimPrefix(path, "./")
	}
	return s.baseURL + "/" + filepath.ToSlash(rel)
}

// List walks the fallback root and describes every regular file.
func (s *LocalStorage) List() ([]LocalFile, error) {
	var files []LocalFile

	err := filepath.WalkDir(s.basePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		files = append(files, LocalFile{
			Path:    path,
			URL:     s.URLFor(path),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	return files, nil
}

// BasePath exposes the root for static file serving.
func (s *LocalStorage) BasePath() string {
	return s.basePath
}
