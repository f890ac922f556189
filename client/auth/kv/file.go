package kv

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

// FileStore persists each key as a file under a base URL. Any afs supported
// scheme works; plain paths resolve to the local file system.
type FileStore struct {
	mu      sync.Mutex
	baseURL string
	fs      afs.Service
}

func (f *FileStore) keyURL(key string) string {
	return url.Join(f.baseURL, key+".json")
}

func (f *FileStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	URL := f.keyURL(key)
	ok, err := f.fs.Exists(ctx, URL)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check %v: %w", URL, err)
	}
	if !ok {
		return nil, false, nil
	}
	data, err := f.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %v: %w", URL, err)
	}
	return data, true, nil
}

// Set replaces the value in one step. Local files are written to a temporary
// sibling and renamed in place; other schemes are uploaded in place.
func (f *FileStore) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	URL := f.keyURL(key)
	if url.Scheme(URL, file.Scheme) != file.Scheme {
		if err := f.fs.Upload(ctx, URL, 0o600, bytes.NewReader(value)); err != nil {
			return fmt.Errorf("failed to write %v: %w", URL, err)
		}
		return nil
	}
	tmp := URL + ".tmp"
	if err := f.fs.Upload(ctx, tmp, 0o600, bytes.NewReader(value)); err != nil {
		return fmt.Errorf("failed to write %v: %w", tmp, err)
	}
	if err := os.Rename(url.Path(tmp), url.Path(URL)); err != nil {
		return fmt.Errorf("failed to replace %v: %w", URL, err)
	}
	return nil
}

func (f *FileStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	URL := f.keyURL(key)
	ok, err := f.fs.Exists(ctx, URL)
	if err != nil || !ok {
		return err
	}
	return f.fs.Delete(ctx, URL)
}

// NewFileStore creates a Store rooted at baseURL
func NewFileStore(baseURL string) *FileStore {
	return &FileStore{baseURL: baseURL, fs: afs.New()}
}
