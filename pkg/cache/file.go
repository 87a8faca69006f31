package cache

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
)

const entryExt = ".entry"

// FileCache keeps rendered frames below a directory. Each entry is a JSON
// envelope with the payload and its expiry, stored at <dir>/<h[:2]>/<h[2:]>
// where h is the hash of the key.
//
// Frames of different diagrams render concurrently and may share a key, so
// entries are written to a temporary file and renamed into place.
type FileCache struct {
	dir string
}

var _ Cache = (*FileCache)(nil)

// NewFileCache returns a FileCache as a Cache, creating dir if needed.
func NewFileCache(dir string) (Cache, error) {
	c, err := OpenFileCache(dir)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// OpenFileCache opens dir as a cache, creating it if needed.
func OpenFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

func (c *FileCache) Dir() string { return c.dir }

type entry struct {
	Data    []byte    `json:"data"`
	Expires time.Time `json:"expires"`
}

func (e entry) expired(now time.Time) bool {
	return !e.Expires.IsZero() && now.After(e.Expires)
}

func (c *FileCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	file := c.file(key)
	raw, err := os.ReadFile(file)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}

	var e entry
	if json.Unmarshal(raw, &e) != nil || e.expired(time.Now()) {
		_ = os.Remove(file)
		return nil, false, nil
	}
	return e.Data, true, nil
}

func (c *FileCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	e := entry{Data: data}
	if ttl > 0 {
		e.Expires = time.Now().Add(ttl)
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}

	file := c.file(key)
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(file), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), file)
}

func (c *FileCache) Delete(_ context.Context, key string) error {
	if err := os.Remove(c.file(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (c *FileCache) Close() error { return nil }

// Stats returns the number of entries and their total size in bytes.
func (c *FileCache) Stats() (entries int, size int64, err error) {
	err = c.entries(func(_ string, d fs.DirEntry) error {
		info, err := d.Info()
		if err != nil {
			return err
		}
		entries++
		size += info.Size()
		return nil
	})
	return entries, size, err
}

// Clear removes every entry and the shard directories left empty, and
// returns how many entries were removed.
func (c *FileCache) Clear() (int, error) {
	removed := 0
	err := c.entries(func(file string, _ fs.DirEntry) error {
		if err := os.Remove(file); err != nil {
			return err
		}
		removed++
		return nil
	})
	if err != nil {
		return removed, err
	}

	shards, err := os.ReadDir(c.dir)
	if err != nil {
		return removed, err
	}
	for _, d := range shards {
		if d.IsDir() {
			_ = os.Remove(filepath.Join(c.dir, d.Name())) // fails unless empty
		}
	}
	return removed, nil
}

func (c *FileCache) entries(fn func(file string, d fs.DirEntry) error) error {
	return filepath.WalkDir(c.dir, func(file string, d fs.DirEntry, err error) error {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil
		case err != nil:
			return err
		case d.IsDir() || filepath.Ext(file) != entryExt:
			return nil
		}
		return fn(file, d)
	})
}

func (c *FileCache) file(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:]+entryExt)
}
