package httputil

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// DefaultTTL is how long a downloaded asset is used before it is
// fetched again.
const DefaultTTL = 24 * time.Hour

// Store keeps downloaded assets as files, one per URL.
//
// The filename is the SHA-256 of the URL plus the URL's extension, so the
// image decoders can still sniff the format from the name. A TTL of 0
// means entries never expire.
//
// Multiple Store instances (even in different processes) can share a
// directory: entries are written to a temporary file and renamed into
// place.
type Store struct {
	dir string
	ttl time.Duration
}

// NewStore creates a Store in dir with the given TTL. The directory is
// created on the first Put.
func NewStore(dir string, ttl time.Duration) (*Store, error) {
	if dir == "" {
		return nil, errors.New("asset store needs a directory")
	}
	return &Store{dir: dir, ttl: ttl}, nil
}

// Dir returns the store directory.
func (s *Store) Dir() string { return s.dir }

// TTL returns the time-to-live for entries.
func (s *Store) TTL() time.Duration { return s.ttl }

// Path returns where the asset for rawURL is stored, whether or not it
// exists.
func (s *Store) Path(rawURL string) string {
	h := sha256.Sum256([]byte(rawURL))
	return filepath.Join(s.dir, hex.EncodeToString(h[:])+extension(rawURL))
}

// Lookup reports whether the asset for rawURL is stored and whether it is
// still within the TTL.
func (s *Store) Lookup(rawURL string) (p string, ok, fresh bool) {
	p = s.Path(rawURL)
	info, err := os.Stat(p)
	if err != nil {
		return p, false, false
	}
	fresh = s.ttl <= 0 || time.Since(info.ModTime()) <= s.ttl
	return p, true, fresh
}

// Put stores the contents of r as the asset for rawURL and returns its
// path. An existing entry is replaced, which refreshes its TTL.
func (s *Store) Put(rawURL string, r io.Reader) (string, error) {
	p := s.Path(rawURL)
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(s.dir, ".download-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return "", err
	}
	return p, nil
}

// Clear removes every stored asset and returns how many were removed. A
// missing directory counts as empty.
func (s *Store) Clear() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			return n, err
		}
		if !strings.HasPrefix(e.Name(), ".") {
			n++
		}
	}
	return n, nil
}

// extension returns the lower-cased extension of the URL path, or "".
func extension(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	ext := strings.ToLower(path.Ext(u.Path))
	if len(ext) > 6 {
		return ""
	}
	return ext
}
