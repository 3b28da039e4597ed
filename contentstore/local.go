package contentstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps content in a local content-addressed directory tree:
// {root}/{last two characters of cid}/{cid}. Content ids are computed with
// ComputeCID, so identical bytes are stored once.
type LocalStore struct {
	root    string
	gateway string
}

// Compile-time interface check.
var _ Store = (*LocalStore)(nil)

// NewLocalStore creates a local store rooted at root. If gateway is non-empty
// Locate returns <gateway><cid>; otherwise it returns a file:// URL.
func NewLocalStore(root, gateway string) (*LocalStore, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("%w: local store root is required", ErrNotConfigured)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("contentstore: resolve root: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(abs, "tmp"), 0700); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreFailed, err)
	}
	return &LocalStore{root: abs, gateway: gateway}, nil
}

// Put writes data atomically and returns its CID.
func (s *LocalStore) Put(ctx context.Context, name string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyContent
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	cid := ComputeCID(data)
	dst := s.path(cid)
	if _, err := os.Stat(dst); err == nil {
		return cid, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %w", ErrStoreFailed, err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0700); err != nil {
		return "", fmt.Errorf("%w: %w", ErrStoreFailed, err)
	}

	tmp, err := os.CreateTemp(filepath.Join(s.root, "tmp"), "put-*")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrStoreFailed, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return "", fmt.Errorf("%w: %w", ErrStoreFailed, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", fmt.Errorf("%w: %w", ErrStoreFailed, err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		cleanup()
		return "", fmt.Errorf("%w: %w", ErrStoreFailed, err)
	}
	return cid, nil
}

// Open returns the bytes stored for cid.
func (s *LocalStore) Open(ctx context.Context, cid string) ([]byte, error) {
	if err := validateCID(cid); err != nil {
		return nil, fmt.Errorf("%w: %q", err, cid)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(cid))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrStoreFailed, err)
	}
	return data, nil
}

// Locate returns the gateway URL, or a file:// URL when no gateway is set.
// An unusable cid yields "" in the file:// case.
func (s *LocalStore) Locate(cid string) string {
	if s.gateway != "" {
		return s.gateway + cid
	}
	if validateCID(cid) != nil {
		return ""
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(s.path(cid))}
	return u.String()
}

func (s *LocalStore) path(cid string) string {
	return filepath.Join(s.root, cid[len(cid)-2:], cid)
}
