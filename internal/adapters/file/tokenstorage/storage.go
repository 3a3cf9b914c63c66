package tokenstorage

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Storage keeps one file per key under a directory, written with 0600 perms.
//
// Set writes to a temp file and renames it over the slot, so a concurrent
// reader sees either the old or the new value, never a torn one.
type Storage struct {
	dir string
}

func NewStorage(dir string) *Storage {
	return &Storage{dir: dir}
}

// DefaultDir returns ~/.trip-journal.
func DefaultDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".trip-journal")
}

func (s *Storage) Get(ctx context.Context, key string) (string, bool, error) {
	_ = ctx
	p, err := s.path(key)
	if err != nil {
		return "", false, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, errors.Wrapf(err, "read token slot %q", key)
	}
	return string(b), true, nil
}

func (s *Storage) Set(ctx context.Context, key, value string) error {
	_ = ctx
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return errors.Wrap(err, "create token dir")
	}
	f, err := os.CreateTemp(s.dir, "."+key+"-*")
	if err != nil {
		return errors.Wrap(err, "create temp token file")
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if err := f.Chmod(0o600); err != nil {
		f.Close()
		return errors.Wrap(err, "chmod token file")
	}
	if _, err := f.WriteString(value); err != nil {
		f.Close()
		return errors.Wrap(err, "write token file")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "close token file")
	}
	return errors.Wrap(os.Rename(tmp, p), "replace token file")
}

func (s *Storage) Remove(ctx context.Context, key string) error {
	_ = ctx
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrapf(err, "remove token slot %q", key)
	}
	return nil
}

func (s *Storage) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", errors.Errorf("invalid token key %q", key)
	}
	return filepath.Join(s.dir, key), nil
}
