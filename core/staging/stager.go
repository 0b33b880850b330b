package staging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Extension is the file extension of staged artifacts.
const Extension = ".nupkg"

// ErrInvalidName is returned for package ids or versions that would escape the staging dir.
var ErrInvalidName = errors.New("invalid package name")

// Stager writes artifacts below a single directory.
type Stager struct {
	fs  afero.Fs
	dir string
}

// New creates a stager rooted at dir on the given filesystem.
func New(fs afero.Fs, dir string) *Stager {
	return &Stager{fs: fs, dir: dir}
}

// Dir returns the staging directory.
func (s *Stager) Dir() string {
	return s.dir
}

// Path returns where an artifact for the given package version is staged.
func (s *Stager) Path(packageID, version string) (string, error) {
	name := packageID + "." + version + Extension
	if packageID == "" || version == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", fmt.Errorf("%w: %q %q", ErrInvalidName, packageID, version)
	}
	return filepath.Join(s.dir, name), nil
}

// Stage copies r into the staging directory. A partially written file is removed.
func (s *Stager) Stage(packageID, version string, r io.Reader) (string, int64, error) {
	path, err := s.Path(packageID, version)
	if err != nil {
		return "", 0, err
	}

	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("failed to create staging dir %s: %w", s.dir, err)
	}

	f, err := s.fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create %s: %w", path, err)
	}

	n, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = s.fs.Remove(path)
		return "", 0, fmt.Errorf("failed to write %s: %w", path, err)
	}

	return path, n, nil
}

// Release deletes a staged artifact. Releasing a file that no longer exists is not an error.
func (s *Stager) Release(path string) error {
	if err := s.fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}

// Leftovers lists staged artifacts still present, e.g. after a failed push.
func (s *Stager) Leftovers() ([]string, error) {
	matches, err := afero.Glob(s.fs, filepath.Join(s.dir, "*"+Extension))
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// Clean releases every leftover artifact and returns how many were removed.
func (s *Stager) Clean() (int, error) {
	left, err := s.Leftovers()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, path := range left {
		if err := s.Release(path); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
