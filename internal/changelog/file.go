package changelog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Update inserts section into the changelog at path, creating the file with
// the standard preamble if it does not exist. The write is atomic: content
// goes to a temp file in the same directory that is then renamed over path.
// Returns true if the file was created.
func Update(path, section string) (created bool, err error) {
	existing, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		created = true
	case err != nil:
		return false, fmt.Errorf("reading changelog %s: %w", path, err)
	}

	content := Prepend(string(existing), section)
	if err := writeAtomic(path, []byte(content)); err != nil {
		return false, err
	}
	return created, nil
}

// WriteSection writes section alone to path, followed by a newline.
func WriteSection(path, section string) error {
	return writeAtomic(path, []byte(strings.TrimSpace(section)+"\n"))
}

// writeAtomic writes data to a temp file next to path and renames it into place,
// preserving the mode of an existing file.
func writeAtomic(path string, data []byte) error {
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("setting mode on %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
