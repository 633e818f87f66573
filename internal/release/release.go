// Package release determines the version label of the release being described.
package release

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrVersionNotFound is returned when no source provides a version label.
var ErrVersionNotFound = errors.New("release version not found")

// Source identifies where a version label came from.
type Source string

const (
	SourceFlag        Source = "flag"
	SourceConfig      Source = "config"
	SourcePackageJSON Source = "package.json"
	SourceVersionFile Source = "VERSION"
)

// Version is a resolved version label and its origin.
type Version struct {
	Label  string
	Source Source
}

// Resolve returns the version label with precedence: flag, config value,
// the "version" field of dir/package.json, then the first line of dir/VERSION.
// Blank values are skipped. Returns ErrVersionNotFound when nothing matches.
func Resolve(dir, flag, configured string) (Version, error) {
	if v := strings.TrimSpace(flag); v != "" {
		return Version{Label: v, Source: SourceFlag}, nil
	}
	if v := strings.TrimSpace(configured); v != "" {
		return Version{Label: v, Source: SourceConfig}, nil
	}

	v, err := FromPackageJSON(filepath.Join(dir, "package.json"))
	if err != nil {
		return Version{}, err
	}
	if v != "" {
		return Version{Label: v, Source: SourcePackageJSON}, nil
	}

	v, err = FromVersionFile(filepath.Join(dir, "VERSION"))
	if err != nil {
		return Version{}, err
	}
	if v != "" {
		return Version{Label: v, Source: SourceVersionFile}, nil
	}

	return Version{}, ErrVersionNotFound
}

// FromPackageJSON returns the "version" string of a package.json manifest.
// A missing file or missing field yields "". Invalid JSON is an error.
func FromPackageJSON(path string) (string, error) {
	data, err := readOptional(path)
	if err != nil || data == nil {
		return "", err
	}
	if !gjson.ValidBytes(data) {
		return "", fmt.Errorf("parsing %s: invalid JSON", path)
	}
	field := gjson.GetBytes(data, "version")
	if field.Type != gjson.String {
		return "", nil
	}
	return strings.TrimSpace(field.String()), nil
}

// FromVersionFile returns the first non-blank line of a VERSION file.
// A missing file yields "".
func FromVersionFile(path string) (string, error) {
	data, err := readOptional(path)
	if err != nil || data == nil {
		return "", err
	}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			return line, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return "", nil
}

// readOptional reads path, returning nil data and no error if it does not exist.
func readOptional(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}
