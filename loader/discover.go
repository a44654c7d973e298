package loader

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// FileSystem is an abstraction for file system operations.
// This allows for easy testing with in-memory file systems.
type FileSystem interface {
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)
	// ReadDir lists the directory at path.
	ReadDir(path string) ([]fs.DirEntry, error)
	// Glob returns the paths matching pattern.
	Glob(pattern string) ([]string, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// ReadDir lists the directory at path.
func (OSFS) ReadDir(path string) ([]fs.DirEntry, error) {
	return os.ReadDir(path)
}

// Glob returns the paths matching pattern.
func (OSFS) Glob(pattern string) ([]string, error) {
	return filepath.Glob(pattern)
}

// DefaultFS returns the default file system (OS).
func DefaultFS() FileSystem {
	return OSFS{}
}

// resolve expands one file argument into the ordered list of files it
// names. A path to a regular file yields that file; a path to a
// directory yields its direct child files sorted by name; anything
// else is treated as a glob pattern whose matches are sorted by name.
func resolve(fsys FileSystem, arg string) ([]string, error) {
	info, err := fsys.Stat(arg)
	if err == nil {
		if !info.IsDir() {
			return []string{arg}, nil
		}

		entries, err := fsys.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("reading config directory %s: %w", arg, err)
		}
		var files []string
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			files = append(files, filepath.Join(arg, entry.Name()))
		}
		sort.Strings(files)
		return files, nil
	}

	matches, err := fsys.Glob(arg)
	if err != nil {
		return nil, fmt.Errorf("invalid config file pattern %s: %w", arg, err)
	}
	sort.Strings(matches)
	return matches, nil
}
