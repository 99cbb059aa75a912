package utils

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// recursiveSuffix marks a directory pattern that includes all subdirectories, as in ./models/...
const recursiveSuffix = "/..."

// FileFilter decides whether a file is collected
type FileFilter func(path string, entry fs.DirEntry) bool

// DirectoryFilter decides whether a directory is descended into
type DirectoryFilter func(path string, entry fs.DirEntry) bool

// FileWalkOptions configures file walking behavior
type FileWalkOptions struct {
	FileFilter      FileFilter
	DirectoryFilter DirectoryFilter
	Recursive       bool
}

// IsModelFile reports whether path names a YAML document
func IsModelFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// ModelFileFilter accepts YAML documents
func ModelFileFilter() FileFilter {
	return func(path string, entry fs.DirEntry) bool {
		return !entry.IsDir() && IsModelFile(entry.Name())
	}
}

// DefaultDirectoryFilter skips hidden and vendored directories
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"vendor":       true,
		"node_modules": true,
		"testdata":     true,
	}

	return func(path string, entry fs.DirEntry) bool {
		name := entry.Name()
		if strings.HasPrefix(name, ".") && name != "." && name != ".." {
			return false
		}
		return !skipDirs[name]
	}
}

// WalkFiles collects the files below rootDir accepted by the options' filters.
// Without Recursive only rootDir itself is listed.
func WalkFiles(rootDir string, options FileWalkOptions) ([]string, error) {
	var matched []string

	err := filepath.WalkDir(rootDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if path == rootDir {
				return nil
			}
			if !options.Recursive {
				return filepath.SkipDir
			}
			if options.DirectoryFilter != nil && !options.DirectoryFilter(path, entry) {
				return filepath.SkipDir
			}
			return nil
		}
		if options.FileFilter == nil || options.FileFilter(path, entry) {
			matched = append(matched, path)
		}
		return nil
	})

	return matched, err
}

// ExpandModelPaths turns files, directories, dir/... patterns and globs such as
// models/**/*.yaml into a sorted, duplicate-free list of model documents. A plain
// file or a glob match is taken as is, whatever its extension.
func ExpandModelPaths(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		clean := filepath.Clean(path)
		if !seen[clean] {
			seen[clean] = true
			files = append(files, clean)
		}
	}

	for _, pattern := range patterns {
		if containsGlob(pattern) {
			matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("model path %s: %w", pattern, err)
			}
			for _, path := range matches {
				add(path)
			}
			continue
		}

		recursive := strings.HasSuffix(pattern, recursiveSuffix)
		root := strings.TrimSuffix(pattern, recursiveSuffix)
		if root == "" {
			root = "."
		}

		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("model path %s: %w", pattern, err)
		}
		if !info.IsDir() {
			if recursive {
				return nil, fmt.Errorf("model path %s: %s is not a directory", pattern, root)
			}
			add(root)
			continue
		}

		matched, err := WalkFiles(root, FileWalkOptions{
			FileFilter:      ModelFileFilter(),
			DirectoryFilter: DefaultDirectoryFilter(),
			Recursive:       recursive,
		})
		if err != nil {
			return nil, fmt.Errorf("model path %s: %w", pattern, err)
		}
		for _, path := range matched {
			add(path)
		}
	}

	sort.Strings(files)
	return files, nil
}

func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
