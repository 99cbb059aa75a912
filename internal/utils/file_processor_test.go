package utils

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("types: []\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestExpandModelPaths(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"base.yaml",
		"notes.txt",
		"api/service.yml",
		"api/deep/more.yaml",
		".hidden/secret.yaml",
		"vendor/dep.yaml",
	)
	rel := func(parts ...string) string { return filepath.Join(append([]string{root}, parts...)...) }

	tests := []struct {
		name     string
		patterns []string
		expected []string
	}{
		{
			name:     "directory",
			patterns: []string{root},
			expected: []string{rel("base.yaml")},
		},
		{
			name:     "recursive",
			patterns: []string{root + "/..."},
			expected: []string{rel("api", "deep", "more.yaml"), rel("api", "service.yml"), rel("base.yaml")},
		},
		{
			name:     "explicit file of any extension",
			patterns: []string{rel("notes.txt")},
			expected: []string{rel("notes.txt")},
		},
		{
			name:     "glob",
			patterns: []string{root + "/**/*.yml"},
			expected: []string{rel("api", "service.yml")},
		},
		{
			name:     "glob across directories",
			patterns: []string{root + "/api/**/*.yaml"},
			expected: []string{rel("api", "deep", "more.yaml")},
		},
		{
			name:     "duplicates collapse",
			patterns: []string{rel("base.yaml"), root, rel("api") + "/..."},
			expected: []string{rel("api", "deep", "more.yaml"), rel("api", "service.yml"), rel("base.yaml")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandModelPaths(tt.patterns)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestExpandModelPaths_Errors(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "base.yaml")

	if _, err := ExpandModelPaths([]string{filepath.Join(root, "missing")}); err == nil {
		t.Error("expected error for missing path")
	}
	if _, err := ExpandModelPaths([]string{filepath.Join(root, "base.yaml") + "/..."}); err == nil {
		t.Error("expected error for recursive pattern on a file")
	}
}
