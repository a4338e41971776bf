package store

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// ObjectPath derives the content-addressed path for an identifier: the first
// two hex characters name the directory, the remainder names the file.
func ObjectPath(root, id string) (string, error) {
	if len(id) < 3 {
		return "", fmt.Errorf("identifier %q too short for content addressing", id)
	}
	return filepath.Join(root, id[:2], id[2:]), nil
}

// Write persists canonical content under its content address. Rewriting the
// same bytes at the same address is a no-op; differing bytes at the same
// address indicate a collision or a canonicalization bug and fail loudly.
func Write(root, id string, content []byte) (string, error) {
	path, err := ObjectPath(root, id)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create object dir: %w", err)
	}
	if existing, err := os.ReadFile(path); err == nil {
		if bytes.Equal(existing, content) {
			return path, nil
		}
		return "", fmt.Errorf("stored object %s differs from content for id %s", path, id)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("write object: %w", err)
	}
	return path, nil
}
