package utils

import (
	"fmt"
	"io/fs"
	"os"
)

// ReadFileOrFS reads path from disk when it exists, otherwise from fsys.
// Lets operators override embedded defaults with a file next to the binary.
func ReadFileOrFS(fsys fs.FS, path string) ([]byte, error) {
	if data, err := os.ReadFile(path); err == nil {
		return data, nil
	}
	if fsys == nil {
		return nil, fmt.Errorf("file %s not found", path)
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded file %s: %w", path, err)
	}
	return data, nil
}
