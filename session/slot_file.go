package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	fileSlotDirMode  = 0o700
	fileSlotFileMode = 0o600
)

// FileSlot persists the token in a single file readable only by its owner.
type FileSlot struct {
	path string
}

// NewFileSlot returns a slot stored at path.
func NewFileSlot(path string) *FileSlot {
	return &FileSlot{path: path}
}

// DefaultFilePath returns the per-user token location for profile, under the
// user configuration directory.
func DefaultFilePath(profile string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	name := "token"
	if profile != "" && profile != "default" {
		name = "token-" + profile
	}
	return filepath.Join(dir, "storerate", name), nil
}

// Path returns the file backing the slot.
func (f *FileSlot) Path() string {
	return f.path
}

func (f *FileSlot) Load(context.Context) (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrEmptySlot
		}
		return "", fmt.Errorf("%w: %v", ErrSlotUnavailable, err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrEmptySlot
	}
	return token, nil
}

// Save writes through a temporary file and renames it so readers never see a
// partially written token.
func (f *FileSlot) Save(_ context.Context, token string) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, fileSlotDirMode); err != nil {
		return fmt.Errorf("%w: %v", ErrSlotUnavailable, err)
	}

	tmp, err := os.CreateTemp(dir, ".token-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSlotUnavailable, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(fileSlotFileMode); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", ErrSlotUnavailable, err)
	}
	if _, err := tmp.WriteString(token); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", ErrSlotUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrSlotUnavailable, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("%w: %v", ErrSlotUnavailable, err)
	}
	return nil
}

func (f *FileSlot) Clear(context.Context) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrSlotUnavailable, err)
	}
	return nil
}
