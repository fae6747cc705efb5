package photo

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxFileSize caps uploaded photos at 5 MB.
const MaxFileSize = 5 << 20

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var (
	ErrBadExtension = errors.New("file type not allowed")
	ErrTooLarge     = errors.New("file too large")
)

// Storage saves member photos on local disk under a single directory with
// random unique filenames.
type Storage struct {
	dir string
}

func NewStorage(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create photo dir: %w", err)
	}
	return &Storage{dir: dir}, nil
}

// Save writes the uploaded photo and returns its path relative to the
// storage root, suitable for serving and for storage on the member record.
func (s *Storage) Save(filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return "", ErrBadExtension
	}

	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create photo file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write photo: %w", err)
	}
	if n > MaxFileSize {
		os.Remove(path)
		return "", ErrTooLarge
	}

	return name, nil
}

// Delete removes a previously saved photo. A missing file is not an error.
func (s *Storage) Delete(name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete photo: %w", err)
	}
	return nil
}

// Dir returns the storage root, for static file serving.
func (s *Storage) Dir() string {
	return s.dir
}
