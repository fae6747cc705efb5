package photo

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveAndDelete(t *testing.T) {
	s, err := NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}

	name, err := s.Save("amina.JPG", strings.NewReader("fake image bytes"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasSuffix(name, ".jpg") {
		t.Errorf("name = %q, want lowercase .jpg suffix", name)
	}
	if name == "amina.jpg" {
		t.Error("original filename reused, want a generated name")
	}

	data, err := os.ReadFile(filepath.Join(s.Dir(), name))
	if err != nil {
		t.Fatalf("read saved photo: %v", err)
	}
	if string(data) != "fake image bytes" {
		t.Errorf("content = %q", data)
	}

	if err := s.Delete(name); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.Dir(), name)); !os.IsNotExist(err) {
		t.Error("photo still exists after delete")
	}
}

func TestSaveRejectsBadExtension(t *testing.T) {
	s, err := NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}
	for _, name := range []string{"script.sh", "doc.pdf", "noext"} {
		if _, err := s.Save(name, strings.NewReader("x")); !errors.Is(err, ErrBadExtension) {
			t.Errorf("Save(%q) err = %v, want ErrBadExtension", name, err)
		}
	}
}

func TestSaveRejectsOversized(t *testing.T) {
	s, err := NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}
	big := bytes.Repeat([]byte("a"), MaxFileSize+1)
	if _, err := s.Save("big.png", bytes.NewReader(big)); !errors.Is(err, ErrTooLarge) {
		t.Errorf("err = %v, want ErrTooLarge", err)
	}

	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("partial file left behind: %v", entries)
	}
}

func TestDeleteMissingIsNoError(t *testing.T) {
	s, err := NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}
	if err := s.Delete("never-existed.jpg"); err != nil {
		t.Errorf("delete missing: %v", err)
	}
	if err := s.Delete(""); err != nil {
		t.Errorf("delete empty: %v", err)
	}
}
