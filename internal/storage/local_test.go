package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCleanKey(t *testing.T) {
	tests := []struct {
		key     string
		want    string
		wantErr bool
	}{
		{key: "uploads/documents/a.html", want: "uploads/documents/a.html"},
		{key: "uploads//documents/./a.html", want: "uploads/documents/a.html"},
		{key: `uploads\documents\a.html`, want: "uploads/documents/a.html"},
		{key: "uploads/../a.html", want: "a.html"},
		{key: "", wantErr: true},
		{key: ".", wantErr: true},
		{key: "/etc/passwd", wantErr: true},
		{key: "../secret", wantErr: true},
		{key: "uploads/../../secret", wantErr: true},
		{key: `..\secret`, wantErr: true},
	}

	for _, tt := range tests {
		got, err := CleanKey(tt.key)
		if tt.wantErr {
			if !errors.Is(err, ErrOutsideRoot) {
				t.Errorf("CleanKey(%q) error = %v, want ErrOutsideRoot", tt.key, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("CleanKey(%q) = %q, %v, want %q", tt.key, got, err, tt.want)
		}
	}
}

func TestWithin(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"uploads/documents/a.html", true},
		{"uploads/documents/sub/a.html", true},
		{"uploads/documents", false},
		{"uploads/documents-old/a.html", false},
		{"uploads/documents/../../etc/passwd", false},
		{"uploads/other/a.html", false},
	}

	for _, tt := range tests {
		if got := Within(tt.key, "uploads/documents"); got != tt.want {
			t.Errorf("Within(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestSafeJoin(t *testing.T) {
	root := t.TempDir()

	full, err := SafeJoin(root, "uploads/a.html")
	if err != nil {
		t.Fatalf("SafeJoin() error: %v", err)
	}
	if want := filepath.Join(root, "uploads", "a.html"); full != want {
		t.Errorf("SafeJoin() = %q, want %q", full, want)
	}

	_, err = SafeJoin(root, "uploads/../../a.html")
	if !errors.Is(err, ErrOutsideRoot) {
		t.Errorf("SafeJoin(traversal) error = %v, want ErrOutsideRoot", err)
	}
}

func TestLocalStorage(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(root, "/files/")
	if err != nil {
		t.Fatalf("NewLocalStorage() error: %v", err)
	}

	key := "uploads/documents/a.html"
	err = s.Create(key, []byte("<p>one</p>"))
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	err = s.Create(key, []byte("<p>two</p>"))
	if !errors.Is(err, ErrExist) {
		t.Fatalf("second Create() error = %v, want ErrExist", err)
	}

	rc, err := s.Open(key)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "<p>one</p>" {
		t.Errorf("Open() = %q, want original content", data)
	}

	err = s.Save("uploads/documents/b.html", strings.NewReader("b"))
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	objects, err := s.List("uploads/documents")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(objects) != 2 {
		t.Fatalf("List() = %d objects, want 2", len(objects))
	}
	for _, o := range objects {
		if !Within(o.Key, "uploads/documents") {
			t.Errorf("List() key %q is not relative to root", o.Key)
		}
	}

	if got := s.URL(key); got != "/files/uploads/documents/a.html" {
		t.Errorf("URL() = %q", got)
	}

	err = s.Delete(key)
	if err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "uploads", "documents", "a.html")); !os.IsNotExist(err) {
		t.Errorf("file still exists after Delete(): %v", err)
	}

	_, err = s.Open(key)
	if !errors.Is(err, ErrNotExist) {
		t.Errorf("Open(deleted) error = %v, want ErrNotExist", err)
	}

	_, err = s.Open("../outside.html")
	if !errors.Is(err, ErrOutsideRoot) {
		t.Errorf("Open(traversal) error = %v, want ErrOutsideRoot", err)
	}
}

func TestListMissingPrefix(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "/files")
	if err != nil {
		t.Fatalf("NewLocalStorage() error: %v", err)
	}

	objects, err := s.List("uploads/none")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(objects) != 0 {
		t.Errorf("List() = %v, want empty", objects)
	}
}
