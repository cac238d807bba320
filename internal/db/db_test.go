package db

import (
	"path/filepath"
	"testing"
)

func TestWithForeignKeys(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"data/app.db", "data/app.db?_pragma=foreign_keys(1)"},
		{"data/app.db?_pragma=busy_timeout(5000)", "data/app.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"},
		{"data/app.db?_pragma=foreign_keys(0)", "data/app.db?_pragma=foreign_keys(0)"},
	}
	for _, tt := range tests {
		if got := withForeignKeys(tt.dsn); got != tt.want {
			t.Errorf("withForeignKeys(%q) = %q, want %q", tt.dsn, got, tt.want)
		}
	}
}

func TestInitEnforcesForeignKeys(t *testing.T) {
	database, err := Init("sqlite", filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	defer database.Close()

	var on int
	if err := database.Get(&on, "PRAGMA foreign_keys"); err != nil {
		t.Fatalf("PRAGMA foreign_keys error: %v", err)
	}
	if on != 1 {
		t.Errorf("foreign_keys = %d, want 1", on)
	}

	if err := RunMigrations(database.DB, "sqlite"); err != nil {
		t.Fatalf("RunMigrations() error: %v", err)
	}
	version, err := Version(database.DB, "sqlite")
	if err != nil {
		t.Fatalf("Version() error: %v", err)
	}
	if version < 1 {
		t.Errorf("Version() = %d, want >= 1", version)
	}
}
