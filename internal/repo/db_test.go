package repo

import (
	"path/filepath"
	"testing"
)

func TestOpenSQLite_CreatesAndMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.db")
	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	for _, table := range []string{"users", "messages"} {
		if !db.Migrator().HasTable(table) {
			t.Errorf("missing table %q after migration", table)
		}
	}
}

func TestOpenSQLite_MissingParentDir(t *testing.T) {
	if _, err := OpenSQLite(filepath.Join(t.TempDir(), "no", "such", "dir", "x.db")); err == nil {
		t.Fatal("expected error for missing parent directory")
	}
}
