package sqlitemigrate

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func TestApplyMigrationsRecordsApplied(t *testing.T) {
	db := openTestDB(t)

	migrations := fstest.MapFS{
		"001_create.sql": &fstest.MapFile{Data: []byte("-- +migrate Up\nCREATE TABLE items(id TEXT PRIMARY KEY);\n-- +migrate Down\nDROP TABLE items;")},
		"002_index.sql":  &fstest.MapFile{Data: []byte("CREATE INDEX items_id ON items(id);")},
		"README.md":      &fstest.MapFile{Data: []byte("ignored")},
	}
	if err := ApplyMigrations(context.Background(), db, migrations, ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if got := countRows(t, db, "SELECT COUNT(*) FROM schema_migrations"); got != 2 {
		t.Fatalf("migration rows = %d, want 2", got)
	}
	if got := countRows(t, db, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'items'"); got != 1 {
		t.Fatal("expected items table to exist")
	}
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	migrations := fstest.MapFS{
		"001_create.sql": &fstest.MapFile{Data: []byte("CREATE TABLE items(id TEXT PRIMARY KEY);")},
	}
	for i := 0; i < 2; i++ {
		if err := ApplyMigrations(context.Background(), db, migrations, "."); err != nil {
			t.Fatalf("apply migrations pass %d: %v", i, err)
		}
	}
	if got := countRows(t, db, "SELECT COUNT(*) FROM schema_migrations"); got != 1 {
		t.Fatalf("migration rows = %d, want 1", got)
	}
}

func TestApplyMigrationsDoesNotRecordFailedMigration(t *testing.T) {
	db := openTestDB(t)
	bad := fstest.MapFS{
		"001_bad.sql": &fstest.MapFile{Data: []byte("CREAT table things(id INT);")},
	}
	if err := ApplyMigrations(context.Background(), db, bad, ""); err == nil {
		t.Fatal("expected bad migration to fail")
	}
	if got := countRows(t, db, "SELECT COUNT(*) FROM schema_migrations"); got != 0 {
		t.Fatalf("migration rows = %d, want 0", got)
	}
}

func TestApplyMigrationsUsesRootInKey(t *testing.T) {
	db := openTestDB(t)
	migrations := fstest.MapFS{
		"sql/001_create.sql": &fstest.MapFile{Data: []byte("CREATE TABLE items(id TEXT PRIMARY KEY);")},
	}
	if err := ApplyMigrations(context.Background(), db, migrations, "sql"); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	var name string
	if err := db.QueryRow("SELECT name FROM schema_migrations").Scan(&name); err != nil {
		t.Fatalf("read migration name: %v", err)
	}
	if name != "sql/001_create.sql" {
		t.Fatalf("name = %q, want %q", name, "sql/001_create.sql")
	}
}

func TestApplyMigrationsRejectsNilInputs(t *testing.T) {
	if err := ApplyMigrations(context.Background(), nil, fstest.MapFS{}, ""); err == nil {
		t.Fatal("expected nil db to be rejected")
	}
	if err := ApplyMigrations(context.Background(), openTestDB(t), nil, ""); err == nil {
		t.Fatal("expected nil fs to be rejected")
	}
}

func TestExtractUpMigration(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "no markers", content: "SELECT 1;", want: "SELECT 1;"},
		{name: "up only", content: "-- +migrate Up\nSELECT 1;", want: "\nSELECT 1;"},
		{name: "up and down", content: "-- +migrate Up\nSELECT 1;\n-- +migrate Down\nSELECT 2;", want: "\nSELECT 1;\n"},
	}
	for _, tc := range tests {
		if got := ExtractUpMigration(tc.content); got != tc.want {
			t.Fatalf("%s: ExtractUpMigration() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestIsAlreadyExistsError(t *testing.T) {
	if IsAlreadyExistsError(nil) {
		t.Fatal("nil error must not be treated as already exists")
	}
	if !IsAlreadyExistsError(errors.New("table items already exists")) {
		t.Fatal("expected already exists match")
	}
	if !IsAlreadyExistsError(errors.New("duplicate column name: bio")) {
		t.Fatal("expected duplicate column match")
	}
	if IsAlreadyExistsError(errors.New("syntax error")) {
		t.Fatal("unexpected match for syntax error")
	}
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", t.TempDir()+"/migrate.db")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func countRows(t *testing.T, db *sql.DB, query string) int64 {
	t.Helper()
	var count int64
	if err := db.QueryRow(query).Scan(&count); err != nil {
		t.Fatalf("query %q: %v", query, err)
	}
	return count
}
