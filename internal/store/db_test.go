package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"launch-dashboard/internal/model"
)

func seedDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "launches.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE launches ("Launch Site" TEXT, "Payload Mass (kg)" REAL, "Booster Version Category" TEXT, "class" INTEGER)`,
		`INSERT INTO launches VALUES ('A', 500, 'v1.0', 1)`,
		`INSERT INTO launches VALUES ('A', 2000, 'FT', 0)`,
		`INSERT INTO launches VALUES ('B', 1500, 'B4', 1)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("exec %q: %v", s, err)
		}
	}
	return path
}

func TestReadTablePreservesOrder(t *testing.T) {
	s, err := OpenReadOnly(seedDB(t))
	if err != nil {
		t.Fatalf("open read-only: %v", err)
	}
	defer s.Close()

	var got []model.GenericRecord
	err = s.ReadTable(context.Background(), "launches", func(rec model.GenericRecord) error {
		got = append(got, rec)
		return nil
	})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got))
	}
	if got[0]["Launch Site"] != "A" || got[2]["Launch Site"] != "B" {
		t.Fatalf("rows out of order: %v", got)
	}
	if got[1]["class"] != 0 {
		t.Fatalf("integer column not converted: %#v", got[1]["class"])
	}
	if got[0]["Payload Mass (kg)"] != float64(500) {
		t.Fatalf("real column mismatch: %#v", got[0]["Payload Mass (kg)"])
	}
}

func TestReadTableStopsOnCallbackError(t *testing.T) {
	s, err := OpenReadOnly(seedDB(t))
	if err != nil {
		t.Fatalf("open read-only: %v", err)
	}
	defer s.Close()

	stop := errors.New("stop")
	n := 0
	err = s.ReadTable(context.Background(), "launches", func(model.GenericRecord) error {
		n++
		return stop
	})
	if !errors.Is(err, stop) || n != 1 {
		t.Fatalf("expected early stop, got err=%v n=%d", err, n)
	}
}

func TestColumns(t *testing.T) {
	s, err := OpenReadOnly(seedDB(t))
	if err != nil {
		t.Fatalf("open read-only: %v", err)
	}
	defer s.Close()

	cols, err := s.Columns(context.Background(), "launches")
	if err != nil {
		t.Fatalf("columns: %v", err)
	}
	if len(cols) != 4 || cols[1] != "Payload Mass (kg)" {
		t.Fatalf("unexpected columns %v", cols)
	}
}

func TestReadOnlyRejectsWrites(t *testing.T) {
	s, err := OpenReadOnly(seedDB(t))
	if err != nil {
		t.Fatalf("open read-only: %v", err)
	}
	defer s.Close()

	if _, err := s.db.Exec(`DELETE FROM launches`); err == nil {
		t.Fatalf("expected write to fail on read-only store")
	}
}

func TestOpenMissingTable(t *testing.T) {
	s, err := OpenReadOnly(seedDB(t))
	if err != nil {
		t.Fatalf("open read-only: %v", err)
	}
	defer s.Close()

	err = s.ReadTable(context.Background(), "nope", func(model.GenericRecord) error { return nil })
	if err == nil {
		t.Fatalf("expected error for missing table")
	}
}
