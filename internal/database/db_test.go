package database

import (
	"path/filepath"
	"testing"
)

func TestMySQLDSN(t *testing.T) {
	cases := []struct {
		pass string
		want string
	}{
		{"", "app@tcp(db:3306)/tickets?charset=utf8mb4&parseTime=true&loc=UTC"},
		{"pw", "app:pw@tcp(db:3306)/tickets?charset=utf8mb4&parseTime=true&loc=UTC"},
	}
	for _, tc := range cases {
		if got := MySQLDSN("app", tc.pass, "db", "3306", "tickets"); got != tc.want {
			t.Errorf("MySQLDSN(pass=%q) = %q, want %q", tc.pass, got, tc.want)
		}
	}
}

func TestOpenSQLiteCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "ticketing.db")
	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer db.Close()
	var n int
	if err := db.Get(&n, "SELECT 1"); err != nil || n != 1 {
		t.Fatalf("SELECT 1: n=%d err=%v", n, err)
	}
}
