package testsupport

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// NewSQLiteMemoryDB opens a named in-memory database. Connections opened with
// the same name share data, distinct names are isolated.
func NewSQLiteMemoryDB(name string) (*sql.DB, error) {
	if name == "" {
		name = "testsupport"
	}
	return sql.Open("sqlite3", "file:"+name+"?mode=memory&cache=shared")
}
