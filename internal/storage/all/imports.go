// Package all wires every built-in dialect into the storage registry.
//
// It exists for its side effects: importing it runs the init functions of
// the dialect packages, which register themselves with storage.Register.
// After that the following db.driver values are accepted:
//
//   - "mysql"    (rosteretl/internal/storage/mysql)
//   - "postgres" (rosteretl/internal/storage/postgres)
//   - "mssql"    (rosteretl/internal/storage/mssql)
//   - "sqlite"   (rosteretl/internal/storage/sqlite)
//
// A binary that needs fewer backends can import the dialect packages it
// wants directly instead of this package.
package all

import (
	_ "rosteretl/internal/storage/mssql"
	_ "rosteretl/internal/storage/mysql"
	_ "rosteretl/internal/storage/postgres"
	_ "rosteretl/internal/storage/sqlite"
)
