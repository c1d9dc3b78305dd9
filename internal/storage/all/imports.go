// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) causes the init functions of each concrete storage backend to run,
// which in turn register their factories with the storage package.
//
// In other words, importing this package makes the following storage kinds
// available at runtime:
//
//   - "duckdb"   (filmsurvey/internal/storage/duckdb)
//   - "sqlite"   (filmsurvey/internal/storage/sqlite)
//   - "postgres" (filmsurvey/internal/storage/postgres)
//
// Binaries that should support only a subset of backends can blank-import
// the individual backend packages instead.
package all

import (
	_ "filmsurvey/internal/storage/duckdb"
	_ "filmsurvey/internal/storage/postgres"
	_ "filmsurvey/internal/storage/sqlite"
)
