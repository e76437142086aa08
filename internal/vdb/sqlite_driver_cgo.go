//go:build cgo

package vdb

import (
	_ "github.com/mattn/go-sqlite3"
)

// sqlDriverName selects the cgo-backed mattn/go-sqlite3 driver, which
// supports loading the sqlite-vec extension for ANN search; see
// sqlite_driver.go for the default pure-Go build.
const sqlDriverName = "sqlite3"
