// ABOUTME: database/sql driver registrations available to the store
// ABOUTME: Pure-Go modernc driver by default, cgo mattn driver on request

package store

import (
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

const busyTimeoutMillis = 5000

const (
	// DriverModernc is the pure-Go driver registered by modernc.org/sqlite.
	DriverModernc = "sqlite"

	// DriverCGO is the cgo driver registered by github.com/mattn/go-sqlite3.
	// Binaries built with CGO_ENABLED=0 fail on first use of this driver.
	DriverCGO = "sqlite3"
)

// ValidDriver reports whether name is a driver the store can open.
func ValidDriver(name string) bool {
	return name == DriverModernc || name == DriverCGO
}

// dsn appends the connection pragmas to path in the form driver expects.
// Both drivers apply them to every connection they open, including ones
// database/sql opens after discarding a broken connection.
func dsn(driver, path string) string {
	if driver == DriverCGO {
		return fmt.Sprintf("%s?_foreign_keys=1&_busy_timeout=%d&_journal_mode=WAL", path, busyTimeoutMillis)
	}
	return fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)", path, busyTimeoutMillis)
}
