// Package store provides on-device persistence for VitaNote health records
// using SQLite.
//
// # Architecture
//
// HealthStore is the single interface callers use. SQLiteStore implements it
// on one database file; MockStore implements it in memory for handler tests.
//
// Record kinds:
//
//   - User: account and diabetes profile, unique by email
//   - FoodEntry: logged food with macros
//   - BloodGlucose: glucose readings
//   - Medication: scheduled doses with a taken flag
//   - ChatMessage: assistant conversation log
//
// Every non-user record references a User. Deleting a user cascades to all
// of its records.
//
// # Storage Location
//
// Initialize picks the database directory in this order:
//
//  1. the DirResolver given with WithDirResolver
//  2. the platform local data directory, under VitaNote/
//  3. ./data
//
// The file inside it is vitanote.db unless WithFileName says otherwise.
// WithPath skips resolution entirely.
//
// # SQLite Configuration
//
// All access goes through a single connection with:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//	PRAGMA busy_timeout=5000;
//
// The pure-Go modernc.org/sqlite driver is the default. DriverCGO selects
// mattn/go-sqlite3 in cgo builds.
//
// # Range Queries
//
// ListFoodEntries, ListBloodGlucose and ListMedications return records with
// StartDate <= created_at < EndDate, newest first, one page at a time.
// Timestamps are compared as strings, so callers must use TimestampLayout
// or another layout whose lexical order is chronological.
//
// # Error Handling
//
// Every failure is a *Error with one of these kinds:
//
//   - ErrStorageUnavailable: directory, file or connection failure
//   - ErrConstraintViolation: duplicate id or email, unknown user, invalid field
//   - ErrQuery: anything else the engine rejects
//   - ErrNotFound: UpdateUser or MarkMedicationTaken on an unknown id
//
// Point lookups return (nil, nil) for a missing row. Deletes of unknown ids
// succeed.
package store
