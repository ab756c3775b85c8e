// ABOUTME: Table definitions for the health store
// ABOUTME: Created idempotently on every Initialize

package store

import (
	"context"
	"database/sql"
)

// Table names.
const (
	tableUsers        = "Users"
	tableFoodEntries  = "FoodEntries"
	tableBloodGlucose = "BloodGlucose"
	tableMedications  = "Medications"
	tableChatMessages = "ChatMessages"
)

// Tables lists every table the store creates.
var Tables = []string{
	tableUsers,
	tableFoodEntries,
	tableBloodGlucose,
	tableMedications,
	tableChatMessages,
}

// Dependent records cascade when their user is deleted.
const schema = `
	CREATE TABLE IF NOT EXISTS Users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL,
		phone TEXT,
		password_hash TEXT NOT NULL,
		created_at TEXT NOT NULL,
		birthday TEXT,
		gender INTEGER NOT NULL DEFAULT 0,
		height REAL NOT NULL DEFAULT 0,
		diabetes_type INTEGER NOT NULL DEFAULT 0,
		diagnosis_date TEXT,
		treatment_plan INTEGER NOT NULL DEFAULT 0,
		target_weight REAL,
		target_hba1c REAL,
		target_calories REAL,
		target_carbohydrates REAL
	);

	CREATE TABLE IF NOT EXISTS FoodEntries (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES Users(id) ON DELETE CASCADE,
		created_at TEXT NOT NULL,
		meal_type INTEGER NOT NULL,
		meal_time TEXT NOT NULL,
		food_name TEXT NOT NULL,
		quantity REAL NOT NULL,
		calories REAL NOT NULL,
		carbohydrates REAL NOT NULL,
		protein REAL NOT NULL,
		fat REAL NOT NULL,
		gi REAL,
		gl REAL,
		source INTEGER NOT NULL DEFAULT 0,
		image_path TEXT,
		notes TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_food_entries_user_created
		ON FoodEntries(user_id, created_at);

	CREATE TABLE IF NOT EXISTS BloodGlucose (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES Users(id) ON DELETE CASCADE,
		created_at TEXT NOT NULL,
		value REAL NOT NULL,
		measurement_time INTEGER NOT NULL,
		measurement_time_exact TEXT,
		before_meal_glucose REAL,
		after_meal_glucose REAL,
		related_meal INTEGER,
		notes TEXT,
		device_name TEXT,
		device_serial TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_blood_glucose_user_created
		ON BloodGlucose(user_id, created_at);

	CREATE TABLE IF NOT EXISTS Medications (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES Users(id) ON DELETE CASCADE,
		created_at TEXT NOT NULL,
		drug_name TEXT NOT NULL,
		type INTEGER NOT NULL,
		dose REAL NOT NULL,
		unit TEXT NOT NULL,
		timing INTEGER NOT NULL,
		insulin_type INTEGER,
		insulin_duration INTEGER,
		scheduled_time TEXT NOT NULL,
		actual_time TEXT,
		is_taken INTEGER NOT NULL DEFAULT 0,
		notes TEXT,

		CHECK (is_taken IN (0, 1))
	);

	CREATE INDEX IF NOT EXISTS idx_medications_user_created
		ON Medications(user_id, created_at);

	CREATE TABLE IF NOT EXISTS ChatMessages (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES Users(id) ON DELETE CASCADE,
		created_at TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		model TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_chat_messages_user_created
		ON ChatMessages(user_id, created_at);
`

// createSchema creates the database tables if they don't exist
func createSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
