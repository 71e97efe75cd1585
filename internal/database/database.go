package database

import (
	"database/sql"

	_ "modernc.org/sqlite" // SQLite driver
)

// New creates a new database connection pool.
func New(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dataSourceName+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate runs the SQL statements to set up the database schema.
// Username and college uniqueness is enforced here so that a concurrent
// insert racing past the service-level pre-check still fails cleanly.
func Migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS admins (
		id TEXT NOT NULL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		college_unique_id TEXT UNIQUE,
		-- Store list fields as JSON text
		courses_offered_json TEXT,
		programs_offered_json TEXT,
		classroom_occupancy INTEGER NOT NULL DEFAULT 0,
		lab_occupancy INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS teachers (
		id TEXT NOT NULL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		name TEXT NOT NULL,
		experience INTEGER NOT NULL,
		department TEXT NOT NULL,
		working_hour INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS students (
		id TEXT NOT NULL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		age INTEGER NOT NULL,
		gender TEXT NOT NULL,
		program TEXT NOT NULL,
		feedback TEXT,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS courses (
		id TEXT NOT NULL PRIMARY KEY,
		course_name TEXT NOT NULL,
		course_code TEXT NOT NULL,
		description TEXT NOT NULL,
		credits INTEGER NOT NULL,
		instructor TEXT NOT NULL REFERENCES teachers(id),
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS selected_courses (
		id TEXT NOT NULL PRIMARY KEY,
		student_id TEXT NOT NULL REFERENCES students(id),
		major1 TEXT NOT NULL,
		major2 TEXT NOT NULL,
		minor1 TEXT NOT NULL,
		minor2 TEXT NOT NULL,
		lab1 TEXT NOT NULL,
		lab2 TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	`
	_, err := db.Exec(sqlStmt)
	return err
}
