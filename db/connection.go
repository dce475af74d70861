package db

import (
	"database/sql"
	"fmt"
	"log"

	"josaa-predictor/config"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

var DB *sql.DB

func InitDB() error {
	var err error
	connStr := config.GetDBConnString()

	DB, err = sql.Open("postgres", connStr)
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}

	// Test the connection
	err = DB.Ping()
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}

	// Create tables
	if err := createTables(); err != nil {
		return fmt.Errorf("error creating tables: %w", err)
	}

	// Seed default admin account
	if err := seedAdminUser(); err != nil {
		log.Println("Warning: Error seeding admin user:", err)
	}

	return nil
}

func createTables() error {
	userTable := `
	CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		username TEXT UNIQUE NOT NULL,
		hashed_password TEXT NOT NULL,
		is_active BOOLEAN DEFAULT TRUE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		last_login TIMESTAMP
	);`

	resetTable := `
	CREATE TABLE IF NOT EXISTS password_resets (
		email TEXT PRIMARY KEY,
		token TEXT NOT NULL,
		expires_at TIMESTAMP NOT NULL
	);`

	cutoffTable := `
	CREATE TABLE IF NOT EXISTS cutoffs (
		id SERIAL PRIMARY KEY,
		institute TEXT NOT NULL,
		college_type TEXT NOT NULL,
		location TEXT,
		program TEXT NOT NULL,
		category TEXT NOT NULL,
		opening_rank REAL NOT NULL,
		closing_rank REAL NOT NULL,
		round TEXT NOT NULL,
		year INTEGER DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_cutoffs_category_round ON cutoffs (category, round);
	CREATE INDEX IF NOT EXISTS idx_cutoffs_program ON cutoffs (program);`

	predictionTable := `
	CREATE TABLE IF NOT EXISTS predictions (
		id SERIAL PRIMARY KEY,
		user_id INTEGER,
		jee_rank INTEGER NOT NULL,
		category TEXT NOT NULL,
		college_type TEXT,
		preferred_branch TEXT,
		round TEXT,
		min_probability REAL DEFAULT 0,
		result_count INTEGER DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,

		CONSTRAINT fk_user
			FOREIGN KEY (user_id)
			REFERENCES users(id)
			ON DELETE SET NULL
	);`

	dlqTable := `
	CREATE TABLE IF NOT EXISTS dlq_messages (
		id SERIAL PRIMARY KEY,
		message_id UUID UNIQUE,
		topic TEXT,
		key TEXT,
		value JSONB,
		error_message TEXT,
		retry_count INTEGER DEFAULT 0,
		max_retries INTEGER DEFAULT 5,
		resolved BOOLEAN DEFAULT FALSE,
		notes TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		last_retry_at TIMESTAMP,
		resolved_at TIMESTAMP
	);`

	// Users first so predictions can reference it
	if _, err := DB.Exec(userTable); err != nil {
		return fmt.Errorf("error creating users table: %w", err)
	}

	if _, err := DB.Exec(resetTable); err != nil {
		return fmt.Errorf("error creating password_resets table: %w", err)
	}

	if _, err := DB.Exec(cutoffTable); err != nil {
		return fmt.Errorf("error creating cutoffs table: %w", err)
	}

	if _, err := DB.Exec(predictionTable); err != nil {
		return fmt.Errorf("error creating predictions table: %w", err)
	}

	if _, err := DB.Exec(dlqTable); err != nil {
		return fmt.Errorf("error creating dlq_messages table: %w", err)
	}

	return nil
}

// seedAdminUser creates the default admin account when none exists yet
func seedAdminUser() error {
	var existingID int
	err := DB.QueryRow(`SELECT id FROM users WHERE username = 'admin'`).Scan(&existingID)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(config.AppConfig.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("error hashing admin password: %w", err)
	}

	_, err = DB.Exec(
		`INSERT INTO users (email, username, hashed_password) VALUES ($1, 'admin', $2)`,
		config.AppConfig.AdminEmail, string(hash),
	)
	if err != nil {
		return err
	}

	log.Println("Default admin user created")
	return nil
}
