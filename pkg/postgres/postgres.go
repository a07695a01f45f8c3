package postgres

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/dlotsss/brondau-server/config"

	_ "github.com/lib/pq"
)

func NewPostgresDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to PostgreSQL")
	return db, nil
}

func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS restaurants (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			address TEXT,
			photo_url TEXT,
			work_starts TEXT,
			work_ends TEXT,
			layout JSONB NOT NULL DEFAULT '[]',
			floors JSONB,
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS bookings (
			id SERIAL PRIMARY KEY,
			restaurant_id INTEGER REFERENCES restaurants(id),
			table_id VARCHAR(100) NOT NULL,
			table_label VARCHAR(100) NOT NULL,
			guest_name VARCHAR(255) NOT NULL,
			guest_phone VARCHAR(50) NOT NULL,
			guest_email TEXT,
			guest_count INTEGER NOT NULL,
			date_time TIMESTAMPTZ NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
			decline_reason TEXT,
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS push_subscriptions (
			endpoint TEXT PRIMARY KEY,
			chat_id VARCHAR(100) NOT NULL,
			role VARCHAR(20) NOT NULL,
			restaurant_id INTEGER REFERENCES restaurants(id),
			guest_phone VARCHAR(50),
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_bookings_restaurant_id ON bookings(restaurant_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_table ON bookings(restaurant_id, table_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_date_time ON bookings(date_time)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_guest_email ON bookings(guest_email)`,
		`CREATE INDEX IF NOT EXISTS idx_push_subscriptions_role ON push_subscriptions(role, restaurant_id)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration: %v", err)
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}
