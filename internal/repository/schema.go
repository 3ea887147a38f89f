package repository

import (
	"database/sql"
	"embed"
	"fmt"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// InitSchema applies the embedded migrations in filename order. Every
// statement is idempotent, so startup can run this unconditionally.
func InitSchema(db *sql.DB) error {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		migration, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", entry.Name(), err)
		}

		if _, err := db.Exec(string(migration)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

// Reset drops all rows and restarts the id sequences. Sandbox mode only.
func Reset(db *sql.DB) error {
	_, err := db.Exec(`TRUNCATE transactions, accounts RESTART IDENTITY CASCADE`)
	if err != nil {
		return fmt.Errorf("failed to reset store: %w", err)
	}
	return nil
}

// Seed inserts the demo accounts unless they already exist, then bumps the
// id sequence past the fixed seed ids so generated ids never collide.
func Seed(db *sql.DB) error {
	_, err := db.Exec(`
		INSERT INTO accounts (id, account_type, balance)
		VALUES (1, 'Savings', 1000.00), (2, 'Checking', 2500.50)
		ON CONFLICT (id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to seed accounts: %w", err)
	}

	_, err = db.Exec(`SELECT setval('accounts_id_seq', (SELECT MAX(id) FROM accounts))`)
	if err != nil {
		return fmt.Errorf("failed to advance account id sequence: %w", err)
	}

	return nil
}
