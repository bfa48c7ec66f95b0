package database

import (
	"fmt"
	"io/fs"
	"log"
	"sort"
	"strconv"
	"strings"
)

// MigrationFile represents a migration file with its metadata
type MigrationFile struct {
	FileName    string
	Version     int
	Description string
}

// parseMigrationFileName parses a migration file name to extract metadata.
// Expected format: 0001_description.sql
func parseMigrationFileName(fileName string) (*MigrationFile, error) {
	if !strings.HasSuffix(fileName, ".sql") {
		return nil, fmt.Errorf("migration file must have .sql extension: %s", fileName)
	}

	name := strings.TrimSuffix(fileName, ".sql")
	parts := strings.SplitN(name, "_", 2)
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid migration file name format: %s (expected format: 0001_description.sql)", fileName)
	}

	version, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid version number in migration file: %s", fileName)
	}

	return &MigrationFile{
		FileName:    fileName,
		Version:     version,
		Description: parts[1],
	}, nil
}

// getMigrationFiles reads and parses all migration files from the embedded filesystem
func getMigrationFiles() ([]*MigrationFile, error) {
	files, err := fs.ReadDir(EmbeddedMigrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded migrations directory: %w", err)
	}

	var migrations []*MigrationFile
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".sql") {
			continue
		}
		migration, err := parseMigrationFileName(f.Name())
		if err != nil {
			log.Printf("Warning: skipping invalid migration file %s: %v", f.Name(), err)
			continue
		}
		migrations = append(migrations, migration)
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

// Migrate applies all pending database migrations
func (db *Database) Migrate() error {
	// Ensure the migration tracking table exists
	_, err := db.mainDB.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		description TEXT NOT NULL,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	applied, err := db.appliedMigrations()
	if err != nil {
		return err
	}

	migrations, err := getMigrationFiles()
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}

		content, err := fs.ReadFile(EmbeddedMigrationsFS, "migrations/"+m.FileName)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", m.FileName, err)
		}

		if _, err := db.mainDB.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", m.FileName, err)
		}

		if _, err := db.mainDB.Exec(
			`INSERT INTO schema_migrations (version, description) VALUES (?, ?)`,
			m.Version, m.Description,
		); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", m.FileName, err)
		}
		log.Printf("Applied migration %04d_%s", m.Version, m.Description)
	}

	return nil
}

// appliedMigrations returns the set of migration versions already applied
func (db *Database) appliedMigrations() (map[int]bool, error) {
	rows, err := db.mainDB.Query(`SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed to query schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}
