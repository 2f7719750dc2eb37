package database

import (
	"log"
	"strings"

	"hotelbooking/internal/domain"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	// Registers the CGO-free "sqlite" database/sql driver.
	_ "modernc.org/sqlite"
)

// Connect opens PostgreSQL for postgres:// DSNs and falls back to the
// CGO-free SQLite driver for everything else (local dev, tests).
func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	log.Println("Using SQLite for local development:", dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}

// Migrate creates/updates the schema for every persisted entity. On
// PostgreSQL it also installs the range exclusion constraint that backstops
// the transactional double-booking check; SQLite has no exclusion
// constraints and relies on the transactional check alone.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Room{},
		&domain.Booking{},
		&domain.RefreshToken{},
		&domain.PasswordReset{},
	); err != nil {
		return err
	}

	if db.Dialector.Name() == "postgres" {
		return migratePostgresConstraints(db)
	}
	return nil
}

// migratePostgresConstraints installs idx_no_double_booking: two
// non-cancelled bookings on one room may never hold intersecting
// [check_in, check_out) ranges, even if a future code path skips the
// row-lock protocol. ADD CONSTRAINT has no IF NOT EXISTS, hence the
// pg_constraint guard.
func migratePostgresConstraints(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return err
	}

	return db.Exec(`
		DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM pg_constraint WHERE conname = 'idx_no_double_booking'
			) THEN
				ALTER TABLE bookings ADD CONSTRAINT idx_no_double_booking
					EXCLUDE USING gist (
						room_id WITH =,
						tsrange(check_in, check_out) WITH &&
					)
					WHERE (status <> 'cancelled');
			END IF;
		END
		$$`).Error
}
