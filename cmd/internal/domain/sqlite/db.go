package sqlite

import (
	"log"
	"os"
	"strings"
	"time"

	"notetaker/cmd/internal/domain/entity"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// foreignKeysPragma turns on FK enforcement so ON DELETE CASCADE/SET NULL apply.
const foreignKeysPragma = "_pragma=foreign_keys(1)"

// Init opens (or creates) the database at 'path' and migrates the schema.
// Use ":memory:" for a throwaway database.
func Init(path string) (*gorm.DB, error) {
	dbLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(withPragmas(path)), &gorm.Config{
		Logger: dbLogger,
		// Driver errors such as UNIQUE violations come back as gorm.ErrDuplicatedKey
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&entity.User{},
		&entity.Category{},
		&entity.Note{},
		&entity.BlacklistedToken{},
	)
	if err != nil {
		return nil, err
	}

	// SQLite serializes writers anyway; a single connection also keeps
	// in-memory databases alive for the lifetime of the pool.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	return db, nil
}

func withPragmas(path string) string {
	if strings.Contains(path, "?") {
		return path + "&" + foreignKeysPragma
	}
	return path + "?" + foreignKeysPragma
}
