package db

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"stircraft/internal/config"
	"stircraft/models"
)

const sqlitePrefix = "sqlite://"

// GormConfig returns the gorm settings shared by every connection the
// application opens, including the sqlite databases used by the mock and tests.
func GormConfig(level logger.LogLevel) *gorm.Config {
	return &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(level),
		NamingStrategy: schema.NamingStrategy{
			SingularTable: false,
		},
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		DisableForeignKeyConstraintWhenMigrating: true,
	}
}

// dialector picks the driver from the URL. "sqlite://path" opens a local
// sqlite file; anything else is handed to postgres.
func dialector(url string) (gorm.Dialector, bool) {
	if path, ok := strings.CutPrefix(url, sqlitePrefix); ok {
		return sqlite.Open(path), true
	}
	return postgres.Open(url), false
}

// Initialize opens the database and applies the pool settings.
func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		return nil, fmt.Errorf("database URL must not be empty")
	}

	dial, isSQLite := dialector(url)
	db, err := gorm.Open(dial, GormConfig(logger.Warn))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}

	// sqlite serialises writers; one connection avoids SQLITE_BUSY.
	if isSQLite {
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	return db, nil
}

// Models lists every table the application owns, in migration order.
func Models() []any {
	return []any{
		&models.User{},
		&models.Ingredient{},
		&models.Vessel{},
		&models.Cocktail{},
		&models.VibeTag{},
		&models.RecipeComponent{},
		&models.List{},
		&models.ListMembership{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database handle is nil")
	}

	return db.AutoMigrate(Models()...)
}

// Configure opens the database and migrates the schema.
func Configure(cfg config.DatabaseConfig) (*gorm.DB, error) {
	database, err := Initialize(cfg)
	if err != nil {
		return nil, err
	}

	if err := AutoMigrate(database); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return database, nil
}
