package db

import (
	"path/filepath"
	"testing"

	"stircraft/internal/config"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestInitializeRequiresURL(t *testing.T) {
	t.Parallel()

	db, err := Initialize(config.DatabaseConfig{URL: ""})
	if err == nil {
		t.Fatal("expected error when database URL is empty")
	}
	if db != nil {
		t.Fatal("expected returned db handle to be nil on error")
	}
}

func TestAutoMigrateRejectsNilDatabase(t *testing.T) {
	t.Parallel()

	if err := AutoMigrate(nil); err == nil {
		t.Fatal("expected error when database handle is nil")
	}
}

func TestAutoMigrateWithSQLite(t *testing.T) {
	t.Parallel()

	sqliteDB, err := gorm.Open(sqlite.Open("file:memdb?mode=memory&cache=shared"), GormConfig(logger.Silent))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}

	if err := AutoMigrate(sqliteDB); err != nil {
		t.Fatalf("automigrate sqlite database: %v", err)
	}

	for _, table := range []string{"users", "ingredients", "vessels", "cocktails", "vibe_tags", "recipe_components", "lists", "list_memberships"} {
		if !sqliteDB.Migrator().HasTable(table) {
			t.Fatalf("expected table %q to exist after migration", table)
		}
	}
}

func TestConfigurePropagatesInitializationError(t *testing.T) {
	t.Parallel()

	if _, err := Configure(config.DatabaseConfig{}); err == nil {
		t.Fatal("expected configuration error when initialize fails")
	}
}

func TestConfigureOpensSQLiteURL(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "stircraft.db")
	database, err := Configure(config.DatabaseConfig{URL: "sqlite://" + path, MaxOpenConns: 10})
	if err != nil {
		t.Fatalf("configure sqlite database: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	if got := sqlDB.Stats().MaxOpenConnections; got != 1 {
		t.Fatalf("expected sqlite pool capped at one connection, got %d", got)
	}
	if !database.Migrator().HasTable("cocktails") {
		t.Fatal("expected schema to be migrated")
	}
}

func TestDialectorSelection(t *testing.T) {
	t.Parallel()

	if _, isSQLite := dialector("sqlite://local.db"); !isSQLite {
		t.Fatal("expected sqlite dialector for sqlite URL")
	}
	if _, isSQLite := dialector("postgres://user@localhost/stircraft"); isSQLite {
		t.Fatal("expected postgres dialector for postgres URL")
	}
}
