// Package repotest opens an in-memory sqlite database for store tests.
package repotest

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Defimaso/Diario362-sub001/internal/repo"
	"github.com/Defimaso/Diario362-sub001/internal/schema"
)

// New returns a migrated client on a private in-memory database.
func New(t testing.TB) *repo.Client {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	// One connection serializes writers; concurrent dispatch deletes would
	// otherwise hit SQLITE_LOCKED.
	sqlDB.SetMaxOpenConns(1)

	client := repo.New(db)
	if err := client.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// Profile inserts a profile with the given roles.
func Profile(t testing.TB, c *repo.Client, email, name string, roles ...string) *schema.Profile {
	t.Helper()
	p := &schema.Profile{Email: email, FullName: name}
	if err := c.Profiles().Create(context.Background(), p); err != nil {
		t.Fatalf("create profile: %v", err)
	}
	for _, r := range roles {
		if err := c.Profiles().AddRole(context.Background(), p.ID, r); err != nil {
			t.Fatalf("add role: %v", err)
		}
	}
	return p
}
