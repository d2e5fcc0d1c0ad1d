package mock

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"stircraft/models"
)

func TestNewSeedsExpectedRecords(t *testing.T) {
	ctx := context.Background()
	db, err := New(ctx)
	if err != nil {
		t.Fatalf("mock database initialization failed: %v", err)
	}

	var cocktails []models.Cocktail
	if err := db.WithContext(ctx).Preload("Components").Find(&cocktails).Error; err != nil {
		t.Fatalf("query cocktails: %v", err)
	}
	if len(cocktails) != len(seedCocktails) {
		t.Fatalf("expected %d seeded cocktails, got %d", len(seedCocktails), len(cocktails))
	}
	for _, cocktail := range cocktails {
		if len(cocktail.Components) == 0 {
			t.Fatalf("expected components for %s", cocktail.Name)
		}
	}

	var user models.User
	if err := db.WithContext(ctx).Where("email = ?", "alice@stircraft.local").First(&user).Error; err != nil {
		t.Fatalf("query user: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(Password)); err != nil {
		t.Fatalf("unexpected password hash: %v", err)
	}

	var creations models.List
	if err := db.WithContext(ctx).Where("owner_id = ? AND kind = ?", user.ID, models.ListCreations).First(&creations).Error; err != nil {
		t.Fatalf("query creations list: %v", err)
	}
	var members int64
	if err := db.WithContext(ctx).Model(&models.ListMembership{}).Where("list_id = ?", creations.ID).Count(&members).Error; err != nil {
		t.Fatalf("count creations: %v", err)
	}
	if members != 2 {
		t.Fatalf("expected alice's two creations in her list, got %d", members)
	}
}

func TestNewIsIdempotent(t *testing.T) {
	ctx := context.Background()
	if _, err := New(ctx); err != nil {
		t.Fatalf("first initialization failed: %v", err)
	}
	db, err := New(ctx)
	if err != nil {
		t.Fatalf("second initialization failed: %v", err)
	}

	var users int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&users).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if users != 2 {
		t.Fatalf("expected 2 seeded users, got %d", users)
	}
}
