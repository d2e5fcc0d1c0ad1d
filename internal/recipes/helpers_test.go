package recipes

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"stircraft/internal/db"
	"stircraft/models"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(database))
	return New(database)
}

func createUser(t *testing.T, svc *Service, email string) *models.User {
	t.Helper()

	user, err := svc.CreateUser(context.Background(), UserInput{
		Email:        email,
		Name:         strings.Split(email, "@")[0],
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return user
}

type barFixture struct {
	rum, lime, syrup, bitters models.Ingredient
	coupe                     models.Vessel
}

func stockBar(t *testing.T, svc *Service) barFixture {
	t.Helper()
	ctx := context.Background()

	ingredient := func(name string, category models.IngredientCategory, abv float64) models.Ingredient {
		created, err := svc.CreateIngredient(ctx, IngredientInput{Name: name, Category: string(category), AlcoholByVolume: abv})
		require.NoError(t, err)
		return *created
	}

	coupe, err := svc.GetOrCreateVessel(ctx, VesselInput{Name: "Coupe"})
	require.NoError(t, err)

	return barFixture{
		rum:     ingredient("Rum", models.CategorySpirit, 40),
		lime:    ingredient("Lime Juice", models.CategoryMixer, 0),
		syrup:   ingredient("Simple Syrup", models.CategoryMixer, 0),
		bitters: ingredient("Angostura Bitters", models.CategoryOther, 44.7),
		coupe:   *coupe,
	}
}

func row(ingredient models.Ingredient, amount, unit string) ComponentRow {
	return ComponentRow{Ingredient: fmt.Sprint(ingredient.ID), Amount: amount, Unit: unit}
}

func daiquiriRows(bar barFixture) []ComponentRow {
	return []ComponentRow{
		row(bar.rum, "2", "oz"),
		row(bar.lime, "1", "oz"),
		row(bar.syrup, "0.75", "oz"),
	}
}

func daiquiriInput(bar barFixture) CocktailInput {
	return CocktailInput{
		Name:         "Daiquiri",
		Instructions: "Shake with ice and strain into a chilled coupe.",
		VesselID:     bar.coupe.ID,
		Color:        "clear",
	}
}

func creationIDs(t *testing.T, svc *Service, userID uint) []uint {
	t.Helper()
	ctx := context.Background()

	_, creations, err := svc.EnsureSystemLists(ctx, userID)
	require.NoError(t, err)
	cocktails, err := svc.ListCocktails(ctx, creations.ID)
	require.NoError(t, err)

	ids := make([]uint, 0, len(cocktails))
	for _, cocktail := range cocktails {
		ids = append(ids, cocktail.ID)
	}
	return ids
}

func authoredIDs(t *testing.T, svc *Service, userID uint) []uint {
	t.Helper()

	var ids []uint
	require.NoError(t, svc.DB().Model(&models.Cocktail{}).Where("creator_id = ?", userID).Pluck("id", &ids).Error)
	return ids
}

func componentCount(t *testing.T, svc *Service, cocktailID uint) int64 {
	t.Helper()

	var count int64
	require.NoError(t, svc.DB().Model(&models.RecipeComponent{}).Where("cocktail_id = ?", cocktailID).Count(&count).Error)
	return count
}
