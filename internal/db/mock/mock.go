package mock

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	appdb "stircraft/internal/db"
	applog "stircraft/internal/log"
	"stircraft/internal/recipes"
	"stircraft/models"
)

// Password is shared by every seeded account.
const Password = "stircraft"

type seedComponent struct {
	ingredient string
	amount     string
	unit       string
	note       string
}

type seedCocktail struct {
	owner        string
	name         string
	vessel       string
	color        models.Color
	instructions string
	tags         []string
	components   []seedComponent
}

var seedIngredients = []recipes.IngredientInput{
	{Name: "White Rum", Category: string(models.CategorySpirit), AlcoholByVolume: 40},
	{Name: "London Dry Gin", Category: string(models.CategorySpirit), AlcoholByVolume: 47},
	{Name: "Campari", Category: string(models.CategoryLiqueur), AlcoholByVolume: 25},
	{Name: "Sweet Vermouth", Category: string(models.CategoryLiqueur), AlcoholByVolume: 16},
	{Name: "Lime Juice", Category: string(models.CategoryMixer)},
	{Name: "Simple Syrup", Category: string(models.CategoryMixer)},
	{Name: "Soda Water", Category: string(models.CategoryMixer)},
	{Name: "Mint", Category: string(models.CategoryGarnish)},
	{Name: "Orange Peel", Category: string(models.CategoryGarnish)},
}

var seedVessels = []recipes.VesselInput{
	{Name: "Coupe", Description: "Stemmed glass for drinks served up."},
	{Name: "Rocks", Description: "Short tumbler for drinks on ice."},
	{Name: "Highball", Description: "Tall glass for long drinks."},
}

var seedCocktails = []seedCocktail{
	{
		owner:        "alice@stircraft.local",
		name:         "Daiquiri",
		vessel:       "Coupe",
		color:        models.ColorWhite,
		instructions: "Shake with ice and fine strain into a chilled coupe.",
		tags:         []string{"sour", "classic"},
		components: []seedComponent{
			{ingredient: "White Rum", amount: "2", unit: "oz"},
			{ingredient: "Lime Juice", amount: "1", unit: "oz"},
			{ingredient: "Simple Syrup", amount: "0.75", unit: "oz"},
		},
	},
	{
		owner:        "alice@stircraft.local",
		name:         "Negroni",
		vessel:       "Rocks",
		color:        models.ColorRed,
		instructions: "Stir with ice and strain over a large cube.",
		tags:         []string{"bitter", "stirred"},
		components: []seedComponent{
			{ingredient: "London Dry Gin", amount: "1", unit: "oz"},
			{ingredient: "Campari", amount: "1", unit: "oz"},
			{ingredient: "Sweet Vermouth", amount: "1", unit: "oz"},
			{ingredient: "Orange Peel", amount: "1", unit: "piece", note: "expressed"},
		},
	},
	{
		owner:        "bob@stircraft.local",
		name:         "Mojito",
		vessel:       "Highball",
		color:        models.ColorGreen,
		instructions: "Muddle mint with syrup and lime, add rum and ice, top with soda.",
		tags:         []string{"refreshing"},
		components: []seedComponent{
			{ingredient: "White Rum", amount: "2", unit: "oz"},
			{ingredient: "Lime Juice", amount: "0.75", unit: "oz"},
			{ingredient: "Simple Syrup", amount: "0.5", unit: "oz"},
			{ingredient: "Mint", amount: "8", unit: "piece", note: "leaves"},
			{ingredient: "Soda Water", amount: "2", unit: "oz"},
		},
	},
}

// New returns an in-memory sqlite database seeded with a small bar: two
// accounts, a handful of ingredients and vessels, and a few cocktails.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	db, err := gorm.Open(sqlite.Open("file:stircraft-mock?mode=memory&cache=shared"), appdb.GormConfig(logger.Silent))
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := appdb.AutoMigrate(db); err != nil {
		return nil, err
	}

	if err := seed(ctx, recipes.New(db)); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return db, nil
}

func seed(ctx context.Context, svc *recipes.Service) error {
	applog.Debug(ctx, "seeding mock database")

	var existing int64
	if err := svc.DB().WithContext(ctx).Model(&models.User{}).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		applog.Debug(ctx, "mock database already seeded")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := make(map[string]uint)
	for _, input := range []recipes.UserInput{
		{Email: "alice@stircraft.local", Name: "Alice", IsStaff: true},
		{Email: "bob@stircraft.local", Name: "Bob"},
	} {
		input.PasswordHash = string(hash)
		user, err := svc.CreateUser(ctx, input)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", input.Email, err)
		}
		users[user.Email] = user.ID
	}

	ingredients := make(map[string]uint)
	for _, input := range seedIngredients {
		ingredient, _, err := svc.GetOrCreateIngredient(ctx, input)
		if err != nil {
			return fmt.Errorf("seed ingredient %s: %w", input.Name, err)
		}
		ingredients[input.Name] = ingredient.ID
	}

	vessels := make(map[string]uint)
	for _, input := range seedVessels {
		vessel, err := svc.GetOrCreateVessel(ctx, input)
		if err != nil {
			return fmt.Errorf("seed vessel %s: %w", input.Name, err)
		}
		vessels[input.Name] = vessel.ID
	}

	alcoholic := true
	for _, c := range seedCocktails {
		rows := make([]recipes.ComponentRow, 0, len(c.components))
		for i, component := range c.components {
			rows = append(rows, recipes.ComponentRow{
				RowKey:     "seed-" + strconv.Itoa(i),
				Ingredient: strconv.FormatUint(uint64(ingredients[component.ingredient]), 10),
				Amount:     component.amount,
				Unit:       component.unit,
				Note:       component.note,
				Order:      strconv.Itoa(i),
			})
		}
		input := recipes.CocktailInput{
			Name:         c.name,
			Instructions: c.instructions,
			VesselID:     vessels[c.vessel],
			IsAlcoholic:  &alcoholic,
			Color:        string(c.color),
			Tags:         c.tags,
		}
		if _, err := svc.SaveCocktail(ctx, users[c.owner], 0, input, rows); err != nil {
			return fmt.Errorf("seed cocktail %s: %w", c.name, err)
		}
	}

	applog.Debug(ctx, "mock database seeded")
	return nil
}
