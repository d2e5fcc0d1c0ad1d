package recipes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/gorm"

	"stircraft/models"
)

// IngredientInput describes a catalog entry to create.
type IngredientInput struct {
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	AlcoholByVolume float64 `json:"alcohol_by_volume"`
	Source          string  `json:"-"`
}

func (in IngredientInput) normalized() IngredientInput {
	in.Name = strings.Join(strings.Fields(in.Name), " ")
	in.Category = strings.ToLower(strings.TrimSpace(in.Category))
	if in.Category == "" {
		in.Category = string(models.CategoryOther)
	}
	if in.Source == "" {
		in.Source = models.SourceUser
	}
	return in
}

func (in IngredientInput) Validate() error {
	categories := make([]interface{}, 0, len(models.IngredientCategories))
	for _, category := range models.IngredientCategories {
		categories = append(categories, string(category))
	}
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name,
			validation.Required.Error("name is required"),
			validation.RuneLength(1, 120).Error("name must be at most 120 characters"),
		),
		validation.Field(&in.Category,
			validation.In(categories...).Error("choose a valid category"),
		),
		validation.Field(&in.AlcoholByVolume,
			validation.Min(0.0).Error("alcohol by volume cannot be negative"),
			validation.Max(100.0).Error("alcohol by volume cannot exceed 100"),
		),
	)
}

func duplicateIngredient(existing models.Ingredient) *ValidationError {
	return &ValidationError{
		Fields:     map[string]string{"name": fmt.Sprintf("%q is already in the catalog", existing.Name)},
		ConflictID: existing.ID,
	}
}

// CreateIngredient adds a catalog entry. Names are unique regardless of case;
// a duplicate, including one that wins a concurrent insert, is reported as a
// ValidationError whose ConflictID points at the existing entry.
func (s *Service) CreateIngredient(ctx context.Context, input IngredientInput) (*models.Ingredient, error) {
	input = input.normalized()
	if err := fromValidation(input.Validate()); err != nil {
		return nil, err
	}

	db := s.conn(ctx)
	key := models.NameKey(input.Name)

	var existing models.Ingredient
	err := db.Where("name_key = ?", key).First(&existing).Error
	if err == nil {
		return nil, duplicateIngredient(existing)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check ingredient name: %w", err)
	}

	ingredient := &models.Ingredient{
		Name:            input.Name,
		Category:        models.IngredientCategory(input.Category),
		AlcoholByVolume: input.AlcoholByVolume,
		Source:          input.Source,
	}
	if err := db.Create(ingredient).Error; err != nil {
		if isUniqueViolation(err) {
			if lookupErr := s.conn(ctx).Where("name_key = ?", key).First(&existing).Error; lookupErr == nil {
				return nil, duplicateIngredient(existing)
			}
			return nil, fieldError("name", fmt.Sprintf("%q is already in the catalog", input.Name))
		}
		return nil, fmt.Errorf("create ingredient: %w", err)
	}

	return ingredient, nil
}

// GetOrCreateIngredient returns the catalog entry matching input's name, adding
// it when missing. The boolean reports whether a new row was written.
func (s *Service) GetOrCreateIngredient(ctx context.Context, input IngredientInput) (*models.Ingredient, bool, error) {
	ingredient, err := s.CreateIngredient(ctx, input)
	if err == nil {
		return ingredient, true, nil
	}
	verr, ok := AsValidation(err)
	if !ok || verr.ConflictID == 0 {
		return nil, false, err
	}
	existing, err := s.GetIngredient(ctx, verr.ConflictID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// ListIngredients returns catalog entries whose name contains query, ordered by name.
func (s *Service) ListIngredients(ctx context.Context, query string) ([]models.Ingredient, error) {
	db := s.conn(ctx).Order("name_key ASC")
	if key := models.NameKey(query); key != "" {
		db = db.Where("name_key LIKE ?", "%"+key+"%")
	}

	var ingredients []models.Ingredient
	if err := db.Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	return ingredients, nil
}

func (s *Service) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.conn(ctx).First(&ingredient, id).Error; err != nil {
		return nil, lookupError(err, "ingredient", id)
	}
	return &ingredient, nil
}

// DeleteIngredient removes an entry that no recipe component references.
func (s *Service) DeleteIngredient(ctx context.Context, id uint) error {
	return s.Transaction(ctx, func(tx *Service) error {
		ingredient, err := tx.GetIngredient(ctx, id)
		if err != nil {
			return err
		}

		var references int64
		if err := tx.db.Model(&models.RecipeComponent{}).Where("ingredient_id = ?", id).Count(&references).Error; err != nil {
			return fmt.Errorf("count ingredient references: %w", err)
		}
		if references > 0 {
			return fieldError("ingredient", fmt.Sprintf("%q is used by %d recipe components", ingredient.Name, references))
		}

		if err := tx.db.Unscoped().Delete(&models.Ingredient{}, id).Error; err != nil {
			return fmt.Errorf("delete ingredient: %w", err)
		}
		return nil
	})
}
