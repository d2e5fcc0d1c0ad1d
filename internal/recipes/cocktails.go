package recipes

import (
	"context"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stircraft/models"
)

// CocktailInput carries the cocktail fields of the create/edit form.
type CocktailInput struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Instructions string   `json:"instructions"`
	VesselID     uint     `json:"vessel"`
	IsAlcoholic  *bool    `json:"is_alcoholic"`
	Color        string   `json:"color"`
	ImageURL     string   `json:"image_url"`
	Tags         []string `json:"tags"`
	Source       string   `json:"-"`
	ExternalID   string   `json:"-"`
}

func (in CocktailInput) normalized() CocktailInput {
	in.Name = strings.Join(strings.Fields(in.Name), " ")
	in.Description = strings.TrimSpace(in.Description)
	in.Instructions = strings.TrimSpace(in.Instructions)
	in.Color = strings.ToLower(strings.TrimSpace(in.Color))
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.ExternalID = strings.TrimSpace(in.ExternalID)
	in.Tags = normalizeTags(in.Tags)
	if in.Source == "" {
		in.Source = models.SourceUser
	}
	return in
}

func (in CocktailInput) Validate() error {
	colors := make([]interface{}, 0, len(models.Colors))
	for _, color := range models.Colors {
		colors = append(colors, string(color))
	}
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name,
			validation.Required.Error("name is required"),
			validation.RuneLength(1, 120).Error("name must be at most 120 characters"),
		),
		validation.Field(&in.Instructions,
			validation.Required.Error("instructions are required"),
		),
		validation.Field(&in.Color,
			validation.In(colors...).Error("choose a valid color"),
		),
		validation.Field(&in.ImageURL,
			is.URL.Error("image must be a valid URL"),
		),
	)
}

// normalizeTags lower-cases labels, drops blanks and removes duplicates while
// keeping first-seen order.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		label := strings.ToLower(strings.Join(strings.Fields(tag), " "))
		if label == "" {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	return out
}

// ParseTags splits a comma separated tag field.
func ParseTags(raw string) []string {
	return normalizeTags(strings.Split(raw, ","))
}

// SaveCocktail creates (cocktailID == 0) or updates a cocktail together with
// its components and tags in one transaction. A new cocktail joins its
// creator's "Your Creations" list inside the same transaction.
func (s *Service) SaveCocktail(ctx context.Context, actorID, cocktailID uint, input CocktailInput, rows []ComponentRow) (*models.Cocktail, error) {
	var savedID uint
	err := s.Transaction(ctx, func(tx *Service) error {
		cocktail, err := tx.loadForSave(ctx, actorID, cocktailID, input)
		if err != nil {
			return err
		}

		input = input.normalized()
		drafts, formsetErr := normalizeComponents(rows)
		if err := mergeValidation(fromValidation(input.Validate()), formsetErr); err != nil {
			return err
		}

		if input.VesselID != 0 {
			if _, err := tx.GetVessel(ctx, input.VesselID); err != nil {
				return err
			}
		}
		ingredients, err := tx.loadIngredients(ctx, drafts)
		if err != nil {
			return err
		}

		if err := tx.checkCocktailName(ctx, cocktail.CreatorID, cocktail.ID, input.Name); err != nil {
			return err
		}

		applyCocktailInput(cocktail, input, drafts, ingredients)

		creating := cocktail.ID == 0
		if creating {
			err = tx.db.Omit(clause.Associations).Create(cocktail).Error
		} else {
			err = tx.db.Omit(clause.Associations).Save(cocktail).Error
		}
		if err != nil {
			if isUniqueViolation(err) {
				return fieldError("name", fmt.Sprintf("you already have a cocktail named %q", input.Name))
			}
			return fmt.Errorf("save cocktail: %w", err)
		}

		if err := tx.replaceComponents(ctx, cocktail.ID, drafts); err != nil {
			return err
		}
		if err := tx.replaceTags(ctx, cocktail.ID, input.Tags); err != nil {
			return err
		}
		if creating {
			if err := tx.syncCreated(ctx, cocktail); err != nil {
				return err
			}
		}

		savedID = cocktail.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetCocktail(ctx, savedID)
}

// loadForSave returns the cocktail being edited after the ownership check, or
// a fresh cocktail owned by actorID.
func (s *Service) loadForSave(ctx context.Context, actorID, cocktailID uint, input CocktailInput) (*models.Cocktail, error) {
	if actorID == 0 {
		return nil, fmt.Errorf("%w: authentication required", ErrPermission)
	}

	if cocktailID == 0 {
		var creator models.User
		if err := s.conn(ctx).First(&creator, actorID).Error; err != nil {
			return nil, lookupError(err, "user", actorID)
		}
		cocktail := &models.Cocktail{CreatorID: actorID, Source: input.Source}
		if cocktail.Source == "" {
			cocktail.Source = models.SourceUser
		}
		if externalID := strings.TrimSpace(input.ExternalID); externalID != "" {
			cocktail.ExternalID = &externalID
		}
		return cocktail, nil
	}

	var cocktail models.Cocktail
	if err := s.conn(ctx).First(&cocktail, cocktailID).Error; err != nil {
		return nil, lookupError(err, "cocktail", cocktailID)
	}
	if err := RequireOwner(actorID, cocktail); err != nil {
		return nil, err
	}
	return &cocktail, nil
}

func (s *Service) loadIngredients(ctx context.Context, drafts []componentDraft) (map[uint]models.Ingredient, error) {
	ids := make([]uint, 0, len(drafts))
	for _, draft := range drafts {
		ids = append(ids, draft.IngredientID)
	}

	var found []models.Ingredient
	if err := s.conn(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, fmt.Errorf("load ingredients: %w", err)
	}

	byID := make(map[uint]models.Ingredient, len(found))
	for _, ingredient := range found {
		byID[ingredient.ID] = ingredient
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, notFound("ingredient", id)
		}
	}
	return byID, nil
}

func (s *Service) checkCocktailName(ctx context.Context, creatorID, cocktailID uint, name string) error {
	var count int64
	query := s.conn(ctx).Model(&models.Cocktail{}).
		Where("creator_id = ? AND name_key = ?", creatorID, models.NameKey(name))
	if cocktailID != 0 {
		query = query.Where("id <> ?", cocktailID)
	}
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("check cocktail name: %w", err)
	}
	if count > 0 {
		return fieldError("name", fmt.Sprintf("you already have a cocktail named %q", name))
	}
	return nil
}

func applyCocktailInput(cocktail *models.Cocktail, input CocktailInput, drafts []componentDraft, ingredients map[uint]models.Ingredient) {
	cocktail.Name = input.Name
	cocktail.Description = input.Description
	cocktail.Instructions = input.Instructions
	cocktail.Color = models.Color(input.Color)
	cocktail.ImageURL = input.ImageURL
	cocktail.VesselID = nil
	if input.VesselID != 0 {
		vesselID := input.VesselID
		cocktail.VesselID = &vesselID
	}

	if input.IsAlcoholic != nil {
		cocktail.IsAlcoholic = *input.IsAlcoholic
		return
	}
	cocktail.IsAlcoholic = false
	for _, draft := range drafts {
		if ingredients[draft.IngredientID].IsAlcoholic() {
			cocktail.IsAlcoholic = true
			return
		}
	}
}

func (s *Service) replaceComponents(ctx context.Context, cocktailID uint, drafts []componentDraft) error {
	db := s.conn(ctx)
	if err := db.Unscoped().Where("cocktail_id = ?", cocktailID).Delete(&models.RecipeComponent{}).Error; err != nil {
		return fmt.Errorf("clear components: %w", err)
	}

	components := make([]models.RecipeComponent, 0, len(drafts))
	for _, draft := range drafts {
		components = append(components, models.RecipeComponent{
			CocktailID:      cocktailID,
			IngredientID:    draft.IngredientID,
			Amount:          draft.Amount,
			Unit:            draft.Unit,
			PreparationNote: draft.Note,
			Order:           draft.Order,
		})
	}
	if err := db.Omit(clause.Associations).Create(&components).Error; err != nil {
		return fmt.Errorf("create components: %w", err)
	}
	return nil
}

func (s *Service) replaceTags(ctx context.Context, cocktailID uint, labels []string) error {
	db := s.conn(ctx)
	if err := db.Where("cocktail_id = ?", cocktailID).Delete(&models.VibeTag{}).Error; err != nil {
		return fmt.Errorf("clear tags: %w", err)
	}
	if len(labels) == 0 {
		return nil
	}

	tags := make([]models.VibeTag, 0, len(labels))
	for _, label := range labels {
		tags = append(tags, models.VibeTag{CocktailID: cocktailID, Label: label})
	}
	if err := db.Create(&tags).Error; err != nil {
		return fmt.Errorf("create tags: %w", err)
	}
	return nil
}

// DeleteCocktail removes a cocktail owned by actorID along with its
// components, tags and every list membership that references it.
func (s *Service) DeleteCocktail(ctx context.Context, actorID, cocktailID uint) error {
	return s.Transaction(ctx, func(tx *Service) error {
		var cocktail models.Cocktail
		if err := tx.conn(ctx).First(&cocktail, cocktailID).Error; err != nil {
			return lookupError(err, "cocktail", cocktailID)
		}
		if err := RequireOwner(actorID, cocktail); err != nil {
			return err
		}
		return tx.deleteCocktail(ctx, cocktail.ID)
	})
}

// deleteCocktail is the shared removal path used by DeleteCocktail, account
// deletion and the import purge. Callers perform any ownership check.
func (s *Service) deleteCocktail(ctx context.Context, cocktailID uint) error {
	db := s.conn(ctx)
	if err := s.detachCocktail(ctx, cocktailID); err != nil {
		return err
	}
	if err := db.Unscoped().Where("cocktail_id = ?", cocktailID).Delete(&models.RecipeComponent{}).Error; err != nil {
		return fmt.Errorf("delete components: %w", err)
	}
	if err := db.Where("cocktail_id = ?", cocktailID).Delete(&models.VibeTag{}).Error; err != nil {
		return fmt.Errorf("delete tags: %w", err)
	}
	if err := db.Unscoped().Delete(&models.Cocktail{}, cocktailID).Error; err != nil {
		return fmt.Errorf("delete cocktail: %w", err)
	}
	return nil
}

// GetCocktail loads a cocktail with its vessel, creator, tags and ordered
// components.
func (s *Service) GetCocktail(ctx context.Context, id uint) (*models.Cocktail, error) {
	var cocktail models.Cocktail
	err := s.conn(ctx).
		Preload("Vessel").
		Preload("Creator").
		Preload("Components", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Preload("Components.Ingredient").
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("label ASC")
		}).
		First(&cocktail, id).Error
	if err != nil {
		return nil, lookupError(err, "cocktail", id)
	}
	return &cocktail, nil
}

// ExternalIDExists reports whether a cocktail was already imported under
// externalID.
func (s *Service) ExternalIDExists(ctx context.Context, externalID string) (bool, error) {
	var count int64
	if err := s.conn(ctx).Model(&models.Cocktail{}).Where("external_id = ?", externalID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check external id: %w", err)
	}
	return count > 0, nil
}
