package recipes

import (
	"context"
	"fmt"

	"stircraft/models"
)

// PurgeResult counts the rows removed by PurgeSource.
type PurgeResult struct {
	Cocktails   int
	Ingredients int64
	Vessels     int64
}

// PurgeSource deletes every cocktail recorded with source, then the
// ingredients and vessels from that source that nothing references anymore.
func (s *Service) PurgeSource(ctx context.Context, source string) (PurgeResult, error) {
	var result PurgeResult
	err := s.Transaction(ctx, func(tx *Service) error {
		var cocktailIDs []uint
		if err := tx.conn(ctx).Model(&models.Cocktail{}).Where("source = ?", source).Pluck("id", &cocktailIDs).Error; err != nil {
			return fmt.Errorf("load %s cocktails: %w", source, err)
		}
		for _, id := range cocktailIDs {
			if err := tx.deleteCocktail(ctx, id); err != nil {
				return err
			}
		}
		result.Cocktails = len(cocktailIDs)

		referenced := tx.conn(ctx).Model(&models.RecipeComponent{}).Select("ingredient_id")
		ingredients := tx.conn(ctx).Unscoped().
			Where("source = ? AND id NOT IN (?)", source, referenced).
			Delete(&models.Ingredient{})
		if ingredients.Error != nil {
			return fmt.Errorf("purge %s ingredients: %w", source, ingredients.Error)
		}
		result.Ingredients = ingredients.RowsAffected

		used := tx.conn(ctx).Model(&models.Cocktail{}).Select("vessel_id").Where("vessel_id IS NOT NULL")
		vessels := tx.conn(ctx).Unscoped().
			Where("source = ? AND id NOT IN (?)", source, used).
			Delete(&models.Vessel{})
		if vessels.Error != nil {
			return fmt.Errorf("purge %s vessels: %w", source, vessels.Error)
		}
		result.Vessels = vessels.RowsAffected
		return nil
	})
	if err != nil {
		return PurgeResult{}, err
	}
	return result, nil
}
