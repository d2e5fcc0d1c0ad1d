package recipes

import (
	"context"
	"fmt"

	"stircraft/models"
)

// ReconcileResult reports the repairs made to a creations list.
type ReconcileResult struct {
	Added   int
	Removed int
}

// syncCreated adds a newly created cocktail to its creator's creations list.
// It runs inside the transaction that created the cocktail.
func (s *Service) syncCreated(ctx context.Context, cocktail *models.Cocktail) error {
	creations, err := s.systemList(ctx, cocktail.CreatorID, models.ListCreations)
	if err != nil {
		return err
	}
	return s.addMember(ctx, creations.ID, cocktail.ID)
}

// detachCocktail drops every list membership referencing the cocktail,
// including other users' lists and the creator's creations list.
func (s *Service) detachCocktail(ctx context.Context, cocktailID uint) error {
	if err := s.conn(ctx).Where("cocktail_id = ?", cocktailID).Delete(&models.ListMembership{}).Error; err != nil {
		return fmt.Errorf("detach cocktail %d from lists: %w", cocktailID, err)
	}
	return nil
}

// ReconcileCreations makes the user's creations list equal to the set of
// cocktails they authored.
func (s *Service) ReconcileCreations(ctx context.Context, userID uint) (ReconcileResult, error) {
	var result ReconcileResult
	err := s.Transaction(ctx, func(tx *Service) error {
		creations, err := tx.systemList(ctx, userID, models.ListCreations)
		if err != nil {
			return err
		}

		var authored []uint
		if err := tx.conn(ctx).Model(&models.Cocktail{}).Where("creator_id = ?", userID).Pluck("id", &authored).Error; err != nil {
			return fmt.Errorf("load authored cocktails: %w", err)
		}
		var members []uint
		if err := tx.conn(ctx).Model(&models.ListMembership{}).Where("list_id = ?", creations.ID).Pluck("cocktail_id", &members).Error; err != nil {
			return fmt.Errorf("load creations members: %w", err)
		}

		want := make(map[uint]struct{}, len(authored))
		for _, id := range authored {
			want[id] = struct{}{}
		}
		have := make(map[uint]struct{}, len(members))
		for _, id := range members {
			have[id] = struct{}{}
		}

		for _, id := range authored {
			if _, ok := have[id]; ok {
				continue
			}
			if err := tx.addMember(ctx, creations.ID, id); err != nil {
				return err
			}
			result.Added++
		}
		for _, id := range members {
			if _, ok := want[id]; ok {
				continue
			}
			if err := tx.removeMember(ctx, creations.ID, id); err != nil {
				return err
			}
			result.Removed++
		}
		return nil
	})
	if err != nil {
		return ReconcileResult{}, err
	}
	return result, nil
}
