package recipes

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stircraft/models"
)

// ListInput carries the editable attributes of a custom list.
type ListInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

func (in ListInput) normalized() ListInput {
	in.Name = strings.Join(strings.Fields(in.Name), " ")
	in.Description = strings.TrimSpace(in.Description)
	return in
}

func (in ListInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name,
			validation.Required.Error("name is required"),
			validation.RuneLength(1, 100).Error("name must be at most 100 characters"),
			validation.By(func(value interface{}) error {
				if name, _ := value.(string); models.IsReservedListName(name) {
					return errors.New("that name is reserved for a system list")
				}
				return nil
			}),
		),
	)
}

// ListSummary pairs a list with its member count.
type ListSummary struct {
	List          models.List
	CocktailCount int64
}

var systemListSpecs = []models.List{
	{Name: models.FavoritesListName, Kind: models.ListFavorites, Description: "Cocktails you have marked as favorites."},
	{Name: models.CreationsListName, Kind: models.ListCreations, Description: "Every cocktail you have created."},
}

// EnsureSystemLists returns the user's favorites and creations lists,
// creating whichever is missing.
func (s *Service) EnsureSystemLists(ctx context.Context, userID uint) (favorites, creations *models.List, err error) {
	err = s.Transaction(ctx, func(tx *Service) error {
		favorites, err = tx.systemList(ctx, userID, models.ListFavorites)
		if err != nil {
			return err
		}
		creations, err = tx.systemList(ctx, userID, models.ListCreations)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return favorites, creations, nil
}

func (s *Service) systemList(ctx context.Context, userID uint, kind models.ListKind) (*models.List, error) {
	var list models.List
	err := s.conn(ctx).Where("owner_id = ? AND kind = ?", userID, kind).First(&list).Error
	if err == nil {
		return &list, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find %s list: %w", kind, err)
	}

	for _, spec := range systemListSpecs {
		if spec.Kind != kind {
			continue
		}
		list = spec
		list.OwnerID = userID
		if err := s.conn(ctx).Create(&list).Error; err != nil {
			return nil, fmt.Errorf("create %s list: %w", kind, err)
		}
		return &list, nil
	}
	return nil, fmt.Errorf("unknown system list kind %q", kind)
}

// CreateList adds a custom list for ownerID.
func (s *Service) CreateList(ctx context.Context, ownerID uint, input ListInput) (*models.List, error) {
	if ownerID == 0 {
		return nil, fmt.Errorf("%w: authentication required", ErrPermission)
	}
	input = input.normalized()
	if err := fromValidation(input.Validate()); err != nil {
		return nil, err
	}

	list := &models.List{
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     ownerID,
		Kind:        models.ListCustom,
		IsEditable:  true,
		IsDeletable: true,
		IsPublic:    input.IsPublic,
	}
	err := s.Transaction(ctx, func(tx *Service) error {
		if err := tx.checkListName(ctx, ownerID, 0, input.Name); err != nil {
			return err
		}
		if err := tx.db.Omit(clause.Associations).Create(list).Error; err != nil {
			if isUniqueViolation(err) {
				return duplicateListName(input.Name)
			}
			return fmt.Errorf("create list: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateList renames a custom list and changes its description and
// visibility. System lists cannot be edited.
func (s *Service) UpdateList(ctx context.Context, ownerID, listID uint, input ListInput) (*models.List, error) {
	var list *models.List
	err := s.Transaction(ctx, func(tx *Service) error {
		var err error
		list, err = tx.ownedList(ctx, ownerID, listID)
		if err != nil {
			return err
		}
		if !list.IsEditable {
			return fmt.Errorf("%w: %q is a system list and cannot be edited", ErrPermission, list.Name)
		}

		input = input.normalized()
		if err := fromValidation(input.Validate()); err != nil {
			return err
		}
		if err := tx.checkListName(ctx, ownerID, list.ID, input.Name); err != nil {
			return err
		}

		list.Name = input.Name
		list.Description = input.Description
		list.IsPublic = input.IsPublic
		if err := tx.db.Omit(clause.Associations).Save(list).Error; err != nil {
			if isUniqueViolation(err) {
				return duplicateListName(input.Name)
			}
			return fmt.Errorf("update list: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// DeleteList removes a custom list and its memberships.
func (s *Service) DeleteList(ctx context.Context, ownerID, listID uint) error {
	return s.Transaction(ctx, func(tx *Service) error {
		list, err := tx.ownedList(ctx, ownerID, listID)
		if err != nil {
			return err
		}
		if !list.IsDeletable {
			return fmt.Errorf("%w: %q is a system list and cannot be deleted", ErrPermission, list.Name)
		}
		return tx.deleteList(ctx, list.ID)
	})
}

func (s *Service) deleteList(ctx context.Context, listID uint) error {
	db := s.conn(ctx)
	if err := db.Where("list_id = ?", listID).Delete(&models.ListMembership{}).Error; err != nil {
		return fmt.Errorf("delete list memberships: %w", err)
	}
	if err := db.Unscoped().Delete(&models.List{}, listID).Error; err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	return nil
}

// AddToList puts a cocktail on one of the owner's lists. Adding a cocktail
// that is already a member is a no-op. The creations list is derived from
// authorship and rejects direct edits.
func (s *Service) AddToList(ctx context.Context, ownerID, listID, cocktailID uint) error {
	return s.Transaction(ctx, func(tx *Service) error {
		list, err := tx.membershipTarget(ctx, ownerID, listID)
		if err != nil {
			return err
		}
		if err := tx.requireCocktail(ctx, cocktailID); err != nil {
			return err
		}
		return tx.addMember(ctx, list.ID, cocktailID)
	})
}

// RemoveFromList takes a cocktail off one of the owner's lists.
func (s *Service) RemoveFromList(ctx context.Context, ownerID, listID, cocktailID uint) error {
	return s.Transaction(ctx, func(tx *Service) error {
		list, err := tx.membershipTarget(ctx, ownerID, listID)
		if err != nil {
			return err
		}
		return tx.removeMember(ctx, list.ID, cocktailID)
	})
}

// ToggleFavorite flips the cocktail's membership in the user's favorites and
// reports whether it is now a favorite.
func (s *Service) ToggleFavorite(ctx context.Context, userID, cocktailID uint) (bool, error) {
	if userID == 0 {
		return false, fmt.Errorf("%w: authentication required", ErrPermission)
	}

	var favorited bool
	err := s.Transaction(ctx, func(tx *Service) error {
		if err := tx.requireCocktail(ctx, cocktailID); err != nil {
			return err
		}
		favorites, err := tx.systemList(ctx, userID, models.ListFavorites)
		if err != nil {
			return err
		}
		member, err := tx.isMember(ctx, favorites.ID, cocktailID)
		if err != nil {
			return err
		}
		if member {
			favorited = false
			return tx.removeMember(ctx, favorites.ID, cocktailID)
		}
		favorited = true
		return tx.addMember(ctx, favorites.ID, cocktailID)
	})
	if err != nil {
		return false, err
	}
	return favorited, nil
}

// UserLists returns the owner's lists: favorites first, then creations, then
// custom lists by name.
func (s *Service) UserLists(ctx context.Context, ownerID uint) ([]ListSummary, error) {
	if _, _, err := s.EnsureSystemLists(ctx, ownerID); err != nil {
		return nil, err
	}

	var lists []models.List
	if err := s.conn(ctx).Where("owner_id = ?", ownerID).Find(&lists).Error; err != nil {
		return nil, fmt.Errorf("list user lists: %w", err)
	}
	sort.SliceStable(lists, func(i, j int) bool {
		if ri, rj := listRank(lists[i].Kind), listRank(lists[j].Kind); ri != rj {
			return ri < rj
		}
		return lists[i].NameKey < lists[j].NameKey
	})

	counts, err := s.memberCounts(ctx, lists)
	if err != nil {
		return nil, err
	}

	summaries := make([]ListSummary, 0, len(lists))
	for _, list := range lists {
		summaries = append(summaries, ListSummary{List: list, CocktailCount: counts[list.ID]})
	}
	return summaries, nil
}

func listRank(kind models.ListKind) int {
	switch kind {
	case models.ListFavorites:
		return 0
	case models.ListCreations:
		return 1
	default:
		return 2
	}
}

func (s *Service) memberCounts(ctx context.Context, lists []models.List) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(lists))
	if len(lists) == 0 {
		return counts, nil
	}
	ids := make([]uint, 0, len(lists))
	for _, list := range lists {
		ids = append(ids, list.ID)
	}

	var rows []struct {
		ListID uint
		Total  int64
	}
	err := s.conn(ctx).Model(&models.ListMembership{}).
		Select("list_id, count(*) AS total").
		Where("list_id IN ?", ids).
		Group("list_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count list members: %w", err)
	}
	for _, row := range rows {
		counts[row.ListID] = row.Total
	}
	return counts, nil
}

// GetList returns a list visible to viewerID. Private lists of other users
// are reported as not found.
func (s *Service) GetList(ctx context.Context, viewerID, listID uint) (*models.List, error) {
	var list models.List
	if err := s.conn(ctx).Preload("Owner").First(&list, listID).Error; err != nil {
		return nil, lookupError(err, "list", listID)
	}
	if !list.IsPublic && list.OwnerID != viewerID {
		return nil, notFound("list", listID)
	}
	return &list, nil
}

// ListCocktails returns the members of a list, most recently added first.
func (s *Service) ListCocktails(ctx context.Context, listID uint) ([]models.Cocktail, error) {
	var cocktails []models.Cocktail
	err := s.conn(ctx).
		Joins("JOIN list_memberships ON list_memberships.cocktail_id = cocktails.id").
		Where("list_memberships.list_id = ?", listID).
		Order("list_memberships.added_at DESC, cocktails.id DESC").
		Preload("Vessel").
		Preload("Creator").
		Preload("Tags").
		Find(&cocktails).Error
	if err != nil {
		return nil, fmt.Errorf("list cocktails of list %d: %w", listID, err)
	}
	return cocktails, nil
}

// IsFavorite reports whether the cocktail is on the user's favorites list.
func (s *Service) IsFavorite(ctx context.Context, userID, cocktailID uint) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	var count int64
	err := s.conn(ctx).Model(&models.ListMembership{}).
		Joins("JOIN lists ON lists.id = list_memberships.list_id").
		Where("lists.owner_id = ? AND lists.kind = ? AND lists.deleted_at IS NULL", userID, models.ListFavorites).
		Where("list_memberships.cocktail_id = ?", cocktailID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return count > 0, nil
}

// ListsContaining returns the ids of the owner's lists that include the
// cocktail.
func (s *Service) ListsContaining(ctx context.Context, ownerID, cocktailID uint) ([]uint, error) {
	var ids []uint
	err := s.conn(ctx).Model(&models.ListMembership{}).
		Joins("JOIN lists ON lists.id = list_memberships.list_id").
		Where("lists.owner_id = ? AND lists.deleted_at IS NULL", ownerID).
		Where("list_memberships.cocktail_id = ?", cocktailID).
		Order("list_memberships.list_id ASC").
		Pluck("list_memberships.list_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("lists containing cocktail: %w", err)
	}
	return ids, nil
}

func (s *Service) ownedList(ctx context.Context, ownerID, listID uint) (*models.List, error) {
	var list models.List
	if err := s.conn(ctx).First(&list, listID).Error; err != nil {
		return nil, lookupError(err, "list", listID)
	}
	if err := RequireOwner(ownerID, list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (s *Service) membershipTarget(ctx context.Context, ownerID, listID uint) (*models.List, error) {
	list, err := s.ownedList(ctx, ownerID, listID)
	if err != nil {
		return nil, err
	}
	if list.Kind == models.ListCreations {
		return nil, fmt.Errorf("%w: %q follows the cocktails you create and cannot be edited directly", ErrPermission, list.Name)
	}
	return list, nil
}

func (s *Service) checkListName(ctx context.Context, ownerID, listID uint, name string) error {
	var count int64
	query := s.conn(ctx).Model(&models.List{}).
		Where("owner_id = ? AND name_key = ?", ownerID, models.NameKey(name))
	if listID != 0 {
		query = query.Where("id <> ?", listID)
	}
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("check list name: %w", err)
	}
	if count > 0 {
		return duplicateListName(name)
	}
	return nil
}

func duplicateListName(name string) error {
	return fieldError("name", fmt.Sprintf("you already have a list named %q", name))
}

func (s *Service) requireCocktail(ctx context.Context, cocktailID uint) error {
	var count int64
	if err := s.conn(ctx).Model(&models.Cocktail{}).Where("id = ?", cocktailID).Count(&count).Error; err != nil {
		return fmt.Errorf("check cocktail: %w", err)
	}
	if count == 0 {
		return notFound("cocktail", cocktailID)
	}
	return nil
}

func (s *Service) isMember(ctx context.Context, listID, cocktailID uint) (bool, error) {
	var count int64
	err := s.conn(ctx).Model(&models.ListMembership{}).
		Where("list_id = ? AND cocktail_id = ?", listID, cocktailID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return count > 0, nil
}

func (s *Service) addMember(ctx context.Context, listID, cocktailID uint) error {
	membership := models.ListMembership{ListID: listID, CocktailID: cocktailID}
	err := s.conn(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&membership).Error
	if err != nil {
		return fmt.Errorf("add cocktail %d to list %d: %w", cocktailID, listID, err)
	}
	return nil
}

func (s *Service) removeMember(ctx context.Context, listID, cocktailID uint) error {
	err := s.conn(ctx).
		Where("list_id = ? AND cocktail_id = ?", listID, cocktailID).
		Delete(&models.ListMembership{}).Error
	if err != nil {
		return fmt.Errorf("remove cocktail %d from list %d: %w", cocktailID, listID, err)
	}
	return nil
}
