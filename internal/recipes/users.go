package recipes

import (
	"context"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"stircraft/models"
)

// UserInput describes a new account. The password must already be hashed.
type UserInput struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	IsStaff      bool   `json:"-"`
}

func (in UserInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email,
			validation.Required.Error("email is required"),
			is.EmailFormat.Error("please provide a valid email address"),
		),
		validation.Field(&in.Name, validation.RuneLength(0, 120)),
	)
}

// CreateUser stores a new account and its system lists in one transaction.
func (s *Service) CreateUser(ctx context.Context, input UserInput) (*models.User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Name = strings.TrimSpace(input.Name)
	if err := fromValidation(input.Validate()); err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: input.PasswordHash,
		IsStaff:      input.IsStaff,
	}
	err := s.Transaction(ctx, func(tx *Service) error {
		var existing int64
		if err := tx.conn(ctx).Model(&models.User{}).Where("lower(email) = ?", input.Email).Count(&existing).Error; err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if existing > 0 {
			return fieldError("email", "an account with that email already exists")
		}
		if err := tx.conn(ctx).Create(user).Error; err != nil {
			if isUniqueViolation(err) {
				return fieldError("email", "an account with that email already exists")
			}
			return fmt.Errorf("create user: %w", err)
		}
		_, _, err := tx.EnsureSystemLists(ctx, user.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes an account with every cocktail it created, its lists and
// all memberships pointing at those cocktails.
func (s *Service) DeleteUser(ctx context.Context, userID uint) error {
	return s.Transaction(ctx, func(tx *Service) error {
		var user models.User
		if err := tx.conn(ctx).First(&user, userID).Error; err != nil {
			return lookupError(err, "user", userID)
		}

		var cocktailIDs []uint
		if err := tx.conn(ctx).Model(&models.Cocktail{}).Where("creator_id = ?", userID).Pluck("id", &cocktailIDs).Error; err != nil {
			return fmt.Errorf("load user cocktails: %w", err)
		}
		for _, id := range cocktailIDs {
			if err := tx.deleteCocktail(ctx, id); err != nil {
				return err
			}
		}

		var listIDs []uint
		if err := tx.conn(ctx).Model(&models.List{}).Where("owner_id = ?", userID).Pluck("id", &listIDs).Error; err != nil {
			return fmt.Errorf("load user lists: %w", err)
		}
		for _, id := range listIDs {
			if err := tx.deleteList(ctx, id); err != nil {
				return err
			}
		}

		if err := tx.conn(ctx).Unscoped().Delete(&models.User{}, userID).Error; err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
}
