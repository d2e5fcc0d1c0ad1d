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

type VesselInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Source      string `json:"-"`
}

func (in VesselInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name,
			validation.Required.Error("name is required"),
			validation.RuneLength(1, 80).Error("name must be at most 80 characters"),
		),
	)
}

// GetOrCreateVessel resolves a vessel by case-insensitive name, creating it
// when absent.
func (s *Service) GetOrCreateVessel(ctx context.Context, input VesselInput) (*models.Vessel, error) {
	input.Name = strings.Join(strings.Fields(input.Name), " ")
	input.Description = strings.TrimSpace(input.Description)
	if input.Source == "" {
		input.Source = models.SourceUser
	}
	if err := fromValidation(input.Validate()); err != nil {
		return nil, err
	}

	key := models.NameKey(input.Name)
	var vessel models.Vessel
	err := s.conn(ctx).Where("name_key = ?", key).First(&vessel).Error
	if err == nil {
		return &vessel, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find vessel: %w", err)
	}

	vessel = models.Vessel{Name: input.Name, Description: input.Description, Source: input.Source}
	if err := s.conn(ctx).Create(&vessel).Error; err != nil {
		if isUniqueViolation(err) {
			if err := s.conn(ctx).Where("name_key = ?", key).First(&vessel).Error; err == nil {
				return &vessel, nil
			}
		}
		return nil, fmt.Errorf("create vessel: %w", err)
	}
	return &vessel, nil
}

func (s *Service) ListVessels(ctx context.Context) ([]models.Vessel, error) {
	var vessels []models.Vessel
	if err := s.conn(ctx).Order("name_key ASC").Find(&vessels).Error; err != nil {
		return nil, fmt.Errorf("list vessels: %w", err)
	}
	return vessels, nil
}

func (s *Service) GetVessel(ctx context.Context, id uint) (*models.Vessel, error) {
	var vessel models.Vessel
	if err := s.conn(ctx).First(&vessel, id).Error; err != nil {
		return nil, lookupError(err, "vessel", id)
	}
	return &vessel, nil
}
