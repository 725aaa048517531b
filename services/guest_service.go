package services

import (
	"errors"
	"fmt"

	"frontdesk-backend/models"

	"gorm.io/gorm"
)

type GuestService struct {
	DB *gorm.DB
}

func NewGuestService(db *gorm.DB) *GuestService {
	return &GuestService{DB: db}
}

func (s *GuestService) Create(guest *models.Guest) error {
	if guest.FullName == "" {
		return validationErr("fullName", "is required")
	}
	return s.DB.Create(guest).Error
}

func (s *GuestService) GetAll() ([]models.Guest, error) {
	var guests []models.Guest
	if err := s.DB.Order("id DESC").Find(&guests).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve guests: %w", err)
	}
	return guests, nil
}

func (s *GuestService) GetByID(id uint) (*models.Guest, error) {
	var guest models.Guest
	if err := s.DB.First(&guest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("guest", id)
		}
		return nil, fmt.Errorf("db error loading guest %d: %w", id, err)
	}
	return &guest, nil
}

func (s *GuestService) Update(guest *models.Guest) error {
	return s.DB.Model(&models.Guest{}).
		Where("id = ?", guest.ID).
		Updates(guest).Error
}

func (s *GuestService) Delete(id uint) error {
	return s.DB.Delete(&models.Guest{}, id).Error
}
