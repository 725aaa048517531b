package services

import (
	"errors"
	"fmt"
	"strings"

	"frontdesk-backend/models"

	"gorm.io/gorm"
)

type HotelService struct {
	DB *gorm.DB
}

func NewHotelService(db *gorm.DB) *HotelService {
	return &HotelService{DB: db}
}

func (s *HotelService) Create(hotel *models.Hotel) error {
	if strings.TrimSpace(hotel.Name) == "" {
		return validationErr("name", "is required")
	}
	return s.DB.Create(hotel).Error
}

func (s *HotelService) GetAll() ([]models.Hotel, error) {
	var hotels []models.Hotel
	if err := s.DB.Preload("RoomTypes").Order("id").Find(&hotels).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve hotels: %w", err)
	}
	return hotels, nil
}

func (s *HotelService) GetByID(id uint) (*models.Hotel, error) {
	var hotel models.Hotel
	if err := s.DB.Preload("RoomTypes").First(&hotel, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("hotel", id)
		}
		return nil, fmt.Errorf("db error loading hotel %d: %w", id, err)
	}
	return &hotel, nil
}

func (s *HotelService) Update(hotel *models.Hotel) error {
	return s.DB.Model(&models.Hotel{}).Where("id = ?", hotel.ID).Updates(hotel).Error
}

func (s *HotelService) Delete(id uint) error {
	return s.DB.Delete(&models.Hotel{}, id).Error
}
