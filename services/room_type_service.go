package services

import (
	"errors"
	"fmt"

	"frontdesk-backend/models"

	"gorm.io/gorm"
)

// RoomTypeService manages the inventory reference data the booking core
// reads. Writes here never touch bookings.
type RoomTypeService struct {
	DB *gorm.DB
}

func NewRoomTypeService(db *gorm.DB) *RoomTypeService {
	return &RoomTypeService{DB: db}
}

func (s *RoomTypeService) Create(rt *models.RoomType) error {
	if err := validateRoomType(rt); err != nil {
		return err
	}
	return s.DB.Create(rt).Error
}

func (s *RoomTypeService) GetAll(hotelID uint) ([]models.RoomType, error) {
	var types []models.RoomType
	q := s.DB.Order("id")
	if hotelID != 0 {
		q = q.Where("hotel_id = ?", hotelID)
	}
	if err := q.Find(&types).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve room types: %w", err)
	}
	return types, nil
}

func (s *RoomTypeService) GetByID(id uint) (*models.RoomType, error) {
	var rt models.RoomType
	if err := s.DB.First(&rt, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("room type", id)
		}
		return nil, fmt.Errorf("db error loading room type %d: %w", id, err)
	}
	return &rt, nil
}

func (s *RoomTypeService) Update(rt *models.RoomType) error {
	if err := validateRoomType(rt); err != nil {
		return err
	}
	return s.DB.Model(&models.RoomType{}).Where("id = ?", rt.ID).Updates(rt).Error
}

func (s *RoomTypeService) Delete(id uint) error {
	return s.DB.Delete(&models.RoomType{}, id).Error
}

func validateRoomType(rt *models.RoomType) error {
	if rt.Quantity < 0 {
		return validationErr("quantity", "must not be negative")
	}
	if rt.BasePrice.IsNegative() {
		return validationErr("basePrice", "must not be negative")
	}
	if rt.AlternativePrice != nil && rt.AlternativePrice.IsNegative() {
		return validationErr("alternativePrice", "must not be negative")
	}
	// Validity window comes as a pair or not at all.
	if (rt.AvailableFrom == nil) != (rt.AvailableTo == nil) {
		return validationErr("availableFrom", "and availableTo must be set together")
	}
	if rt.HasWindow() && !rt.AvailableTo.After(*rt.AvailableFrom) {
		return validationErr("availableTo", "must be after availableFrom")
	}
	return nil
}
