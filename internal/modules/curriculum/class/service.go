package class

import (
	"errors"
	"fmt"

	"github.com/chalkroute/core/internal/models"
	"gorm.io/gorm"
)

type CreateClassDTO struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type UpdateClassDTO struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) List() ([]models.ClassModel, error) {
	var classes []models.ClassModel
	return classes, s.db.Order("created_at ASC").Find(&classes).Error
}

func (s *Service) GetByID(id string) (*models.ClassModel, error) {
	var class models.ClassModel
	if err := s.db.First(&class, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &class, nil
}

func (s *Service) Create(dto *CreateClassDTO) (*models.ClassModel, error) {
	var count int64
	s.db.Model(&models.ClassModel{}).Where("title = ?", dto.Title).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("title already exists")
	}

	class := models.ClassModel{Title: dto.Title, Description: dto.Description}
	return &class, s.db.Create(&class).Error
}

func (s *Service) Update(id string, dto *UpdateClassDTO) (*models.ClassModel, error) {
	class, err := s.GetByID(id)
	if err != nil || class == nil {
		return class, err
	}
	updates := map[string]interface{}{}
	if dto.Title != nil {
		updates["title"] = *dto.Title
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	return class, s.db.Model(class).Updates(updates).Error
}

// Delete removes a class and detaches its subjects and chapters.
func (s *Service) Delete(id string) error {
	s.db.Model(&models.SubjectModel{}).Where("class_id = ?", id).Update("class_id", "")
	s.db.Model(&models.ChapterModel{}).Where("class_id = ?", id).Update("class_id", "")
	return s.db.Delete(&models.ClassModel{}, "id = ?", id).Error
}
