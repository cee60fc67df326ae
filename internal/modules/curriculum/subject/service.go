package subject

import (
	"errors"

	"github.com/chalkroute/core/internal/models"
	"gorm.io/gorm"
)

type CreateSubjectDTO struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	ClassID     string `json:"class_id" binding:"required"`
}

type UpdateSubjectDTO struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	ClassID     *string `json:"class_id"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List returns subjects, optionally limited to one class.
func (s *Service) List(classID string) ([]models.SubjectModel, error) {
	query := s.db.Order("created_at ASC")
	if classID != "" {
		query = query.Where("class_id = ?", classID)
	}
	var subjects []models.SubjectModel
	return subjects, query.Find(&subjects).Error
}

func (s *Service) GetByID(id string) (*models.SubjectModel, error) {
	var subject models.SubjectModel
	if err := s.db.First(&subject, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &subject, nil
}

func (s *Service) Create(dto *CreateSubjectDTO) (*models.SubjectModel, error) {
	var class models.ClassModel
	if err := s.db.First(&class, "id = ?", dto.ClassID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("class not found")
		}
		return nil, err
	}

	subject := models.SubjectModel{
		Title:       dto.Title,
		Description: dto.Description,
		ClassID:     dto.ClassID,
	}
	return &subject, s.db.Create(&subject).Error
}

func (s *Service) Update(id string, dto *UpdateSubjectDTO) (*models.SubjectModel, error) {
	subject, err := s.GetByID(id)
	if err != nil || subject == nil {
		return subject, err
	}
	updates := map[string]interface{}{}
	if dto.Title != nil {
		updates["title"] = *dto.Title
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	if dto.ClassID != nil {
		updates["class_id"] = *dto.ClassID
	}
	return subject, s.db.Model(subject).Updates(updates).Error
}

func (s *Service) Delete(id string) error {
	s.db.Model(&models.ChapterModel{}).Where("subject_id = ?", id).Update("subject_id", "")
	return s.db.Delete(&models.SubjectModel{}, "id = ?", id).Error
}
