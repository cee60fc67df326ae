package chapter

import (
	"errors"

	"github.com/chalkroute/core/internal/models"
	"github.com/chalkroute/core/internal/pkg/pagination"
	"github.com/chalkroute/core/internal/pkg/response"
	"gorm.io/gorm"
)

type UpdateChapterDTO struct {
	Title       *string            `json:"title"`
	Content     *string            `json:"content"`
	Description *string            `json:"description"`
	VideoLinks  []models.VideoLink `json:"yt_links"`
	ClassID     *string            `json:"class_id"`
	SubjectID   *string            `json:"subject_id"`
}

// ListFilter narrows chapter listings by curriculum placement.
type ListFilter struct {
	ClassID   string
	SubjectID string
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) List(q pagination.Query, filter ListFilter) ([]models.ChapterModel, response.Pagination, error) {
	query := s.db.Model(&models.ChapterModel{}).Order("created_at DESC")
	if filter.ClassID != "" {
		query = query.Where("class_id = ?", filter.ClassID)
	}
	if filter.SubjectID != "" {
		query = query.Where("subject_id = ?", filter.SubjectID)
	}

	var chapters []models.ChapterModel
	meta, err := pagination.Paginate(query, q, &chapters)
	return chapters, meta, err
}

func (s *Service) GetByID(id string) (*models.ChapterModel, error) {
	var chapter models.ChapterModel
	if err := s.db.First(&chapter, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &chapter, nil
}

func (s *Service) Update(id string, dto *UpdateChapterDTO) (*models.ChapterModel, error) {
	chapter, err := s.GetByID(id)
	if err != nil || chapter == nil {
		return chapter, err
	}
	updates := map[string]interface{}{}
	if dto.Title != nil {
		updates["title"] = *dto.Title
	}
	if dto.Content != nil {
		updates["content"] = *dto.Content
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	if dto.ClassID != nil {
		updates["class_id"] = *dto.ClassID
	}
	if dto.SubjectID != nil {
		updates["subject_id"] = *dto.SubjectID
	}
	if err := s.db.Model(chapter).Updates(updates).Error; err != nil {
		return nil, err
	}
	if dto.VideoLinks != nil {
		chapter.VideoLinks = dto.VideoLinks
		if err := s.db.Model(chapter).Update("video_links", dto.VideoLinks).Error; err != nil {
			return nil, err
		}
	}
	return chapter, nil
}

func (s *Service) Delete(id string) error {
	return s.db.Delete(&models.ChapterModel{}, "id = ?", id).Error
}

// RenderHTML returns the chapter content converted from markdown.
func (s *Service) RenderHTML(id string) (string, *models.ChapterModel, error) {
	chapter, err := s.GetByID(id)
	if err != nil || chapter == nil {
		return "", chapter, err
	}
	return renderMarkdown(chapter.Content), chapter, nil
}
