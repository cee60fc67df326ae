package migrate

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/chalkroute/core/internal/models"
	"github.com/chalkroute/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxImportBody = 32 << 20

// legacyChapter mirrors a chapter document exported from the old MongoDB
// backend in extended JSON.
type legacyChapter struct {
	ID          primitive.ObjectID `bson:"_id"`
	Title       string             `bson:"title"`
	Content     string             `bson:"content"`
	Description string             `bson:"description"`
	YtLinks     []legacyLink       `bson:"yt_links"`
	ClassID     string             `bson:"class_id"`
	SubjectID   string             `bson:"subject_id"`
	Language    string             `bson:"language"`
	CreatedAt   primitive.DateTime `bson:"createdAt"`
}

type legacyLink struct {
	Title       string `bson:"title"`
	URL         string `bson:"url"`
	Description string `bson:"description"`
}

type importReport struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	return &Service{db: db, log: log}
}

// convertLegacyChapter decodes one extended-JSON chapter document into a row.
// The Mongo ObjectID is kept in LegacyID so re-imports can be detected.
func convertLegacyChapter(raw json.RawMessage) (*models.ChapterModel, error) {
	var legacy legacyChapter
	if err := bson.UnmarshalExtJSON(raw, false, &legacy); err != nil {
		return nil, err
	}
	if legacy.Title == "" || legacy.Content == "" {
		return nil, fmt.Errorf("missing title or content")
	}

	links := make([]models.VideoLink, 0, len(legacy.YtLinks))
	for _, l := range legacy.YtLinks {
		links = append(links, models.VideoLink{
			Title:       l.Title,
			URL:         l.URL,
			Description: l.Description,
		})
	}

	lang := legacy.Language
	if lang == "" {
		lang = "en"
	}
	chapter := &models.ChapterModel{
		Title:       legacy.Title,
		Content:     legacy.Content,
		Description: legacy.Description,
		VideoLinks:  links,
		ClassID:     legacy.ClassID,
		SubjectID:   legacy.SubjectID,
		Source:      "import",
		Language:    lang,
		LegacyID:    legacy.ID.Hex(),
	}
	// DateTime(0) is the epoch, not Go's zero time, so check the raw value.
	if legacy.CreatedAt != 0 {
		chapter.CreatedAt = legacy.CreatedAt.Time()
	}
	return chapter, nil
}

// ImportChapters converts legacy extended-JSON chapter documents into rows.
// Documents that fail to decode are skipped and reported, not fatal.
func (s *Service) ImportChapters(docs []json.RawMessage) importReport {
	report := importReport{}

	for i, raw := range docs {
		chapter, err := convertLegacyChapter(raw)
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("document %d: %v", i, err))
			continue
		}

		// Re-running an import must not duplicate chapters.
		var count int64
		s.db.Model(&models.ChapterModel{}).Where("legacy_id = ?", chapter.LegacyID).Count(&count)
		if count > 0 {
			report.Skipped++
			continue
		}

		if err := s.db.Create(chapter).Error; err != nil {
			s.log.Warn("legacy chapter import failed",
				zap.String("legacy_id", chapter.LegacyID), zap.Error(err))
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("document %d: %v", i, err))
			continue
		}
		report.Imported++
	}
	return report
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.POST("/migrate/chapters", authMW, h.importChapters)
}

func (h *Handler) importChapters(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBody))
	if err != nil {
		response.BadRequest(c, "failed to read request body")
		return
	}

	var docs []json.RawMessage
	if err := json.Unmarshal(body, &docs); err != nil {
		response.BadRequest(c, "body must be a JSON array of chapter documents")
		return
	}

	response.OK(c, h.svc.ImportChapters(docs))
}
