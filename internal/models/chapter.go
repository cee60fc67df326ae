package models

// VideoLink is an embedded source video reference on a chapter.
type VideoLink struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// ChapterModel is a persisted unit of curriculum-aligned content: the written
// summary of a source video tied to a class and subject.
type ChapterModel struct {
	Base
	Title       string      `json:"title"       gorm:"not null"`
	Content     string      `json:"content"     gorm:"type:longtext"` // markdown
	Description string      `json:"description" gorm:"type:text"`
	VideoLinks  []VideoLink `json:"yt_links"    gorm:"type:longtext;serializer:json"`
	ClassID     string      `json:"class_id"    gorm:"type:char(36);index;not null"`
	SubjectID   string      `json:"subject_id"  gorm:"type:char(36);index;not null"`
	Source      string      `json:"source"` // "youtube" | "cache" | "import"
	Language    string      `json:"language"`
	LegacyID    string      `json:"legacy_id,omitempty" gorm:"index"` // Mongo ObjectID hex for imported rows
}

func (ChapterModel) TableName() string { return "chapters" }
