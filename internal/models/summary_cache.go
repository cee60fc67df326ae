package models

// SummaryCacheModel is the durable mirror of the Redis summary cache.
type SummaryCacheModel struct {
	Base
	Hash    string `json:"hash"     gorm:"uniqueIndex;not null"` // hash(videoID + lang + mode)
	Summary string `json:"summary"  gorm:"type:longtext;not null"`
	VideoID string `json:"video_id" gorm:"index;not null"`
	Lang    string `json:"lang"     gorm:"default:'en'"`
	Mode    string `json:"mode"     gorm:"default:'video'"`
}

func (SummaryCacheModel) TableName() string { return "summary_caches" }
