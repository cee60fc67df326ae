package models

// ClassModel is a curriculum class (grade level / cohort).
type ClassModel struct {
	Base
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description"`
}

func (ClassModel) TableName() string { return "classes" }

// SubjectModel is a curriculum subject belonging to a class.
type SubjectModel struct {
	Base
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description"`
	ClassID     string `json:"class_id" gorm:"type:char(36);index;not null"`
}

func (SubjectModel) TableName() string { return "subjects" }
