package models

// UserModel is an admin dashboard account.
type UserModel struct {
	Base
	Username string `json:"username" gorm:"uniqueIndex;not null"`
	Password string `json:"-"        gorm:"not null"` // bcrypt hash
	Name     string `json:"name"`
}

func (UserModel) TableName() string { return "users" }
