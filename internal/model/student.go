package model

import "time"

// swagger:model Student
type Student struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:64;not null" json:"-"`
	Name         string    `gorm:"size:100" json:"name"`
	Email        string    `gorm:"size:100" json:"email"`
	Status       string    `gorm:"size:20;default:'active'" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Student) TableName() string {
	return "students"
}
