package model

import "time"

// Collection 案例集合，用于教师组织课程材料。
// swagger:model Collection
type Collection struct {
	BaseModel
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Status      string `gorm:"size:20;default:'active'" json:"status"`
}

func (Collection) TableName() string {
	return "collections"
}

// CollectionCase 集合-案例多对多关系，(collection_id, case_id) 唯一。
type CollectionCase struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CollectionID uint      `gorm:"not null;uniqueIndex:idx_collection_case" json:"collection_id"`
	CaseID       uint      `gorm:"not null;uniqueIndex:idx_collection_case" json:"case_id"`
	AddedAt      time.Time `json:"added_at"`
}

func (CollectionCase) TableName() string {
	return "collection_cases"
}
