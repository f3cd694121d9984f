package model

import (
	"time"

	"github.com/google/uuid"
)

// 实体状态。删除永远是状态翻转，不做物理删除，
// 因此这里不使用 gorm.DeletedAt，status 列本身就是 API 契约的一部分。
const (
	StatusActive  = "active"
	StatusDeleted = "deleted"
)

// swagger:model
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func GenerateUUID() string {
	return uuid.New().String()
}
