package repository

import (
	"database/sql"
	"encoding/json"
	"math"
	"simts_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type CaseRepository struct {
	DB *gorm.DB
}

func NewCaseRepository(db *gorm.DB) *CaseRepository {
	return &CaseRepository{DB: db}
}

// Save 持久化一份案例文档。投影列从 payload 推导，payload 本身原样入库。
func (r *CaseRepository) Save(payload json.RawMessage) (*model.Case, error) {
	fields := model.DeriveCaseFields(payload)

	c := &model.Case{
		CaseID:     fields.CaseID,
		Title:      fields.Title,
		Theme:      fields.Theme,
		Difficulty: fields.Difficulty,
		Payload:    payload,
		Status:     model.StatusActive,
		Tags:       []string{},
	}
	if err := r.DB.Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// List 过滤条件是合取的，默认排除已删除的案例，显式传 status 可以覆盖。
func (r *CaseRepository) List(theme, difficulty, status string, limit int) ([]model.Case, error) {
	if limit <= 0 {
		limit = 50
	}

	query := r.DB.Model(&model.Case{})
	if theme != "" {
		query = query.Where("theme = ?", theme)
	}
	if difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	} else {
		query = query.Where("status <> ?", model.StatusDeleted)
	}

	var cases []model.Case
	err := query.Order("id desc").Limit(limit).Find(&cases).Error
	return cases, err
}

// FindByID 已软删除的案例视为不存在。
func (r *CaseRepository) FindByID(id uint) (*model.Case, error) {
	var c model.Case
	err := r.DB.Where("id = ? AND status <> ?", id, model.StatusDeleted).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CaseRepository) FindByIDs(ids []uint) ([]model.Case, error) {
	var cases []model.Case
	if len(ids) == 0 {
		return cases, nil
	}
	err := r.DB.Where("id IN ? AND status <> ?", ids, model.StatusDeleted).Find(&cases).Error
	return cases, err
}

// Update 只写请求中出现的列，updated_at 由 GORM 自动刷新。
func (r *CaseRepository) Update(id uint, updates map[string]interface{}) (*model.Case, error) {
	res := r.DB.Model(&model.Case{}).
		Where("id = ? AND status <> ?", id, model.StatusDeleted).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	// 状态可能刚被这次更新改掉，重取时不过滤
	var c model.Case
	if err := r.DB.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// SoftDelete 状态翻转。重复删除影响 0 行。
func (r *CaseRepository) SoftDelete(id uint) (bool, error) {
	res := r.DB.Model(&model.Case{}).
		Where("id = ? AND status <> ?", id, model.StatusDeleted).
		Update("status", model.StatusDeleted)
	return res.RowsAffected > 0, res.Error
}

type Statistics struct {
	TotalCases    int64            `json:"total_cases"`
	ByTheme       map[string]int64 `json:"by_theme"`
	ByDifficulty  map[string]int64 `json:"by_difficulty"`
	AverageRating float64          `json:"average_rating"`
	RecentCases   int64            `json:"recent_cases"`
}

type groupCount struct {
	Key   string `gorm:"column:grp"`
	Count int64  `gorm:"column:cnt"`
}

// GetStatistics 聚合非删除案例。平均分只算 rating > 0 的案例，
// 未评分(0)不会拉低平均值。
func (r *CaseRepository) GetStatistics() (*Statistics, error) {
	stats := &Statistics{
		ByTheme:      map[string]int64{},
		ByDifficulty: map[string]int64{},
	}

	active := r.DB.Model(&model.Case{}).Where("status <> ?", model.StatusDeleted)

	if err := active.Session(&gorm.Session{}).Count(&stats.TotalCases).Error; err != nil {
		return nil, err
	}

	var byTheme []groupCount
	if err := active.Session(&gorm.Session{}).
		Select("theme AS grp, COUNT(*) AS cnt").
		Group("theme").
		Scan(&byTheme).Error; err != nil {
		return nil, err
	}
	for _, row := range byTheme {
		stats.ByTheme[row.Key] = row.Count
	}

	var byDifficulty []groupCount
	if err := active.Session(&gorm.Session{}).
		Select("difficulty AS grp, COUNT(*) AS cnt").
		Group("difficulty").
		Scan(&byDifficulty).Error; err != nil {
		return nil, err
	}
	for _, row := range byDifficulty {
		stats.ByDifficulty[row.Key] = row.Count
	}

	var avg sql.NullFloat64
	if err := active.Session(&gorm.Session{}).
		Where("rating > 0").
		Select("AVG(rating)").
		Row().Scan(&avg); err != nil {
		return nil, err
	}
	if avg.Valid {
		stats.AverageRating = math.Round(avg.Float64*100) / 100
	}

	weekAgo := time.Now().UTC().AddDate(0, 0, -7)
	if err := active.Session(&gorm.Session{}).
		Where("created_at >= ?", weekAgo).
		Count(&stats.RecentCases).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
