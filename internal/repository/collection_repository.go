package repository

import (
	"errors"
	"simts_backend/internal/model"
	"simts_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

type CollectionRepository struct {
	DB *gorm.DB
}

func NewCollectionRepository(db *gorm.DB) *CollectionRepository {
	return &CollectionRepository{DB: db}
}

func (r *CollectionRepository) Create(c *model.Collection) error {
	c.Status = model.StatusActive
	return r.DB.Create(c).Error
}

// CollectionSummary 列表行，带成员数量。
type CollectionSummary struct {
	ID          uint      `gorm:"column:id" json:"id"`
	Name        string    `gorm:"column:name" json:"name"`
	Description string    `gorm:"column:description" json:"description"`
	Status      string    `gorm:"column:status" json:"status"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
	CaseCount   int64     `gorm:"column:case_count" json:"case_count"`
}

func (r *CollectionRepository) List() ([]CollectionSummary, error) {
	var rows []CollectionSummary
	err := r.DB.Model(&model.Collection{}).
		Select("collections.id, collections.name, collections.description, collections.status, collections.created_at, collections.updated_at, COUNT(collection_cases.case_id) AS case_count").
		Joins("LEFT JOIN collection_cases ON collections.id = collection_cases.collection_id").
		Where("collections.status = ?", model.StatusActive).
		Group("collections.id").
		Order("collections.created_at desc").
		Scan(&rows).Error
	return rows, err
}

func (r *CollectionRepository) FindByID(id uint) (*model.Collection, error) {
	var c model.Collection
	err := r.DB.Where("id = ? AND status <> ?", id, model.StatusDeleted).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CollectionRepository) Update(id uint, updates map[string]interface{}) (*model.Collection, error) {
	res := r.DB.Model(&model.Collection{}).
		Where("id = ? AND status <> ?", id, model.StatusDeleted).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var c model.Collection
	if err := r.DB.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CollectionRepository) SoftDelete(id uint) (bool, error) {
	res := r.DB.Model(&model.Collection{}).
		Where("id = ? AND status <> ?", id, model.StatusDeleted).
		Update("status", model.StatusDeleted)
	return res.RowsAffected > 0, res.Error
}

// AddCase 加入成员并刷新集合的 updated_at。
// 重复加入返回 ErrCaseAlreadyInCollection，不升级为存储错误。
func (r *CollectionRepository) AddCase(collectionID, caseID uint) error {
	var existing int64
	err := r.DB.Model(&model.CollectionCase{}).
		Where("collection_id = ? AND case_id = ?", collectionID, caseID).
		Count(&existing).Error
	if err != nil {
		return err
	}
	if existing > 0 {
		return util.ErrCaseAlreadyInCollection
	}

	now := time.Now().UTC()
	member := &model.CollectionCase{
		CollectionID: collectionID,
		CaseID:       caseID,
		AddedAt:      now,
	}
	if err := r.DB.Create(member).Error; err != nil {
		// 并发写到同一对时由唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return util.ErrCaseAlreadyInCollection
		}
		return err
	}

	return r.touch(collectionID, now)
}

func (r *CollectionRepository) RemoveCase(collectionID, caseID uint) (bool, error) {
	res := r.DB.Where("collection_id = ? AND case_id = ?", collectionID, caseID).
		Delete(&model.CollectionCase{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, r.touch(collectionID, time.Now().UTC())
}

// ListMembers 按加入时间倒序返回成员关系。
func (r *CollectionRepository) ListMembers(collectionID uint) ([]model.CollectionCase, error) {
	var members []model.CollectionCase
	err := r.DB.Where("collection_id = ?", collectionID).
		Order("added_at desc").
		Find(&members).Error
	return members, err
}

func (r *CollectionRepository) touch(collectionID uint, at time.Time) error {
	return r.DB.Model(&model.Collection{}).
		Where("id = ?", collectionID).
		Update("updated_at", at).Error
}
