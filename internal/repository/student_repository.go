package repository

import (
	"simts_backend/internal/model"

	"gorm.io/gorm"
)

type StudentRepository struct {
	DB *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{DB: db}
}

// FindByCredentials 按用户名+口令摘要匹配启用状态的账号。
func (r *StudentRepository) FindByCredentials(username, passwordHash string) (*model.Student, error) {
	var s model.Student
	err := r.DB.Where("username = ? AND password_hash = ? AND status = ?",
		username, passwordHash, model.StatusActive).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StudentRepository) FindByID(id uint) (*model.Student, error) {
	var s model.Student
	err := r.DB.First(&s, id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StudentRepository) List(status string) ([]model.Student, error) {
	if status == "" {
		status = model.StatusActive
	}
	var students []model.Student
	err := r.DB.Where("status = ?", status).Order("name").Find(&students).Error
	return students, err
}
