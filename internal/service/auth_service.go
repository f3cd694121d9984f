package service

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"simts_backend/internal/config"
	"simts_backend/internal/model"
	"simts_backend/internal/repository"
	"simts_backend/internal/util"

	"gorm.io/gorm"
)

type AuthService struct {
	Repo *repository.StudentRepository
	JWT  config.JWTConfig
}

func NewAuthService(repo *repository.StudentRepository, jwtCfg config.JWTConfig) *AuthService {
	return &AuthService{Repo: repo, JWT: jwtCfg}
}

type LoginResult struct {
	Token   string        `json:"token"`
	Student model.Student `json:"student"`
}

// Login 口令先做 SHA-256 十六进制摘要再比对，库里只存摘要。
func (s *AuthService) Login(username, password string) (*LoginResult, error) {
	digest := sha256.Sum256([]byte(password))
	hash := hex.EncodeToString(digest[:])

	student, err := s.Repo.FindByCredentials(username, hash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}

	token, err := util.GenerateJWT(student, s.JWT.Secret, s.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, Student: *student}, nil
}

func (s *AuthService) ListStudents(status string) ([]model.Student, error) {
	return s.Repo.List(status)
}
