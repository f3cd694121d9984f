package service

import (
	"errors"
	"simts_backend/internal/model"
	"simts_backend/internal/repository"
	"simts_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

type CollectionService struct {
	Repo     *repository.CollectionRepository
	CaseRepo *repository.CaseRepository
}

func NewCollectionService(repo *repository.CollectionRepository, caseRepo *repository.CaseRepository) *CollectionService {
	return &CollectionService{Repo: repo, CaseRepo: caseRepo}
}

func (s *CollectionService) Create(name, description string) (*model.Collection, error) {
	c := &model.Collection{
		Name:        name,
		Description: description,
	}
	if err := s.Repo.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CollectionService) List() ([]repository.CollectionSummary, error) {
	return s.Repo.List()
}

// CollectionCaseView 集合成员视图，案例字段平铺加上加入时间。
type CollectionCaseView struct {
	model.Case
	AddedToCollectionAt time.Time `json:"added_to_collection_at"`
}

type CollectionDetail struct {
	model.Collection
	Cases []CollectionCaseView `json:"cases"`
}

// Get 返回集合及其成员案例，已删除的案例被过滤，成员按加入时间倒序。
func (s *CollectionService) Get(id uint) (*CollectionDetail, error) {
	col, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCollectionNotFound
		}
		return nil, err
	}

	members, err := s.Repo.ListMembers(id)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.CaseID)
	}
	cases, err := s.CaseRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]model.Case, len(cases))
	for _, c := range cases {
		byID[c.ID] = c
	}

	detail := &CollectionDetail{
		Collection: *col,
		Cases:      make([]CollectionCaseView, 0, len(members)),
	}
	for _, m := range members {
		c, ok := byID[m.CaseID]
		if !ok {
			continue // 成员案例已被软删除
		}
		detail.Cases = append(detail.Cases, CollectionCaseView{
			Case:                c,
			AddedToCollectionAt: m.AddedAt,
		})
	}
	return detail, nil
}

// CollectionUpdateRequest 局部更新，nil 字段不动。
type CollectionUpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (s *CollectionService) Update(id uint, req CollectionUpdateRequest) (*model.Collection, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if len(updates) == 0 {
		return nil, util.ErrNoUpdatableFields
	}

	col, err := s.Repo.Update(id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCollectionNotFound
		}
		return nil, err
	}
	return col, nil
}

func (s *CollectionService) Delete(id uint) (bool, error) {
	return s.Repo.SoftDelete(id)
}

func (s *CollectionService) AddCase(collectionID, caseID uint) error {
	if _, err := s.Repo.FindByID(collectionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCollectionNotFound
		}
		return err
	}
	if _, err := s.CaseRepo.FindByID(caseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCaseNotFound
		}
		return err
	}
	return s.Repo.AddCase(collectionID, caseID)
}

func (s *CollectionService) RemoveCase(collectionID, caseID uint) (bool, error) {
	return s.Repo.RemoveCase(collectionID, caseID)
}
