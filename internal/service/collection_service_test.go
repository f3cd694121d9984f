package service

import (
	"encoding/json"
	"errors"
	"simts_backend/internal/repository"
	"simts_backend/internal/util"
	"testing"
)

func TestCollectionDetailFiltersDeletedCases(t *testing.T) {
	db := newTestDB(t)
	cases := repository.NewCaseRepository(db)
	collections := repository.NewCollectionRepository(db)
	svc := NewCollectionService(collections, cases)

	col, err := svc.Create("Unidad 1", "casos de familia")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	kept, _ := cases.Save(json.RawMessage(`{"title":"a"}`))
	dropped, _ := cases.Save(json.RawMessage(`{"title":"b"}`))
	if err := svc.AddCase(col.ID, kept.ID); err != nil {
		t.Fatalf("add kept: %v", err)
	}
	if err := svc.AddCase(col.ID, dropped.ID); err != nil {
		t.Fatalf("add dropped: %v", err)
	}

	cases.SoftDelete(dropped.ID)

	detail, err := svc.Get(col.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(detail.Cases) != 1 {
		t.Fatalf("members = %d, want 1 (deleted case filtered)", len(detail.Cases))
	}
	if detail.Cases[0].ID != kept.ID {
		t.Errorf("member id = %d, want %d", detail.Cases[0].ID, kept.ID)
	}
}

func TestAddCaseValidatesBothSides(t *testing.T) {
	db := newTestDB(t)
	cases := repository.NewCaseRepository(db)
	svc := NewCollectionService(repository.NewCollectionRepository(db), cases)

	c, _ := cases.Save(json.RawMessage(`{"title":"a"}`))

	if err := svc.AddCase(99, c.ID); !errors.Is(err, util.ErrCollectionNotFound) {
		t.Errorf("missing collection: err = %v, want ErrCollectionNotFound", err)
	}

	col, _ := svc.Create("Unidad", "")
	if err := svc.AddCase(col.ID, 99); !errors.Is(err, util.ErrCaseNotFound) {
		t.Errorf("missing case: err = %v, want ErrCaseNotFound", err)
	}
}

func TestUpdateCollectionRequiresFields(t *testing.T) {
	db := newTestDB(t)
	svc := NewCollectionService(repository.NewCollectionRepository(db), repository.NewCaseRepository(db))

	if _, err := svc.Update(1, CollectionUpdateRequest{}); !errors.Is(err, util.ErrNoUpdatableFields) {
		t.Errorf("err = %v, want ErrNoUpdatableFields", err)
	}
}
