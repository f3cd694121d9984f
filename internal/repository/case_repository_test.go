package repository

import (
	"encoding/json"
	"errors"
	"reflect"
	"simts_backend/internal/model"
	"testing"

	"gorm.io/gorm"
)

func TestSaveDerivesProjectionFromAlternateKeys(t *testing.T) {
	repo := NewCaseRepository(newTestDB(t))

	payload := json.RawMessage(`{"id":"caso-7","title":"Familia en crisis","eje":"familia","nivel":"intermedio"}`)
	saved, err := repo.Save(payload)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if saved.CaseID != "caso-7" {
		t.Errorf("case_id = %q, want caso-7", saved.CaseID)
	}
	if saved.Title != "Familia en crisis" {
		t.Errorf("title = %q", saved.Title)
	}
	if saved.Theme != "familia" {
		t.Errorf("theme = %q, want familia", saved.Theme)
	}
	if saved.Difficulty != "intermedio" {
		t.Errorf("difficulty = %q, want intermedio", saved.Difficulty)
	}
	if saved.Status != model.StatusActive {
		t.Errorf("status = %q, want active", saved.Status)
	}
}

// 文档本身是数据源，入库再取出必须语义等价，嵌套的题目数组也不能丢。
func TestSavedPayloadRoundTrips(t *testing.T) {
	repo := NewCaseRepository(newTestDB(t))

	payload := json.RawMessage(`{
		"case_id": "c-3",
		"title": "Menores en riesgo",
		"eje": "infancia",
		"nivel": "avanzado",
		"learning_objectives": ["detección", "derivación"],
		"questions": [
			{"question": "P1", "options": ["a", "b"], "correct_option": 1, "justification": "b es la adecuada"},
			{"question": "P2", "respuesta_correcta": 0},
			{"question": "P3"}
		],
		"suggested_interventions": ["visita domiciliaria"]
	}`)
	saved, err := repo.Save(payload)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	stored, err := repo.FindByID(saved.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}

	var want, got interface{}
	if err := json.Unmarshal(payload, &want); err != nil {
		t.Fatalf("unmarshal original: %v", err)
	}
	if err := json.Unmarshal(stored.Payload, &got); err != nil {
		t.Fatalf("unmarshal stored: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Errorf("stored payload differs from original:\nwant %v\ngot  %v", want, got)
	}
}

func TestSaveGeneratesCaseIDWhenDocumentHasNone(t *testing.T) {
	repo := NewCaseRepository(newTestDB(t))

	saved, err := repo.Save(json.RawMessage(`{"description":"sin identificadores"}`))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.CaseID == "" {
		t.Error("expected generated case_id for document without identifiers")
	}
}

func TestListExcludesDeletedByDefault(t *testing.T) {
	repo := NewCaseRepository(newTestDB(t))

	a, _ := repo.Save(json.RawMessage(`{"title":"a","theme":"familia"}`))
	b, _ := repo.Save(json.RawMessage(`{"title":"b","theme":"familia"}`))
	if _, err := repo.SoftDelete(b.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	cases, err := repo.List("", "", "", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(cases) != 1 || cases[0].ID != a.ID {
		t.Fatalf("expected only the active case, got %d rows", len(cases))
	}

	// 显式过滤 deleted 时软删除的行可见
	deleted, err := repo.List("", "", model.StatusDeleted, 0)
	if err != nil {
		t.Fatalf("list deleted: %v", err)
	}
	if len(deleted) != 1 || deleted[0].ID != b.ID {
		t.Fatalf("expected the deleted case, got %d rows", len(deleted))
	}
}

func TestSoftDeleteIsIdempotent(t *testing.T) {
	repo := NewCaseRepository(newTestDB(t))

	saved, _ := repo.Save(json.RawMessage(`{"title":"x"}`))

	deleted, err := repo.SoftDelete(saved.ID)
	if err != nil || !deleted {
		t.Fatalf("first delete = (%v, %v), want (true, nil)", deleted, err)
	}

	deleted, err = repo.SoftDelete(saved.ID)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if deleted {
		t.Error("second delete reported a change")
	}

	if _, err := repo.FindByID(saved.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("FindByID after delete = %v, want record not found", err)
	}
}

func TestUpdateRefusesDeletedCase(t *testing.T) {
	repo := NewCaseRepository(newTestDB(t))

	saved, _ := repo.Save(json.RawMessage(`{"title":"x"}`))
	repo.SoftDelete(saved.ID)

	_, err := repo.Update(saved.ID, map[string]interface{}{"notes": "tarde"})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("update on deleted case = %v, want record not found", err)
	}
}

func TestStatisticsSkipsUnratedCases(t *testing.T) {
	repo := NewCaseRepository(newTestDB(t))

	c1, _ := repo.Save(json.RawMessage(`{"title":"a","theme":"familia","nivel":"basico"}`))
	c2, _ := repo.Save(json.RawMessage(`{"title":"b","theme":"familia","nivel":"avanzado"}`))
	repo.Save(json.RawMessage(`{"title":"c","theme":"infancia","nivel":"basico"}`))

	repo.Update(c1.ID, map[string]interface{}{"rating": 4})
	repo.Update(c2.ID, map[string]interface{}{"rating": 5})

	stats, err := repo.GetStatistics()
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}

	if stats.TotalCases != 3 {
		t.Errorf("total = %d, want 3", stats.TotalCases)
	}
	if stats.AverageRating != 4.5 {
		t.Errorf("average rating = %v, want 4.5 (unrated cases excluded)", stats.AverageRating)
	}
	if stats.ByTheme["familia"] != 2 || stats.ByTheme["infancia"] != 1 {
		t.Errorf("by_theme = %v", stats.ByTheme)
	}
	if stats.ByDifficulty["basico"] != 2 {
		t.Errorf("by_difficulty = %v", stats.ByDifficulty)
	}
	if stats.RecentCases != 3 {
		t.Errorf("recent = %d, want 3", stats.RecentCases)
	}
}
