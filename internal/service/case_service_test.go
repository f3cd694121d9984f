package service

import (
	"context"
	"encoding/json"
	"errors"
	"simts_backend/internal/repository"
	"simts_backend/internal/util"
	"strings"
	"testing"
)

type fakeGenerator struct {
	response string
	err      error
	prompt   string
}

func (g *fakeGenerator) Chat(system, prompt string) (string, error) {
	g.prompt = prompt
	return g.response, g.err
}

func TestExtractCaseJSON(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		parsed bool
	}{
		{"whole document", `{"case_id":"x","title":"T"}`, true},
		{"document with surrounding prose", "Aquí tienes el caso:\n{\"case_id\":\"x\"}\nEspero que sirva.", true},
		{"no json at all", "Lo siento, no puedo generar el caso.", false},
		{"broken braces", "texto { sin cerrar", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractCaseJSON(tt.input)
			if tt.parsed && got == nil {
				t.Fatal("expected a parsed document, got nil")
			}
			if !tt.parsed && got != nil {
				t.Fatalf("expected nil, got %s", got)
			}
			if tt.parsed {
				var doc map[string]interface{}
				if err := json.Unmarshal(got, &doc); err != nil {
					t.Fatalf("extracted fragment is not valid JSON: %v", err)
				}
			}
		})
	}
}

func TestGenerateCasePersistsParsedDocument(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewCaseRepository(db)
	gen := &fakeGenerator{response: `{"case_id":"caso-1","title":"Desahucio","eje":"vivienda","nivel":"avanzado","questions":[]}`}
	svc := NewCaseService(repo, gen, nil)

	result, err := svc.GenerateCase(context.Background(), SimulateRequest{Generate: true, Theme: "vivienda"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if !result.OK {
		t.Error("result not ok")
	}
	if result.Case == nil {
		t.Fatal("expected parsed case document")
	}
	if result.Saved == nil {
		t.Fatal("expected saved case")
	}
	if result.Saved.Theme != "vivienda" || result.Saved.Difficulty != "avanzado" {
		t.Errorf("projection = (%q, %q)", result.Saved.Theme, result.Saved.Difficulty)
	}

	stored, err := repo.FindByID(result.Saved.ID)
	if err != nil {
		t.Fatalf("stored case: %v", err)
	}
	if stored.Title != "Desahucio" {
		t.Errorf("stored title = %q", stored.Title)
	}
}

func TestGenerateCaseReturnsRawTextWhenUnparseable(t *testing.T) {
	db := newTestDB(t)
	gen := &fakeGenerator{response: "No hay JSON aquí."}
	svc := NewCaseService(repository.NewCaseRepository(db), gen, nil)

	result, err := svc.GenerateCase(context.Background(), SimulateRequest{Generate: true})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !result.OK {
		t.Error("unparseable output must still be ok")
	}
	if result.Case != nil || result.Saved != nil {
		t.Error("nothing should be parsed or saved")
	}
	if result.Text != "No hay JSON aquí." {
		t.Errorf("text = %q", result.Text)
	}
}

func TestGenerateCasePropagatesGeneratorError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("upstream down")}
	svc := NewCaseService(repository.NewCaseRepository(newTestDB(t)), gen, nil)

	if _, err := svc.GenerateCase(context.Background(), SimulateRequest{Generate: true}); err == nil {
		t.Fatal("expected error from generator")
	}
}

func TestBuildGenerationPromptDefaultsAndFacets(t *testing.T) {
	prompt := buildGenerationPrompt(SimulateRequest{})
	if !strings.Contains(prompt, "temas de trabajo social general") {
		t.Error("missing default theme")
	}
	if !strings.Contains(prompt, "basico") {
		t.Error("missing default difficulty")
	}

	prompt = buildGenerationPrompt(SimulateRequest{Theme: "migración", AgeGroup: "adolescentes"})
	if !strings.Contains(prompt, "migración") || !strings.Contains(prompt, "adolescentes") {
		t.Error("facets not included in prompt")
	}
	if !strings.Contains(prompt, "correct_option") {
		t.Error("prompt must demand the answer key field")
	}
}

func TestUpdateCaseRequiresFields(t *testing.T) {
	db := newTestDB(t)
	svc := NewCaseService(repository.NewCaseRepository(db), nil, nil)

	_, err := svc.UpdateCase(1, CaseUpdateRequest{})
	if !errors.Is(err, util.ErrNoUpdatableFields) {
		t.Errorf("err = %v, want ErrNoUpdatableFields", err)
	}
}

func TestUpdateCaseSyncsProjectionFromPayload(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewCaseRepository(db)
	svc := NewCaseService(repo, nil, nil)

	saved, _ := repo.Save(json.RawMessage(`{"title":"Antes","eje":"familia"}`))

	rating := 5
	updated, err := svc.UpdateCase(saved.ID, CaseUpdateRequest{
		Payload: json.RawMessage(`{"title":"Después","eje":"vivienda","nivel":"intermedio"}`),
		Rating:  &rating,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Title != "Después" || updated.Theme != "vivienda" || updated.Difficulty != "intermedio" {
		t.Errorf("projection not synced: (%q, %q, %q)", updated.Title, updated.Theme, updated.Difficulty)
	}
	if updated.Rating != 5 {
		t.Errorf("rating = %d, want 5", updated.Rating)
	}
}
