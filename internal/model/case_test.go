package model

import (
	"encoding/json"
	"testing"
)

func TestDeriveCaseFieldsPrecedence(t *testing.T) {
	fields := DeriveCaseFields(json.RawMessage(`{
		"case_id": "c-1",
		"id": "ignored",
		"title": "Título",
		"eje": "familia",
		"theme": "ignored",
		"nivel": "avanzado",
		"difficulty": "ignored"
	}`))

	if fields.CaseID != "c-1" {
		t.Errorf("case_id = %q, want c-1", fields.CaseID)
	}
	if fields.Theme != "familia" {
		t.Errorf("theme = %q, want familia (eje wins)", fields.Theme)
	}
	if fields.Difficulty != "avanzado" {
		t.Errorf("difficulty = %q, want avanzado (nivel wins)", fields.Difficulty)
	}
}

func TestDeriveCaseFieldsFallbacks(t *testing.T) {
	fields := DeriveCaseFields(json.RawMessage(`{"title":"Solo título"}`))
	if fields.CaseID != "Solo título" {
		t.Errorf("case_id = %q, want title fallback", fields.CaseID)
	}

	fields = DeriveCaseFields(json.RawMessage(`{}`))
	if fields.CaseID == "" {
		t.Error("case_id must fall back to a generated identifier")
	}
	if fields.Title != "" || fields.Theme != "" || fields.Difficulty != "" {
		t.Errorf("empty document should leave projections empty: %+v", fields)
	}
}

func TestAnswerIndexPrefersEnglishKey(t *testing.T) {
	one, two := 1, 2

	q := CaseQuestion{CorrectOption: &one, RespuestaCorrecta: &two}
	if got := q.AnswerIndex(); got == nil || *got != 1 {
		t.Errorf("AnswerIndex = %v, want 1", got)
	}

	q = CaseQuestion{RespuestaCorrecta: &two}
	if got := q.AnswerIndex(); got == nil || *got != 2 {
		t.Errorf("AnswerIndex = %v, want 2", got)
	}

	q = CaseQuestion{}
	if q.AnswerIndex() != nil {
		t.Error("question without answer key must return nil")
	}
}
