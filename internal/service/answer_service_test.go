package service

import (
	"encoding/json"
	"errors"
	"simts_backend/internal/repository"
	"simts_backend/internal/util"
	"testing"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func TestSubmitAnswersScoresGradableQuestions(t *testing.T) {
	db := newTestDB(t)
	cases := repository.NewCaseRepository(db)
	sessions := repository.NewSessionRepository(db)
	svc := NewAnswerService(sessions, cases)

	// 第二题用西语答案键，第三题没有答案键（开放题）
	payload := json.RawMessage(`{
		"title": "Caso de prueba",
		"questions": [
			{"question": "P1", "options": ["a","b","c"], "correct_option": 1},
			{"question": "P2", "options": ["a","b","c"], "respuesta_correcta": 0},
			{"question": "P3"}
		]
	}`)
	saved, err := cases.Save(payload)
	if err != nil {
		t.Fatalf("save case: %v", err)
	}

	duration := 300
	result, err := svc.SubmitAnswers(1, SubmitAnswersRequest{
		CaseID: saved.ID,
		Answers: []SubmittedAnswer{
			{QuestionIndex: 0, SelectedOption: intPtr(1)},
			{QuestionIndex: 1, SelectedOption: intPtr(2)},
			{QuestionIndex: 2, OpenAnswer: strPtr("derivar al equipo de infancia")},
			{QuestionIndex: 9, SelectedOption: intPtr(0)},
		},
		DurationSeconds: &duration,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if result.Score != 1 {
		t.Errorf("score = %d, want 1", result.Score)
	}
	if result.Total != 2 {
		t.Errorf("total = %d, want 2 (open and out-of-range answers are not gradable)", result.Total)
	}

	detail, err := svc.GetSessionDetail(result.SessionID)
	if err != nil {
		t.Fatalf("session detail: %v", err)
	}
	if detail.Session.SubmittedAt == nil {
		t.Error("session not submitted")
	}
	if len(detail.Answers) != 4 {
		t.Fatalf("answers = %d, want 4", len(detail.Answers))
	}

	// ListSessionAnswers 按题号排序
	first := detail.Answers[0]
	if first.IsCorrect == nil || !*first.IsCorrect {
		t.Errorf("answer 0 is_correct = %v, want true", first.IsCorrect)
	}
	second := detail.Answers[1]
	if second.IsCorrect == nil || *second.IsCorrect {
		t.Errorf("answer 1 is_correct = %v, want false", second.IsCorrect)
	}
	open := detail.Answers[2]
	if open.IsCorrect != nil {
		t.Errorf("open answer is_correct = %v, want nil", *open.IsCorrect)
	}
	outOfRange := detail.Answers[3]
	if outOfRange.IsCorrect != nil {
		t.Errorf("out-of-range answer is_correct = %v, want nil", *outOfRange.IsCorrect)
	}
}

func TestSubmitAnswersUnknownCase(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnswerService(repository.NewSessionRepository(db), repository.NewCaseRepository(db))

	_, err := svc.SubmitAnswers(1, SubmitAnswersRequest{CaseID: 42, Answers: []SubmittedAnswer{}})
	if !errors.Is(err, util.ErrCaseNotFound) {
		t.Errorf("err = %v, want ErrCaseNotFound", err)
	}
}

func TestSubmitAnswersWithUnparseablePayload(t *testing.T) {
	db := newTestDB(t)
	cases := repository.NewCaseRepository(db)
	svc := NewAnswerService(repository.NewSessionRepository(db), cases)

	saved, err := cases.Save(json.RawMessage(`"solo texto"`))
	if err != nil {
		t.Fatalf("save case: %v", err)
	}

	result, err := svc.SubmitAnswers(1, SubmitAnswersRequest{
		CaseID: saved.ID,
		Answers: []SubmittedAnswer{
			{QuestionIndex: 0, SelectedOption: intPtr(0)},
		},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Total != 0 || result.Score != 0 {
		t.Errorf("result = %+v, want score 0 / total 0", result)
	}
}

func TestUpdateFeedbackMissingAnswer(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnswerService(repository.NewSessionRepository(db), repository.NewCaseRepository(db))

	err := svc.UpdateFeedback(123, "no existe", nil)
	if !errors.Is(err, util.ErrAnswerNotFound) {
		t.Errorf("err = %v, want ErrAnswerNotFound", err)
	}
}
