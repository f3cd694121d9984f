package service

import (
	"errors"
	"simts_backend/internal/model"
	"simts_backend/internal/repository"
	"simts_backend/internal/util"
	"simts_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AnswerService struct {
	Sessions *repository.SessionRepository
	Cases    *repository.CaseRepository
}

func NewAnswerService(sessions *repository.SessionRepository, cases *repository.CaseRepository) *AnswerService {
	return &AnswerService{Sessions: sessions, Cases: cases}
}

type SubmittedAnswer struct {
	QuestionIndex  int     `json:"question_index"`
	SelectedOption *int    `json:"selected_option,omitempty"`
	OpenAnswer     *string `json:"open_answer,omitempty"`
}

type SubmitAnswersRequest struct {
	CaseID          uint              `json:"case_id" binding:"required"`
	Answers         []SubmittedAnswer `json:"answers" binding:"required"`
	DurationSeconds *int              `json:"duration_seconds,omitempty"`
}

// SubmitResult 汇总成绩：score 答对数，total 可评分题数。
// 不返回逐题明细，明细走会话详情接口。
type SubmitResult struct {
	SessionID uint `json:"session_id"`
	Score     int  `json:"score"`
	Total     int  `json:"total"`
}

// SubmitAnswers 一次作答的完整流程：建会话 → 逐题判分落库 → 提交收尾。
// 会话状态机 created → submitted，不可逆。
//
// 判分规则：题目定义了答案键且学生选了选项才计入可评分数；
// 开放题和越界题号照常落库但不判分（is_correct 保持 NULL）。
func (s *AnswerService) SubmitAnswers(studentID uint, req SubmitAnswersRequest) (*SubmitResult, error) {
	c, err := s.Cases.FindByID(req.CaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCaseNotFound
		}
		return nil, err
	}

	var questions []model.CaseQuestion
	if doc, err := model.ParseCaseDocument(c.Payload); err == nil {
		questions = doc.Questions
	} else {
		// payload 解析不开就当没有题目，全部按开放题存
		logger.Log.Warn("case payload has no parseable questions",
			zap.Uint("case_id", c.ID), zap.Error(err))
	}

	session := &model.StudentSession{
		StudentID: studentID,
		CaseID:    c.ID,
	}
	if err := s.Sessions.CreateSession(session); err != nil {
		return nil, err
	}

	score := 0
	total := 0
	for _, ans := range req.Answers {
		var isCorrect *bool

		if ans.QuestionIndex >= 0 && ans.QuestionIndex < len(questions) {
			key := questions[ans.QuestionIndex].AnswerIndex()
			if key != nil && ans.SelectedOption != nil {
				total++
				correct := *ans.SelectedOption == *key
				if correct {
					score++
				}
				isCorrect = &correct
			}
		}

		answer := &model.StudentAnswer{
			SessionID:      session.ID,
			QuestionIndex:  ans.QuestionIndex,
			SelectedOption: ans.SelectedOption,
			OpenAnswer:     ans.OpenAnswer,
			IsCorrect:      isCorrect,
		}
		if err := s.Sessions.CreateAnswer(answer); err != nil {
			return nil, err
		}
	}

	if err := s.Sessions.SubmitSession(session.ID, req.DurationSeconds); err != nil {
		return nil, err
	}

	return &SubmitResult{
		SessionID: session.ID,
		Score:     score,
		Total:     total,
	}, nil
}

func (s *AnswerService) ListSessions(studentID, caseID uint, limit int) ([]repository.SessionReport, error) {
	return s.Sessions.ListSessions(studentID, caseID, limit)
}

// SessionDetail 会话及其全部答案，教师端批改用。
type SessionDetail struct {
	Session model.StudentSession  `json:"session"`
	Answers []model.StudentAnswer `json:"answers"`
}

func (s *AnswerService) GetSessionDetail(sessionID uint) (*SessionDetail, error) {
	session, err := s.Sessions.FindSessionByID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}
	answers, err := s.Sessions.ListSessionAnswers(sessionID)
	if err != nil {
		return nil, err
	}
	return &SessionDetail{Session: *session, Answers: answers}, nil
}

func (s *AnswerService) UpdateFeedback(answerID uint, feedback string, score *float64) error {
	affected, err := s.Sessions.UpdateAnswerFeedback(answerID, feedback, score)
	if err != nil {
		return err
	}
	if !affected {
		return util.ErrAnswerNotFound
	}
	return nil
}
