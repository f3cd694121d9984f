package repository

import (
	"simts_backend/internal/model"
	"simts_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) CreateSession(s *model.StudentSession) error {
	return r.DB.Create(s).Error
}

func (r *SessionRepository) FindSessionByID(id uint) (*model.StudentSession, error) {
	var s model.StudentSession
	err := r.DB.First(&s, id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SubmitSession 置 submitted_at，会话从此不可变。
// 只命中未提交的行，重复提交报 ErrSessionSubmitted。
func (r *SessionRepository) SubmitSession(id uint, durationSeconds *int) error {
	now := time.Now().UTC()
	res := r.DB.Model(&model.StudentSession{}).
		Where("id = ? AND submitted_at IS NULL", id).
		Updates(map[string]interface{}{
			"submitted_at":     now,
			"duration_seconds": durationSeconds,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrSessionSubmitted
	}
	return nil
}

func (r *SessionRepository) CreateAnswer(a *model.StudentAnswer) error {
	return r.DB.Create(a).Error
}

func (r *SessionRepository) ListSessionAnswers(sessionID uint) ([]model.StudentAnswer, error) {
	var answers []model.StudentAnswer
	err := r.DB.Where("session_id = ?", sessionID).
		Order("question_index").
		Find(&answers).Error
	return answers, err
}

// SessionReport 教师端报表行：会话 × 学生 × 案例。
type SessionReport struct {
	SessionID       uint       `gorm:"column:session_id" json:"session_id"`
	StudentID       uint       `gorm:"column:student_id" json:"student_id"`
	StudentUsername string     `gorm:"column:student_username" json:"student_username"`
	StudentName     string     `gorm:"column:student_name" json:"student_name"`
	CaseID          uint       `gorm:"column:case_id" json:"case_id"`
	CaseTitle       string     `gorm:"column:case_title" json:"case_title"`
	CreatedAt       time.Time  `gorm:"column:created_at" json:"created_at"`
	SubmittedAt     *time.Time `gorm:"column:submitted_at" json:"submitted_at"`
	DurationSeconds *int       `gorm:"column:duration_seconds" json:"duration_seconds"`
}

func (r *SessionRepository) ListSessions(studentID, caseID uint, limit int) ([]SessionReport, error) {
	if limit <= 0 {
		limit = 100
	}

	query := r.DB.Model(&model.StudentSession{}).
		Select("student_sessions.id AS session_id, student_sessions.student_id, students.username AS student_username, students.name AS student_name, student_sessions.case_id, cases.title AS case_title, student_sessions.created_at, student_sessions.submitted_at, student_sessions.duration_seconds").
		Joins("JOIN students ON student_sessions.student_id = students.id").
		Joins("LEFT JOIN cases ON student_sessions.case_id = cases.id")

	if studentID > 0 {
		query = query.Where("student_sessions.student_id = ?", studentID)
	}
	if caseID > 0 {
		query = query.Where("student_sessions.case_id = ?", caseID)
	}

	var rows []SessionReport
	err := query.Order("student_sessions.created_at desc").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *SessionRepository) UpdateAnswerFeedback(answerID uint, feedback string, score *float64) (bool, error) {
	res := r.DB.Model(&model.StudentAnswer{}).
		Where("id = ?", answerID).
		Updates(map[string]interface{}{
			"feedback": feedback,
			"score":    score,
		})
	return res.RowsAffected > 0, res.Error
}
