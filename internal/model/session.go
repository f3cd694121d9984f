package model

import "time"

// StudentSession 学生对一个案例的一次作答。提交后不可逆，
// 只有教师反馈还能写到单条答案上。
// swagger:model StudentSession
type StudentSession struct {
	ID              uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID       uint       `gorm:"index;not null" json:"student_id"`
	CaseID          uint       `gorm:"index;not null" json:"case_id"`
	CreatedAt       time.Time  `json:"created_at"`
	SubmittedAt     *time.Time `json:"submitted_at"`
	DurationSeconds *int       `json:"duration_seconds"`
}

func (StudentSession) TableName() string {
	return "student_sessions"
}

// StudentAnswer 会话内一道题的作答。is_correct 是三态的：
// 只有既选了选项、题目又定义了答案键时才会被置位，否则保持 NULL。
// swagger:model StudentAnswer
type StudentAnswer struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID      uint      `gorm:"index;not null" json:"session_id"`
	QuestionIndex  int       `gorm:"not null" json:"question_index"`
	SelectedOption *int      `json:"selected_option"`
	OpenAnswer     *string   `gorm:"type:text" json:"open_answer"`
	IsCorrect      *bool     `json:"is_correct"`
	Feedback       string    `gorm:"type:text" json:"feedback"`
	Score          *float64  `json:"score"`
	CreatedAt      time.Time `json:"created_at"`
}

func (StudentAnswer) TableName() string {
	return "student_answers"
}
