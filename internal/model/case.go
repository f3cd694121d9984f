package model

import (
	"encoding/json"
)

// Case 教学案例。payload 保存生成器返回的完整文档，
// title/theme/difficulty 是从 payload 投影出来的冗余列，payload 更新时必须同步。
// swagger:model Case
type Case struct {
	BaseModel
	CaseID     string          `gorm:"size:255;index" json:"case_id"`
	Title      string          `gorm:"size:255" json:"title"`
	Theme      string          `gorm:"size:255;index" json:"theme"`
	Difficulty string          `gorm:"size:50;index" json:"difficulty"`
	Payload    json.RawMessage `gorm:"type:json" json:"payload"`
	Status     string          `gorm:"size:20;default:'active';index" json:"status"`
	Rating     int             `gorm:"default:0" json:"rating"`
	Tags       []string        `gorm:"serializer:json" json:"tags"`
	Notes      string          `gorm:"type:text" json:"notes"`
}

func (Case) TableName() string {
	return "cases"
}

// CaseQuestion 案例文档中的一道题。生成器偶尔用西语键名返回答案下标，
// 读取时按 correct_option -> respuesta_correcta 的优先级取第一个存在的键。
type CaseQuestion struct {
	Question          string   `json:"question"`
	Options           []string `json:"options,omitempty"`
	CorrectOption     *int     `json:"correct_option,omitempty"`
	RespuestaCorrecta *int     `json:"respuesta_correcta,omitempty"`
	Justification     string   `json:"justification,omitempty"`
}

// AnswerIndex 返回正确选项下标，没有答案键的题返回 nil（开放题，不计分）。
func (q CaseQuestion) AnswerIndex() *int {
	if q.CorrectOption != nil {
		return q.CorrectOption
	}
	return q.RespuestaCorrecta
}

// CaseDocument payload 的结构化视图，只解出评分需要的部分。
type CaseDocument struct {
	Questions []CaseQuestion `json:"questions"`
}

func ParseCaseDocument(payload json.RawMessage) (*CaseDocument, error) {
	var doc CaseDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// CaseFields payload 投影列。
type CaseFields struct {
	CaseID     string
	Title      string
	Theme      string
	Difficulty string
}

// DeriveCaseFields 按备用键优先级从文档中推导投影列：
// case_id: case_id -> id -> title；title: title -> case_id；
// theme: eje -> theme；difficulty: nivel -> difficulty。
// 都缺失时 case_id 退化为生成的 UUID。
func DeriveCaseFields(payload json.RawMessage) CaseFields {
	var doc map[string]interface{}
	if err := json.Unmarshal(payload, &doc); err != nil {
		doc = nil
	}

	f := CaseFields{
		CaseID:     firstDocString(doc, "case_id", "id", "title"),
		Title:      firstDocString(doc, "title", "case_id"),
		Theme:      firstDocString(doc, "eje", "theme"),
		Difficulty: firstDocString(doc, "nivel", "difficulty"),
	}
	if f.CaseID == "" {
		f.CaseID = GenerateUUID()
	}
	return f
}

func firstDocString(doc map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, ok := doc[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}
