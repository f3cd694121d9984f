package service

import (
	"context"
	"encoding/json"
	"fmt"
	"simts_backend/internal/model"
	"simts_backend/internal/repository"
	"simts_backend/internal/util"
	"simts_backend/pkg/logger"
	"simts_backend/pkg/monitoring"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Generator 外部案例生成器：提示词进、自由文本出。
type Generator interface {
	Chat(system string, prompt string) (string, error)
}

type CaseService struct {
	Repo    *repository.CaseRepository
	AI      Generator
	Storage *StorageService
}

func NewCaseService(repo *repository.CaseRepository, ai Generator, storage *StorageService) *CaseService {
	return &CaseService{Repo: repo, AI: ai, Storage: storage}
}

const generatorSystemPrompt = "Eres un generador de casos clínicos educativos para la formación de estudiantes de Trabajo Social. Respondes siempre en español."

// SimulateRequest 生成请求。generate 为真时按主题/难度等侧面生成新案例，
// 否则 case_text 里的自由文本被转发给生成器做分析。
type SimulateRequest struct {
	Generate   bool   `json:"generate"`
	Theme      string `json:"theme"`
	Difficulty string `json:"difficulty"`
	AgeGroup   string `json:"age_group"`
	Context    string `json:"context"`
	CaseLength string `json:"case_length"`
	FocusArea  string `json:"focus_area"`
	Competency string `json:"competency"`
	CaseText   string `json:"case_text"`
}

// GenerationResult 生成结果。Case 为 nil 表示返回文本里解析不出 JSON 文档，
// 这不是错误：原文仍然通过 Text 交还调用方。
type GenerationResult struct {
	OK    bool            `json:"ok"`
	Case  json.RawMessage `json:"case"`
	Saved *model.Case     `json:"saved"`
	Text  string          `json:"text"`
}

func (s *CaseService) GenerateCase(ctx context.Context, req SimulateRequest) (*GenerationResult, error) {
	prompt := buildGenerationPrompt(req)

	text, err := s.AI.Chat(generatorSystemPrompt, prompt)
	if err != nil {
		monitoring.GenerationCounter.WithLabelValues("error").Inc()
		return nil, err
	}

	s.archiveRawResponse(ctx, text)

	doc := extractCaseJSON(text)
	if doc == nil {
		monitoring.GenerationCounter.WithLabelValues("unparsed").Inc()
		logger.Log.Warn("generator returned unparseable content, returning raw text only")
		return &GenerationResult{OK: true, Text: text}, nil
	}
	monitoring.GenerationCounter.WithLabelValues("parsed").Inc()

	result := &GenerationResult{OK: true, Case: doc, Text: text}

	// 入库失败不拖垮整个请求，生成内容照样返回
	saved, err := s.Repo.Save(doc)
	if err != nil {
		logger.Log.Error("failed to persist generated case", zap.Error(err))
	} else {
		result.Saved = saved
	}

	return result, nil
}

// AnalyzeText 自由文本分析路径，不做结构化解析。
func (s *CaseService) AnalyzeText(ctx context.Context, caseText string) (string, error) {
	text, err := s.AI.Chat(generatorSystemPrompt, caseText)
	if err != nil {
		monitoring.GenerationCounter.WithLabelValues("error").Inc()
		return "", err
	}
	s.archiveRawResponse(ctx, text)
	return text, nil
}

func (s *CaseService) archiveRawResponse(ctx context.Context, text string) {
	if s.Storage == nil || !s.Storage.Enabled() {
		return
	}
	name := fmt.Sprintf("generations/%s-%s.json",
		time.Now().UTC().Format("20060102T150405"), model.GenerateUUID())
	if _, err := s.Storage.ArchiveText(ctx, name, text); err != nil {
		logger.Log.Warn("failed to archive raw generation output", zap.Error(err))
	}
}

func buildGenerationPrompt(req SimulateRequest) string {
	theme := req.Theme
	if theme == "" {
		theme = "temas de trabajo social general"
	}
	difficulty := strings.ToLower(req.Difficulty)
	if difficulty == "" {
		difficulty = "basico"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Genera un caso clínico educativo para estudiantes de Trabajo Social. Tema: %s. Nivel de dificultad: %s.\n", theme, difficulty)

	if req.AgeGroup != "" {
		fmt.Fprintf(&sb, "Grupo etario de la persona usuaria: %s.\n", req.AgeGroup)
	}
	if req.Context != "" {
		fmt.Fprintf(&sb, "Contexto de intervención: %s.\n", req.Context)
	}
	if req.CaseLength != "" {
		fmt.Fprintf(&sb, "Extensión del caso: %s.\n", req.CaseLength)
	}
	if req.FocusArea != "" {
		fmt.Fprintf(&sb, "Enfoque pedagógico: %s.\n", req.FocusArea)
	}
	if req.Competency != "" {
		fmt.Fprintf(&sb, "Competencia a evaluar: %s.\n", req.Competency)
	}

	sb.WriteString("Entrega la respuesta estrictamente en JSON con las siguientes claves: " +
		"'case_id' (string corto), 'title' (string), 'description' (texto del caso), " +
		"'learning_objectives' (array de strings), " +
		"'questions' (array de objetos con 'question', 'options' (array de strings), 'correct_option' (índice numérico de la opción correcta) y 'justification'), " +
		"'suggested_interventions' (array de strings).\n" +
		"No incluyas texto adicional fuera del JSON.")

	return sb.String()
}

// extractCaseJSON 宽松提取：先整体解析，失败后取第一个 '{' 到最后一个 '}'
// 的子串再试，容忍 JSON 块前后的散文。两次都失败返回 nil，从不报错。
func extractCaseJSON(text string) json.RawMessage {
	trimmed := strings.TrimSpace(text)

	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(trimmed), &doc); err == nil {
		return json.RawMessage(trimmed)
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		candidate := text[start : end+1]
		if err := json.Unmarshal([]byte(candidate), &doc); err == nil {
			return json.RawMessage(candidate)
		}
	}

	return nil
}

// ---- CRUD 透传（持久层入口统一走 service）----

func (s *CaseService) SaveCase(payload json.RawMessage) (*model.Case, error) {
	return s.Repo.Save(payload)
}

func (s *CaseService) ListCases(theme, difficulty, status string, limit int) ([]model.Case, error) {
	return s.Repo.List(theme, difficulty, status, limit)
}

func (s *CaseService) GetCase(id uint) (*model.Case, error) {
	return s.Repo.FindByID(id)
}

// CaseUpdateRequest 局部更新：每个可更新列一个指针字段，nil 表示不动。
type CaseUpdateRequest struct {
	Payload json.RawMessage `json:"payload,omitempty"`
	Status  *string         `json:"status,omitempty"`
	Rating  *int            `json:"rating,omitempty"`
	Tags    *[]string       `json:"tags,omitempty"`
	Notes   *string         `json:"notes,omitempty"`
}

func (s *CaseService) UpdateCase(id uint, req CaseUpdateRequest) (*model.Case, error) {
	updates := map[string]interface{}{}

	if len(req.Payload) > 0 {
		updates["payload"] = string(req.Payload)
		// payload 变了就同步投影列，缺失的键不清空旧值
		fields := model.DeriveCaseFields(req.Payload)
		if fields.Title != "" {
			updates["title"] = fields.Title
		}
		if fields.Theme != "" {
			updates["theme"] = fields.Theme
		}
		if fields.Difficulty != "" {
			updates["difficulty"] = fields.Difficulty
		}
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Rating != nil {
		updates["rating"] = *req.Rating
	}
	if req.Tags != nil {
		encoded, err := json.Marshal(*req.Tags)
		if err != nil {
			return nil, err
		}
		updates["tags"] = string(encoded)
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if len(updates) == 0 {
		return nil, util.ErrNoUpdatableFields
	}

	return s.Repo.Update(id, updates)
}

func (s *CaseService) DeleteCase(id uint) (bool, error) {
	return s.Repo.SoftDelete(id)
}

func (s *CaseService) GetStatistics() (*repository.Statistics, error) {
	return s.Repo.GetStatistics()
}
