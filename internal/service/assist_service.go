package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"taxwizard/internal/i18n"
	"taxwizard/internal/model"
	"taxwizard/internal/repository"

	"go.uber.org/zap"
)

const (
	MsgAssistMissingFields      = "Missing required fields: question, countryCode, formType, language"
	MsgSuggestionsMissingFields = "Missing required fields: formData, countryCode, language"

	// maxSuggestions caps the lines kept from a suggestion answer
	maxSuggestions = 5
	// suggestionFormType is the form type sent with suggestion prompts
	suggestionFormType = "general"
)

// AIClient is the completion backend used by the assistance proxy.
type AIClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Enabled() bool
}

// --- DTOs ---

type AssistRequest struct {
	Question    string          `json:"question"`
	FormID      string          `json:"formId"`
	CountryCode string          `json:"countryCode"`
	FormType    string          `json:"formType"`
	Language    string          `json:"language"`
	FormData    *model.FormData `json:"formData"`
}

type AssistResponse struct {
	Response string `json:"response"`
}

type SuggestionsRequest struct {
	FormData    *model.FormData `json:"formData"`
	CountryCode string          `json:"countryCode"`
	Language    string          `json:"language"`
}

type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

type HealthStatus struct {
	Status    string `json:"status"`
	AIEnabled bool   `json:"aiEnabled"`
	Message   string `json:"message"`
}

// --- Interface ---

type AssistService interface {
	Assist(ctx context.Context, req AssistRequest) (*AssistResponse, error)
	History(ctx context.Context, formID string) ([]model.AiAssistanceRequest, error)
	Suggestions(ctx context.Context, req SuggestionsRequest) (*SuggestionsResponse, error)
	Health() HealthStatus
}

type assistService struct {
	ai     AIClient
	log    repository.AIAssistanceRepository
	events EventPublisher
	logger *zap.Logger
}

func NewAssistService(ai AIClient, log repository.AIAssistanceRepository, events EventPublisher, logger *zap.Logger) AssistService {
	if events == nil {
		events = noopPublisher{}
	}
	return &assistService{ai: ai, log: log, events: events, logger: logger}
}

// --- Implementation ---

func (s *assistService) Assist(ctx context.Context, req AssistRequest) (*AssistResponse, error) {
	if blank(req.Question) || blank(req.CountryCode) || blank(req.FormType) || blank(req.Language) {
		return nil, invalid(MsgAssistMissingFields)
	}

	answer, err := s.ai.Generate(ctx, buildAssistPrompt(req.Question, req.CountryCode, req.FormType, req.Language))
	if err != nil {
		s.logger.Error("AI assistance failed",
			zap.String("country_code", req.CountryCode),
			zap.String("form_type", req.FormType),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to generate AI assistance: %w", err)
	}

	if req.FormID != "" {
		s.record(ctx, req, answer)
	}

	return &AssistResponse{Response: answer}, nil
}

// record stores the exchange; failures are logged and never reach the caller.
func (s *assistService) record(ctx context.Context, req AssistRequest, answer string) {
	entry := &model.AiAssistanceRequest{
		FormID:   req.FormID,
		Question: req.Question,
		Response: &answer,
		Language: req.Language,
	}
	if err := s.log.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to store AI exchange", zap.String("form_id", req.FormID), zap.Error(err))
		return
	}
	s.events.Publish(model.FormEvent{Type: model.EventAILogged, FormID: req.FormID, OccurredAt: entry.CreatedAt})
}

func (s *assistService) History(ctx context.Context, formID string) ([]model.AiAssistanceRequest, error) {
	rows, err := s.log.ListByForm(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch AI history: %w", err)
	}
	return rows, nil
}

func (s *assistService) Suggestions(ctx context.Context, req SuggestionsRequest) (*SuggestionsResponse, error) {
	if req.FormData == nil || blank(req.CountryCode) || blank(req.Language) {
		return nil, invalid(MsgSuggestionsMissingFields)
	}

	info, err := json.MarshalIndent(req.FormData, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode form data: %w", err)
	}

	question := buildSuggestionsQuestion(req.CountryCode, req.Language, string(info))
	answer, err := s.ai.Generate(ctx, buildAssistPrompt(question, req.CountryCode, suggestionFormType, req.Language))
	if err != nil {
		s.logger.Error("suggestion generation failed", zap.String("country_code", req.CountryCode), zap.Error(err))
		return nil, fmt.Errorf("failed to generate suggestions: %w", err)
	}

	return &SuggestionsResponse{Suggestions: extractSuggestions(answer)}, nil
}

func (s *assistService) Health() HealthStatus {
	if s.ai.Enabled() {
		return HealthStatus{Status: "ok", AIEnabled: true, Message: "AI assistance available"}
	}
	return HealthStatus{Status: "ok", AIEnabled: false, Message: "AI assistance unavailable - GOOGLE_AI_API_KEY not configured"}
}

// --- Prompt building ---

func buildSystemPrompt(countryCode, formType, language string) string {
	name := i18n.LanguageName(language)

	var b strings.Builder
	b.WriteString("You are an expert tax assistant helping users fill out their tax forms. \n\n")
	b.WriteString("Context:\n")
	fmt.Fprintf(&b, "- Country: %s\n", countryCode)
	fmt.Fprintf(&b, "- Tax Form: %s\n", formType)
	fmt.Fprintf(&b, "- Response Language: %s\n\n", name)
	b.WriteString("Your role:\n")
	fmt.Fprintf(&b, "1. Provide accurate, helpful tax guidance specific to %s tax laws\n", countryCode)
	b.WriteString("2. Explain tax concepts in simple, easy-to-understand language\n")
	b.WriteString("3. Suggest appropriate deductions and credits the user may qualify for\n")
	b.WriteString("4. Help users understand what information is needed for each field\n")
	fmt.Fprintf(&b, "5. Always respond in %s\n", name)
	b.WriteString("6. Be concise but thorough\n")
	b.WriteString("7. If you're unsure about specific tax laws, recommend consulting a tax professional\n\n")
	b.WriteString("Important: \n")
	b.WriteString("- Focus on general guidance and education\n")
	b.WriteString("- Do not provide specific tax advice or guarantee outcomes\n")
	b.WriteString("- Remind users to verify information with official tax authorities\n")
	fmt.Fprintf(&b, "- Respond ONLY in %s", name)
	return b.String()
}

func buildAssistPrompt(question, countryCode, formType, language string) string {
	return buildSystemPrompt(countryCode, formType, language) + "\n\nUser Question: " + question
}

func buildSuggestionsQuestion(countryCode, language, formJSON string) string {
	return fmt.Sprintf("Based on this taxpayer information for %s, suggest potential tax deductions they may qualify for. \n    \n"+
		"Income Information:\n%s\n\n"+
		"Provide a list of 3-5 specific deduction suggestions with brief explanations. Respond in %s.",
		countryCode, formJSON, language)
}

// extractSuggestions keeps the first lines that are not blank and not markdown headings.
// The upstream answer has no contractual format, so this is best effort.
func extractSuggestions(answer string) []string {
	out := make([]string, 0, maxSuggestions)
	for _, line := range strings.Split(answer, "\n") {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
