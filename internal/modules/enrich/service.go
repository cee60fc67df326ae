package enrich

import (
	"context"
	"strings"

	appcfg "github.com/chalkroute/core/internal/config"
	"github.com/chalkroute/core/internal/modules/llm"
	"go.uber.org/zap"
)

const (
	structuredMaxTokens = 2048
	askMaxTokens        = 1024
)

// GenerateFunc matches llm.GenerateText and is injectable in tests.
type GenerateFunc func(ctx context.Context, provider *appcfg.AIProvider, systemPrompt, prompt string, maxTokens int) (string, error)

// Service generates structured study material for a chapter.
type Service struct {
	cfg      *appcfg.AppConfig
	log      *zap.Logger
	generate GenerateFunc
}

func NewService(cfg *appcfg.AppConfig, log *zap.Logger) *Service {
	return &Service{cfg: cfg, log: log, generate: llm.GenerateText}
}

func (s *Service) provider() (*appcfg.AIProvider, error) {
	p := llm.Select(s.cfg.AI, s.cfg.AI.EnrichModel, "")
	if p == nil {
		return nil, llm.ErrNoProvider
	}
	return p, nil
}

// Questions generates review questions with hidden answers.
func (s *Service) Questions(ctx context.Context, content, description string) ([]GeneratedQA, error) {
	provider, err := s.provider()
	if err != nil {
		return nil, err
	}
	text, err := s.generate(ctx, provider, questionsSystemPrompt,
		buildChapterPrompt(content, description), structuredMaxTokens)
	if err != nil {
		return nil, err
	}
	items, err := decodeArray[GeneratedQA](text)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Revealed = false
	}
	return items, nil
}

// References generates suggested further reading.
func (s *Service) References(ctx context.Context, content, description string) ([]GeneratedReference, error) {
	provider, err := s.provider()
	if err != nil {
		return nil, err
	}
	text, err := s.generate(ctx, provider, referencesSystemPrompt,
		buildChapterPrompt(content, description), structuredMaxTokens)
	if err != nil {
		return nil, err
	}
	return decodeArray[GeneratedReference](text)
}

// Evaluation generates a multiple-choice comprehension quiz.
func (s *Service) Evaluation(ctx context.Context, content, description string) ([]GeneratedEvalItem, error) {
	provider, err := s.provider()
	if err != nil {
		return nil, err
	}
	text, err := s.generate(ctx, provider, evaluationSystemPrompt,
		buildChapterPrompt(content, description), structuredMaxTokens)
	if err != nil {
		return nil, err
	}
	items, err := decodeArray[GeneratedEvalItem](text)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Selected = nil
	}
	return items, nil
}

// Ask answers a free-form student question about the chapter as plain text.
func (s *Service) Ask(ctx context.Context, content, description, question string) (string, error) {
	provider, err := s.provider()
	if err != nil {
		return "", err
	}
	text, err := s.generate(ctx, provider, askSystemPrompt,
		buildAskPrompt(content, description, question), askMaxTokens)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
