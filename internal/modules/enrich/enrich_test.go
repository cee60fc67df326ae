package enrich

import (
	"context"
	"errors"
	"strings"
	"testing"

	appcfg "github.com/chalkroute/core/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testSvc(gen GenerateFunc) *Service {
	return &Service{
		cfg: &appcfg.AppConfig{
			AI: appcfg.AIConfig{
				Providers: []appcfg.AIProvider{
					{ID: "main", Type: "anthropic", APIKey: "k", Enabled: true},
				},
			},
		},
		log:      zap.NewNop(),
		generate: gen,
	}
}

func fixedOutput(text string) GenerateFunc {
	return func(ctx context.Context, p *appcfg.AIProvider, system, prompt string, maxTokens int) (string, error) {
		return text, nil
	}
}

func TestExtractJSONArray(t *testing.T) {
	t.Run("bare array", func(t *testing.T) {
		out, err := extractJSONArray(`[{"a":1}]`)
		require.NoError(t, err)
		assert.Equal(t, `[{"a":1}]`, out)
	})

	t.Run("strips surrounding prose and fences", func(t *testing.T) {
		out, err := extractJSONArray("Here you go:\n```json\n[1, 2]\n```\nEnjoy!")
		require.NoError(t, err)
		assert.Equal(t, "[1, 2]", out)
	})

	t.Run("no array", func(t *testing.T) {
		_, err := extractJSONArray(`{"a": 1}`)
		assert.ErrorIs(t, err, ErrGenerationParse)
	})

	t.Run("reversed brackets", func(t *testing.T) {
		_, err := extractJSONArray("] nothing here [")
		assert.ErrorIs(t, err, ErrGenerationParse)
	})
}

func TestQuestionsForcesRevealedFalse(t *testing.T) {
	svc := testSvc(fixedOutput(`[
		{"question": "Q1", "answer": "A1", "revealed": true},
		{"question": "Q2", "answer": "A2"}
	]`))

	items, err := svc.Questions(context.Background(), "chapter text", "")
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.False(t, item.Revealed)
	}
	assert.Equal(t, "Q1", items[0].Question)
	assert.Equal(t, "A2", items[1].Answer)
}

func TestReferencesParsesArray(t *testing.T) {
	svc := testSvc(fixedOutput(`Sure! [{"title":"T","description":"D","url":"https://u"}]`))

	items, err := svc.References(context.Background(), "chapter text", "desc")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "https://u", items[0].URL)
}

func TestEvaluationClearsSelection(t *testing.T) {
	svc := testSvc(fixedOutput(`[{
		"question": "Q",
		"options": ["a", "b", "c", "d"],
		"correctAnswer": 2,
		"explanation": "because",
		"selected": 1
	}]`))

	items, err := svc.Evaluation(context.Background(), "chapter text", "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].Selected)
	assert.Equal(t, 2, items[0].CorrectAnswer)
	assert.Len(t, items[0].Options, 4)
}

func TestStructuredGenerationParseFailure(t *testing.T) {
	svc := testSvc(fixedOutput("I cannot produce JSON for this chapter."))

	_, err := svc.Questions(context.Background(), "chapter text", "")
	assert.ErrorIs(t, err, ErrGenerationParse)

	_, err = svc.Evaluation(context.Background(), "chapter text", "")
	assert.ErrorIs(t, err, ErrGenerationParse)
}

func TestStructuredGenerationEmptyArray(t *testing.T) {
	svc := testSvc(fixedOutput("[]"))
	_, err := svc.References(context.Background(), "chapter text", "")
	assert.ErrorIs(t, err, ErrGenerationParse)
}

func TestAskReturnsTrimmedText(t *testing.T) {
	svc := testSvc(fixedOutput("\n  The answer is plain prose.  \n"))

	answer, err := svc.Ask(context.Background(), "chapter text", "", "what is this?")
	require.NoError(t, err)
	assert.Equal(t, "The answer is plain prose.", answer)
}

func TestGenerateErrorPropagates(t *testing.T) {
	wantErr := errors.New("provider timeout")
	svc := testSvc(func(ctx context.Context, p *appcfg.AIProvider, system, prompt string, maxTokens int) (string, error) {
		return "", wantErr
	})

	_, err := svc.Ask(context.Background(), "chapter text", "", "q")
	assert.ErrorIs(t, err, wantErr)
}

func TestBuildChapterPromptTruncatesContent(t *testing.T) {
	long := strings.Repeat("x", contentBudget+500)

	var seen string
	svc := testSvc(func(ctx context.Context, p *appcfg.AIProvider, system, prompt string, maxTokens int) (string, error) {
		seen = prompt
		return `[{"question":"q","answer":"a"}]`, nil
	})

	_, err := svc.Questions(context.Background(), long, "")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(seen), contentBudget+len("CHAPTER CONTENT: "))
}

func TestBuildChapterPromptIncludesDescription(t *testing.T) {
	prompt := buildChapterPrompt("body", "intro")
	assert.Contains(t, prompt, "CHAPTER DESCRIPTION: intro")
	assert.Contains(t, prompt, "CHAPTER CONTENT: body")

	bare := buildChapterPrompt("body", "")
	assert.NotContains(t, bare, "CHAPTER DESCRIPTION")
}

func TestFallbackRecordsAreDeterministic(t *testing.T) {
	q := fallbackQuestions()
	require.Len(t, q, 1)
	assert.False(t, q[0].Revealed)

	r := fallbackReferences()
	require.Len(t, r, 1)
	assert.Equal(t, "https://scholar.google.com", r[0].URL)

	e := fallbackEvaluation()
	require.Len(t, e, 1)
	assert.Equal(t, 0, e[0].CorrectAnswer)
	assert.Len(t, e[0].Options, 4)
	assert.Nil(t, e[0].Selected)
}
