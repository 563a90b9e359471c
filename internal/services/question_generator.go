package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"alfredoptarigan/ai-interviewer/internal/models"
)

const referenceQuestionLimit = 5

// QuestionGenerator produces the question set for a new interview. It never
// fails: anything that goes wrong upstream yields the fallback set.
type QuestionGenerator interface {
	Generate(ctx context.Context, profile models.CandidateProfile) []models.Question
}

type questionGenerator struct {
	chain         *ModelChain
	retriever     ContextRetriever
	promptBuilder *PromptBuilder
	validator     *schemaValidator
	fallback      []models.Question
}

// NewQuestionGenerator builds a generator. retriever may be nil when no
// reference question bank is configured.
func NewQuestionGenerator(chain *ModelChain, retriever ContextRetriever, fallback []models.Question) QuestionGenerator {
	return &questionGenerator{
		chain:         chain,
		retriever:     retriever,
		promptBuilder: NewPromptBuilder(),
		validator:     mustSchemaValidator("question_set.json", questionSetSchema),
		fallback:      append([]models.Question(nil), fallback...),
	}
}

// Generate implements QuestionGenerator.
func (g *questionGenerator) Generate(ctx context.Context, profile models.CandidateProfile) []models.Question {
	var reference string
	if g.retriever != nil {
		query := g.promptBuilder.BuildRetrievalQuery(DocTypeQuestionBank, profile)
		ref, err := g.retriever.Retrieve(ctx, query, DocTypeQuestionBank, referenceQuestionLimit)
		if err != nil {
			log.Printf("⚠️  Warning: failed to retrieve reference questions: %v\n", err)
		}
		reference = ref
	}

	prompt := g.promptBuilder.BuildQuestionPrompt(profile, reference)

	model, text, err := g.chain.Generate(ctx, prompt)
	if err != nil {
		log.Printf("⚠️  Question generation failed, using fallback questions: %v\n", err)
		return g.fallbackQuestions()
	}

	questions, err := g.parseQuestionSet(text)
	if err != nil {
		log.Printf("⚠️  Model %s returned unusable questions, using fallback questions: %v\n", model, err)
		return g.fallbackQuestions()
	}

	log.Printf("✅ Generated %d questions with %s\n", len(questions), model)
	return questions
}

func (g *questionGenerator) fallbackQuestions() []models.Question {
	return append([]models.Question(nil), g.fallback...)
}

type rawQuestion struct {
	Question   string `json:"question"`
	Difficulty string `json:"difficulty"`
	TimeLimit  any    `json:"timeLimit"`
}

func (g *questionGenerator) parseQuestionSet(text string) ([]models.Question, error) {
	raw := extractJSONArray(text)
	if err := g.validator.Validate([]byte(raw)); err != nil {
		return nil, err
	}

	var items []rawQuestion
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("failed to parse question set: %w", err)
	}

	questions := make([]models.Question, 0, len(items))
	for i, item := range items {
		difficulty, ok := models.ParseDifficulty(item.Difficulty)
		if !ok {
			return nil, fmt.Errorf("question %d has unknown difficulty %q", i+1, item.Difficulty)
		}

		timeLimit, err := coerceTimeLimit(item.TimeLimit)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}

		questions = append(questions, models.Question{
			Text:       strings.TrimSpace(item.Question),
			Difficulty: difficulty,
			TimeLimit:  timeLimit,
		})
	}

	return questions, nil
}

func coerceTimeLimit(v any) (int, error) {
	var seconds int
	switch t := v.(type) {
	case float64:
		seconds = int(t)
		if float64(seconds) != t {
			return 0, fmt.Errorf("time limit %v is not a whole number", t)
		}
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, fmt.Errorf("time limit %q is not a number", t)
		}
		seconds = n
	default:
		return 0, fmt.Errorf("time limit has unexpected type %T", v)
	}

	if !models.IsValidTimeLimit(seconds) {
		return 0, fmt.Errorf("time limit %d is not one of 20, 60 or 120", seconds)
	}
	return seconds, nil
}
