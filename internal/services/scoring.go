package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"

	"alfredoptarigan/ai-interviewer/internal/models"
)

const (
	SummaryUnavailable    = "Unable to generate interview summary. Please review the individual responses manually."
	DefaultScore          = 50
	DefaultScoreRationale = "Unable to generate an accurate score. This is a default value."
	noRationale           = "No rationale provided."

	rubricChunkLimit = 3
)

// Evaluation is the terminal assessment of one interview.
type Evaluation struct {
	Summary string
	Score   models.ScoreResult
}

// ScoringService turns a finished transcript into feedback and a 0-100 score.
// None of its methods return errors; upstream failures degrade to fixed text.
type ScoringService interface {
	GenerateSummary(ctx context.Context, transcript []models.AnsweredItem) string
	GenerateScore(ctx context.Context, transcript []models.AnsweredItem) models.ScoreResult
	Evaluate(ctx context.Context, transcript []models.AnsweredItem) Evaluation
}

type scoringService struct {
	chain         *ModelChain
	retriever     ContextRetriever
	promptBuilder *PromptBuilder
	validator     *schemaValidator
}

// NewScoringService builds the service. retriever may be nil.
func NewScoringService(chain *ModelChain, retriever ContextRetriever) ScoringService {
	return &scoringService{
		chain:         chain,
		retriever:     retriever,
		promptBuilder: NewPromptBuilder(),
		validator:     mustSchemaValidator("score.json", scoreSchema),
	}
}

// GenerateSummary implements ScoringService.
func (s *scoringService) GenerateSummary(ctx context.Context, transcript []models.AnsweredItem) string {
	prompt := s.promptBuilder.BuildSummaryPrompt(transcript)

	model, text, err := s.chain.Generate(ctx, prompt)
	if err != nil {
		log.Printf("⚠️  Summary generation failed: %v\n", err)
		return SummaryUnavailable
	}

	log.Printf("✅ Summary generated with %s\n", model)
	return strings.TrimSpace(text)
}

// GenerateScore implements ScoringService.
func (s *scoringService) GenerateScore(ctx context.Context, transcript []models.AnsweredItem) models.ScoreResult {
	var rubric string
	if s.retriever != nil {
		query := s.promptBuilder.BuildRetrievalQuery(DocTypeScoringRubric, models.CandidateProfile{})
		r, err := s.retriever.Retrieve(ctx, query, DocTypeScoringRubric, rubricChunkLimit)
		if err != nil {
			log.Printf("⚠️  Warning: failed to retrieve scoring rubric: %v\n", err)
		}
		rubric = r
	}

	prompt := s.promptBuilder.BuildScorePrompt(transcript, rubric)

	model, text, err := s.chain.Generate(ctx, prompt)
	if err != nil {
		log.Printf("⚠️  Score generation failed: %v\n", err)
		return defaultScore()
	}

	result, err := s.parseScore(text)
	if err != nil {
		log.Printf("⚠️  Model %s returned an unusable score: %v\n", model, err)
		return defaultScore()
	}

	return result
}

// Evaluate implements ScoringService. Summary and score only share the
// transcript, so they are requested concurrently.
func (s *scoringService) Evaluate(ctx context.Context, transcript []models.AnsweredItem) Evaluation {
	var eval Evaluation

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		eval.Summary = s.GenerateSummary(gctx, transcript)
		return nil
	})
	g.Go(func() error {
		eval.Score = s.GenerateScore(gctx, transcript)
		return nil
	})
	_ = g.Wait()

	return eval
}

type rawScore struct {
	Score       float64 `json:"score"`
	Rationale   any     `json:"rationale"`
	Explanation any     `json:"explanation"`
}

func (s *scoringService) parseScore(text string) (models.ScoreResult, error) {
	raw := extractJSONObject(text)
	if err := s.validator.Validate([]byte(raw)); err != nil {
		return models.ScoreResult{}, err
	}

	var parsed rawScore
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return models.ScoreResult{}, fmt.Errorf("failed to parse score: %w", err)
	}

	rationale := textValue(parsed.Rationale)
	if rationale == "" {
		rationale = textValue(parsed.Explanation)
	}
	if rationale == "" {
		rationale = noRationale
	}

	return models.ScoreResult{
		Score:     ClampScore(parsed.Score),
		Rationale: rationale,
	}, nil
}

// ClampScore rounds to the nearest integer and bounds the result to [0, 100].
func ClampScore(v float64) int {
	if math.IsNaN(v) {
		return DefaultScore
	}
	return int(math.Max(0, math.Min(100, math.Round(v))))
}

func defaultScore() models.ScoreResult {
	return models.ScoreResult{Score: DefaultScore, Rationale: DefaultScoreRationale}
}

func textValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	default:
		return fmt.Sprint(t)
	}
}
