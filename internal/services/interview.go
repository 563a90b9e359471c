package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/repositories"
)

// InterviewService drives the timed question/answer protocol of a session.
type InterviewService interface {
	StartInterview(ctx context.Context, profile *models.CandidateProfile, ownerID string) (*models.QuestionPayload, error)
	SubmitAnswer(ctx context.Context, input models.SubmitAnswerInput) (*models.SubmitAnswerResult, error)
	GetSession(id string) (*models.InterviewSession, error)
}

type interviewService struct {
	store       SessionStore
	generator   QuestionGenerator
	scoring     ScoringService
	resultsRepo repositories.TestResultRepository
	now         func() time.Time
}

// NewInterviewService wires the engine. resultsRepo may be nil, in which
// case finished interviews are scored but never stored.
func NewInterviewService(
	store SessionStore,
	generator QuestionGenerator,
	scoring ScoringService,
	resultsRepo repositories.TestResultRepository,
	now func() time.Time,
) InterviewService {
	if now == nil {
		now = time.Now
	}
	return &interviewService{
		store:       store,
		generator:   generator,
		scoring:     scoring,
		resultsRepo: resultsRepo,
		now:         now,
	}
}

// StartInterview implements InterviewService.
func (s *interviewService) StartInterview(ctx context.Context, profile *models.CandidateProfile, ownerID string) (*models.QuestionPayload, error) {
	if profile == nil {
		return nil, ErrInvalidProfile
	}

	questions := s.generator.Generate(ctx, *profile)
	if len(questions) == 0 {
		return nil, errors.New("no interview questions available")
	}

	now := s.now()
	session := &models.InterviewSession{
		ID:               uuid.NewString(),
		Profile:          *profile,
		Questions:        questions,
		CurrentIndex:     0,
		Answers:          make([]models.AnsweredItem, 0, len(questions)),
		Status:           models.SessionActive,
		StartTime:        now,
		OwnerID:          ownerID,
		QuestionIssuedAt: now,
	}
	session.Profile.Skills = append(models.SkillList(nil), profile.Skills...)

	s.store.Put(session)
	log.Printf("🎤 Interview %s started with %d questions\n", session.ID, len(questions))

	return questionPayload(session), nil
}

// SubmitAnswer implements InterviewService.
func (s *interviewService) SubmitAnswer(ctx context.Context, input models.SubmitAnswerInput) (*models.SubmitAnswerResult, error) {
	session, release, ok := s.store.Acquire(input.SessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	defer release()

	// Someone else's interview looks the same as a missing one.
	if session.OwnerID != "" && session.OwnerID != input.OwnerID {
		return nil, ErrSessionNotFound
	}

	if session.Status != models.SessionActive {
		return nil, ErrSessionNotActive
	}
	question, ok := session.CurrentQuestion()
	if !ok {
		return nil, ErrSessionNotActive
	}

	now := s.now()
	elapsed := int(now.Sub(session.QuestionIssuedAt) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}

	item := models.AnsweredItem{
		QuestionIndex: session.CurrentIndex,
		Question:      question,
	}
	// Late submissions keep neither text nor timing.
	if elapsed < question.TimeLimit {
		answer := input.Answer
		timeTaken := elapsed
		item.Answer = &answer
		item.TimeTaken = &timeTaken
	}

	session.Answers = append(session.Answers, item)
	session.CurrentIndex++

	if session.IsComplete() {
		return &models.SubmitAnswerResult{Completed: s.complete(ctx, session, now)}, nil
	}

	session.QuestionIssuedAt = now
	return &models.SubmitAnswerResult{Next: questionPayload(session)}, nil
}

// GetSession implements InterviewService.
func (s *interviewService) GetSession(id string) (*models.InterviewSession, error) {
	session, release, ok := s.store.Acquire(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	defer release()

	snapshot := session.Snapshot()
	return &snapshot, nil
}

// complete must be called with the session held.
func (s *interviewService) complete(ctx context.Context, session *models.InterviewSession, now time.Time) *models.CompletionPayload {
	session.Status = models.SessionCompleted
	session.EndTime = &now

	payload := &models.CompletionPayload{
		SessionID:        session.ID,
		Status:           session.Status,
		TotalQuestions:   len(session.Questions),
		AnswersSubmitted: len(session.Answers),
	}

	transcript := append([]models.AnsweredItem(nil), session.Answers...)
	eval := s.scoring.Evaluate(ctx, transcript)
	log.Printf("🏁 Interview %s completed with score %d\n", session.ID, eval.Score.Score)

	if session.OwnerID == "" || s.resultsRepo == nil {
		return payload
	}

	result := buildTestResult(session, eval)
	if err := s.resultsRepo.Create(ctx, result); err != nil {
		log.Printf("❌ Failed to save result for interview %s: %v\n", session.ID, err)
		return payload
	}

	payload.ResultID = result.ID.String()
	return payload
}

func buildTestResult(session *models.InterviewSession, eval Evaluation) *models.TestResult {
	var phone *string
	if session.Profile.Phone != "" {
		p := session.Profile.Phone
		phone = &p
	}

	return &models.TestResult{
		ID:             uuid.New(),
		OwnerID:        session.OwnerID,
		SessionID:      session.ID,
		ProfileName:    session.Profile.Name,
		ProfileEmail:   session.Profile.Email,
		ProfilePhone:   phone,
		Skills:         append([]string(nil), session.Profile.Skills...),
		Answers:        models.FlattenAnswers(session.Answers),
		Summary:        eval.Summary,
		TotalScore:     eval.Score.Score,
		ScoreRationale: eval.Score.Rationale,
		Status:         string(models.SessionCompleted),
	}
}

func questionPayload(session *models.InterviewSession) *models.QuestionPayload {
	question := session.Questions[session.CurrentIndex]
	return &models.QuestionPayload{
		SessionID:         session.ID,
		Question:          question,
		QuestionNumber:    session.CurrentIndex + 1,
		TotalQuestions:    len(session.Questions),
		TimeLimit:         question.TimeLimit,
		QuestionStartTime: session.QuestionIssuedAt,
		Status:            session.Status,
	}
}
