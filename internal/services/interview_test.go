package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"alfredoptarigan/ai-interviewer/internal/models"
)

type engineFixture struct {
	clock   *fakeClock
	store   SessionStore
	results *memoryResults
	service InterviewService

	// ownerID is sent with every submit.
	ownerID string
}

func newEngineFixture(t *testing.T, score string) *engineFixture {
	t.Helper()

	clock := newFakeClock()
	chain := NewModelChain(interviewModel(score))
	store := NewSessionStore(2*time.Hour, time.Minute, clock.Now)
	results := &memoryResults{now: clock.Now}

	service := NewInterviewService(
		store,
		NewQuestionGenerator(chain, nil, testFallbackQuestions()),
		NewScoringService(chain, nil),
		results,
		clock.Now,
	)

	return &engineFixture{clock: clock, store: store, results: results, service: service}
}

func pythonProfile() *models.CandidateProfile {
	return &models.CandidateProfile{
		Name:   "Jane Doe",
		Email:  "jane@example.com",
		Skills: models.SkillList{"Python"},
	}
}

func (f *engineFixture) submit(t *testing.T, sessionID, answer string, after time.Duration) *models.SubmitAnswerResult {
	t.Helper()
	f.clock.Advance(after)
	result, err := f.service.SubmitAnswer(context.Background(), models.SubmitAnswerInput{
		SessionID: sessionID,
		Answer:    answer,
		OwnerID:   f.ownerID,
	})
	if err != nil {
		t.Fatalf("SubmitAnswer() error = %v", err)
	}
	return result
}

func TestInterviewScenario(t *testing.T) {
	f := newEngineFixture(t, `{"score": 82, "rationale": "Good answers"}`)
	f.ownerID = "user-1"
	ctx := context.Background()

	start, err := f.service.StartInterview(ctx, pythonProfile(), "user-1")
	if err != nil {
		t.Fatalf("StartInterview() error = %v", err)
	}

	if start.QuestionNumber != 1 || start.TotalQuestions != 6 {
		t.Fatalf("start payload = %d/%d, want 1/6", start.QuestionNumber, start.TotalQuestions)
	}
	if start.Status != models.SessionActive {
		t.Errorf("status = %s, want active", start.Status)
	}
	if !start.QuestionStartTime.Equal(f.clock.Now()) {
		t.Errorf("questionStartTime = %v, want %v", start.QuestionStartTime, f.clock.Now())
	}

	session, err := f.service.GetSession(start.SessionID)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	limits := map[int]int{}
	for _, q := range session.Questions {
		limits[q.TimeLimit]++
	}
	for _, limit := range []int{20, 60, 120} {
		if limits[limit] != 2 {
			t.Errorf("questions with %ds limit = %d, want 2", limit, limits[limit])
		}
	}

	// Question 1 answered after 10 seconds.
	next := f.submit(t, start.SessionID, "A mutable sequence.", 10*time.Second)
	if next.Next == nil || next.Next.QuestionNumber != 2 {
		t.Fatalf("after Q1 got %+v, want question 2", next)
	}
	if next.Next.TimeLimit != 60 {
		t.Fatalf("question 2 limit = %d, want 60", next.Next.TimeLimit)
	}

	// Question 2 answered after 65 seconds against a 60 second limit.
	f.submit(t, start.SessionID, "Too late to count.", 65*time.Second)

	session, _ = f.service.GetSession(start.SessionID)
	first, second := session.Answers[0], session.Answers[1]
	if first.Answer == nil || *first.Answer != "A mutable sequence." {
		t.Errorf("answer 1 = %v, want recorded text", first.Answer)
	}
	if first.TimeTaken == nil || *first.TimeTaken != 10 {
		t.Errorf("timeTaken 1 = %v, want 10", first.TimeTaken)
	}
	if second.Answer != nil || second.TimeTaken != nil {
		t.Errorf("late answer recorded as %v/%v, want nil/nil", second.Answer, second.TimeTaken)
	}

	var last *models.SubmitAnswerResult
	for i := 3; i <= 6; i++ {
		last = f.submit(t, start.SessionID, "answer", 5*time.Second)

		session, _ = f.service.GetSession(start.SessionID)
		if len(session.Answers) != session.CurrentIndex {
			t.Fatalf("after answer %d: len(answers)=%d currentIndex=%d", i, len(session.Answers), session.CurrentIndex)
		}
	}

	if last.Completed == nil {
		t.Fatalf("final submission returned %+v, want completion", last)
	}
	if last.Completed.Status != models.SessionCompleted || last.Completed.AnswersSubmitted != 6 || last.Completed.TotalQuestions != 6 {
		t.Errorf("completion = %+v", last.Completed)
	}
	if last.Completed.ResultID == "" {
		t.Error("completion has no result id for an owned session")
	}
	if session.EndTime == nil {
		t.Error("endTime not stamped on completion")
	}

	if f.results.Len() != 1 {
		t.Fatalf("stored results = %d, want 1", f.results.Len())
	}
	stored := f.results.results[0]
	if stored.TotalScore != 82 || stored.OwnerID != "user-1" || len(stored.Answers) != 6 {
		t.Errorf("stored result = score %d owner %q answers %d", stored.TotalScore, stored.OwnerID, len(stored.Answers))
	}
	if stored.Summary == "" || stored.Summary == SummaryUnavailable {
		t.Errorf("stored summary = %q", stored.Summary)
	}

	// A completed session accepts no further answers.
	_, err = f.service.SubmitAnswer(ctx, models.SubmitAnswerInput{SessionID: start.SessionID, Answer: "extra", OwnerID: "user-1"})
	if !errors.Is(err, ErrSessionNotActive) {
		t.Errorf("answer after completion error = %v, want ErrSessionNotActive", err)
	}
}

func TestSubmitAnswerTimingBoundary(t *testing.T) {
	tests := []struct {
		name     string
		elapsed  time.Duration
		recorded bool
		taken    int
	}{
		{name: "immediate", elapsed: 0, recorded: true, taken: 0},
		{name: "fraction truncated", elapsed: 19*time.Second + 900*time.Millisecond, recorded: true, taken: 19},
		{name: "exactly at limit", elapsed: 20 * time.Second, recorded: false},
		{name: "well past limit", elapsed: 3 * time.Minute, recorded: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEngineFixture(t, `{"score": 50}`)
			start, err := f.service.StartInterview(context.Background(), pythonProfile(), "")
			if err != nil {
				t.Fatalf("StartInterview() error = %v", err)
			}

			f.submit(t, start.SessionID, "answer", tt.elapsed)

			session, _ := f.service.GetSession(start.SessionID)
			item := session.Answers[0]
			if tt.recorded {
				if item.Answer == nil || item.TimeTaken == nil || *item.TimeTaken != tt.taken {
					t.Errorf("got answer=%v timeTaken=%v, want recorded with %d", item.Answer, item.TimeTaken, tt.taken)
				}
				if *item.TimeTaken >= item.Question.TimeLimit {
					t.Errorf("timeTaken %d not below limit %d", *item.TimeTaken, item.Question.TimeLimit)
				}
			} else if item.Answer != nil || item.TimeTaken != nil {
				t.Errorf("got answer=%v timeTaken=%v, want nil/nil", item.Answer, item.TimeTaken)
			}
		})
	}
}

func TestSubmitAnswerIgnoresEarlierQuestionTime(t *testing.T) {
	f := newEngineFixture(t, `{"score": 50}`)
	start, _ := f.service.StartInterview(context.Background(), pythonProfile(), "")

	// Q1 is answered 15s in; Q2's clock starts from that submission.
	f.submit(t, start.SessionID, "one", 15*time.Second)
	f.submit(t, start.SessionID, "two", 30*time.Second)

	session, _ := f.service.GetSession(start.SessionID)
	if taken := session.Answers[1].TimeTaken; taken == nil || *taken != 30 {
		t.Errorf("timeTaken for Q2 = %v, want 30", taken)
	}
}

func TestSubmitAnswerUnknownSession(t *testing.T) {
	f := newEngineFixture(t, `{"score": 50}`)

	_, err := f.service.SubmitAnswer(context.Background(), models.SubmitAnswerInput{SessionID: "does-not-exist"})
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("error = %v, want ErrSessionNotFound", err)
	}
}

func TestSubmitAnswerEvictedSession(t *testing.T) {
	f := newEngineFixture(t, `{"score": 50}`)
	start, _ := f.service.StartInterview(context.Background(), pythonProfile(), "")

	f.clock.Advance(3 * time.Hour)
	if n := f.store.Sweep(); n != 1 {
		t.Fatalf("Sweep() = %d, want 1", n)
	}

	_, err := f.service.SubmitAnswer(context.Background(), models.SubmitAnswerInput{SessionID: start.SessionID})
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("error = %v, want ErrSessionNotFound", err)
	}
}

func TestSubmitAnswerChecksOwner(t *testing.T) {
	tests := []struct {
		name    string
		owner   string
		caller  string
		wantErr error
	}{
		{name: "owner answers", owner: "user-1", caller: "user-1"},
		{name: "other user", owner: "user-1", caller: "user-2", wantErr: ErrSessionNotFound},
		{name: "anonymous caller on owned session", owner: "user-1", caller: "", wantErr: ErrSessionNotFound},
		{name: "anonymous session", owner: "", caller: "user-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEngineFixture(t, `{"score": 50}`)
			start, err := f.service.StartInterview(context.Background(), pythonProfile(), tt.owner)
			if err != nil {
				t.Fatalf("StartInterview() error = %v", err)
			}

			_, err = f.service.SubmitAnswer(context.Background(), models.SubmitAnswerInput{
				SessionID: start.SessionID,
				Answer:    "answer",
				OwnerID:   tt.caller,
			})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}

			session, _ := f.service.GetSession(start.SessionID)
			wantIndex := 1
			if tt.wantErr != nil {
				wantIndex = 0
			}
			if session.CurrentIndex != wantIndex || len(session.Answers) != wantIndex {
				t.Errorf("currentIndex = %d answers = %d, want %d", session.CurrentIndex, len(session.Answers), wantIndex)
			}
		})
	}
}

func TestStartInterviewRequiresProfile(t *testing.T) {
	f := newEngineFixture(t, `{"score": 50}`)

	_, err := f.service.StartInterview(context.Background(), nil, "")
	if !errors.Is(err, ErrInvalidProfile) {
		t.Errorf("error = %v, want ErrInvalidProfile", err)
	}
	if f.store.Len() != 0 {
		t.Errorf("store has %d sessions, want 0", f.store.Len())
	}
}

func TestStartInterviewUniqueSessionIDs(t *testing.T) {
	f := newEngineFixture(t, `{"score": 50}`)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		start, err := f.service.StartInterview(context.Background(), pythonProfile(), "")
		if err != nil {
			t.Fatalf("StartInterview() error = %v", err)
		}
		if seen[start.SessionID] {
			t.Fatalf("duplicate session id %s", start.SessionID)
		}
		seen[start.SessionID] = true
	}
}

func completeInterview(t *testing.T, f *engineFixture, ownerID string) *models.CompletionPayload {
	t.Helper()
	f.ownerID = ownerID
	start, err := f.service.StartInterview(context.Background(), pythonProfile(), ownerID)
	if err != nil {
		t.Fatalf("StartInterview() error = %v", err)
	}
	var result *models.SubmitAnswerResult
	for i := 0; i < start.TotalQuestions; i++ {
		result = f.submit(t, start.SessionID, "answer", time.Second)
	}
	if result.Completed == nil {
		t.Fatal("interview did not complete")
	}
	return result.Completed
}

func TestAnonymousInterviewIsNotStored(t *testing.T) {
	f := newEngineFixture(t, `{"score": 64}`)

	completed := completeInterview(t, f, "")

	if f.results.Len() != 0 {
		t.Errorf("stored results = %d, want 0", f.results.Len())
	}
	if completed.ResultID != "" {
		t.Errorf("resultId = %q, want empty", completed.ResultID)
	}
}

func TestCompletionSurvivesStorageFailure(t *testing.T) {
	f := newEngineFixture(t, `{"score": 64}`)
	f.results.createErr = errors.New("database is down")

	completed := completeInterview(t, f, "user-1")

	if completed.Status != models.SessionCompleted || completed.AnswersSubmitted != 6 {
		t.Errorf("completion = %+v", completed)
	}
	if completed.ResultID != "" {
		t.Errorf("resultId = %q, want empty after failed write", completed.ResultID)
	}
}

func TestCompletionWithFailingModelsUsesDefaults(t *testing.T) {
	clock := newFakeClock()
	chain := NewModelChain(failingGenerator("primary"), failingGenerator("secondary"))
	results := &memoryResults{now: clock.Now}
	service := NewInterviewService(
		NewSessionStore(time.Hour, time.Minute, clock.Now),
		NewQuestionGenerator(chain, nil, testFallbackQuestions()),
		NewScoringService(chain, nil),
		results,
		clock.Now,
	)
	f := &engineFixture{clock: clock, results: results, service: service}

	completeInterview(t, f, "user-1")

	stored := results.results[0]
	if stored.TotalScore != DefaultScore || stored.ScoreRationale != DefaultScoreRationale {
		t.Errorf("score = %d %q, want default", stored.TotalScore, stored.ScoreRationale)
	}
	if stored.Summary != SummaryUnavailable {
		t.Errorf("summary = %q, want apology text", stored.Summary)
	}
	if stored.Answers[0].Question.Text != testFallbackQuestions()[0].Text {
		t.Errorf("first question = %q, want fallback set", stored.Answers[0].Question.Text)
	}
}

func TestGetSessionReturnsCopy(t *testing.T) {
	f := newEngineFixture(t, `{"score": 50}`)
	start, _ := f.service.StartInterview(context.Background(), pythonProfile(), "")

	snapshot, _ := f.service.GetSession(start.SessionID)
	snapshot.Questions[0].Text = "changed"
	snapshot.CurrentIndex = 5

	again, _ := f.service.GetSession(start.SessionID)
	if again.Questions[0].Text == "changed" || again.CurrentIndex != 0 {
		t.Error("mutating a snapshot changed the live session")
	}
}
