package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Time limits in seconds, one per difficulty tier.
const (
	TimeLimitEasy   = 20
	TimeLimitMedium = 60
	TimeLimitHard   = 120
)

// QuestionsPerInterview is the fixed size of a generated question set.
const QuestionsPerInterview = 6

func IsValidTimeLimit(seconds int) bool {
	switch seconds {
	case TimeLimitEasy, TimeLimitMedium, TimeLimitHard:
		return true
	}
	return false
}

func ParseDifficulty(s string) (Difficulty, bool) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, true
	}
	return "", false
}

type Question struct {
	Text       string     `json:"question" yaml:"question"`
	Difficulty Difficulty `json:"difficulty" yaml:"difficulty"`
	TimeLimit  int        `json:"timeLimit" yaml:"time_limit"`
}

type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
)

// SkillList accepts either a JSON array or a comma separated string.
type SkillList []string

func (s *SkillList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = cleanSkills(list)
		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return fmt.Errorf("skills must be an array or a comma separated string")
	}
	*s = cleanSkills(strings.Split(joined, ","))
	return nil
}

func cleanSkills(raw []string) SkillList {
	skills := make(SkillList, 0, len(raw))
	for _, skill := range raw {
		if skill = strings.TrimSpace(skill); skill != "" {
			skills = append(skills, skill)
		}
	}
	return skills
}

type CandidateProfile struct {
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Skills     SkillList `json:"skills"`
	Experience string    `json:"experience,omitempty"`
	Education  string    `json:"education,omitempty"`
}

// AnsweredItem is one transcript entry. Answer and TimeTaken are both nil
// when the submission arrived at or after the time limit.
type AnsweredItem struct {
	QuestionIndex int      `json:"questionIndex"`
	Question      Question `json:"question"`
	Answer        *string  `json:"answer"`
	TimeTaken     *int     `json:"timeTaken"`
}

type InterviewSession struct {
	ID           string           `json:"sessionId"`
	Profile      CandidateProfile `json:"profile"`
	Questions    []Question       `json:"questions"`
	CurrentIndex int              `json:"currentIndex"`
	Answers      []AnsweredItem   `json:"answers"`
	Status       SessionStatus    `json:"status"`
	StartTime    time.Time        `json:"startTime"`
	EndTime      *time.Time       `json:"endTime,omitempty"`
	OwnerID      string           `json:"ownerId,omitempty"`

	// QuestionIssuedAt is when the current question was handed out.
	QuestionIssuedAt time.Time `json:"questionStartTime"`
}

func (s *InterviewSession) IsComplete() bool {
	return s.CurrentIndex >= len(s.Questions)
}

func (s *InterviewSession) CurrentQuestion() (Question, bool) {
	if s.IsComplete() {
		return Question{}, false
	}
	return s.Questions[s.CurrentIndex], true
}

// Snapshot returns a copy that shares no slices with the live session.
func (s *InterviewSession) Snapshot() InterviewSession {
	cp := *s
	cp.Profile.Skills = append(SkillList(nil), s.Profile.Skills...)
	cp.Questions = append([]Question(nil), s.Questions...)
	cp.Answers = append([]AnsweredItem(nil), s.Answers...)
	if s.EndTime != nil {
		end := *s.EndTime
		cp.EndTime = &end
	}
	return cp
}

// SessionView is what a client may see of a session. Questions not yet
// issued are left out while the session is active.
type SessionView struct {
	ID                string           `json:"sessionId"`
	Status            SessionStatus    `json:"status"`
	QuestionNumber    int              `json:"questionNumber"`
	TotalQuestions    int              `json:"totalQuestions"`
	CurrentQuestion   *Question        `json:"currentQuestion,omitempty"`
	QuestionStartTime *time.Time       `json:"questionStartTime,omitempty"`
	Answers           []AnsweredItem   `json:"answers"`
	Profile           CandidateProfile `json:"profile"`
	StartTime         time.Time        `json:"startTime"`
	EndTime           *time.Time       `json:"endTime,omitempty"`
}

func (s *InterviewSession) View() SessionView {
	snapshot := s.Snapshot()
	view := SessionView{
		ID:             snapshot.ID,
		Status:         snapshot.Status,
		QuestionNumber: snapshot.CurrentIndex,
		TotalQuestions: len(snapshot.Questions),
		Answers:        snapshot.Answers,
		Profile:        snapshot.Profile,
		StartTime:      snapshot.StartTime,
		EndTime:        snapshot.EndTime,
	}
	if view.Answers == nil {
		view.Answers = []AnsweredItem{}
	}

	if q, ok := snapshot.CurrentQuestion(); ok && snapshot.Status == SessionActive {
		issued := snapshot.QuestionIssuedAt
		view.CurrentQuestion = &q
		view.QuestionStartTime = &issued
		view.QuestionNumber = snapshot.CurrentIndex + 1
	}
	return view
}
