package models

import (
	"encoding/json"
	"time"
)

// APIResponse is the envelope every endpoint answers with.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type StartInterviewRequest struct {
	Profile *CandidateProfile `json:"profile"`
}

// SubmitAnswerRequest mirrors what the browser client sends. QuestionStartTime
// (epoch millis or an ISO timestamp) and TimeLimit (number or string) echo
// what the client was shown; the session's own stamps decide lateness.
type SubmitAnswerRequest struct {
	SessionID         string          `json:"sessionId"`
	Answer            string          `json:"answer"`
	QuestionStartTime json.RawMessage `json:"questionStartTime,omitempty"`
	TimeLimit         json.RawMessage `json:"timeLimit,omitempty"`
}

// SubmitAnswerInput carries the caller as OwnerID; it must match the session
// owner when the session has one.
type SubmitAnswerInput struct {
	SessionID string
	Answer    string
	OwnerID   string
}

// QuestionPayload is returned by start and by every non-final submission.
type QuestionPayload struct {
	SessionID         string        `json:"sessionId"`
	Question          Question      `json:"question"`
	QuestionNumber    int           `json:"questionNumber"`
	TotalQuestions    int           `json:"totalQuestions"`
	TimeLimit         int           `json:"timeLimit"`
	QuestionStartTime time.Time     `json:"questionStartTime"`
	Status            SessionStatus `json:"status"`
}

type CompletionPayload struct {
	SessionID        string        `json:"sessionId"`
	Status           SessionStatus `json:"status"`
	TotalQuestions   int           `json:"totalQuestions"`
	AnswersSubmitted int           `json:"answersSubmitted"`
	ResultID         string        `json:"resultId,omitempty"`
}

// SubmitAnswerResult carries exactly one of Next or Completed.
type SubmitAnswerResult struct {
	Next      *QuestionPayload
	Completed *CompletionPayload
}

type ExtractedData struct {
	Name    *string  `json:"name"`
	Email   *string  `json:"email"`
	Phone   *string  `json:"phone"`
	Skills  []string `json:"skills"`
	Summary *string  `json:"summary"`
}

type MissingFields struct {
	Name   bool `json:"name"`
	Email  bool `json:"email"`
	Phone  bool `json:"phone"`
	Skills bool `json:"skills"`
}

type ResumeParseResult struct {
	ExtractedData ExtractedData `json:"extractedData"`
	MissingFields MissingFields `json:"missingFields"`
}

type ScoreResult struct {
	Score     int    `json:"score"`
	Rationale string `json:"rationale"`
}
