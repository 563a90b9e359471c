package services

import (
	"fmt"
	"strings"

	"alfredoptarigan/ai-interviewer/internal/models"
)

// Reference document types stored in the vector collection.
const (
	DocTypeQuestionBank  = "question_bank"
	DocTypeScoringRubric = "scoring_rubric"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildQuestionPrompt creates the prompt for the six interview questions
func (pb *PromptBuilder) BuildQuestionPrompt(profile models.CandidateProfile, referenceQuestions string) string {
	skills := "MERN STACK"
	if len(profile.Skills) > 0 {
		skills = strings.Join(profile.Skills, ", ")
	}
	experience := profile.Experience
	if experience == "" {
		experience = "Undergraduate"
	}
	education := profile.Education
	if education == "" {
		education = "Bachelor of technology"
	}

	var reference string
	if referenceQuestions != "" {
		reference = fmt.Sprintf(`
REFERENCE QUESTIONS (use them for tone and depth, do not copy them verbatim):
%s
`, referenceQuestions)
	}

	return fmt.Sprintf(`Based on this candidate profile:
Skills: %s
Experience: %s
Education: %s
%s
Generate exactly 6 progressive technical interview questions suitable for this candidate. The questions should be structured as follows:
- 2 "Easy" questions that can be answered within 20 seconds.
- 2 "Medium" questions that can be answered within 60 seconds.
- 2 "Hard" questions that can be answered within 120 seconds.

Return ONLY a raw JSON array of objects (no markdown, no backticks). Each object must have three keys:
1. "question": The text of the question.
2. "difficulty": A string ("Easy", "Medium", or "Hard").
3. "timeLimit": An integer representing the time limit in seconds (20, 60, or 120).

Example format:
[{"question":"...", "difficulty":"Easy", "timeLimit":20}, ...]`,
		skills, experience, education, reference)
}

// BuildSummaryPrompt creates the prompt for the written interview feedback
func (pb *PromptBuilder) BuildSummaryPrompt(transcript []models.AnsweredItem) string {
	return fmt.Sprintf(`Based on the following interview responses, generate a comprehensive summary:

%s

Provide a detailed analysis including:
1. Overall performance assessment
2. Technical strengths demonstrated
3. Areas for improvement
4. Communication skills evaluation
5. Problem-solving approach

Return the summary in a clear, professional format suitable for interview feedback.`,
		FormatTranscript(transcript))
}

// BuildScorePrompt creates the prompt for the numeric 0-100 score
func (pb *PromptBuilder) BuildScorePrompt(transcript []models.AnsweredItem, rubric string) string {
	var rubricSection string
	if rubric != "" {
		rubricSection = fmt.Sprintf(`
SCORING RUBRIC:
%s
`, rubric)
	}

	return fmt.Sprintf(`Based on the following interview responses, generate a numerical score from 0-100:

%s
%s
Consider the following factors when scoring:
1. Technical accuracy of answers
2. Completeness of responses
3. Time management (answers within time limits)
4. Clarity and communication
5. Problem-solving approach

Return ONLY a JSON object in this exact format (no markdown, no backticks):
{"score": [numerical value between 0-100], "rationale": "[brief explanation]"}`,
		FormatTranscript(transcript), rubricSection)
}

// BuildRetrievalQuery creates query for RAG retrieval
func (pb *PromptBuilder) BuildRetrievalQuery(queryType string, profile models.CandidateProfile) string {
	switch queryType {
	case DocTypeQuestionBank:
		if len(profile.Skills) == 0 {
			return "General software engineering interview questions"
		}
		return fmt.Sprintf("Technical interview questions about %s", strings.Join(profile.Skills, ", "))
	case DocTypeScoringRubric:
		return "Interview answer evaluation criteria and scoring guidelines"
	default:
		return strings.Join(profile.Skills, ", ")
	}
}

// FormatTranscript renders the answer log the way both scoring prompts expect it.
func FormatTranscript(transcript []models.AnsweredItem) string {
	blocks := make([]string, 0, len(transcript))
	for _, item := range transcript {
		answer := "No answer provided"
		if item.Answer != nil && *item.Answer != "" {
			answer = *item.Answer
		}
		timeTaken := "N/A"
		if item.TimeTaken != nil && *item.TimeTaken > 0 {
			timeTaken = fmt.Sprintf("%d seconds", *item.TimeTaken)
		}

		blocks = append(blocks, fmt.Sprintf("Question %d (%s): %s\nAnswer: %s\nTime Taken: %s\nTime Limit: %d seconds",
			item.QuestionIndex+1, item.Question.Difficulty, item.Question.Text,
			answer, timeTaken, item.Question.TimeLimit))
	}
	return strings.Join(blocks, "\n\n")
}

// Helper to clean and format context from RAG results
func FormatRAGContext(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	var parts []string
	for i, result := range results {
		parts = append(parts, fmt.Sprintf("--- Context %d (Score: %.2f) ---\n%s",
			i+1, result.Score, strings.TrimSpace(result.Text)))
	}

	return strings.Join(parts, "\n\n")
}
