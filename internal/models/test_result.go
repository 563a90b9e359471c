package models

import (
	"time"

	"github.com/google/uuid"
)

type ResultQuestion struct {
	Text      string `json:"text"`
	Level     string `json:"level"`
	TimeLimit int    `json:"timeLimit"`
}

// ResultAnswer is the flattened question+answer+timing row stored with a result.
type ResultAnswer struct {
	QuestionIndex int            `json:"questionIndex"`
	Question      ResultQuestion `json:"question"`
	Answer        *string        `json:"answer"`
	TimeTaken     *int           `json:"timeTaken"`
}

type TestResult struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OwnerID        string         `gorm:"type:text;not null;index" json:"ownerId"`
	SessionID      string         `gorm:"type:text;not null;uniqueIndex" json:"sessionId"`
	ProfileName    string         `gorm:"type:text" json:"profileName"`
	ProfileEmail   string         `gorm:"type:text" json:"profileEmail"`
	ProfilePhone   *string        `gorm:"type:text" json:"profilePhone"`
	Skills         []string       `gorm:"type:jsonb;serializer:json" json:"skills"`
	Answers        []ResultAnswer `gorm:"type:jsonb;serializer:json" json:"answers"`
	Summary        string         `gorm:"type:text" json:"summary"`
	TotalScore     int            `gorm:"not null" json:"totalScore"`
	ScoreRationale string         `gorm:"type:text" json:"scoreRationale"`
	Status         string         `gorm:"type:text;not null" json:"status"`
	CreatedAt      time.Time      `gorm:"default:CURRENT_TIMESTAMP;index" json:"createdAt"`
}

func (TestResult) TableName() string {
	return "test_results"
}

// FlattenAnswers converts a session transcript into the stored row shape.
func FlattenAnswers(items []AnsweredItem) []ResultAnswer {
	rows := make([]ResultAnswer, 0, len(items))
	for _, item := range items {
		rows = append(rows, ResultAnswer{
			QuestionIndex: item.QuestionIndex,
			Question: ResultQuestion{
				Text:      item.Question.Text,
				Level:     string(item.Question.Difficulty),
				TimeLimit: item.Question.TimeLimit,
			},
			Answer:    item.Answer,
			TimeTaken: item.TimeTaken,
		})
	}
	return rows
}
