package config

import (
	"errors"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"alfredoptarigan/ai-interviewer/internal/models"
)

// InterviewConfig holds the static interview content: the question set used
// when no generation backend answers, and the skill vocabulary of the résumé parser.
type InterviewConfig struct {
	FallbackQuestions []models.Question `yaml:"fallback_questions"`
	SkillVocabulary   []string          `yaml:"skill_vocabulary"`
}

func DefaultFallbackQuestions() []models.Question {
	return []models.Question{
		{Text: "Tell me about yourself.", Difficulty: models.DifficultyEasy, TimeLimit: models.TimeLimitEasy},
		{Text: "What is a variable in JavaScript?", Difficulty: models.DifficultyEasy, TimeLimit: models.TimeLimitEasy},
		{Text: "Explain the difference between SQL and NoSQL databases.", Difficulty: models.DifficultyMedium, TimeLimit: models.TimeLimitMedium},
		{Text: "What is the event loop?", Difficulty: models.DifficultyMedium, TimeLimit: models.TimeLimitMedium},
		{Text: "Describe a challenging project you worked on.", Difficulty: models.DifficultyHard, TimeLimit: models.TimeLimitHard},
		{Text: "How would you design a simple API rate limiter?", Difficulty: models.DifficultyHard, TimeLimit: models.TimeLimitHard},
	}
}

func DefaultSkillVocabulary() []string {
	return []string{
		"JavaScript", "Python", "Java", "React", "Node.js", "HTML", "CSS", "SQL",
		"MongoDB", "Express", "Angular", "Vue", "Docker", "AWS", "Git",
	}
}

func DefaultInterviewConfig() *InterviewConfig {
	return &InterviewConfig{
		FallbackQuestions: DefaultFallbackQuestions(),
		SkillVocabulary:   DefaultSkillVocabulary(),
	}
}

// LoadInterviewConfig reads the YAML file at path. A missing file yields the
// defaults; sections left out of the file keep their defaults too.
func LoadInterviewConfig(path string) (*InterviewConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("⚠️  Interview config %s not found, using built-in question set\n", path)
		return DefaultInterviewConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read interview config %s: %w", path, err)
	}

	return ParseInterviewConfig(data)
}

func ParseInterviewConfig(data []byte) (*InterviewConfig, error) {
	var cfg InterviewConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse interview config: %w", err)
	}

	if len(cfg.FallbackQuestions) == 0 {
		cfg.FallbackQuestions = DefaultFallbackQuestions()
	}
	if len(cfg.SkillVocabulary) == 0 {
		cfg.SkillVocabulary = DefaultSkillVocabulary()
	}

	if err := validateInterviewConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid interview config: %w", err)
	}

	return &cfg, nil
}

func validateInterviewConfig(cfg *InterviewConfig) error {
	if len(cfg.FallbackQuestions) != models.QuestionsPerInterview {
		return fmt.Errorf("fallback_questions must have %d entries, got %d",
			models.QuestionsPerInterview, len(cfg.FallbackQuestions))
	}

	for i := range cfg.FallbackQuestions {
		q := &cfg.FallbackQuestions[i]
		if q.Text == "" {
			return fmt.Errorf("fallback question %d has no text", i+1)
		}
		difficulty, ok := models.ParseDifficulty(string(q.Difficulty))
		if !ok {
			return fmt.Errorf("fallback question %d has unknown difficulty %q", i+1, q.Difficulty)
		}
		q.Difficulty = difficulty
		if !models.IsValidTimeLimit(q.TimeLimit) {
			return fmt.Errorf("fallback question %d has time_limit %d, allowed values: 20, 60, 120", i+1, q.TimeLimit)
		}
	}

	for i, skill := range cfg.SkillVocabulary {
		if skill == "" {
			return fmt.Errorf("skill_vocabulary entry %d is empty", i+1)
		}
	}

	return nil
}
