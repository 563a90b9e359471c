package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/repositories"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// scriptedGenerator answers every prompt through fn and records the prompts.
type scriptedGenerator struct {
	name string
	fn   func(prompt string) (string, error)

	mu      sync.Mutex
	prompts []string
}

func (g *scriptedGenerator) Name() string { return g.name }

func (g *scriptedGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()
	return g.fn(prompt)
}

func (g *scriptedGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

func staticGenerator(name, text string) *scriptedGenerator {
	return &scriptedGenerator{name: name, fn: func(string) (string, error) { return text, nil }}
}

func failingGenerator(name string) *scriptedGenerator {
	return &scriptedGenerator{name: name, fn: func(string) (string, error) {
		return "", errors.New(name + " is not available")
	}}
}

type fakeRetriever struct {
	text string
	err  error

	mu       sync.Mutex
	docTypes []string
}

func (r *fakeRetriever) Retrieve(ctx context.Context, query, docType string, limit int) (string, error) {
	r.mu.Lock()
	r.docTypes = append(r.docTypes, docType)
	r.mu.Unlock()
	return r.text, r.err
}

// memoryResults is an in-memory TestResultRepository.
type memoryResults struct {
	mu        sync.Mutex
	results   []models.TestResult
	createErr error
	now       func() time.Time
}

var _ repositories.TestResultRepository = (*memoryResults)(nil)

func (m *memoryResults) Create(ctx context.Context, result *models.TestResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if result.ID == uuid.Nil {
		result.ID = uuid.New()
	}
	if result.CreatedAt.IsZero() && m.now != nil {
		result.CreatedAt = m.now()
	}
	m.results = append(m.results, *result)
	return nil
}

func (m *memoryResults) FindByOwner(ctx context.Context, ownerID string) ([]models.TestResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.TestResult
	for _, r := range m.results {
		if r.OwnerID == ownerID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memoryResults) FindByID(ctx context.Context, ownerID string, id uuid.UUID) (*models.TestResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.results {
		if r.ID == id && r.OwnerID == ownerID {
			result := r
			return &result, nil
		}
	}
	return nil, repositories.ErrResultNotFound
}

func (m *memoryResults) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.results)
}

// questionSetJSON alternates tiers so that question 2 carries a 60 second limit.
const questionSetJSON = `[
  {"question": "What is a Python list?", "difficulty": "Easy", "timeLimit": 20},
  {"question": "Explain Python generators.", "difficulty": "Medium", "timeLimit": 60},
  {"question": "Design a rate limiter in Python.", "difficulty": "Hard", "timeLimit": 120},
  {"question": "What is a tuple?", "difficulty": "Easy", "timeLimit": 20},
  {"question": "How does the GIL affect threads?", "difficulty": "Medium", "timeLimit": 60},
  {"question": "Describe how you would profile a slow service.", "difficulty": "Hard", "timeLimit": 120}
]`

// interviewModel answers question, summary and score prompts like a well
// behaved model would.
func interviewModel(score string) *scriptedGenerator {
	return &scriptedGenerator{name: "fake-model", fn: func(prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "progressive technical interview questions"):
			return questionSetJSON, nil
		case strings.Contains(prompt, "comprehensive summary"):
			return "Solid fundamentals, needs work on system design.", nil
		case strings.Contains(prompt, "numerical score"):
			return score, nil
		}
		return "", errors.New("unexpected prompt")
	}}
}
