package services

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// TextGenerator is one generation backend.
type TextGenerator interface {
	Name() string
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type GeminiService interface {
	Model(name string) TextGenerator
	Models(names []string) []TextGenerator
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type geminiService struct {
	client      *genai.Client
	embedModel  string
	temperature float32
	timeout     time.Duration
}

func NewGeminiService(apiKey, embedModel string, timeout time.Duration) (GeminiService, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:      client,
		embedModel:  embedModel,
		temperature: 0.4,
		timeout:     timeout,
	}, nil
}

// Model implements GeminiService.
func (g *geminiService) Model(name string) TextGenerator {
	return &geminiModel{service: g, name: name}
}

// Models implements GeminiService.
func (g *geminiService) Models(names []string) []TextGenerator {
	generators := make([]TextGenerator, 0, len(names))
	for _, name := range names {
		generators = append(generators, g.Model(name))
	}
	return generators
}

// GenerateEmbedding implements GeminiService.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	// Truncate text if too long (max ~10000 tokens for embedding)
	if len(text) > 40000 {
		text = text[:40000]
	}

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

type geminiModel struct {
	service *geminiService
	name    string
}

func (m *geminiModel) Name() string {
	return m.name
}

func (m *geminiModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	if m.service.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.service.timeout)
		defer cancel()
	}

	temperature := m.service.temperature
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 4096,
	}

	resp, err := m.service.client.Models.GenerateContent(ctx, m.name, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate text with %s: %w", m.name, err)
	}

	if resp == nil {
		return "", fmt.Errorf("no response generated by %s (nil response)", m.name)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no text content in %s response", m.name)
	}

	return text, nil
}
