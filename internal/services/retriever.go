package services

import (
	"context"
	"fmt"
)

// ContextRetriever looks up reference material to enrich a prompt.
type ContextRetriever interface {
	Retrieve(ctx context.Context, query, docType string, limit int) (string, error)
}

type ragRetriever struct {
	geminiService GeminiService
	qdrantService QdrantService
}

func NewRAGRetriever(geminiService GeminiService, qdrantService QdrantService) ContextRetriever {
	return &ragRetriever{
		geminiService: geminiService,
		qdrantService: qdrantService,
	}
}

// Retrieve implements ContextRetriever.
func (r *ragRetriever) Retrieve(ctx context.Context, query, docType string, limit int) (string, error) {
	embedding, err := r.geminiService.GenerateEmbedding(ctx, query)
	if err != nil {
		return "", fmt.Errorf("failed to generate query embedding: %w", err)
	}

	results, err := r.qdrantService.SearchSimilar(ctx, embedding, docType, limit)
	if err != nil {
		return "", fmt.Errorf("failed to search %s: %w", docType, err)
	}

	return FormatRAGContext(results), nil
}
