package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"alfredoptarigan/ai-interviewer/internal/config"
	"alfredoptarigan/ai-interviewer/internal/services"
)

// referenceDoc is one file loaded into the vector collection.
type referenceDoc struct {
	Path    string
	DocType string
	Name    string
}

func main() {
	dir := flag.String("dir", "./reference_docs", "directory holding the reference documents")
	replace := flag.Bool("replace", false, "delete existing chunks of each document type before ingesting")
	flag.Parse()

	log.Println("🚀 Starting reference document ingestion...")

	cfg := config.Load()

	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.EmbedModel, cfg.Gemini.Timeout)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}
	defer qdrantService.Close()

	ctx := context.Background()

	if err := qdrantService.InitCollection(ctx); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	extractor := services.NewDocumentExtractor()
	chunker := services.NewTextChunker()

	documents := []referenceDoc{
		{
			Path:    findDocument(*dir, "question_bank"),
			DocType: services.DocTypeQuestionBank,
			Name:    "Interview Question Bank",
		},
		{
			Path:    findDocument(*dir, "scoring_rubric"),
			DocType: services.DocTypeScoringRubric,
			Name:    "Answer Scoring Rubric",
		},
	}

	successCount := 0
	failCount := 0

	for _, doc := range documents {
		log.Printf("\n📄 Processing: %s", doc.Name)
		log.Printf("   Type: %s", doc.DocType)

		if doc.Path == "" {
			log.Printf("   ⚠️  No %s.{pdf,md,txt} in %s, skipping...", doc.DocType, *dir)
			failCount++
			continue
		}
		log.Printf("   Path: %s", doc.Path)

		text, err := readDocument(extractor, doc.Path)
		if err != nil {
			log.Printf("   ❌ Failed to extract text: %v", err)
			failCount++
			continue
		}
		log.Printf("   ✅ Extracted %d characters", len(text))

		if *replace {
			if err := qdrantService.DeleteByDocType(ctx, doc.DocType); err != nil {
				log.Printf("   ❌ Failed to clear old chunks: %v", err)
				failCount++
				continue
			}
			log.Printf("   🧹 Cleared previous %s chunks", doc.DocType)
		}

		chunks := chunker.ChunkText(text, 1000, 200)
		log.Printf("   ✂️  Created %d chunks", len(chunks))

		stored := 0
		for i, chunk := range chunks {
			embedding, err := geminiService.GenerateEmbedding(ctx, chunk)
			if err != nil {
				log.Printf("   ❌ Failed to generate embedding for chunk %d: %v", i+1, err)
				continue
			}

			err = qdrantService.UpsertChunk(ctx, services.ReferenceChunk{
				DocID:   fmt.Sprintf("%s_chunk_%d", doc.DocType, i),
				DocType: doc.DocType,
				Source:  filepath.Base(doc.Path),
				Text:    chunk,
			}, embedding)
			if err != nil {
				log.Printf("   ❌ Failed to store chunk %d: %v", i+1, err)
				continue
			}
			stored++

			if (i+1)%5 == 0 || i == len(chunks)-1 {
				log.Printf("   📊 Progress: %d/%d chunks stored", i+1, len(chunks))
			}
		}

		if stored == 0 {
			log.Printf("   ❌ No chunks stored for %s", doc.Name)
			failCount++
			continue
		}

		log.Printf("   ✅ Successfully ingested %s", doc.Name)
		successCount++
	}

	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Ingestion Summary:")
	log.Printf("   ✅ Successful: %d documents", successCount)
	log.Printf("   ❌ Failed: %d documents", failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		log.Println("⚠️  Some documents failed to ingest. Please check the logs above.")
		os.Exit(1)
	}

	log.Println("✅ All documents ingested successfully!")
}

func findDocument(dir, base string) string {
	for _, ext := range []string{".pdf", ".md", ".txt"} {
		path := filepath.Join(dir, base+ext)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func readDocument(extractor services.DocumentExtractor, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return extractor.Extract(data, services.MimePDF)
	}

	text := services.CleanText(string(data))
	if text == "" {
		return "", services.ErrEmptyDocument
	}
	return text, nil
}
