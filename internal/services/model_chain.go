package services

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// ModelChain tries its generators in order and returns the first answer.
// A later generator is only asked when every earlier one failed.
type ModelChain struct {
	generators []TextGenerator
}

func NewModelChain(generators ...TextGenerator) *ModelChain {
	return &ModelChain{generators: generators}
}

// Generate returns the name of the generator that answered and its text.
func (c *ModelChain) Generate(ctx context.Context, prompt string) (string, string, error) {
	for _, generator := range c.generators {
		if err := ctx.Err(); err != nil {
			return "", "", fmt.Errorf("context cancelled: %w", err)
		}

		text, err := generator.GenerateText(ctx, prompt)
		if err != nil {
			log.Printf("⚠️  Model %s failed: %v\n", generator.Name(), err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			log.Printf("⚠️  Model %s returned an empty response\n", generator.Name())
			continue
		}

		return generator.Name(), text, nil
	}

	return "", "", ErrAllModelsFailed
}

func (c *ModelChain) Len() int {
	return len(c.generators)
}
