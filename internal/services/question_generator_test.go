package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"alfredoptarigan/ai-interviewer/internal/models"
)

func testFallbackQuestions() []models.Question {
	return []models.Question{
		{Text: "Tell me about yourself.", Difficulty: models.DifficultyEasy, TimeLimit: 20},
		{Text: "What is a variable?", Difficulty: models.DifficultyEasy, TimeLimit: 20},
		{Text: "SQL or NoSQL?", Difficulty: models.DifficultyMedium, TimeLimit: 60},
		{Text: "What is the event loop?", Difficulty: models.DifficultyMedium, TimeLimit: 60},
		{Text: "Describe a challenging project.", Difficulty: models.DifficultyHard, TimeLimit: 120},
		{Text: "Design a rate limiter.", Difficulty: models.DifficultyHard, TimeLimit: 120},
	}
}

func TestQuestionGeneratorParsesModelOutput(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "raw array", text: questionSetJSON},
		{name: "markdown fence", text: "```json\n" + questionSetJSON + "\n```"},
		{name: "surrounding prose", text: "Here are your questions:\n" + questionSetJSON + "\nGood luck!"},
		{name: "string time limits", text: strings.NewReplacer(`: 20}`, `: "20"}`, `: 60}`, `: "60"}`).Replace(questionSetJSON)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := NewQuestionGenerator(NewModelChain(staticGenerator("m", tt.text)), nil, testFallbackQuestions())

			questions := gen.Generate(context.Background(), *pythonProfile())

			if len(questions) != 6 {
				t.Fatalf("got %d questions, want 6", len(questions))
			}
			if questions[0].Text != "What is a Python list?" {
				t.Errorf("first question = %q, want generated text", questions[0].Text)
			}
			if questions[1].Difficulty != models.DifficultyMedium || questions[1].TimeLimit != 60 {
				t.Errorf("second question = %+v, want medium/60", questions[1])
			}
		})
	}
}

func TestQuestionGeneratorFallsBack(t *testing.T) {
	five := strings.Replace(questionSetJSON, `,
  {"question": "Describe how you would profile a slow service.", "difficulty": "Hard", "timeLimit": 120}`, "", 1)

	tests := []struct {
		name      string
		generator TextGenerator
	}{
		{name: "all models fail", generator: failingGenerator("only")},
		{name: "not json", generator: staticGenerator("m", "I cannot help with that.")},
		{name: "object instead of array", generator: staticGenerator("m", `{"question": "x"}`)},
		{name: "five questions", generator: staticGenerator("m", five)},
		{name: "bad time limit", generator: staticGenerator("m", strings.Replace(questionSetJSON, `"timeLimit": 120`, `"timeLimit": 90`, 1))},
		{name: "fractional time limit", generator: staticGenerator("m", strings.Replace(questionSetJSON, `"timeLimit": 20`, `"timeLimit": 20.5`, 1))},
		{name: "missing time limit", generator: staticGenerator("m", strings.Replace(questionSetJSON, `, "timeLimit": 20}`, `}`, 1))},
		{name: "unknown difficulty", generator: staticGenerator("m", strings.Replace(questionSetJSON, `"Hard"`, `"Expert"`, 1))},
		{name: "empty question text", generator: staticGenerator("m", strings.Replace(questionSetJSON, `"What is a tuple?"`, `""`, 1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := NewQuestionGenerator(NewModelChain(tt.generator), nil, testFallbackQuestions())

			questions := gen.Generate(context.Background(), *pythonProfile())

			want := testFallbackQuestions()
			if len(questions) != len(want) {
				t.Fatalf("got %d questions, want %d", len(questions), len(want))
			}
			for i := range want {
				if questions[i] != want[i] {
					t.Errorf("question %d = %+v, want %+v", i, questions[i], want[i])
				}
			}
		})
	}
}

func TestQuestionGeneratorTriesModelsInOrder(t *testing.T) {
	first := failingGenerator("first")
	second := staticGenerator("second", questionSetJSON)
	third := staticGenerator("third", questionSetJSON)
	gen := NewQuestionGenerator(NewModelChain(first, second, third), nil, testFallbackQuestions())

	questions := gen.Generate(context.Background(), *pythonProfile())

	if questions[0].Text != "What is a Python list?" {
		t.Errorf("got %q, want generated questions", questions[0].Text)
	}
	if first.Calls() != 1 || second.Calls() != 1 || third.Calls() != 0 {
		t.Errorf("calls = %d/%d/%d, want 1/1/0", first.Calls(), second.Calls(), third.Calls())
	}
}

func TestQuestionGeneratorFallbackIsCopied(t *testing.T) {
	gen := NewQuestionGenerator(NewModelChain(failingGenerator("m")), nil, testFallbackQuestions())

	questions := gen.Generate(context.Background(), *pythonProfile())
	questions[0].Text = "mutated"

	again := gen.Generate(context.Background(), *pythonProfile())
	if again[0].Text == "mutated" {
		t.Error("fallback set shared between sessions")
	}
}

func TestQuestionGeneratorUsesReferenceQuestions(t *testing.T) {
	model := staticGenerator("m", questionSetJSON)
	retriever := &fakeRetriever{text: "--- Context 1 ---\nWhat is a decorator?"}
	gen := NewQuestionGenerator(NewModelChain(model), retriever, testFallbackQuestions())

	gen.Generate(context.Background(), *pythonProfile())

	if len(model.prompts) != 1 || !strings.Contains(model.prompts[0], "What is a decorator?") {
		t.Errorf("prompt does not carry reference questions: %v", model.prompts)
	}
	if len(retriever.docTypes) != 1 || retriever.docTypes[0] != DocTypeQuestionBank {
		t.Errorf("retrieved doc types = %v, want [%s]", retriever.docTypes, DocTypeQuestionBank)
	}
}

func TestQuestionGeneratorIgnoresRetrievalFailure(t *testing.T) {
	model := staticGenerator("m", questionSetJSON)
	retriever := &fakeRetriever{err: errors.New("qdrant down")}
	gen := NewQuestionGenerator(NewModelChain(model), retriever, testFallbackQuestions())

	questions := gen.Generate(context.Background(), *pythonProfile())

	if questions[0].Text != "What is a Python list?" {
		t.Errorf("got %q, want generated questions", questions[0].Text)
	}
	if strings.Contains(model.prompts[0], "REFERENCE QUESTIONS") {
		t.Error("prompt has a reference section although retrieval failed")
	}
}
