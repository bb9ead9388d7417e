package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Marcelele-0/AI-upskilling/ai"
	"github.com/Marcelele-0/AI-upskilling/core"
	"github.com/Marcelele-0/AI-upskilling/telemetry"
	"github.com/tmc/langchaingo/prompts"
)

const generationDependency = "openai_generation"

// NoContextAnswer is returned when no usable document content was
// retrieved. The generation service is not called in that case.
const NoContextAnswer = "Przepraszam, nie znalazłem odpowiednich dokumentów, aby odpowiedzieć na Twoje pytanie."

const generationFailureFormat = "Przepraszam, wystąpił błąd podczas generowania odpowiedzi: %s"

// answerPromptTemplate is the two-slot RAG prompt filled with the
// concatenated document context and the user's question.
const answerPromptTemplate = `Jesteś pomocnym asystentem, który odpowiada na pytania na podstawie dostarczonego kontekstu.

Kontekst:
{{.context}}

Pytanie: {{.question}}

Instrukcje:
- Udziel wyczerpującej odpowiedzi na podstawie powyższego kontekstu
- Jeśli kontekst nie zawiera wystarczających informacji, powiedz o tym jasno
- Odpowiadaj w języku pytania
- Bądź precyzyjny i pomocny

Odpowiedź:`

// Answerer assembles retrieved content into a prompt and invokes the
// generation service.
type Answerer struct {
	generator ai.Generator
	prompt    prompts.PromptTemplate
	logger    *telemetry.Logger
}

// NewAnswerer creates the answer generation stage.
func NewAnswerer(generator ai.Generator, logger *telemetry.Logger) *Answerer {
	return &Answerer{
		generator: generator,
		prompt:    prompts.NewPromptTemplate(answerPromptTemplate, []string{"context", "question"}),
		logger:    logger,
	}
}

// BuildContext concatenates the content of every document with non-empty
// content, in retrieval order, separated by a blank line.
func BuildContext(docs []core.RetrievedDocument) string {
	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc.Content != "" {
			parts = append(parts, doc.Content)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Generate produces an answer for the query from the retrieved documents.
// With no usable context it short-circuits to NoContextAnswer without
// calling the generation service. A failed generation call degrades to an
// apology embedding the error description. Generate never returns an error.
func (a *Answerer) Generate(ctx context.Context, query string, docs []core.RetrievedDocument) string {
	return a.GenerateWithMonitor(ctx, query, docs, nil)
}

// GenerateWithMonitor is Generate with stage callbacks.
func (a *Answerer) GenerateWithMonitor(ctx context.Context, query string, docs []core.RetrievedDocument, monitor PipelineMonitor) string {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	a.logger.Debug(ctx, "starting answer generation",
		"query_length", len(query),
		"document_count", len(docs),
	)

	contextText := BuildContext(docs)
	monitor.ContextBuilt(len(contextText))

	if contextText == "" {
		// Skipping the generation call here is deliberate: without context
		// there is nothing to condition the model on.
		a.logger.Debug(ctx, "no valid context found in retrieved documents")
		monitor.ShortCircuit()
		return NoContextAnswer
	}

	a.logger.Debug(ctx, "context created", "context_length", len(contextText))

	answer, err := a.generate(ctx, query, contextText)
	if err != nil {
		a.logger.Exception(ctx, "error generating answer", err)
		return fmt.Sprintf(generationFailureFormat, unwrapDescription(err))
	}

	a.logger.Debug(ctx, "answer generated successfully", "answer_length", len(answer))
	monitor.AfterGeneration(len(answer))
	return answer
}

// generate is the fallible inner stage; GenerateWithMonitor applies the
// degradation policy.
func (a *Answerer) generate(ctx context.Context, query, contextText string) (string, error) {
	prompt, err := a.prompt.Format(map[string]any{
		"context":  contextText,
		"question": query,
	})
	if err != nil {
		return "", &core.GenerationError{Err: err}
	}
	a.logger.Debug(ctx, "prompt assembled", "prompt_length", len(prompt))

	start := time.Now()
	answer, err := a.generator.GenerateAnswer(ctx, prompt)
	duration := time.Since(start)

	a.logger.Dependency(ctx, generationDependency,
		"generate answer for: "+truncate(query, 50),
		duration, err == nil, resultCode(err))
	if err != nil {
		return "", &core.GenerationError{Err: err}
	}
	return answer, nil
}

// unwrapDescription strips the stage wrapper so the user-facing apology
// carries the collaborator's own message.
func unwrapDescription(err error) string {
	var genErr *core.GenerationError
	if errors.As(err, &genErr) && genErr.Err != nil {
		return genErr.Err.Error()
	}
	return err.Error()
}
