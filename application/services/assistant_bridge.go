package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"techtree-backend/application/ports"
	"techtree-backend/domain/core/entities"
	pkgerrors "techtree-backend/pkg/errors"
	"techtree-backend/pkg/observability"
)

// SystemInstruction pins the assistant persona and output format.
const SystemInstruction = `You are an expert in nuclear fission and fusion technologies. You help users answer questions about an investment tech tree that covers reactor concepts, milestones and enabling technologies.

Answer the user's question based on the tech tree context you are given. Be precise and informative, explain technical concepts clearly, and mention relevant connections between technologies when they exist.

Format the answer as an HTML fragment. Use only these tags: h2, h3, h4, p, ul, ol, li, strong, em, table, thead, tbody, tr, td, th, code, pre, br. Do not wrap the answer in a code fence and do not include html, head or body elements.`

// Generation parameters for every chat request.
const (
	DefaultMaxOutputTokens int32   = 2000
	DefaultTemperature     float32 = 0.7
)

// ChatContext is the slice of the tree the user is looking at.
type ChatContext struct {
	Nodes []*entities.Node
	Edges []*entities.Edge
	Focus *entities.Node
}

// ContextFromSelection adapts a view selection for the assistant.
func ContextFromSelection(sel Selection) ChatContext {
	return ChatContext{Nodes: sel.Nodes, Edges: sel.Edges, Focus: sel.Focus}
}

// AssistantBridge formats a question with its graph context and makes a
// single model call. It never retries.
type AssistantBridge struct {
	generator       ports.Generator
	maxOutputTokens int32
	temperature     float32
	tracer          *observability.Tracer
	logger          *zap.Logger
}

// NewAssistantBridge creates a bridge. A nil generator means no credential
// was configured; Ask then fails with a configuration error.
func NewAssistantBridge(generator ports.Generator, maxOutputTokens int32, temperature float32, tracer *observability.Tracer, logger *zap.Logger) *AssistantBridge {
	if maxOutputTokens <= 0 {
		maxOutputTokens = DefaultMaxOutputTokens
	}
	return &AssistantBridge{
		generator:       generator,
		maxOutputTokens: maxOutputTokens,
		temperature:     temperature,
		tracer:          tracer,
		logger:          logger,
	}
}

// Enabled reports whether a model is configured.
func (b *AssistantBridge) Enabled() bool {
	return b.generator != nil
}

// Model names the configured model, or "" when disabled.
func (b *AssistantBridge) Model() string {
	if b.generator == nil {
		return ""
	}
	return b.generator.Model()
}

// Ask returns the model's raw reply to question.
func (b *AssistantBridge) Ask(ctx context.Context, question string, chatCtx ChatContext) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", pkgerrors.NewValidationError("message is required")
	}
	if b.generator == nil {
		return "", pkgerrors.NewConfigurationError("generative model API key is not configured")
	}

	req := ports.GenerateRequest{
		SystemInstruction: SystemInstruction,
		Prompt:            BuildPrompt(question, chatCtx),
		MaxOutputTokens:   b.maxOutputTokens,
		Temperature:       b.temperature,
	}

	var answer string
	start := time.Now()
	err := b.tracer.TraceFunction(ctx, "generate", func(ctx context.Context) error {
		b.tracer.AddAnnotation(ctx, "model", b.generator.Model())
		var gerr error
		answer, gerr = b.generator.Generate(ctx, req)
		return gerr
	})
	if err != nil {
		b.tracer.RecordError(ctx, err)
		b.logger.Warn("Model request failed",
			zap.String("model", b.generator.Model()),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return "", pkgerrors.NewExternalError(b.generator.Model(), err)
	}

	b.logger.Debug("Model request completed",
		zap.String("model", b.generator.Model()),
		zap.Duration("duration", time.Since(start)),
		zap.Int("prompt_bytes", len(req.Prompt)),
		zap.Int("answer_bytes", len(answer)),
	)
	return answer, nil
}

// BuildPrompt serialises the context and question. Output depends only on
// the inputs and their order.
func BuildPrompt(question string, chatCtx ChatContext) string {
	var b strings.Builder

	b.WriteString("Here is the current tech tree context:\n\nNODES:\n")
	for i, n := range chatCtx.Nodes {
		if i > 0 {
			b.WriteString("\n\n")
		}
		writeNode(&b, n)
	}

	b.WriteString("\n\nEDGES (dependencies):\n")
	for i, e := range chatCtx.Edges {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Edge: %s → %s", e.Source(), e.Target())
	}

	if chatCtx.Focus != nil {
		fmt.Fprintf(&b, "\n\nCurrently selected node: %s (%s)", chatCtx.Focus.Label(), chatCtx.Focus.Category())
	}

	b.WriteString("\n\nUser question: ")
	b.WriteString(strings.TrimSpace(question))
	return b.String()
}

func writeNode(b *strings.Builder, n *entities.Node) {
	description := n.BestDescription()
	if description == "" {
		description = "No description available"
	}
	fmt.Fprintf(b, "Node: %s (%s)\n", n.Label(), n.Category())
	fmt.Fprintf(b, "  - ID: %s\n", n.ID())
	fmt.Fprintf(b, "  - Category: %s\n", n.Category())
	fmt.Fprintf(b, "  - TRL Current: %s\n", n.TRL())
	fmt.Fprintf(b, "  - Description: %s", description)
}
