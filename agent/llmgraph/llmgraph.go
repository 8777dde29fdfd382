// Package llmgraph wraps a single eino graph shape: a system-prompt chat
// template feeding a chat model, with no parsing stage. Both the outlet SQL
// gate's SQL generation and the orchestrator's final-answer composition are
// free-text completions, so both compile through CompileTextGraph rather than
// a structured-JSON graph shape: prompt node -> model node -> end, returning
// the raw model message.
package llmgraph

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/LightnXd/Zus-Chatbot-Backend/agent/domain"
)

// TextGraph runs a fixed system prompt against a single user turn and
// returns the model's text content. It satisfies domain.LanguageModel.
type TextGraph struct {
	name   string
	runner compose.Runnable[map[string]any, *schema.Message]
}

var _ domain.LanguageModel = (*TextGraph)(nil)

// CompileTextGraph builds a prompt->model->end graph. systemPrompt is fixed
// at compile time; Complete supplies the user turn per call via the "input"
// template variable.
func CompileTextGraph(ctx context.Context, chatModel einomodel.BaseChatModel, systemPrompt, name string) (*TextGraph, error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(systemPrompt),
		schema.UserMessage("{input}"),
	)

	graph := compose.NewGraph[map[string]any, *schema.Message]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add %s prompt node: %w", name, err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add %s model node: %w", name, err)
	}
	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add %s edge start->prompt: %w", name, err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add %s edge prompt->model: %w", name, err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add %s edge model->end: %w", name, err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName(name))
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	return &TextGraph{name: name, runner: runner}, nil
}

// Complete ignores its systemPrompt argument: the prompt is baked into the
// graph at compile time, one TextGraph per role. userPrompt fills {input}.
func (g *TextGraph) Complete(ctx context.Context, _ string, userPrompt string) (string, error) {
	msg, err := g.runner.Invoke(ctx, map[string]any{"input": userPrompt})
	if err != nil {
		return "", fmt.Errorf("%w: %s invoke: %v", domain.ErrModelTransient, g.name, err)
	}
	if msg == nil {
		return "", fmt.Errorf("%w: %s returned no message", domain.ErrModelTransient, g.name)
	}
	content := strings.TrimSpace(msg.Content)
	if content == "" {
		return "", fmt.Errorf("%w: %s returned empty content", domain.ErrModelTransient, g.name)
	}
	return content, nil
}
