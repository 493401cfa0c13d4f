// Copyright 2025 Pattreeya Tanisaro
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package agent binds the system prompt and the tool registry to an
// LLM-driven conversational session. The agent owns no dialogue state of
// its own; turn-taking and audio belong to the hosting platform.
package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ptee/pattreeya-voice-agent/pkg/tools"
)

// maxToolRounds bounds the tool-call loop for a single user turn.
const maxToolRounds = 5

// apologyReply is what the user hears when an upstream service fails.
// Raw platform or driver errors never cross this boundary.
const apologyReply = "I'm sorry, I'm having trouble looking that up right now. Could you try again in a moment?"

// Assistant is the conversational shell around the tool registry.
type Assistant struct {
	llm          LLMProvider
	registry     *tools.ToolRegistry
	instructions string
}

// Option customizes an Assistant.
type Option func(*Assistant)

// WithInstructions overrides the default system prompt.
func WithInstructions(instructions string) Option {
	return func(a *Assistant) {
		a.instructions = instructions
	}
}

// NewAssistant creates the shell over a model provider and a registry.
func NewAssistant(llm LLMProvider, registry *tools.ToolRegistry, opts ...Option) (*Assistant, error) {
	if llm == nil {
		return nil, fmt.Errorf("llm provider is required")
	}
	if registry == nil {
		return nil, fmt.Errorf("tool registry is required")
	}

	assistant := &Assistant{
		llm:          llm,
		registry:     registry,
		instructions: SystemPrompt,
	}
	for _, opt := range opts {
		opt(assistant)
	}
	return assistant, nil
}

// ToolDefinitions exposes the registry in the shape the model consumes.
func (a *Assistant) ToolDefinitions() []ToolDefinition {
	infos := a.registry.ListTools()
	defs := make([]ToolDefinition, 0, len(infos))
	for _, info := range infos {
		defs = append(defs, ToolDefinition{
			Name:        info.Name,
			Description: info.Description,
			Parameters:  parameterSchema(info.Parameters),
		})
	}
	return defs
}

// Respond runs one conversational turn: the model answers directly or asks
// for tools, whose results are fed back until it produces final text.
// Upstream failures surface to the user as an apology, never as an error.
func (a *Assistant) Respond(ctx context.Context, userText string) string {
	messages := []Message{
		{Role: "system", Content: a.instructions},
		{Role: "user", Content: userText},
	}
	defs := a.ToolDefinitions()

	for round := 0; round < maxToolRounds; round++ {
		text, calls, err := a.llm.Generate(ctx, messages, defs)
		if err != nil {
			slog.Error("LLM generation failed", "round", round, "error", err)
			return apologyReply
		}

		if len(calls) == 0 {
			return text
		}

		messages = append(messages, Message{
			Role:      "assistant",
			Content:   text,
			ToolCalls: calls,
		})

		for _, call := range calls {
			messages = append(messages, Message{
				Role:       "tool",
				ToolCallID: call.ID,
				Content:    a.runTool(ctx, call),
			})
		}
	}

	slog.Warn("Tool loop exceeded round limit", "rounds", maxToolRounds)
	return apologyReply
}

// runTool dispatches one tool call through the registry and renders the
// outcome as text for the model. Failed executions become a short error
// note the model can recover from.
func (a *Assistant) runTool(ctx context.Context, call ToolCall) string {
	result, err := a.registry.Execute(ctx, call.Name, call.Arguments)
	if err != nil {
		slog.Error("Tool execution failed", "tool", call.Name, "error", err)
		return fmt.Sprintf("Error: %s", err)
	}
	if !result.Success {
		slog.Warn("Tool reported failure", "tool", call.Name, "error", result.Error)
		return fmt.Sprintf("Error: %s", result.Error)
	}
	return result.Content
}

// parameterSchema converts declared tool parameters into a JSON Schema
// object for the model's tool definition.
func parameterSchema(parameters []tools.ToolParameter) map[string]interface{} {
	properties := make(map[string]interface{}, len(parameters))
	var required []string

	for _, param := range parameters {
		prop := map[string]interface{}{
			"type":        param.Type,
			"description": param.Description,
		}
		if len(param.Enum) > 0 {
			prop["enum"] = param.Enum
		}
		properties[param.Name] = prop
		if param.Required {
			required = append(required, param.Name)
		}
	}

	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
