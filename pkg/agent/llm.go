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

package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Message is one turn of the chat transcript handed to the model.
type Message struct {
	Role       string // "system", "user", "assistant", "tool"
	Content    string
	ToolCalls  []ToolCall // set on assistant turns that requested tools
	ToolCallID string     // set on tool turns answering a request
}

// ToolCall is a model request to invoke a named tool.
type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]interface{}
}

// ToolDefinition describes a callable tool to the model. Parameters is a
// JSON Schema object.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
}

// LLMProvider generates one assistant turn: either final text or a set of
// tool calls to satisfy first.
type LLMProvider interface {
	Generate(ctx context.Context, messages []Message, tools []ToolDefinition) (string, []ToolCall, error)
	GetModelName() string
}

// OpenAIProvider talks to an OpenAI-compatible chat completions API.
type OpenAIProvider struct {
	client  *http.Client
	apiKey  string
	baseURL string
	model   string
}

// OpenAIProviderConfig configures the chat provider.
type OpenAIProviderConfig struct {
	APIKey  string
	BaseURL string // default https://api.openai.com/v1
	Model   string
	Timeout time.Duration // default 60s
}

type openaiChatRequest struct {
	Model    string          `json:"model"`
	Messages []openaiMessage `json:"messages"`
	Tools    []openaiTool    `json:"tools,omitempty"`
}

type openaiMessage struct {
	Role       string           `json:"role"`
	Content    string           `json:"content"`
	ToolCalls  []openaiToolCall `json:"tool_calls,omitempty"`
	ToolCallID string           `json:"tool_call_id,omitempty"`
}

type openaiTool struct {
	Type     string             `json:"type"`
	Function openaiToolFunction `json:"function"`
}

type openaiToolFunction struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

type openaiToolCall struct {
	ID       string             `json:"id"`
	Type     string             `json:"type"`
	Function openaiFunctionCall `json:"function"`
}

type openaiFunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type openaiChatResponse struct {
	Choices []struct {
		Message openaiMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewOpenAIProvider creates a chat provider.
func NewOpenAIProvider(cfg OpenAIProviderConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required for OpenAI provider")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required for OpenAI provider")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &OpenAIProvider{
		client:  &http.Client{Timeout: timeout},
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		model:   cfg.Model,
	}, nil
}

// Generate runs one chat completion round.
func (p *OpenAIProvider) Generate(ctx context.Context, messages []Message, tools []ToolDefinition) (string, []ToolCall, error) {
	request := openaiChatRequest{
		Model:    p.model,
		Messages: convertMessages(messages),
		Tools:    convertTools(tools),
	}

	reqBody, err := json.Marshal(request)
	if err != nil {
		return "", nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/chat/completions", bytes.NewBuffer(reqBody))
	if err != nil {
		return "", nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", nil, fmt.Errorf("failed to send request to OpenAI: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read response: %w", err)
	}

	var response openaiChatResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", nil, fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		if response.Error != nil {
			return "", nil, fmt.Errorf("OpenAI API error: %s (type: %s)", response.Error.Message, response.Error.Type)
		}
		return "", nil, fmt.Errorf("OpenAI API returned status %d: %s", resp.StatusCode, string(body))
	}

	if len(response.Choices) == 0 {
		return "", nil, fmt.Errorf("OpenAI API returned no choices")
	}

	choice := response.Choices[0].Message
	toolCalls, err := parseToolCalls(choice.ToolCalls)
	if err != nil {
		return "", nil, err
	}
	return choice.Content, toolCalls, nil
}

// GetModelName returns the configured model.
func (p *OpenAIProvider) GetModelName() string {
	return p.model
}

func convertMessages(messages []Message) []openaiMessage {
	converted := make([]openaiMessage, 0, len(messages))
	for _, message := range messages {
		out := openaiMessage{
			Role:       message.Role,
			Content:    message.Content,
			ToolCallID: message.ToolCallID,
		}
		for _, call := range message.ToolCalls {
			arguments, err := json.Marshal(call.Arguments)
			if err != nil {
				arguments = []byte("{}")
			}
			out.ToolCalls = append(out.ToolCalls, openaiToolCall{
				ID:   call.ID,
				Type: "function",
				Function: openaiFunctionCall{
					Name:      call.Name,
					Arguments: string(arguments),
				},
			})
		}
		converted = append(converted, out)
	}
	return converted
}

func convertTools(tools []ToolDefinition) []openaiTool {
	if len(tools) == 0 {
		return nil
	}
	converted := make([]openaiTool, 0, len(tools))
	for _, tool := range tools {
		parameters := tool.Parameters
		if parameters == nil {
			parameters = map[string]interface{}{"type": "object", "properties": map[string]interface{}{}}
		}
		converted = append(converted, openaiTool{
			Type: "function",
			Function: openaiToolFunction{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  parameters,
			},
		})
	}
	return converted
}

func parseToolCalls(calls []openaiToolCall) ([]ToolCall, error) {
	if len(calls) == 0 {
		return nil, nil
	}
	parsed := make([]ToolCall, 0, len(calls))
	for _, call := range calls {
		arguments := make(map[string]interface{})
		if call.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(call.Function.Arguments), &arguments); err != nil {
				return nil, fmt.Errorf("failed to parse arguments for tool %s: %w", call.Function.Name, err)
			}
		}
		parsed = append(parsed, ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: arguments,
		})
	}
	return parsed, nil
}

var _ LLMProvider = (*OpenAIProvider)(nil)
