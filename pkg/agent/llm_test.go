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
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenAIProvider_Validation(t *testing.T) {
	_, err := NewOpenAIProvider(OpenAIProviderConfig{Model: "gpt-4.1-nano"})
	require.Error(t, err)

	_, err = NewOpenAIProvider(OpenAIProviderConfig{APIKey: "sk-test"})
	require.Error(t, err)

	p, err := NewOpenAIProvider(OpenAIProviderConfig{APIKey: "sk-test", Model: "gpt-4.1-nano"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4.1-nano", p.GetModelName())
}

func TestOpenAIProvider_Generate_Text(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req openaiChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4.1-nano", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]interface{}{"role": "assistant", "content": "Hello there."}},
			},
		})
	}))
	defer server.Close()

	p, err := NewOpenAIProvider(OpenAIProviderConfig{APIKey: "sk-test", Model: "gpt-4.1-nano", BaseURL: server.URL})
	require.NoError(t, err)

	text, calls, err := p.Generate(context.Background(), []Message{
		{Role: "system", Content: "be helpful"},
		{Role: "user", Content: "hi"},
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, "Hello there.", text)
	assert.Empty(t, calls)
}

func TestOpenAIProvider_Generate_ToolCalls(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openaiChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Tools, 1)
		assert.Equal(t, "function", req.Tools[0].Type)
		assert.Equal(t, "search_company_experience", req.Tools[0].Function.Name)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]interface{}{
					"role": "assistant",
					"tool_calls": []map[string]interface{}{
						{
							"id":   "call-9",
							"type": "function",
							"function": map[string]interface{}{
								"name":      "search_company_experience",
								"arguments": `{"company_name":"Acme"}`,
							},
						},
					},
				}},
			},
		})
	}))
	defer server.Close()

	p, err := NewOpenAIProvider(OpenAIProviderConfig{APIKey: "sk-test", Model: "gpt-4.1-nano", BaseURL: server.URL})
	require.NoError(t, err)

	_, calls, err := p.Generate(context.Background(),
		[]Message{{Role: "user", Content: "where did she work?"}},
		[]ToolDefinition{{Name: "search_company_experience", Description: "find jobs"}})

	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, "call-9", calls[0].ID)
	assert.Equal(t, "search_company_experience", calls[0].Name)
	assert.Equal(t, map[string]interface{}{"company_name": "Acme"}, calls[0].Arguments)
}

func TestOpenAIProvider_Generate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "Rate limit reached", "type": "rate_limit_error"},
		})
	}))
	defer server.Close()

	p, err := NewOpenAIProvider(OpenAIProviderConfig{APIKey: "sk-test", Model: "gpt-4.1-nano", BaseURL: server.URL})
	require.NoError(t, err)

	_, _, err = p.Generate(context.Background(), []Message{{Role: "user", Content: "hi"}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Rate limit reached")
}

func TestOpenAIProvider_Generate_MalformedToolArguments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]interface{}{
					"role": "assistant",
					"tool_calls": []map[string]interface{}{
						{"id": "c1", "type": "function", "function": map[string]interface{}{
							"name": "echo", "arguments": "{not json",
						}},
					},
				}},
			},
		})
	}))
	defer server.Close()

	p, err := NewOpenAIProvider(OpenAIProviderConfig{APIKey: "sk-test", Model: "gpt-4.1-nano", BaseURL: server.URL})
	require.NoError(t, err)

	_, _, err = p.Generate(context.Background(), []Message{{Role: "user", Content: "x"}}, nil)
	require.Error(t, err)
}
