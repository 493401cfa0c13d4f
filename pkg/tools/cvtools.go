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

package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ptee/pattreeya-voice-agent/pkg/retrieval"
)

// CVTools binds every retrieval query as a registered tool with a declared
// parameter schema. All handlers are read-only.
func CVTools(provider *retrieval.Provider) ([]Tool, error) {
	specs := []struct {
		name        string
		description string
		parameters  []ToolParameter
		handler     Handler
	}{
		{
			name:        "get_cv_summary",
			description: "Get a high-level summary of the CV including name, role, experience and key stats.",
			handler: func(ctx context.Context, args map[string]interface{}) (ToolResult, error) {
				return fromResult(provider.Summary(ctx)), nil
			},
		},
		{
			name:        "search_company_experience",
			description: "Find all work experience at a specific company.",
			parameters: []ToolParameter{
				{Name: "company_name", Type: "string", Description: "Name of the company, e.g. 'KasiOss'", Required: true},
			},
			handler: func(ctx context.Context, args map[string]interface{}) (ToolResult, error) {
				return fromResult(provider.CompanyExperience(ctx, stringArg(args, "company_name"))), nil
			},
		},
		{
			name:        "search_technology_experience",
			description: "Find all jobs using a specific technology.",
			parameters: []ToolParameter{
				{Name: "technology", Type: "string", Description: "Technology name, e.g. 'Python' or 'TensorFlow'", Required: true},
			},
			handler: func(ctx context.Context, args map[string]interface{}) (ToolResult, error) {
				return fromResult(provider.TechnologyExperience(ctx, stringArg(args, "technology"))), nil
			},
		},
		{
			name:        "search_work_by_date",
			description: "Find work experience within a year range.",
			parameters: []ToolParameter{
				{Name: "start_year", Type: "integer", Description: "Start year, e.g. 2020", Required: true},
				{Name: "end_year", Type: "integer", Description: "End year, e.g. 2024", Required: true},
			},
			handler: func(ctx context.Context, args map[string]interface{}) (ToolResult, error) {
				return fromResult(provider.WorkByDate(ctx, intArg(args, "start_year"), intArg(args, "end_year"))), nil
			},
		},
		{
			name:        "search_education",
			description: "Find education records by institution or degree type. Call without parameters for all degrees.",
			parameters: []ToolParameter{
				{Name: "institution", Type: "string", Description: "University or institution name"},
				{Name: "degree", Type: "string", Description: "Degree type, e.g. 'PhD' or 'Master'"},
			},
			handler: func(ctx context.Context, args map[string]interface{}) (ToolResult, error) {
				return fromResult(provider.Education(ctx, stringArg(args, "institution"), stringArg(args, "degree"))), nil
			},
		},
		{
			name:        "search_publications",
			description: "Search publications by year, or all publications when no year is given.",
			parameters: []ToolParameter{
				{Name: "year", Type: "integer", Description: "Publication year"},
			},
			handler: func(ctx context.Context, args map[string]interface{}) (ToolResult, error) {
				return fromResult(provider.Publications(ctx, intArg(args, "year"))), nil
			},
		},
		{
			name:        "search_skills",
			description: "Find skills by category.",
			parameters: []ToolParameter{
				{Name: "category", Type: "string", Description: "Skill category", Required: true,
					Enum: []string{"AI", "ML", "programming", "Tools", "Cloud", "Data_tools"}},
			},
			handler: func(ctx context.Context, args map[string]interface{}) (ToolResult, error) {
				return fromResult(provider.Skills(ctx, stringArg(args, "category"))), nil
			},
		},
		{
			name:        "search_awards_certifications",
			description: "Find awards and certification records, optionally filtered by type or organization.",
			parameters: []ToolParameter{
				{Name: "award_type", Type: "string", Description: "Award or certification type to filter by"},
			},
			handler: func(ctx context.Context, args map[string]interface{}) (ToolResult, error) {
				return fromResult(provider.AwardsCertifications(ctx, stringArg(args, "award_type"))), nil
			},
		},
		{
			name:        "semantic_search",
			description: "Semantic search over CV content using vector embeddings. Use for nuanced or open-ended questions.",
			parameters: []ToolParameter{
				{Name: "query", Type: "string", Description: "Natural-language search query", Required: true},
				{Name: "section", Type: "string", Description: "Restrict to one CV section",
					Enum: []string{"work experience", "education", "publication", "projects", "all"}},
				{Name: "top_k", Type: "integer", Description: "Number of results to return (default 5)"},
			},
			handler: func(ctx context.Context, args map[string]interface{}) (ToolResult, error) {
				return fromResult(provider.SemanticSearch(ctx,
					stringArg(args, "query"), stringArg(args, "section"), intArg(args, "top_k"))), nil
			},
		},
	}

	toolList := make([]Tool, 0, len(specs))
	for _, spec := range specs {
		tool, err := NewFuncTool(spec.name, spec.description, spec.parameters, spec.handler)
		if err != nil {
			return nil, fmt.Errorf("failed to build tool %s: %w", spec.name, err)
		}
		toolList = append(toolList, tool)
	}
	return toolList, nil
}

// fromResult folds a retrieval result into the tool envelope. The full
// result is serialized into Content so the language model sees rows and the
// success flag verbatim.
func fromResult(result retrieval.Result) ToolResult {
	content, err := json.Marshal(result)
	if err != nil {
		return ToolResult{
			Success:  false,
			Error:    fmt.Sprintf("failed to encode result: %v", err),
			ToolName: result.Tool,
		}
	}

	return ToolResult{
		Success:  result.Success,
		Content:  string(content),
		Output:   result,
		Error:    result.Error,
		ToolName: result.Tool,
	}
}

func stringArg(args map[string]interface{}, name string) string {
	if value, ok := args[name].(string); ok {
		return value
	}
	return ""
}

func intArg(args map[string]interface{}, name string) int {
	switch value := args[name].(type) {
	case int:
		return value
	case int32:
		return int(value)
	case int64:
		return int(value)
	case float32:
		return int(value)
	case float64:
		return int(value)
	}
	return 0
}
