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
	"fmt"
)

// Handler is the function a FuncTool dispatches to. Arguments have already
// been validated against the declared parameters when it runs.
type Handler func(ctx context.Context, args map[string]interface{}) (ToolResult, error)

// FuncTool adapts a plain function into a Tool with declared parameters.
type FuncTool struct {
	info    ToolInfo
	handler Handler
}

// NewFuncTool builds a tool from a name, description, parameter schema and
// handler function.
func NewFuncTool(name, description string, parameters []ToolParameter, handler Handler) (*FuncTool, error) {
	if name == "" {
		return nil, fmt.Errorf("tool name cannot be empty")
	}
	if handler == nil {
		return nil, fmt.Errorf("tool %q needs a handler", name)
	}

	return &FuncTool{
		info: ToolInfo{
			Name:        name,
			Description: description,
			Parameters:  parameters,
		},
		handler: handler,
	}, nil
}

func (t *FuncTool) GetInfo() ToolInfo {
	return t.info
}

func (t *FuncTool) GetName() string {
	return t.info.Name
}

func (t *FuncTool) GetDescription() string {
	return t.info.Description
}

func (t *FuncTool) Execute(ctx context.Context, args map[string]interface{}) (ToolResult, error) {
	return t.handler(ctx, args)
}

var _ Tool = (*FuncTool)(nil)
