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
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ptee/pattreeya-voice-agent/pkg/registry"
)

// Sentinel conditions callers can test with errors.Is. Both fire before any
// network call is made, so a failed invocation has no partial side effects.
var (
	// ErrToolNotFound means no tool with the requested name is registered.
	ErrToolNotFound = errors.New("tool not found")

	// ErrInvalidArguments means the supplied arguments do not satisfy the
	// tool's declared parameter schema.
	ErrInvalidArguments = errors.New("invalid arguments")
)

// ToolRegistryError carries component and action context for registry
// failures.
type ToolRegistryError struct {
	Component string
	Action    string
	Message   string
	Err       error
}

func (e *ToolRegistryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Component, e.Action, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Component, e.Action, e.Message)
}

func (e *ToolRegistryError) Unwrap() error {
	return e.Err
}

func NewToolRegistryError(component, action, message string, err error) *ToolRegistryError {
	return &ToolRegistryError{
		Component: component,
		Action:    action,
		Message:   message,
		Err:       err,
	}
}

// ToolRegistry is the name-to-tool lookup used for dynamic invocation.
// Registration happens once at startup; duplicate names are a fatal
// configuration error.
type ToolRegistry struct {
	*registry.BaseRegistry[Tool]
}

// NewToolRegistry creates an empty tool registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		BaseRegistry: registry.NewBaseRegistry[Tool](),
	}
}

// RegisterTool adds a tool under its own name.
func (r *ToolRegistry) RegisterTool(tool Tool) error {
	name := tool.GetName()
	if name == "" {
		return NewToolRegistryError("ToolRegistry", "RegisterTool", "tool name cannot be empty", nil)
	}

	if err := r.Register(name, tool); err != nil {
		return NewToolRegistryError("ToolRegistry", "RegisterTool",
			fmt.Sprintf("failed to register tool %s", name), err)
	}
	return nil
}

// RegisterAll registers every tool, stopping at the first failure.
func (r *ToolRegistry) RegisterAll(toolList ...Tool) error {
	for _, tool := range toolList {
		if err := r.RegisterTool(tool); err != nil {
			return err
		}
	}
	return nil
}

// GetTool retrieves a tool by name.
func (r *ToolRegistry) GetTool(name string) (Tool, error) {
	tool, exists := r.Get(name)
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return tool, nil
}

// ListTools returns all registered tools' metadata, sorted by name for
// consistent prompt construction.
func (r *ToolRegistry) ListTools() []ToolInfo {
	var infos []ToolInfo
	for _, tool := range r.List() {
		infos = append(infos, tool.GetInfo())
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	return infos
}

// Execute looks up a tool, validates the arguments against its declared
// parameters and runs it. Unknown names and argument mismatches fail before
// the underlying function is invoked.
func (r *ToolRegistry) Execute(ctx context.Context, toolName string, args map[string]interface{}) (ToolResult, error) {
	tool, err := r.GetTool(toolName)
	if err != nil {
		return ToolResult{
			Success:  false,
			Error:    err.Error(),
			ToolName: toolName,
		}, err
	}

	if err := validateArgs(tool.GetInfo(), args); err != nil {
		return ToolResult{
			Success:  false,
			Error:    err.Error(),
			ToolName: toolName,
		}, err
	}

	start := time.Now()
	result, err := tool.Execute(ctx, args)
	result.ToolName = toolName
	result.ExecutionTime = time.Since(start)
	return result, err
}

// validateArgs checks that the supplied arguments are a subset of the
// declared parameters, that every required parameter is present, and that
// scalar types line up with the declarations.
func validateArgs(info ToolInfo, args map[string]interface{}) error {
	declared := make(map[string]ToolParameter, len(info.Parameters))
	for _, param := range info.Parameters {
		declared[param.Name] = param
	}

	for name := range args {
		if _, exists := declared[name]; !exists {
			return fmt.Errorf("%w: tool %s does not accept parameter %q", ErrInvalidArguments, info.Name, name)
		}
	}

	for _, param := range info.Parameters {
		value, supplied := args[param.Name]
		if !supplied {
			if param.Required {
				return fmt.Errorf("%w: tool %s requires parameter %q", ErrInvalidArguments, info.Name, param.Name)
			}
			continue
		}
		if err := checkType(param, value); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidArguments, err)
		}
	}
	return nil
}

func checkType(param ToolParameter, value interface{}) error {
	switch param.Type {
	case "string":
		if _, ok := value.(string); !ok {
			return fmt.Errorf("parameter %q must be a string", param.Name)
		}
	case "integer", "number":
		// JSON decoding hands numbers over as float64
		switch value.(type) {
		case int, int32, int64, float32, float64:
		default:
			return fmt.Errorf("parameter %q must be a number", param.Name)
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("parameter %q must be a boolean", param.Name)
		}
	}
	return nil
}
