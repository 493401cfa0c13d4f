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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingTool records how often it executes so tests can prove that
// validation failures never reach the handler.
type countingTool struct {
	info  ToolInfo
	calls int
}

func (t *countingTool) GetInfo() ToolInfo       { return t.info }
func (t *countingTool) GetName() string         { return t.info.Name }
func (t *countingTool) GetDescription() string  { return t.info.Description }
func (t *countingTool) Execute(ctx context.Context, args map[string]interface{}) (ToolResult, error) {
	t.calls++
	return ToolResult{Success: true, Content: "ok"}, nil
}

func newCountingTool(name string, params ...ToolParameter) *countingTool {
	return &countingTool{info: ToolInfo{Name: name, Description: "counting stub", Parameters: params}}
}

func TestToolRegistry_RegisterTool(t *testing.T) {
	reg := NewToolRegistry()

	err := reg.RegisterTool(newCountingTool("probe"))
	require.NoError(t, err)

	tool, err := reg.GetTool("probe")
	require.NoError(t, err)
	assert.Equal(t, "probe", tool.GetName())
}

func TestToolRegistry_RegisterTool_Duplicate(t *testing.T) {
	reg := NewToolRegistry()

	require.NoError(t, reg.RegisterTool(newCountingTool("probe")))

	err := reg.RegisterTool(newCountingTool("probe"))
	require.Error(t, err)

	var regErr *ToolRegistryError
	require.ErrorAs(t, err, &regErr)
	assert.Equal(t, "ToolRegistry", regErr.Component)
}

func TestToolRegistry_RegisterTool_EmptyName(t *testing.T) {
	reg := NewToolRegistry()

	err := reg.RegisterTool(newCountingTool(""))
	require.Error(t, err)
}

func TestToolRegistry_Execute_UnknownTool(t *testing.T) {
	reg := NewToolRegistry()
	stub := newCountingTool("known")
	require.NoError(t, reg.RegisterTool(stub))

	result, err := reg.Execute(context.Background(), "unknown", nil)

	require.ErrorIs(t, err, ErrToolNotFound)
	assert.False(t, result.Success)
	assert.Equal(t, "unknown", result.ToolName)
	assert.Equal(t, 0, stub.calls, "no handler may run for an unknown tool")
}

func TestToolRegistry_Execute_MissingRequiredParameter(t *testing.T) {
	reg := NewToolRegistry()
	stub := newCountingTool("lookup", ToolParameter{
		Name: "company_name", Type: "string", Required: true,
	})
	require.NoError(t, reg.RegisterTool(stub))

	_, err := reg.Execute(context.Background(), "lookup", map[string]interface{}{})

	require.ErrorIs(t, err, ErrInvalidArguments)
	assert.Equal(t, 0, stub.calls, "validation failures must not reach the handler")
}

func TestToolRegistry_Execute_UndeclaredParameter(t *testing.T) {
	reg := NewToolRegistry()
	stub := newCountingTool("lookup", ToolParameter{
		Name: "company_name", Type: "string", Required: true,
	})
	require.NoError(t, reg.RegisterTool(stub))

	_, err := reg.Execute(context.Background(), "lookup", map[string]interface{}{
		"company_name": "acme",
		"bogus":        true,
	})

	require.ErrorIs(t, err, ErrInvalidArguments)
	assert.Equal(t, 0, stub.calls)
}

func TestToolRegistry_Execute_TypeMismatch(t *testing.T) {
	reg := NewToolRegistry()
	stub := newCountingTool("lookup", ToolParameter{
		Name: "start_year", Type: "integer", Required: true,
	})
	require.NoError(t, reg.RegisterTool(stub))

	_, err := reg.Execute(context.Background(), "lookup", map[string]interface{}{
		"start_year": "2010",
	})
	require.ErrorIs(t, err, ErrInvalidArguments)

	// JSON numbers arrive as float64 and must pass
	_, err = reg.Execute(context.Background(), "lookup", map[string]interface{}{
		"start_year": float64(2010),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, stub.calls)
}

func TestToolRegistry_Execute_EndToEnd(t *testing.T) {
	echo, err := NewFuncTool("echo", "repeats the input text",
		[]ToolParameter{{Name: "text", Type: "string", Required: true}},
		func(ctx context.Context, args map[string]interface{}) (ToolResult, error) {
			return ToolResult{Success: true, Content: fmt.Sprintf("%v", args["text"])}, nil
		})
	require.NoError(t, err)

	reg := NewToolRegistry()
	require.NoError(t, reg.RegisterTool(echo))

	result, execErr := reg.Execute(context.Background(), "echo", map[string]interface{}{
		"text": "hello",
	})

	require.NoError(t, execErr)
	assert.True(t, result.Success)
	assert.Equal(t, "hello", result.Content)
	assert.Equal(t, "echo", result.ToolName)
	assert.GreaterOrEqual(t, result.ExecutionTime.Nanoseconds(), int64(0))
}

func TestToolRegistry_Execute_OptionalParameterOmitted(t *testing.T) {
	reg := NewToolRegistry()
	stub := newCountingTool("lookup",
		ToolParameter{Name: "institution", Type: "string"},
		ToolParameter{Name: "degree", Type: "string"},
	)
	require.NoError(t, reg.RegisterTool(stub))

	_, err := reg.Execute(context.Background(), "lookup", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, stub.calls)
}

func TestToolRegistry_ListTools_Sorted(t *testing.T) {
	reg := NewToolRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, reg.RegisterTool(newCountingTool(name)))
	}

	infos := reg.ListTools()
	require.Len(t, infos, 3)
	assert.Equal(t, "alpha", infos[0].Name)
	assert.Equal(t, "mid", infos[1].Name)
	assert.Equal(t, "zeta", infos[2].Name)
}

func TestToolRegistryError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := NewToolRegistryError("ToolRegistry", "RegisterTool", "failed", inner)
	assert.ErrorIs(t, err, inner)
}
