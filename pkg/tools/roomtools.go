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
	"strings"

	"github.com/ptee/pattreeya-voice-agent/pkg/rooms"
)

// RoomTools binds the room lifecycle operations as registered tools so the
// conversational agent can manage voice rooms on request.
func RoomTools(manager *rooms.Manager) ([]Tool, error) {
	createTool, err := NewFuncTool(
		"create_room",
		"Create a new voice conversation room with the '"+rooms.Prefix+"-' prefix. "+
			"Without a suffix the room is named from the current timestamp.",
		[]ToolParameter{
			{Name: "room_name_suffix", Type: "string", Description: "Optional custom suffix for the room name"},
		},
		func(ctx context.Context, args map[string]interface{}) (ToolResult, error) {
			roomName, err := manager.Create(ctx, stringArg(args, "room_name_suffix"))
			if err != nil {
				return ToolResult{Success: false, Error: err.Error()}, nil
			}
			return ToolResult{
				Success: true,
				Content: fmt.Sprintf("Created room %s. You can now connect to it for a voice conversation.", roomName),
				Output:  roomName,
			}, nil
		},
	)
	if err != nil {
		return nil, err
	}

	listTool, err := NewFuncTool(
		"list_rooms",
		"List all currently active voice conversation rooms.",
		nil,
		func(ctx context.Context, args map[string]interface{}) (ToolResult, error) {
			names, err := manager.List(ctx)
			if err != nil {
				return ToolResult{Success: false, Error: err.Error()}, nil
			}
			content := "No active rooms at the moment."
			if len(names) > 0 {
				content = "Currently active rooms: " + strings.Join(names, ", ")
			}
			return ToolResult{Success: true, Content: content, Output: names}, nil
		},
	)
	if err != nil {
		return nil, err
	}

	deleteTool, err := NewFuncTool(
		"delete_room",
		"Delete a voice conversation room by its full name.",
		[]ToolParameter{
			{Name: "room_name", Type: "string", Description: "Full room name, e.g. '" + rooms.Prefix + "-demo'", Required: true},
		},
		func(ctx context.Context, args map[string]interface{}) (ToolResult, error) {
			roomName := stringArg(args, "room_name")
			if err := manager.Delete(ctx, roomName); err != nil {
				return ToolResult{Success: false, Error: err.Error()}, nil
			}
			return ToolResult{
				Success: true,
				Content: fmt.Sprintf("Deleted room %s.", roomName),
				Output:  roomName,
			}, nil
		},
	)
	if err != nil {
		return nil, err
	}

	return []Tool{createTool, listTool, deleteTool}, nil
}
