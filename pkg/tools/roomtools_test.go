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
	"testing"

	"github.com/livekit/protocol/livekit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twitchtv/twirp"

	"github.com/ptee/pattreeya-voice-agent/pkg/rooms"
)

// memoryRoomService is an in-memory stand-in for the LiveKit room admin API.
type memoryRoomService struct {
	rooms map[string]*livekit.Room
}

func newMemoryRoomService() *memoryRoomService {
	return &memoryRoomService{rooms: make(map[string]*livekit.Room)}
}

func (s *memoryRoomService) CreateRoom(ctx context.Context, req *livekit.CreateRoomRequest) (*livekit.Room, error) {
	room := &livekit.Room{Name: req.Name}
	s.rooms[req.Name] = room
	return room, nil
}

func (s *memoryRoomService) ListRooms(ctx context.Context, req *livekit.ListRoomsRequest) (*livekit.ListRoomsResponse, error) {
	resp := &livekit.ListRoomsResponse{}
	for _, room := range s.rooms {
		resp.Rooms = append(resp.Rooms, room)
	}
	return resp, nil
}

func (s *memoryRoomService) DeleteRoom(ctx context.Context, req *livekit.DeleteRoomRequest) (*livekit.DeleteRoomResponse, error) {
	if _, ok := s.rooms[req.Room]; !ok {
		return nil, twirp.NotFoundError("room not found")
	}
	delete(s.rooms, req.Room)
	return &livekit.DeleteRoomResponse{}, nil
}

func roomRegistry(t *testing.T, svc *memoryRoomService) *ToolRegistry {
	t.Helper()
	toolList, err := RoomTools(rooms.NewManager(svc))
	require.NoError(t, err)

	reg := NewToolRegistry()
	require.NoError(t, reg.RegisterAll(toolList...))
	return reg
}

func TestRoomTools_CreateAndList(t *testing.T) {
	svc := newMemoryRoomService()
	reg := roomRegistry(t, svc)

	result, err := reg.Execute(context.Background(), "create_room",
		map[string]interface{}{"room_name_suffix": "demo"})
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Contains(t, result.Content, "pattreeya-demo")

	result, err = reg.Execute(context.Background(), "list_rooms", nil)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Contains(t, result.Content, "pattreeya-demo")
}

func TestRoomTools_ListEmpty(t *testing.T) {
	reg := roomRegistry(t, newMemoryRoomService())

	result, err := reg.Execute(context.Background(), "list_rooms", nil)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Contains(t, result.Content, "No active rooms")
}

func TestRoomTools_DeleteAbsentStillSucceeds(t *testing.T) {
	reg := roomRegistry(t, newMemoryRoomService())

	result, err := reg.Execute(context.Background(), "delete_room",
		map[string]interface{}{"room_name": "pattreeya-gone"})
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestRoomTools_CreateRejectsPrefixedSuffix(t *testing.T) {
	reg := roomRegistry(t, newMemoryRoomService())

	result, err := reg.Execute(context.Background(), "create_room",
		map[string]interface{}{"room_name_suffix": "pattreeya-demo"})
	require.NoError(t, err, "manager failures surface in the envelope, not as errors")
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestRoomTools_DeleteRequiresName(t *testing.T) {
	reg := roomRegistry(t, newMemoryRoomService())

	_, err := reg.Execute(context.Background(), "delete_room", nil)
	require.ErrorIs(t, err, ErrInvalidArguments)
}
