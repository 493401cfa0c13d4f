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

// Package rooms manages the lifecycle of LiveKit rooms scoped by the
// fixed "pattreeya" naming convention. All room state lives on the LiveKit
// server; the manager holds no local state and never caches existence
// across calls, so instances are safe to share between concurrent callers.
package rooms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"
	"github.com/twitchtv/twirp"
)

const (
	// Prefix scopes every room this manager owns.
	Prefix = "pattreeya"

	// EmptyTimeout is the inactivity window (seconds) after which LiveKit
	// garbage-collects an empty room.
	EmptyTimeout = 300

	// MaxParticipants caps room size.
	MaxParticipants = 10

	// suffixLayout formats auto-generated suffixes at second granularity.
	// Two Create calls inside the same second can produce the same name;
	// whichever the server accepts wins and the other gets a conflict
	// error. Known limitation, kept for name readability.
	suffixLayout = "20060102-150405"
)

// RoomServiceClient is the subset of the LiveKit room admin API the manager
// uses. *lksdk.RoomServiceClient satisfies it; tests inject a stub.
type RoomServiceClient interface {
	CreateRoom(ctx context.Context, req *livekit.CreateRoomRequest) (*livekit.Room, error)
	ListRooms(ctx context.Context, req *livekit.ListRoomsRequest) (*livekit.ListRoomsResponse, error)
	DeleteRoom(ctx context.Context, req *livekit.DeleteRoomRequest) (*livekit.DeleteRoomResponse, error)
}

// Manager creates, lists, checks and deletes prefixed rooms.
type Manager struct {
	client RoomServiceClient
	now    func() time.Time
}

// NewManager wraps an existing room service client.
func NewManager(client RoomServiceClient) *Manager {
	return &Manager{
		client: client,
		now:    time.Now,
	}
}

// NewManagerForHost dials the LiveKit admin API at the given host with the
// given credentials.
func NewManagerForHost(url, apiKey, apiSecret string) *Manager {
	return NewManager(lksdk.NewRoomServiceClient(url, apiKey, apiSecret))
}

// FullName returns the prefixed room name for a suffix.
func FullName(suffix string) string {
	return Prefix + "-" + suffix
}

// Create creates a room named "pattreeya-<suffix>". An empty suffix is
// replaced with the current wall-clock time at second granularity (e.g.
// "pattreeya-20250120-143025"). The room auto-expires after EmptyTimeout
// seconds of being empty. Creation is not idempotent: retrying after an
// error can hit a name conflict on the server.
func (m *Manager) Create(ctx context.Context, suffix string) (string, error) {
	if strings.HasPrefix(suffix, Prefix+"-") {
		return "", fmt.Errorf("suffix %q must not already carry the %q prefix", suffix, Prefix)
	}

	if suffix == "" {
		suffix = m.now().Format(suffixLayout)
	}
	roomName := FullName(suffix)

	_, err := m.client.CreateRoom(ctx, &livekit.CreateRoomRequest{
		Name:            roomName,
		EmptyTimeout:    EmptyTimeout,
		MaxParticipants: MaxParticipants,
	})
	if err != nil {
		slog.Error("Failed to create room", "room", roomName, "error", err)
		return "", fmt.Errorf("create room %q: %w", roomName, err)
	}

	slog.Info("Created room", "room", roomName, "max_participants", MaxParticipants)
	return roomName, nil
}

// List returns the names of all active prefixed rooms, in server order.
// The result is never nil; rooms without the prefix are filtered out.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	resp, err := m.client.ListRooms(ctx, &livekit.ListRoomsRequest{})
	if err != nil {
		slog.Error("Failed to list rooms", "error", err)
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	names := make([]string, 0, len(resp.Rooms))
	for _, room := range resp.Rooms {
		if strings.HasPrefix(room.Name, Prefix+"-") {
			names = append(names, room.Name)
		}
	}

	slog.Debug("Listed rooms", "count", len(names))
	return names, nil
}

// Exists reports whether a room with the given full name is active. It is
// a membership check over List, O(n) in the rooms on the server.
func (m *Manager) Exists(ctx context.Context, roomName string) (bool, error) {
	resp, err := m.client.ListRooms(ctx, &livekit.ListRoomsRequest{})
	if err != nil {
		slog.Error("Failed to check room existence", "room", roomName, "error", err)
		return false, fmt.Errorf("check room %q: %w", roomName, err)
	}

	for _, room := range resp.Rooms {
		if room.Name == roomName {
			return true, nil
		}
	}
	return false, nil
}

// Delete removes a room by full name. Deleting a room that is already gone
// is not an error: the server's not-found response is swallowed and the
// call succeeds, so Delete is idempotent from the caller's view.
func (m *Manager) Delete(ctx context.Context, roomName string) error {
	if !strings.HasPrefix(roomName, Prefix+"-") {
		slog.Warn("Deleting room without expected prefix", "room", roomName)
	}

	_, err := m.client.DeleteRoom(ctx, &livekit.DeleteRoomRequest{Room: roomName})
	if err != nil {
		if isNotFound(err) {
			slog.Info("Room already gone", "room", roomName)
			return nil
		}
		slog.Error("Failed to delete room", "room", roomName, "error", err)
		return fmt.Errorf("delete room %q: %w", roomName, err)
	}

	slog.Info("Deleted room", "room", roomName)
	return nil
}

// isNotFound matches the twirp not_found code the LiveKit API returns for
// rooms that do not exist.
func isNotFound(err error) bool {
	var twerr twirp.Error
	if errors.As(err, &twerr) {
		return twerr.Code() == twirp.NotFound
	}
	return false
}
