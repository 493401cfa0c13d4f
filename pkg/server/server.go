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

// Package server exposes the HTTP boundary for the web frontend: the
// connection-details endpoint that mints short-lived LiveKit credentials,
// a health check, Prometheus metrics and optional static file serving for
// the built frontend.
package server

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/livekit/protocol/auth"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// tokenTTL is how long a minted participant token stays valid.
const tokenTTL = 15 * time.Minute

// Responder answers a single user message. Satisfied by agent.Assistant.
type Responder interface {
	Respond(ctx context.Context, userText string) string
}

// Options configures the HTTP server.
type Options struct {
	Addr             string // default :3000
	LiveKitURL       string
	LiveKitAPIKey    string
	LiveKitAPISecret string
	StaticDir        string    // optional frontend build output
	Assistant        Responder // optional text chat backend
}

// ConnectionDetails is the response of POST /api/connection-details.
type ConnectionDetails struct {
	ServerURL        string `json:"serverUrl"`
	RoomName         string `json:"roomName"`
	ParticipantToken string `json:"participantToken"`
	ParticipantName  string `json:"participantName"`
}

// connectionRequest mirrors the frontend's optional request body.
type connectionRequest struct {
	RoomConfig struct {
		Agents []struct {
			AgentName string `json:"agent_name"`
		} `json:"agents"`
	} `json:"room_config"`
}

// Server is the HTTP boundary for the web frontend.
type Server struct {
	opts       Options
	router     chi.Router
	httpServer *http.Server
}

// New builds the router and handlers.
func New(opts Options) (*Server, error) {
	if opts.LiveKitAPIKey == "" || opts.LiveKitAPISecret == "" || opts.LiveKitURL == "" {
		return nil, fmt.Errorf("livekit URL, API key and secret are required")
	}
	if opts.Addr == "" {
		opts.Addr = ":3000"
	}

	s := &Server{opts: opts}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(metricsMiddleware)

	router.Post("/api/connection-details", s.handleConnectionDetails)
	if opts.Assistant != nil {
		router.Post("/api/chat", s.handleChat)
	}
	router.Get("/health", s.handleHealth)
	router.Handle("/metrics", promhttp.Handler())

	if opts.StaticDir != "" {
		router.Get("/*", s.handleStatic)
	}

	s.router = router
	return s, nil
}

// Handler returns the underlying router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until the context is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Web server listening", "addr", s.opts.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// handleConnectionDetails mints a short-lived participant token for a fresh
// random room and returns everything the frontend needs to join it.
func (s *Server) handleConnectionDetails(w http.ResponseWriter, r *http.Request) {
	// The body is optional; agent selection is parsed when present but
	// malformed or empty bodies do not fail the request.
	var req connectionRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			slog.Debug("Ignoring connection request body", "error", err)
		}
	}
	if n := len(req.RoomConfig.Agents); n > 0 {
		slog.Debug("Connection request named agents", "count", n)
	}

	participantName := "user"
	participantIdentity := "voice_assistant_user_" + randomSuffix()
	roomName := "voice_assistant_room_" + randomSuffix()

	token, err := s.mintToken(participantIdentity, participantName, roomName)
	if err != nil {
		slog.Error("Failed to mint participant token", "room", roomName, "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, ConnectionDetails{
		ServerURL:        s.opts.LiveKitURL,
		RoomName:         roomName,
		ParticipantToken: token,
		ParticipantName:  participantName,
	})
}

// mintToken creates an HS256 LiveKit access token with a join grant for the
// given room.
func (s *Server) mintToken(identity, name, roomName string) (string, error) {
	canPublish := true
	canSubscribe := true
	canPublishData := true

	at := auth.NewAccessToken(s.opts.LiveKitAPIKey, s.opts.LiveKitAPISecret).
		SetIdentity(identity).
		SetName(name).
		SetValidFor(tokenTTL).
		SetVideoGrant(&auth.VideoGrant{
			RoomJoin:       true,
			Room:           roomName,
			CanPublish:     &canPublish,
			CanSubscribe:   &canSubscribe,
			CanPublishData: &canPublishData,
		})

	return at.ToJWT()
}

// handleChat answers a single text message through the assistant. The
// assistant never returns an error to callers, so the endpoint always
// responds 200 with a reply.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("a non-empty message field is required"))
		return
	}

	reply := s.opts.Assistant.Respond(r.Context(), req.Message)
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleStatic serves the frontend build with index.html fallback for SPA
// routes. API paths never fall through to the SPA.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeError(w, http.StatusNotFound, fmt.Errorf("not found"))
		return
	}

	requested := filepath.Join(s.opts.StaticDir, filepath.Clean("/"+r.URL.Path))
	if info, err := os.Stat(requested); err == nil && !info.IsDir() {
		http.ServeFile(w, r, requested)
		return
	}

	index := filepath.Join(s.opts.StaticDir, "index.html")
	if _, err := os.Stat(index); err == nil {
		http.ServeFile(w, r, index)
		return
	}

	writeError(w, http.StatusNotFound, fmt.Errorf("not found"))
}

// randomSuffix returns four hex characters for participant and room names.
func randomSuffix() string {
	id := uuid.New()
	return hex.EncodeToString(id[:2])
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
