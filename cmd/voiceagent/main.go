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

// Command voiceagent runs the CV voice assistant stack.
//
// Usage:
//
//	voiceagent serve
//	voiceagent rooms create --suffix demo
//	voiceagent rooms list
//	voiceagent rooms delete pattreeya-20250101-120000
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ptee/pattreeya-voice-agent/pkg/agent"
	"github.com/ptee/pattreeya-voice-agent/pkg/config"
	"github.com/ptee/pattreeya-voice-agent/pkg/databases"
	"github.com/ptee/pattreeya-voice-agent/pkg/embedders"
	"github.com/ptee/pattreeya-voice-agent/pkg/logger"
	"github.com/ptee/pattreeya-voice-agent/pkg/retrieval"
	"github.com/ptee/pattreeya-voice-agent/pkg/rooms"
	"github.com/ptee/pattreeya-voice-agent/pkg/server"
	"github.com/ptee/pattreeya-voice-agent/pkg/tools"
)

// CLI defines the command-line interface.
type CLI struct {
	Version VersionCmd `cmd:"" help:"Show version information."`
	Serve   ServeCmd   `cmd:"" help:"Start the assistant and the web token server."`
	Chat    ChatCmd    `cmd:"" help:"Chat with the assistant in the terminal."`
	Rooms   RoomsCmd   `cmd:"" help:"Manage assistant rooms on the LiveKit server."`

	LogLevel string `help:"Log level (debug, info, warn, error)." default:"info"`
	LogFile  string `help:"Log file path (empty = stderr)."`
}

// VersionCmd shows version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	version := "dev"
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "(devel)" && info.Main.Version != "" {
			version = info.Main.Version
		}
	}
	fmt.Printf("voiceagent version %s\n", version)
	return nil
}

// ServeCmd starts the web token server and wires the assistant stack.
type ServeCmd struct {
	Addr      string `help:"HTTP listen address." default:":3000"`
	StaticDir string `name:"static-dir" help:"Frontend build directory to serve (optional)." type:"path"`
}

func (c *ServeCmd) Run(cli *CLI) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Info("Shutting down...")
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	stack, err := buildStack(cfg)
	if err != nil {
		return err
	}
	defer stack.close()

	srv, err := server.New(server.Options{
		Addr:             c.Addr,
		LiveKitURL:       cfg.LiveKitURL,
		LiveKitAPIKey:    cfg.LiveKitAPIKey,
		LiveKitAPISecret: cfg.LiveKitAPISecret,
		StaticDir:        c.StaticDir,
		Assistant:        stack.assistant,
	})
	if err != nil {
		return fmt.Errorf("failed to create web server: %w", err)
	}

	slog.Info("Assistant ready",
		"model", stack.llm.GetModelName(),
		"tools", len(stack.registry.ListTools()),
		"collection", cfg.QdrantCollection)

	return srv.Start(ctx)
}

// stack bundles the wired assistant with the resources it owns.
type stack struct {
	assistant *agent.Assistant
	llm       agent.LLMProvider
	registry  *tools.ToolRegistry
	closers   []func() error
}

func (s *stack) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			slog.Warn("Close failed", "error", err)
		}
	}
}

// buildStack wires the retrieval backends, the tool registry and the
// assistant from configuration.
func buildStack(cfg *config.Config) (*stack, error) {
	st := &stack{}

	store, err := databases.NewPostgresStore(cfg.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	st.closers = append(st.closers, store.Close)

	vector, err := databases.NewQdrantProvider(databases.QdrantConfig{
		URL:    cfg.QdrantURL,
		APIKey: cfg.QdrantAPIKey,
	})
	if err != nil {
		st.close()
		return nil, fmt.Errorf("failed to connect to qdrant: %w", err)
	}
	st.closers = append(st.closers, vector.Close)

	embedder, err := embedders.NewOpenAIEmbedder(embedders.OpenAIConfig{
		APIKey: cfg.OpenAIAPIKey,
		Model:  cfg.EmbeddingModel,
	})
	if err != nil {
		st.close()
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	provider := retrieval.NewProvider(store, vector, embedder, cfg.QdrantCollection)

	cvTools, err := tools.CVTools(provider)
	if err != nil {
		st.close()
		return nil, fmt.Errorf("failed to build CV tools: %w", err)
	}
	roomManager := rooms.NewManagerForHost(cfg.LiveKitURL, cfg.LiveKitAPIKey, cfg.LiveKitAPISecret)
	roomTools, err := tools.RoomTools(roomManager)
	if err != nil {
		st.close()
		return nil, fmt.Errorf("failed to build room tools: %w", err)
	}

	registry := tools.NewToolRegistry()
	if err := registry.RegisterAll(cvTools...); err != nil {
		st.close()
		return nil, fmt.Errorf("failed to register CV tools: %w", err)
	}
	if err := registry.RegisterAll(roomTools...); err != nil {
		st.close()
		return nil, fmt.Errorf("failed to register room tools: %w", err)
	}

	llm, err := agent.NewOpenAIProvider(agent.OpenAIProviderConfig{
		APIKey: cfg.OpenAIAPIKey,
		Model:  cfg.LLMModel,
	})
	if err != nil {
		st.close()
		return nil, fmt.Errorf("failed to create LLM provider: %w", err)
	}

	assistant, err := agent.NewAssistant(llm, registry)
	if err != nil {
		st.close()
		return nil, fmt.Errorf("failed to create assistant: %w", err)
	}

	st.assistant = assistant
	st.llm = llm
	st.registry = registry
	return st, nil
}

// ChatCmd runs an interactive terminal session with the assistant.
type ChatCmd struct{}

func (c *ChatCmd) Run(cli *CLI) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	stack, err := buildStack(cfg)
	if err != nil {
		return err
	}
	defer stack.close()

	fmt.Printf("Chatting with %s. Type 'exit' to quit.\n", stack.llm.GetModelName())
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}
		fmt.Println(stack.assistant.Respond(context.Background(), line))
	}
	return scanner.Err()
}

// RoomsCmd groups room management subcommands.
type RoomsCmd struct {
	Create RoomsCreateCmd `cmd:"" help:"Create a room with the assistant naming convention."`
	List   RoomsListCmd   `cmd:"" help:"List rooms managed by the assistant."`
	Delete RoomsDeleteCmd `cmd:"" help:"Delete a room."`
}

// RoomsCreateCmd creates a room.
type RoomsCreateCmd struct {
	Suffix string `help:"Room name suffix (defaults to a timestamp)."`
}

func (c *RoomsCreateCmd) Run(cli *CLI) error {
	manager, err := roomManagerFromEnv()
	if err != nil {
		return err
	}
	name, err := manager.Create(context.Background(), c.Suffix)
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	fmt.Printf("Created room %s\n", name)
	return nil
}

// RoomsListCmd lists rooms.
type RoomsListCmd struct{}

func (c *RoomsListCmd) Run(cli *CLI) error {
	manager, err := roomManagerFromEnv()
	if err != nil {
		return err
	}
	list, err := manager.List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list rooms: %w", err)
	}
	if len(list) == 0 {
		fmt.Println("No rooms")
		return nil
	}
	for _, name := range list {
		fmt.Println(name)
	}
	return nil
}

// RoomsDeleteCmd deletes a room by full name.
type RoomsDeleteCmd struct {
	Name string `arg:"" help:"Full room name to delete."`
}

func (c *RoomsDeleteCmd) Run(cli *CLI) error {
	manager, err := roomManagerFromEnv()
	if err != nil {
		return err
	}
	if err := manager.Delete(context.Background(), c.Name); err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	fmt.Printf("Deleted room %s\n", c.Name)
	return nil
}

// roomManagerFromEnv builds a room manager from LiveKit environment
// variables only, without requiring the full assistant configuration.
func roomManagerFromEnv() (*rooms.Manager, error) {
	url := os.Getenv("LIVEKIT_URL")
	key := os.Getenv("LIVEKIT_API_KEY")
	secret := os.Getenv("LIVEKIT_API_SECRET")
	if url == "" || key == "" || secret == "" {
		return nil, fmt.Errorf("LIVEKIT_URL, LIVEKIT_API_KEY and LIVEKIT_API_SECRET must be set")
	}
	return rooms.NewManagerForHost(url, key, secret), nil
}

func main() {
	_ = config.LoadDotEnv()

	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("voiceagent"),
		kong.Description("CV voice assistant with retrieval tools and LiveKit rooms"),
		kong.UsageOnError(),
	)

	output := os.Stderr
	if cli.LogFile != "" {
		file, cleanup, err := logger.OpenLogFile(cli.LogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer cleanup()
		output = file
	}
	logger.Init(logger.ParseLevel(cli.LogLevel), output)

	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
