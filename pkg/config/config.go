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

// Package config loads and validates the agent configuration from the
// process environment. Configuration is read once at startup and passed by
// reference to every component that needs it.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Defaults for non-secret settings. Credentials are never defaulted.
const (
	DefaultLLMModel       = "gpt-4.1-nano"
	DefaultEmbeddingModel = "text-embedding-3-small"
	DefaultCollection     = "pt_cv"
)

// Config holds every external endpoint and credential the agent needs.
// All fields are read-only after Load.
type Config struct {
	// LiveKit server and admin credentials
	LiveKitURL       string
	LiveKitAPIKey    string
	LiveKitAPISecret string

	// OpenAI credentials and model selection
	OpenAIAPIKey   string
	LLMModel       string
	EmbeddingModel string

	// PostgreSQL connection string
	PostgresURL string

	// Qdrant endpoint, credential and collection
	QdrantURL        string
	QdrantAPIKey     string
	QdrantCollection string
}

// ValidationError reports every missing required environment variable at
// once so a single startup failure names the full fix.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required environment variables: %s (set them in the environment or .env.local)",
		strings.Join(e.Missing, ", "))
}

// Load reads the configuration from the environment. A missing required
// variable is a fatal condition surfaced as a *ValidationError.
func Load() (*Config, error) {
	cfg := &Config{
		LiveKitURL:       os.Getenv("LIVEKIT_URL"),
		LiveKitAPIKey:    os.Getenv("LIVEKIT_API_KEY"),
		LiveKitAPISecret: os.Getenv("LIVEKIT_API_SECRET"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		LLMModel:         getEnvOrDefault("LLM_MODEL", DefaultLLMModel),
		EmbeddingModel:   getEnvOrDefault("EMBEDDING_MODEL", DefaultEmbeddingModel),
		PostgresURL:      os.Getenv("POSTGRESQL_URL"),
		QdrantURL:        os.Getenv("QDRANT_URL"),
		QdrantAPIKey:     os.Getenv("QDRANT_API_KEY"),
		QdrantCollection: getEnvOrDefault("COLLECTION_NAME", DefaultCollection),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that all required entries are present.
func (c *Config) Validate() error {
	required := map[string]string{
		"LIVEKIT_URL":        c.LiveKitURL,
		"LIVEKIT_API_KEY":    c.LiveKitAPIKey,
		"LIVEKIT_API_SECRET": c.LiveKitAPISecret,
		"OPENAI_API_KEY":     c.OpenAIAPIKey,
		"POSTGRESQL_URL":     c.PostgresURL,
		"QDRANT_URL":         c.QdrantURL,
		"QDRANT_API_KEY":     c.QdrantAPIKey,
	}

	var missing []string
	for name, value := range required {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &ValidationError{Missing: missing}
	}
	return nil
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
