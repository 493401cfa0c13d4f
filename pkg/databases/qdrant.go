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

package databases

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/qdrant/go-client/qdrant"
)

// SearchResult is a single ranked match from the vector store.
type SearchResult struct {
	ID       string
	Content  string
	Metadata map[string]interface{}
	Score    float32
}

// VectorSearcher is the semantic-search surface the retrieval layer
// depends on. The optional filter restricts matches to points whose
// payload fields equal the given values.
type VectorSearcher interface {
	Search(ctx context.Context, collection string, queryVector []float32, topK int, filter map[string]string) ([]SearchResult, error)
	Close() error
}

// QdrantConfig configures the Qdrant provider.
type QdrantConfig struct {
	// URL of the Qdrant endpoint, e.g. https://host:6334
	URL string
	// APIKey for Qdrant Cloud (empty for local instances)
	APIKey string
}

// QdrantProvider performs similarity search against a Qdrant instance.
type QdrantProvider struct {
	client *qdrant.Client
}

// NewQdrantProvider creates a Qdrant client from the endpoint URL.
func NewQdrantProvider(cfg QdrantConfig) (*QdrantProvider, error) {
	host, port, useTLS, err := parseQdrantURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: cfg.APIKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	return &QdrantProvider{client: client}, nil
}

// Search performs vector similarity search and returns topK ranked matches.
func (p *QdrantProvider) Search(ctx context.Context, collection string, queryVector []float32, topK int, filter map[string]string) ([]SearchResult, error) {
	searchRequest := &qdrant.SearchPoints{
		CollectionName: collection,
		Vector:         queryVector,
		Limit:          uint64(topK),
		WithPayload:    qdrant.NewWithPayload(true),
	}

	if len(filter) > 0 {
		must := make([]*qdrant.Condition, 0, len(filter))
		for field, value := range filter {
			must = append(must, qdrant.NewMatch(field, value))
		}
		searchRequest.Filter = &qdrant.Filter{Must: must}
	}

	pointsClient := p.client.GetPointsClient()
	searchResult, err := pointsClient.Search(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to search points: %w", err)
	}

	results := make([]SearchResult, 0, len(searchResult.Result))
	for _, point := range searchResult.Result {
		results = append(results, SearchResult{
			ID:       pointID(point.Id),
			Content:  payloadContent(point.Payload),
			Metadata: decodePayload(point.Payload),
			Score:    point.Score,
		})
	}
	return results, nil
}

// Close closes the Qdrant client.
func (p *QdrantProvider) Close() error {
	return p.client.Close()
}

func pointID(id *qdrant.PointId) string {
	if id == nil {
		return ""
	}
	switch idType := id.PointIdOptions.(type) {
	case *qdrant.PointId_Uuid:
		return idType.Uuid
	case *qdrant.PointId_Num:
		return fmt.Sprintf("%d", idType.Num)
	}
	return ""
}

func payloadContent(payload map[string]*qdrant.Value) string {
	if payload == nil {
		return ""
	}
	if value, exists := payload["content"]; exists {
		if str, ok := value.Kind.(*qdrant.Value_StringValue); ok {
			return str.StringValue
		}
	}
	return ""
}

// decodePayload converts Qdrant payload values back to plain Go values.
func decodePayload(payload map[string]*qdrant.Value) map[string]interface{} {
	metadata := make(map[string]interface{}, len(payload))
	for key, value := range payload {
		metadata[key] = decodeValue(value)
	}
	return metadata
}

func decodeValue(value *qdrant.Value) interface{} {
	switch v := value.Kind.(type) {
	case *qdrant.Value_StringValue:
		return v.StringValue
	case *qdrant.Value_IntegerValue:
		return v.IntegerValue
	case *qdrant.Value_DoubleValue:
		return v.DoubleValue
	case *qdrant.Value_BoolValue:
		return v.BoolValue
	case *qdrant.Value_ListValue:
		if v.ListValue == nil {
			return nil
		}
		list := make([]interface{}, len(v.ListValue.Values))
		for i, item := range v.ListValue.Values {
			list[i] = decodeValue(item)
		}
		return list
	default:
		return value
	}
}

// parseQdrantURL splits a Qdrant endpoint URL into the host, gRPC port and
// TLS flag the client needs. The port defaults to 6334 when omitted.
func parseQdrantURL(rawURL string) (string, int, bool, error) {
	if rawURL == "" {
		return "", 0, false, fmt.Errorf("qdrant URL cannot be empty")
	}

	// Accept bare host:port as well as full URLs
	if !strings.Contains(rawURL, "://") {
		rawURL = "http://" + rawURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", 0, false, fmt.Errorf("invalid qdrant URL %q: %w", rawURL, err)
	}

	port := 6334
	if parsed.Port() != "" {
		port, err = strconv.Atoi(parsed.Port())
		if err != nil {
			return "", 0, false, fmt.Errorf("invalid qdrant port %q: %w", parsed.Port(), err)
		}
	}

	return parsed.Hostname(), port, parsed.Scheme == "https", nil
}

var _ VectorSearcher = (*QdrantProvider)(nil)
