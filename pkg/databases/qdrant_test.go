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
	"testing"

	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQdrantURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantHost string
		wantPort int
		wantTLS  bool
		wantErr  bool
	}{
		{"https cloud endpoint", "https://xyz.cloud.qdrant.io:6334", "xyz.cloud.qdrant.io", 6334, true, false},
		{"https default port", "https://xyz.cloud.qdrant.io", "xyz.cloud.qdrant.io", 6334, true, false},
		{"plain http", "http://localhost:6334", "localhost", 6334, false, false},
		{"bare host and port", "localhost:6334", "localhost", 6334, false, false},
		{"bare host", "localhost", "localhost", 6334, false, false},
		{"custom port", "http://qdrant:7443", "qdrant", 7443, false, false},
		{"empty", "", "", 0, false, true},
		{"bad port", "http://host:notaport", "", 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, port, tls, err := parseQdrantURL(tt.url)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, host)
			assert.Equal(t, tt.wantPort, port)
			assert.Equal(t, tt.wantTLS, tls)
		})
	}
}

func stringValue(s string) *qdrant.Value {
	return &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: s}}
}

func TestDecodeValue(t *testing.T) {
	assert.Equal(t, "text", decodeValue(stringValue("text")))
	assert.Equal(t, int64(42), decodeValue(&qdrant.Value{Kind: &qdrant.Value_IntegerValue{IntegerValue: 42}}))
	assert.Equal(t, 0.5, decodeValue(&qdrant.Value{Kind: &qdrant.Value_DoubleValue{DoubleValue: 0.5}}))
	assert.Equal(t, true, decodeValue(&qdrant.Value{Kind: &qdrant.Value_BoolValue{BoolValue: true}}))

	list := &qdrant.Value{Kind: &qdrant.Value_ListValue{ListValue: &qdrant.ListValue{
		Values: []*qdrant.Value{stringValue("a"), stringValue("b")},
	}}}
	assert.Equal(t, []interface{}{"a", "b"}, decodeValue(list))
}

func TestPayloadContent(t *testing.T) {
	payload := map[string]*qdrant.Value{
		"content": stringValue("chunk body"),
		"section": stringValue("education"),
	}
	assert.Equal(t, "chunk body", payloadContent(payload))
	assert.Empty(t, payloadContent(map[string]*qdrant.Value{}))
	assert.Empty(t, payloadContent(nil))
}

func TestDecodePayload(t *testing.T) {
	payload := map[string]*qdrant.Value{
		"company": stringValue("Acme"),
		"section": stringValue("work experience"),
	}
	meta := decodePayload(payload)
	assert.Equal(t, "Acme", meta["company"])
	assert.Equal(t, "work experience", meta["section"])
}

func TestPointID(t *testing.T) {
	assert.Equal(t, "abc", pointID(&qdrant.PointId{PointIdOptions: &qdrant.PointId_Uuid{Uuid: "abc"}}))
	assert.Equal(t, "7", pointID(&qdrant.PointId{PointIdOptions: &qdrant.PointId_Num{Num: 7}}))
	assert.Empty(t, pointID(nil))
}
