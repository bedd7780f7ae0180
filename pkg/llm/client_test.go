package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-intel/pkg/config"
)

func testClient(endpoint string) *Client {
	return NewClient(config.LLMConfig{
		APIKey:      "test-key",
		Endpoint:    endpoint,
		Model:       "llama-3.3-70b-versatile",
		Timeout:     5 * time.Second,
		Temperature: 0.3,
	})
}

func TestCompleteJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "llama-3.3-70b-versatile", payload["model"])
		rf, ok := payload["response_format"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "json_object", rf["type"])

		fmt.Fprint(w, `{"choices":[{"message":{"content":"{\"verdict\":\"likely_genuine\",\"confidence\":0.8}"}}]}`)
	}))
	defer ts.Close()

	var out struct {
		Verdict    string  `json:"verdict"`
		Confidence float64 `json:"confidence"`
	}
	err := testClient(ts.URL).CompleteJSON(context.Background(), "sys", "user", &out)
	require.NoError(t, err)
	assert.Equal(t, "likely_genuine", out.Verdict)
	assert.Equal(t, 0.8, out.Confidence)
}

func TestCompleteJSONStripsFences(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{"choices": []map[string]any{
			{"message": map[string]string{"content": "```json\n{\"ok\": true}\n```"}},
		}}
		json.NewEncoder(w).Encode(resp)
	}))
	defer ts.Close()

	var out struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, testClient(ts.URL).CompleteJSON(context.Background(), "sys", "user", &out))
	assert.True(t, out.OK)
}

func TestCompleteErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer ts.Close()

	_, err := testClient(ts.URL).Complete(context.Background(), "sys", "user")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestNotConfigured(t *testing.T) {
	c := NewClient(config.LLMConfig{Timeout: time.Second})
	_, err := c.Complete(context.Background(), "sys", "user")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.False(t, c.Enabled())
}
