package chatgpt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient("  ", "")
	require.Error(t, err)

	client, err := NewClient("sk-test", "")
	require.NoError(t, err)
	require.Equal(t, defaultBaseURL, client.baseURL)
}

func TestCreateChatCompletion(t *testing.T) {
	var (
		got                  ChatCompletionRequest
		method, path, bearer string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path, bearer = r.Method, r.URL.Path, r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "  Your net is $32,000.  "}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 40, "completion_tokens": 8, "total_tokens": 48}
		}`))
	}))
	defer server.Close()

	client, err := NewClient("sk-test", server.URL+"/v1/")
	require.NoError(t, err)

	resp, err := client.CreateChatCompletion(context.Background(), ChatCompletionRequest{
		Model:       "gpt-4o-mini",
		Temperature: 0.2,
		Messages:    []Message{{Role: "system", Content: "be brief"}, {Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)
	require.Equal(t, http.MethodPost, method)
	require.Equal(t, "/v1/chat/completions", path)
	require.Equal(t, "Bearer sk-test", bearer)
	require.Equal(t, "Your net is $32,000.", resp.FirstContent())
	require.Equal(t, 48, resp.Usage.TotalTokens)
	require.Equal(t, "gpt-4o-mini", got.Model)
	require.Len(t, got.Messages, 2)
}

func TestCreateChatCompletionErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client, err := NewClient("sk-bad", server.URL)
	require.NoError(t, err)

	_, err = client.CreateChatCompletion(context.Background(), ChatCompletionRequest{Model: "m"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=401")
}

func TestCreateChatCompletionMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client, err := NewClient("sk-test", server.URL)
	require.NoError(t, err)

	_, err = client.CreateChatCompletion(context.Background(), ChatCompletionRequest{Model: "m"})
	require.ErrorContains(t, err, "decode chat completion")
}

func TestFirstContentEmpty(t *testing.T) {
	require.Equal(t, "", ChatCompletionResponse{}.FirstContent())
}

func TestCreateChatCompletionSendsZeroTemperature(t *testing.T) {
	var raw map[string]json.RawMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&raw)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer server.Close()

	client, err := NewClient("sk-test", server.URL)
	require.NoError(t, err)

	_, err = client.CreateChatCompletion(context.Background(), ChatCompletionRequest{Model: "m", Temperature: 0})
	require.NoError(t, err)
	require.Contains(t, raw, "temperature")
	require.JSONEq(t, `0`, string(raw["temperature"]))
}
