package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/compresr/turnchat/internal/conversation"
	"github.com/compresr/turnchat/internal/stream"
)

func chunk(content string) string {
	return fmt.Sprintf(`data: {"id":"c1","object":"chat.completion.chunk","choices":[{"index":0,"delta":{"content":%q}}]}`+"\n\n", content)
}

func collect(t *testing.T, ch <-chan stream.Fragment) []stream.Fragment {
	t.Helper()
	var out []stream.Fragment
	timeout := time.After(5 * time.Second)
	for {
		select {
		case f, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, f)
		case <-timeout:
			t.Fatal("stream did not close")
			return out
		}
	}
}

func TestStreamChat_RequestAndContent(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))
		gotBody, _ = io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		_, _ = io.WriteString(w, `data: {"choices":[{"index":0,"delta":{"role":"assistant"}}]}`+"\n\n")
		for _, part := range []string{"Hel", "lo", " there"} {
			_, _ = io.WriteString(w, chunk(part))
			flusher.Flush()
		}
		_, _ = io.WriteString(w, ": keep-alive\n\n")
		_, _ = io.WriteString(w, "data: [DONE]\n\n")
		_, _ = io.WriteString(w, chunk("after done"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/v1/", "sk-test", WithHTTPClient(srv.Client()))
	ch, err := client.StreamChat(context.Background(), ChatRequest{
		Model:     "gpt-4",
		MaxTokens: 512,
		Messages: MessagesFromTurns([]conversation.Turn{
			conversation.UserTurn("hi"),
			conversation.AssistantTurn("hello"),
			conversation.UserTurn("how are you?"),
		}),
	})
	require.NoError(t, err)

	frags := collect(t, ch)
	require.Len(t, frags, 3)
	assert.Equal(t, "Hel", frags[0].Content)
	assert.Equal(t, "lo", frags[1].Content)
	assert.Equal(t, " there", frags[2].Content)

	body := gjson.ParseBytes(gotBody)
	assert.Equal(t, "gpt-4", body.Get("model").String())
	assert.Equal(t, int64(512), body.Get("max_tokens").Int())
	assert.True(t, body.Get("stream").Bool())
	assert.Equal(t, int64(3), body.Get("messages.#").Int())
	assert.Equal(t, "user", body.Get("messages.0.role").String())
	assert.Equal(t, "hi", body.Get("messages.0.content").String())
	assert.Equal(t, "assistant", body.Get("messages.1.role").String())
	assert.Equal(t, "how are you?", body.Get("messages.2.content").String())
}

func TestStreamChat_MidStreamErrorsContinue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, chunk("Hel"))
		_, _ = io.WriteString(w, `data: {"error":{"message":"overloaded","type":"server_error"}}`+"\n\n")
		_, _ = io.WriteString(w, "data: {not json\n\n")
		_, _ = io.WriteString(w, chunk("lo"))
	}))
	defer srv.Close()

	ch, err := NewClient(srv.URL, "", WithHTTPClient(srv.Client())).StreamChat(context.Background(), ChatRequest{Model: "gpt-3.5-turbo", MaxTokens: 10})
	require.NoError(t, err)

	frags := collect(t, ch)
	require.Len(t, frags, 4)
	assert.Equal(t, "Hel", frags[0].Content)
	require.Error(t, frags[1].Err)
	assert.Equal(t, "overloaded", frags[1].Err.Error())
	require.Error(t, frags[2].Err)
	assert.Contains(t, frags[2].Err.Error(), "invalid stream chunk")
	assert.Equal(t, "lo", frags[3].Content)
}

func TestStreamChat_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`)
	}))
	defer srv.Close()

	ch, err := NewClient(srv.URL, "sk-bad", WithHTTPClient(srv.Client())).StreamChat(context.Background(), ChatRequest{Model: "gpt-4"})
	require.Error(t, err)
	assert.Nil(t, ch)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Incorrect API key provided", apiErr.Message)
	assert.Equal(t, "api status 401: Incorrect API key provided", err.Error())
}

func TestStreamChat_NonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").StreamChat(context.Background(), ChatRequest{Model: "gpt-4"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "bad gateway")
}

func TestStreamChat_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, "", WithConnectTimeout(time.Second)).StreamChat(context.Background(), ChatRequest{Model: "gpt-4"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
}

func TestStreamChat_CancelClosesStream(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, chunk("partial"))
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := NewClient(srv.URL, "", WithHTTPClient(srv.Client())).StreamChat(ctx, ChatRequest{Model: "gpt-4"})
	require.NoError(t, err)

	first := <-ch
	assert.Equal(t, "partial", first.Content)

	cancel()
	for f := range ch {
		assert.NoError(t, f.Err, "cancellation must not surface as a stream error")
	}
}

func TestBuildRequestBody_NilMessages(t *testing.T) {
	body, err := buildRequestBody(ChatRequest{Model: "gpt-4", MaxTokens: 1})
	require.NoError(t, err)
	assert.True(t, gjson.GetBytes(body, "messages").IsArray())
	assert.Equal(t, int64(0), gjson.GetBytes(body, "messages.#").Int())
}

func TestMessagesFromTurns(t *testing.T) {
	msgs := MessagesFromTurns([]conversation.Turn{
		conversation.UserTurn("a"),
		conversation.AssistantTurn("b"),
	})
	assert.Equal(t, []Message{{Role: "user", Content: "a"}, {Role: "assistant", Content: "b"}}, msgs)
	assert.Empty(t, MessagesFromTurns(nil))
}
