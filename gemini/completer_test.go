package gemini_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fwojciec/docmcp"
	"github.com/fwojciec/docmcp/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *genai.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  server.Client(),
		HTTPOptions: genai.HTTPOptions{BaseURL: server.URL},
	})
	require.NoError(t, err)
	return client
}

func TestCompleter_Complete(t *testing.T) {
	t.Parallel()

	t.Run("sends prompts and returns generated text", func(t *testing.T) {
		t.Parallel()

		var body string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-test:generateContent"), r.URL.Path)
			raw, _ := io.ReadAll(r.Body)
			body = string(raw)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"# Doc"}]}}]}`))
		})

		completer := gemini.NewCompleter(client, "gemini-test")
		out, err := completer.Complete(context.Background(), docmcp.CompletionRequest{
			SystemPrompt: "be structured",
			UserPrompt:   "TITLE: Doc",
			MaxTokens:    4000,
			Temperature:  0.1,
		})

		require.NoError(t, err)
		assert.Equal(t, "# Doc", out)
		assert.Contains(t, body, "be structured")
		assert.Contains(t, body, "TITLE: Doc")
		assert.Contains(t, body, "4000")
	})

	t.Run("returns provider errors", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"code":429,"message":"Resource has been exhausted (e.g. check quota).","status":"RESOURCE_EXHAUSTED"}}`))
		})

		_, err := gemini.NewCompleter(client, "gemini-test").Complete(context.Background(), docmcp.CompletionRequest{UserPrompt: "x"})

		require.Error(t, err)
		assert.Equal(t, docmcp.EQUOTA, docmcp.ErrorCode(docmcp.ClassifyConversionError(err)))
	})

	t.Run("reports blocked prompts as content policy failures", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
		})

		_, err := gemini.NewCompleter(client, "gemini-test").Complete(context.Background(), docmcp.CompletionRequest{UserPrompt: "x"})

		require.Error(t, err)
		assert.Equal(t, docmcp.ECONTENTPOLICY, docmcp.ErrorCode(docmcp.ClassifyConversionError(err)))
	})

	t.Run("rejects empty user prompt", func(t *testing.T) {
		t.Parallel()

		_, err := gemini.NewCompleter(nil, "").Complete(context.Background(), docmcp.CompletionRequest{})

		assert.Equal(t, docmcp.EVALIDATION, docmcp.ErrorCode(err))
	})

	t.Run("fails without client", func(t *testing.T) {
		t.Parallel()

		_, err := gemini.NewCompleter(nil, "").Complete(context.Background(), docmcp.CompletionRequest{UserPrompt: "x"})

		assert.Equal(t, docmcp.ELLM, docmcp.ErrorCode(err))
	})
}

func TestNewCompleter_DefaultsModel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, gemini.DefaultModel, gemini.NewCompleter(nil, "").Model())
	assert.Equal(t, "gemini-test", gemini.NewCompleter(nil, "gemini-test").Model())
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	t.Run("sets system instruction and sampling settings", func(t *testing.T) {
		t.Parallel()

		config := gemini.BuildConfig(docmcp.CompletionRequest{
			SystemPrompt: docmcp.SystemPrompt,
			MaxTokens:    4000,
			Temperature:  0.1,
		})

		require.NotNil(t, config.SystemInstruction)
		require.Len(t, config.SystemInstruction.Parts, 1)
		assert.Equal(t, docmcp.SystemPrompt, config.SystemInstruction.Parts[0].Text)
		require.NotNil(t, config.Temperature)
		assert.InDelta(t, 0.1, *config.Temperature, 0.001)
		assert.Equal(t, int32(4000), config.MaxOutputTokens)
	})

	t.Run("omits empty system instruction", func(t *testing.T) {
		t.Parallel()

		config := gemini.BuildConfig(docmcp.CompletionRequest{})

		assert.Nil(t, config.SystemInstruction)
	})
}
