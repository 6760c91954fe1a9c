package claude_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitalis/internal/config"
	"vitalis/internal/extractor"
	"vitalis/internal/extractor/claude"
	"vitalis/internal/port"
)

func testConfig() *config.ExtractorProviderConfig {
	return &config.ExtractorProviderConfig{
		Provider:    "claude",
		APIKey:      "test-api-key",
		Model:       "claude-sonnet-4-20250514",
		TimeoutSecs: 5,
	}
}

func messagesResponse(text string) string {
	resp := map[string]interface{}{
		"content":     []map[string]string{{"type": "text", "text": text}},
		"stop_reason": "end_turn",
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func TestClaudeExtractor_Extract_Success(t *testing.T) {
	var gotHeaders http.Header
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(messagesResponse(`{"data":{"document_type":"lab_report","lab_results":[{"test":"Glucose","value":95}]},"raw_text":"Glucose 95"}`)))
	}))
	defer server.Close()

	e := claude.NewExtractorWithEndpoint(testConfig(), server.URL)
	out, err := e.Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte("%PDF-1.4"),
		ContentType: "application/pdf",
	})

	require.NoError(t, err)
	assert.Equal(t, "Glucose 95", out.RawText)
	assert.Equal(t, "claude-sonnet-4-20250514", out.ModelUsed)
	assert.Contains(t, string(out.Data), "lab_report")

	assert.Equal(t, "test-api-key", gotHeaders.Get("x-api-key"))
	assert.Equal(t, "2023-06-01", gotHeaders.Get("anthropic-version"))
	assert.Equal(t, "claude-sonnet-4-20250514", gotBody["model"])

	// First content block must be a base64 document for PDFs.
	messages := gotBody["messages"].([]interface{})
	content := messages[0].(map[string]interface{})["content"].([]interface{})
	first := content[0].(map[string]interface{})
	assert.Equal(t, "document", first["type"])
}

func TestClaudeExtractor_Extract_ImageUsesImageBlock(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(messagesResponse(`{"data":{},"raw_text":""}`)))
	}))
	defer server.Close()

	e := claude.NewExtractorWithEndpoint(testConfig(), server.URL)
	_, err := e.Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte{0xFF, 0xD8, 0xFF},
		ContentType: "image/jpeg",
	})

	require.NoError(t, err)
	messages := gotBody["messages"].([]interface{})
	content := messages[0].(map[string]interface{})["content"].([]interface{})
	first := content[0].(map[string]interface{})
	assert.Equal(t, "image", first["type"])
	source := first["source"].(map[string]interface{})
	assert.Equal(t, "image/jpeg", source["media_type"])
}

func TestClaudeExtractor_Extract_UnsupportedContentType(t *testing.T) {
	e := claude.NewExtractorWithEndpoint(testConfig(), "http://unused.invalid")

	out, err := e.Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte("data"),
		ContentType: "text/plain",
	})

	assert.Nil(t, out)
	assert.ErrorContains(t, err, "unsupported content type")
}

func TestClaudeExtractor_Extract_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "42")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"rate_limit_error"}}`))
	}))
	defer server.Close()

	e := claude.NewExtractorWithEndpoint(testConfig(), server.URL)
	out, err := e.Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte("%PDF-1.4"),
		ContentType: "application/pdf",
	})

	assert.Nil(t, out)
	var rlErr *extractor.RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, "claude", rlErr.Provider)
	assert.Equal(t, 42, int(rlErr.RetryAfter.Seconds()))
}

func TestClaudeExtractor_Extract_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"type":"overloaded_error"}}`))
	}))
	defer server.Close()

	e := claude.NewExtractorWithEndpoint(testConfig(), server.URL)
	out, err := e.Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte("%PDF-1.4"),
		ContentType: "application/pdf",
	})

	assert.Nil(t, out)
	require.Error(t, err)
	var rlErr *extractor.RateLimitError
	assert.False(t, errors.As(err, &rlErr), "a 500 must not be treated as a rate limit")
}

func TestClaudeExtractor_Extract_TruncatedOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"content":     []map[string]string{{"type": "text", "text": `{"data":`}},
			"stop_reason": "max_tokens",
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	e := claude.NewExtractorWithEndpoint(testConfig(), server.URL)
	out, err := e.Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte("%PDF-1.4"),
		ContentType: "application/pdf",
	})

	assert.Nil(t, out)
	assert.ErrorContains(t, err, "max_tokens")
}

func TestClaudeExtractor_Extract_NonJSONOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(messagesResponse("Sorry, I cannot process this document.")))
	}))
	defer server.Close()

	e := claude.NewExtractorWithEndpoint(testConfig(), server.URL)
	out, err := e.Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte("%PDF-1.4"),
		ContentType: "application/pdf",
	})

	assert.Nil(t, out)
	assert.ErrorContains(t, err, "parsing LLM JSON output")
}

func TestClaudeExtractor_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(messagesResponse("A quiet day with steady vitals.")))
	}))
	defer server.Close()

	e := claude.NewExtractorWithEndpoint(testConfig(), server.URL)
	text, err := e.Generate(context.Background(), "Summarize today's readings")

	require.NoError(t, err)
	assert.Equal(t, "A quiet day with steady vitals.", text)
}
