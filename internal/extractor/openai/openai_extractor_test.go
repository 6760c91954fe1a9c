package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitalis/internal/config"
	"vitalis/internal/extractor"
	"vitalis/internal/extractor/openai"
	"vitalis/internal/port"
)

func testConfig() *config.ExtractorProviderConfig {
	return &config.ExtractorProviderConfig{
		Provider:    "openai",
		APIKey:      "test-api-key",
		Model:       "gpt-4o",
		TimeoutSecs: 5,
	}
}

func chatResponse(content, finishReason string) string {
	resp := map[string]interface{}{
		"choices": []map[string]interface{}{
			{
				"message":       map[string]string{"content": content},
				"finish_reason": finishReason,
			},
		},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func TestOpenAIExtractor_Extract_Success(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(chatResponse(`{"data":{"lab_results":[{"test":"Glucose","value":95}]},"raw_text":"Glucose 95"}`, "stop")))
	}))
	defer server.Close()

	e := openai.NewExtractorWithEndpoint(testConfig(), server.URL)
	out, err := e.Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte("%PDF-1.4"),
		ContentType: "application/pdf",
	})

	require.NoError(t, err)
	assert.Equal(t, "Glucose 95", out.RawText)
	assert.Equal(t, "gpt-4o", out.ModelUsed)

	assert.Equal(t, "Bearer test-api-key", gotAuth)
	// Structured extraction must request JSON mode.
	rf := gotBody["response_format"].(map[string]interface{})
	assert.Equal(t, "json_object", rf["type"])

	messages := gotBody["messages"].([]interface{})
	content := messages[0].(map[string]interface{})["content"].([]interface{})
	first := content[0].(map[string]interface{})
	assert.Equal(t, "file", first["type"])
}

func TestOpenAIExtractor_Extract_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "15")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":"rate_limit_exceeded"}}`))
	}))
	defer server.Close()

	e := openai.NewExtractorWithEndpoint(testConfig(), server.URL)
	out, err := e.Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte("%PDF-1.4"),
		ContentType: "application/pdf",
	})

	assert.Nil(t, out)
	var rlErr *extractor.RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, "openai", rlErr.Provider)
	assert.Equal(t, 15, int(rlErr.RetryAfter.Seconds()))
}

func TestOpenAIExtractor_Extract_TruncatedOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chatResponse(`{"data":`, "length")))
	}))
	defer server.Close()

	e := openai.NewExtractorWithEndpoint(testConfig(), server.URL)
	out, err := e.Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte("%PDF-1.4"),
		ContentType: "application/pdf",
	})

	assert.Nil(t, out)
	assert.ErrorContains(t, err, "finish_reason: length")
}

func TestOpenAIExtractor_Extract_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	e := openai.NewExtractorWithEndpoint(testConfig(), server.URL)
	out, err := e.Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte("%PDF-1.4"),
		ContentType: "application/pdf",
	})

	assert.Nil(t, out)
	assert.ErrorContains(t, err, "no choices")
}

func TestOpenAIExtractor_Generate_PlainTextWithoutJSONMode(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(chatResponse("A quiet day with steady vitals.", "stop")))
	}))
	defer server.Close()

	e := openai.NewExtractorWithEndpoint(testConfig(), server.URL)
	text, err := e.Generate(context.Background(), "Summarize today's readings")

	require.NoError(t, err)
	assert.Equal(t, "A quiet day with steady vitals.", text)
	_, hasResponseFormat := gotBody["response_format"]
	assert.False(t, hasResponseFormat)
}
