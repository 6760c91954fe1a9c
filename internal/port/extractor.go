package port

import (
	"context"
	"encoding/json"
)

// ExtractInput carries the document bytes for AI extraction.
type ExtractInput struct {
	FileBytes   []byte
	ContentType string
}

// ExtractOutput contains the structured result from the AI extractor.
type ExtractOutput struct {
	Data       json.RawMessage // ExtractedHealthData as emitted by the model
	RawText    string          // plain-text transcription of the document
	ModelUsed  string
	PromptUsed string
}

// DocumentExtractor abstracts AI-based medical document extraction.
type DocumentExtractor interface {
	Extract(ctx context.Context, input ExtractInput) (*ExtractOutput, error)
}

// TextGenerator abstracts plain prompt-to-text generation, used for daily
// summaries.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
