package extractor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"vitalis/internal/config"
	"vitalis/internal/extractor"
	"vitalis/internal/port"
)

type factoryStub struct {
	model string
}

func (s *factoryStub) Extract(_ context.Context, _ port.ExtractInput) (*port.ExtractOutput, error) {
	return &port.ExtractOutput{ModelUsed: s.model}, nil
}

func TestFactory_RegisterAndCreate(t *testing.T) {
	extractor.RegisterProvider("test-provider", func(cfg *config.ExtractorProviderConfig) (port.DocumentExtractor, error) {
		return &factoryStub{model: cfg.Model}, nil
	})

	e, err := extractor.NewExtractor(&config.ExtractorProviderConfig{
		Provider: "test-provider",
		Model:    "test-model",
	})

	assert.NoError(t, err)
	assert.NotNil(t, e)
}

func TestFactory_UnknownProvider(t *testing.T) {
	e, err := extractor.NewExtractor(&config.ExtractorProviderConfig{
		Provider: "nonexistent-provider-xyz",
	})

	assert.Nil(t, e)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown extractor provider")
}
