package extractor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitalis/internal/extractor"
	"vitalis/internal/port"
)

// stubExtractor returns a canned result or error and counts calls.
type stubExtractor struct {
	out   *port.ExtractOutput
	err   error
	calls int
}

func (s *stubExtractor) Extract(_ context.Context, _ port.ExtractInput) (*port.ExtractOutput, error) {
	s.calls++
	return s.out, s.err
}

func TestFallbackExtractor_PrimarySucceeds(t *testing.T) {
	primary := &stubExtractor{out: &port.ExtractOutput{ModelUsed: "primary"}}
	secondary := &stubExtractor{out: &port.ExtractOutput{ModelUsed: "secondary"}}
	f := extractor.NewFallbackExtractor(
		[]port.DocumentExtractor{primary, secondary},
		[]string{"claude", "openai"},
	)

	out, err := f.Extract(context.Background(), port.ExtractInput{})

	require.NoError(t, err)
	assert.Equal(t, "primary", out.ModelUsed)
	assert.Equal(t, 0, secondary.calls)
}

func TestFallbackExtractor_FallsBackOnRateLimit(t *testing.T) {
	primary := &stubExtractor{err: extractor.NewRateLimitError("claude", errors.New("429"), 60)}
	secondary := &stubExtractor{out: &port.ExtractOutput{ModelUsed: "secondary"}}
	f := extractor.NewFallbackExtractor(
		[]port.DocumentExtractor{primary, secondary},
		[]string{"claude", "openai"},
	)

	out, err := f.Extract(context.Background(), port.ExtractInput{})

	require.NoError(t, err)
	assert.Equal(t, "secondary", out.ModelUsed)
}

func TestFallbackExtractor_OpenCircuitSkipsProvider(t *testing.T) {
	primary := &stubExtractor{err: extractor.NewRateLimitError("claude", errors.New("429"), 60)}
	secondary := &stubExtractor{out: &port.ExtractOutput{ModelUsed: "secondary"}}
	f := extractor.NewFallbackExtractor(
		[]port.DocumentExtractor{primary, secondary},
		[]string{"claude", "openai"},
	)

	// First call opens the primary's circuit.
	_, err := f.Extract(context.Background(), port.ExtractInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, primary.calls)

	// Second call must skip the rate-limited primary entirely.
	_, err = f.Extract(context.Background(), port.ExtractInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 2, secondary.calls)
}

func TestFallbackExtractor_AllRateLimited(t *testing.T) {
	primary := &stubExtractor{err: extractor.NewRateLimitError("claude", errors.New("429"), 30)}
	secondary := &stubExtractor{err: extractor.NewRateLimitError("openai", errors.New("429"), 90)}
	f := extractor.NewFallbackExtractor(
		[]port.DocumentExtractor{primary, secondary},
		[]string{"claude", "openai"},
	)

	out, err := f.Extract(context.Background(), port.ExtractInput{})

	assert.Nil(t, out)
	var rlErr *extractor.RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, "all", rlErr.Provider)
	// Retry window is the earliest circuit reset.
	assert.LessOrEqual(t, int(rlErr.RetryAfter.Seconds()), 30)
}

func TestFallbackExtractor_HardFailureIsNotRateLimit(t *testing.T) {
	primary := &stubExtractor{err: errors.New("boom")}
	secondary := &stubExtractor{err: errors.New("also boom")}
	f := extractor.NewFallbackExtractor(
		[]port.DocumentExtractor{primary, secondary},
		[]string{"claude", "openai"},
	)

	out, err := f.Extract(context.Background(), port.ExtractInput{})

	assert.Nil(t, out)
	require.Error(t, err)
	var rlErr *extractor.RateLimitError
	assert.False(t, errors.As(err, &rlErr))
	assert.Contains(t, err.Error(), "all extractors failed")
}
