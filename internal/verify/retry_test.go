// internal/verify/retry_test.go
package verify

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slideforge/internal/common/errors"
	"slideforge/internal/common/logger"
)

func newTestVerifier(t *testing.T, gen *fakeGenerator) *Verifier {
	return NewVerifier(DefaultConfig(), gen, logger.NewTestLogger(t))
}

func TestWithVerification_PassesFirstAttempt(t *testing.T) {
	gen := &fakeGenerator{response: `{"valid": true, "confidence": 0.9}`}
	verifier := newTestVerifier(t, gen)

	productions := 0
	out, err := WithVerification(context.Background(), verifier, "Paraphrase",
		func(ctx context.Context) (string, error) {
			productions++
			return "output", nil
		}, "transcript", DefaultMaxRetries)

	require.NoError(t, err)
	assert.Equal(t, "output", out)
	assert.Equal(t, 1, productions)
}

func TestWithVerification_RegeneratesOnInvalid(t *testing.T) {
	// Always-invalid verdict: with maxRetries=2 there are exactly 3
	// productions, and the third output is returned anyway.
	gen := &fakeGenerator{response: `{"valid": false, "issues": ["not faithful"]}`}
	verifier := newTestVerifier(t, gen)

	productions := 0
	out, err := WithVerification(context.Background(), verifier, "Segmentation",
		func(ctx context.Context) (string, error) {
			productions++
			return fmt.Sprintf("attempt-%d", productions), nil
		}, "transcript", 2)

	require.NoError(t, err)
	assert.Equal(t, 3, productions)
	assert.Equal(t, "attempt-3", out)
}

func TestWithVerification_ProductionFailureIsTerminal(t *testing.T) {
	gen := &fakeGenerator{response: `{"valid": true}`}
	verifier := newTestVerifier(t, gen)

	productions := 0
	_, err := WithVerification(context.Background(), verifier, "Paraphrase",
		func(ctx context.Context) (string, error) {
			productions++
			return "", errors.NewUpstreamError(500, "boom")
		}, "transcript", 2)

	require.Error(t, err)
	assert.Equal(t, 3, productions)
	assert.Equal(t, errors.ErrCodeStageFailedAfterRetries, errors.CodeOf(err))
	assert.Contains(t, err.Error(), "3 attempts")
}

func TestWithVerification_RecoversAfterTransientFailure(t *testing.T) {
	gen := &fakeGenerator{response: `{"valid": true}`}
	verifier := newTestVerifier(t, gen)

	productions := 0
	out, err := WithVerification(context.Background(), verifier, "Paraphrase",
		func(ctx context.Context) (string, error) {
			productions++
			if productions == 1 {
				return "", errors.NewUpstreamUnavailable(fmt.Errorf("refused"))
			}
			return "recovered", nil
		}, "transcript", 2)

	require.NoError(t, err)
	assert.Equal(t, "recovered", out)
	assert.Equal(t, 2, productions)
}

func TestWithVerification_ZeroRetries(t *testing.T) {
	gen := &fakeGenerator{response: `{"valid": false, "issues": ["bad"]}`}
	verifier := newTestVerifier(t, gen)

	productions := 0
	out, err := WithVerification(context.Background(), verifier, "Paraphrase",
		func(ctx context.Context) (string, error) {
			productions++
			return "only", nil
		}, "transcript", 0)

	require.NoError(t, err)
	assert.Equal(t, 1, productions)
	assert.Equal(t, "only", out)
}

func TestWithVerification_ContextCanceled(t *testing.T) {
	gen := &fakeGenerator{response: `{"valid": true}`}
	verifier := newTestVerifier(t, gen)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	productions := 0
	_, err := WithVerification(ctx, verifier, "Paraphrase",
		func(ctx context.Context) (string, error) {
			productions++
			return "never", nil
		}, "transcript", 2)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, productions)
}
