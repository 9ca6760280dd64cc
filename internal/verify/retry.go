// internal/verify/retry.go
package verify

import (
	"context"

	"slideforge/internal/common/errors"
	"slideforge/internal/common/metrics"
)

// DefaultMaxRetries bounds regeneration attempts per stage.
const DefaultMaxRetries = 2

// WithVerification wraps a stage production function with the bounded
// verify-and-regenerate loop. It terminates within maxRetries+1 production
// attempts. Production failure after exhausting retries is terminal
// (STAGE_FAILED_AFTER_RETRIES); verification failure never is — after the
// last attempt the most recent output is returned as-is and soft-logged.
func WithVerification[T any](
	ctx context.Context,
	verifier *Verifier,
	stage string,
	produce func(context.Context) (T, error),
	transcript string,
	maxRetries int,
) (T, error) {
	var zero T
	attempts := 0

	for {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		output, err := produce(ctx)
		if err != nil {
			if attempts < maxRetries {
				attempts++
				verifier.logger.Warn("stage production failed, retrying", map[string]interface{}{
					"stage":   stage,
					"attempt": attempts,
					"max":     maxRetries,
					"error":   err.Error(),
				})
				continue
			}
			return zero, errors.NewStageFailedAfterRetries(stage, attempts+1, err)
		}

		result := verifier.Verify(ctx, stage, output, transcript)
		if result.Valid {
			if attempts > 0 {
				verifier.logger.Info("stage succeeded after retries", map[string]interface{}{
					"stage":   stage,
					"retries": attempts,
				})
			}
			return output, nil
		}

		if attempts < maxRetries {
			attempts++
			metrics.VerificationRetries.WithLabelValues(stage).Inc()
			verifier.logger.Warn("verification rejected output, regenerating", map[string]interface{}{
				"stage":   stage,
				"attempt": attempts,
				"max":     maxRetries,
				"issues":  result.Issues,
			})
			continue
		}

		// Out of retries: the last output is used anyway. Verification
		// failure is never allowed to sink the run.
		metrics.VerificationSoftFails.WithLabelValues(stage).Inc()
		verifier.logger.Warn("verification still failing after retries, using last output", map[string]interface{}{
			"stage":  stage,
			"issues": result.Issues,
		})
		return output, nil
	}
}
