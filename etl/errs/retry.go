package errs

import (
	"math"
	"time"

	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/utils"
)

// sleep is swapped out in tests to observe backoff delays.
var sleep = time.Sleep

// Policy configures the retry engine for a transient operation.
type Policy struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
	// Delay is the base delay before the first retry.
	Delay time.Duration
	// BackoffFactor multiplies the delay after each failed attempt. Values
	// below 1 are treated as 1 (constant delay).
	BackoffFactor float64
}

// Retry runs op up to MaxRetries+1 times, sleeping delay * backoff^attempt
// between failed attempts. After exhaustion the final error is recorded in
// the ledger with the operation name and propagated unchanged.
//
// Only operations whose effect is idempotent under repetition may be
// wrapped: database connects and full-replace loads qualify, nothing else
// in this pipeline does.
func Retry(logger *utils.ETLLogger, ledger *Ledger, policy Policy, name string, op func() error) error {
	backoff := policy.BackoffFactor
	if backoff < 1 {
		backoff = 1
	}

	var lastErr error
	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		lastErr = op()
		if lastErr == nil {
			if attempt > 0 {
				logger.Info("Operation %s succeeded on attempt %d", name, attempt+1)
			}
			return nil
		}

		if attempt < policy.MaxRetries {
			wait := time.Duration(float64(policy.Delay) * math.Pow(backoff, float64(attempt)))
			logger.Warn("Operation %s failed on attempt %d/%d, retrying in %v: %v",
				name, attempt+1, policy.MaxRetries+1, wait, lastErr)
			sleep(wait)
		}
	}

	logger.Error("Operation %s failed after %d attempts: %v", name, policy.MaxRetries+1, lastErr)
	if ledger != nil {
		ledger.Record(lastErr, map[string]interface{}{
			"operation": name,
			"attempts":  policy.MaxRetries + 1,
		})
	}

	return lastErr
}
