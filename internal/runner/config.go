package runner

import "time"

// Config holds the pipeline's pacing and retry policy. The values are
// deliberate constants tuned to the service's informal tolerance, not
// adaptive knobs.
type Config struct {
	// SubmitAttempts is the total tries per item, first attempt included.
	SubmitAttempts int

	// RetryBase is the backoff before the second attempt; it doubles per
	// attempt and gets ±25% jitter.
	RetryBase time.Duration

	// ItemDelay separates consecutive outbound submissions and
	// consecutive discovery calls.
	ItemDelay time.Duration
}

// DefaultConfig returns the pacing used against the real service.
func DefaultConfig() Config {
	return Config{
		SubmitAttempts: 3,
		RetryBase:      500 * time.Millisecond,
		ItemDelay:      800 * time.Millisecond,
	}
}
