// Package resilience retries failed calls and guards flaky dependencies.
//
// Retry is meant for cold work such as a pipeline terminal: every attempt
// re-enumerates the pipeline from its source.
//
//	items, err := resilience.Retry(ctx, cfg, func() ([]User, error) {
//	    return users.Collect(ctx)
//	})
//
// Breaker fails fast with CIRCUIT_OPEN once a dependency keeps failing.
// The cache wraps adapter calls in one when configured.
package resilience
