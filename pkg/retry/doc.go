// Package retry provides retry loops with pluggable backoff.
//
// Features:
//   - Exponential and constant backoff strategies
//   - Unlimited attempts when MaxAttempts is 0
//   - Context support for cancellation
//   - Error-type predicates through RetryOnly
//   - Injectable sleep for tests
//
// Basic usage:
//
//	// Poll users.get once a second until the reply is complete
//	id, err := retry.DoWithResult(func() (int64, error) {
//		return lookup(ctx, handle)
//	}, &retry.Config{
//		Backoff: &retry.ConstantBackoff{Delay: time.Second},
//		RetryIf: retry.RetryOnly(errors.ErrorTypeIncomplete),
//		Context: ctx,
//	})
//
// Errors the predicate rejects are returned immediately without sleeping.
package retry
