package verify

import (
	"context"
	"time"

	"diagnosis-backend/internal/answers"
	"diagnosis-backend/internal/catalog"
	"diagnosis-backend/internal/shared/telemetry"
)

// DefaultDelay is the minimum pause inserted between external verification
// calls. The external service is rate limited; sequential pacing is the
// backpressure mechanism, not an optimization.
const DefaultDelay = 200 * time.Millisecond

// CheckFunc performs a single verification call.
type CheckFunc func(ctx context.Context, q catalog.Question, a answers.Answer) (answers.AICheck, error)

// Runner walks the verification queue strictly one call at a time with a
// fixed inter-call delay. Concurrency is pinned to one; do not fan out.
type Runner struct {
	Check CheckFunc
	Delay time.Duration

	sleep func(time.Duration)
}

// NewRunner builds a runner with the given pacing delay; delay <= 0 falls
// back to DefaultDelay.
func NewRunner(check CheckFunc, delay time.Duration) *Runner {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Runner{Check: check, Delay: delay, sleep: time.Sleep}
}

// Run verifies every provided answer in the set that does not already carry
// a cached result, mutating the set in place. Results are cached once and
// never recomputed, so re-running over a fully verified set issues zero
// calls. Per-question failures are logged and skipped; only context
// cancellation stops the batch early. Returns the number of external calls
// issued.
func (r *Runner) Run(ctx context.Context, questions []catalog.Question, set answers.Set) (int, error) {
	calls := 0
	for _, q := range questions {
		answer, ok := set[q.ID]
		if !ok || !answer.Provided() || answer.AICheck != nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return calls, err
		}

		check, err := r.Check(ctx, q, answer)
		calls++
		if err != nil {
			telemetry.Error("verify.check_failed", map[string]any{
				"question_id": q.ID,
				"error":       err.Error(),
			})
		} else {
			answer.AICheck = &check
			set[q.ID] = answer
		}

		r.sleep(r.Delay)
	}
	return calls, nil
}
