package txrun

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leave-engine/internal/domain/leave"
)

const (
	DefaultTimeout  = 5 * time.Second
	DefaultAttempts = 3
)

// Runner bounds each attempt of a storage operation with a deadline and
// retries the whole operation on leave.ErrStorageConflict. Operations are
// transactional, so a failed attempt leaves nothing behind.
type Runner struct {
	Timeout  time.Duration
	Attempts int
}

func (r Runner) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	attempts := r.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}

	var err error
	for i := 0; i < attempts; i++ {
		err = r.once(ctx, timeout, fn)
		if !errors.Is(err, leave.ErrStorageConflict) {
			return err
		}
		if ctx.Err() != nil {
			break
		}
	}
	return err
}

func (r Runner) once(ctx context.Context, timeout time.Duration, fn func(ctx context.Context) error) error {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	err := fn(tctx)
	if err != nil && errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, leave.ErrStorageTimeout) {
		return fmt.Errorf("%w: %w", leave.ErrStorageTimeout, err)
	}
	return err
}
