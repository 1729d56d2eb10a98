package retry

import (
	"context"
	"time"
)

type RetryOptions struct {
	MaxRetries int
	Interval   time.Duration
	Backoff    float32
	// an error is retried only if any condition accepts it; no conditions retries everything
	RetryConditions []func(error) bool
	// an error matching any stop condition is never retried, whatever RetryConditions say
	StopConditions []func(error) bool
}

type RetryOpt func(*RetryOptions) *RetryOptions

// WithRetryOptions replaces the options built so far with a copy of options.
// Later opts never write to the caller's struct.
func WithRetryOptions(options *RetryOptions) RetryOpt {
	return func(ro *RetryOptions) *RetryOptions {
		if options == nil {
			return ro
		}
		cp := *options
		cp.RetryConditions = append([]func(error) bool(nil), options.RetryConditions...)
		cp.StopConditions = append([]func(error) bool(nil), options.StopConditions...)
		return &cp
	}
}

func WithMaxRetries(maxRetries int) RetryOpt {
	return func(ro *RetryOptions) *RetryOptions {
		ro.MaxRetries = maxRetries
		return ro
	}
}

func WithInterval(interval time.Duration) RetryOpt {
	return func(ro *RetryOptions) *RetryOptions {
		ro.Interval = interval
		return ro
	}
}

func WithBackoff(backoff float32) RetryOpt {
	return func(ro *RetryOptions) *RetryOptions {
		ro.Backoff = backoff
		return ro
	}
}

func WithRetryCondition(condition func(error) bool) RetryOpt {
	return func(ro *RetryOptions) *RetryOptions {
		ro.RetryConditions = append(ro.RetryConditions, condition)
		return ro
	}
}

// WithStopCondition makes errors accepted by condition final.
func WithStopCondition(condition func(error) bool) RetryOpt {
	return func(ro *RetryOptions) *RetryOptions {
		ro.StopConditions = append(ro.StopConditions, condition)
		return ro
	}
}

func validateAndFixRetryOption(cfg *RetryOptions) {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 1
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 1
	}
	if cfg.Interval < 0 {
		cfg.Interval = 0
	}
}

func isErrorRetryable(cfg *RetryOptions, err error) bool {
	for _, stop := range cfg.StopConditions {
		if stop(err) {
			return false
		}
	}
	if len(cfg.RetryConditions) == 0 {
		return true
	}
	for _, cond := range cfg.RetryConditions {
		if cond(err) {
			return true
		}
	}
	return false
}

func buildOptions(opts []RetryOpt) *RetryOptions {
	cfg := &RetryOptions{
		MaxRetries: 1,
		Backoff:    1,
	}
	for _, opt := range opts {
		cfg = opt(cfg)
	}
	validateAndFixRetryOption(cfg)
	return cfg
}

// Retry runs task until it succeeds, fails with a non retryable error or
// MaxRetries attempts were made. Without WithInterval attempts are back to back.
func Retry(task func() error, opts ...RetryOpt) error {
	return RetryWithBackoff(task, opts...)
}

func RetryWithBackoff(task func() error, opts ...RetryOpt) error {
	return RetryContext(context.Background(), func(context.Context) error {
		return task()
	}, opts...)
}

// RetryContext always makes the first attempt. Once ctx is done it stops
// waiting between attempts and returns the last task error.
func RetryContext(ctx context.Context, task func(context.Context) error, opts ...RetryOpt) (err error) {
	cfg := buildOptions(opts)
	interval := cfg.Interval
	for i := 0; i < cfg.MaxRetries; i++ {
		if err = task(ctx); err == nil {
			return nil
		}
		if !isErrorRetryable(cfg, err) || i == cfg.MaxRetries-1 {
			return err
		}
		if interval > 0 {
			timer := time.NewTimer(interval)
			select {
			case <-ctx.Done():
				timer.Stop()
				return err
			case <-timer.C:
			}
			interval = time.Duration(float32(interval) * cfg.Backoff)
		} else if ctx.Err() != nil {
			return err
		}
	}
	return
}

func Retry1[T any](task func() (T, error), opts ...RetryOpt) (T, error) {
	return RetryWithBackoff1(task, opts...)
}

func RetryWithBackoff1[T any](task func() (T, error), opts ...RetryOpt) (res T, err error) {
	t := func() error {
		res, err = task()
		return err
	}
	err = RetryWithBackoff(t, opts...)
	return
}

// RetryContext1 is RetryContext for tasks that produce a value.
func RetryContext1[T any](ctx context.Context, task func(context.Context) (T, error), opts ...RetryOpt) (res T, err error) {
	err = RetryContext(ctx, func(ctx context.Context) error {
		res, err = task(ctx)
		return err
	}, opts...)
	return
}
