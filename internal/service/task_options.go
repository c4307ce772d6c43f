package service

import "time"

type options struct {
	now func() time.Time
}

// Option configures the services in this package.
type Option func(*options)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// stamp returns the current time in UTC, truncated to the millisecond
// precision timestamps are rendered with.
func (o options) stamp() time.Time {
	return o.now().UTC().Truncate(time.Millisecond)
}
