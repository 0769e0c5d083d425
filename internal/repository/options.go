package repository

import "time"

// Option configures an in-memory store
type Option func(*storeOptions)

type storeOptions struct {
	now func() time.Time
}

// WithClock replaces time.Now, mainly so tests can move time forward
func WithClock(now func() time.Time) Option {
	return func(o *storeOptions) {
		if now != nil {
			o.now = now
		}
	}
}

func applyOptions(opts []Option) storeOptions {
	o := storeOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
