// Package service contains the business logic for the GlobeTrotter API.
// Services validate inputs, enforce ownership rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import "time"

type options struct {
	now                    func() time.Time
	enforceNestedOwnership bool
}

// Option configures TripService and ShareService.
type Option func(*options)

// WithClock replaces time.Now as the source of timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithNestedOwnership makes city/day/activity mutations require trip
// ownership and makes copying require read access to the source trip.
// Off by default: any authenticated caller may edit nested entities and copy
// any trip by id.
func WithNestedOwnership(enforce bool) Option {
	return func(o *options) { o.enforceNestedOwnership = enforce }
}

func newOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// timestamp returns now in the precision every store round-trips exactly.
func (o options) timestamp() time.Time {
	return o.now().UTC().Truncate(time.Microsecond)
}
