package tripview

import "github.com/Is0meone/TransitTracker/pkg/events"

const defaultMaxConcurrentFetches = 8

type Options struct {
	ID                   string
	MaxConcurrentFetches int
	Publisher            events.Publisher
}

type Option func(*Options)

func defaultOptions() Options {
	return Options{
		MaxConcurrentFetches: defaultMaxConcurrentFetches,
		Publisher:            events.NoopPublisher{},
	}
}

func WithID(id string) Option {
	return func(o *Options) {
		o.ID = id
	}
}

func WithMaxConcurrentFetches(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.MaxConcurrentFetches = n
		}
	}
}

func WithPublisher(publisher events.Publisher) Option {
	return func(o *Options) {
		if publisher != nil {
			o.Publisher = publisher
		}
	}
}
