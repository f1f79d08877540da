package crate

import (
	"errors"

	"github.com/xraph/go-utils/errs"
	logger "github.com/xraph/go-utils/log"
	"github.com/xraph/go-utils/metrics"
)

// Middleware provides hooks for intercepting container lookups.
// Middleware can be used for logging, metrics, access control, testing, etc.
type Middleware interface {
	// BeforeLookup is called before resolving a slot.
	// Return error to abort the lookup.
	BeforeLookup(key Key) error

	// AfterLookup is called after resolving a slot.
	// Called even if the lookup failed (holder is nil then).
	AfterLookup(key Key, holder Holder, err error) error
}

// middlewareChain is an immutable list of middleware; appending copies it so
// containers derived from one another never share a growing backing array.
type middlewareChain struct {
	middleware []Middleware
}

// with returns a new chain with mw appended.
func (m *middlewareChain) with(mw ...Middleware) *middlewareChain {
	var existing []Middleware
	if m != nil {
		existing = m.middleware
	}

	next := make([]Middleware, 0, len(existing)+len(mw))
	next = append(next, existing...)

	for _, w := range mw {
		if w != nil {
			next = append(next, w)
		}
	}

	return &middlewareChain{middleware: next}
}

// beforeLookup calls BeforeLookup on all middleware.
func (m *middlewareChain) beforeLookup(key Key) error {
	if m == nil {
		return nil
	}

	for _, mw := range m.middleware {
		if err := mw.BeforeLookup(key); err != nil {
			return err
		}
	}

	return nil
}

// afterLookup calls AfterLookup on all middleware.
func (m *middlewareChain) afterLookup(key Key, holder Holder, err error) error {
	if m == nil {
		return nil
	}

	for _, mw := range m.middleware {
		if mwErr := mw.AfterLookup(key, holder, err); mwErr != nil {
			return mwErr
		}
	}

	return nil
}

// FuncMiddleware wraps functions as Middleware.
type FuncMiddleware struct {
	BeforeLookupFunc func(key Key) error
	AfterLookupFunc  func(key Key, holder Holder, err error) error
}

// BeforeLookup implements Middleware.
func (f *FuncMiddleware) BeforeLookup(key Key) error {
	if f.BeforeLookupFunc != nil {
		return f.BeforeLookupFunc(key)
	}
	return nil
}

// AfterLookup implements Middleware.
func (f *FuncMiddleware) AfterLookup(key Key, holder Holder, err error) error {
	if f.AfterLookupFunc != nil {
		return f.AfterLookupFunc(key, holder, err)
	}
	return nil
}

// LoggingMiddleware logs every lookup at debug level and failed lookups at
// warn level. A nil logger disables logging.
func LoggingMiddleware(l logger.Logger) Middleware {
	if l == nil {
		l = logger.NewNoopLogger()
	}

	return &FuncMiddleware{
		AfterLookupFunc: func(key Key, holder Holder, err error) error {
			if err != nil {
				l.Warn("service lookup failed",
					logger.Stringer("key", key),
					logger.String("code", errorCode(err)),
					logger.Error(err),
				)

				return nil
			}

			l.Debug("service lookup",
				logger.Stringer("key", key),
				logger.Stringer("strategy", holder.Strategy()),
				logger.Bool("resolved", isResolved(holder)),
			)

			return nil
		},
	}
}

// Metric names recorded by MetricsMiddleware. Both carry a "key" label; the
// failure counter also carries the error "code".
const (
	MetricLookups        = "crate_lookups_total"
	MetricLookupFailures = "crate_lookup_failures_total"
)

// MetricsMiddleware counts lookups and failed lookups per key. A nil factory
// disables counting.
func MetricsMiddleware(factory metrics.MetricFactory) Middleware {
	if factory == nil {
		return &FuncMiddleware{}
	}

	return &FuncMiddleware{
		AfterLookupFunc: func(key Key, holder Holder, err error) error {
			label := metrics.WithLabel("key", key.String())

			factory.Counter(MetricLookups, label).Inc()

			if err != nil {
				factory.Counter(MetricLookupFailures, label,
					metrics.WithLabel("code", errorCode(err)),
				).Inc()
			}

			return nil
		},
	}
}

// errorCode returns the code carried by err, or CodeInternal when err has none.
func errorCode(err error) string {
	var coded errs.CodedError
	if errors.As(err, &coded) && coded.GetCode() != "" {
		return coded.GetCode()
	}

	return errs.CodeInternal
}
