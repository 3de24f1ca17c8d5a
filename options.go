package jsonpatch

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/brunoga/jsonpatch/naming"
)

// Option configures document construction and application.
type Option interface {
	apply(*config)
}

type config struct {
	names     naming.Resolver
	transform naming.CaseTransform
	logger    logrus.FieldLogger
	reporter  func(*PatchError)
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) {
	f(c)
}

var discardLogger = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

func newConfig(opts []Option) *config {
	c := &config{
		names:     naming.Default,
		transform: naming.LowerCase,
		logger:    discardLogger,
	}
	for _, opt := range opts {
		opt.apply(c)
	}
	return c
}

// WithNameResolver sets how struct members are named in pointers, both when
// resolving paths against structs and when rendering typed paths. The
// default follows encoding/json.
func WithNameResolver(r naming.Resolver) Option {
	return optionFunc(func(c *config) {
		if r != nil {
			c.names = r
		}
	})
}

// WithCaseTransform sets the case applied to member names by typed paths.
// The default is naming.LowerCase.
func WithCaseTransform(t naming.CaseTransform) Option {
	return optionFunc(func(c *config) {
		c.transform = t
	})
}

// WithLogger sets the logger operations are traced to. Applied operations are
// logged at debug level and failures at warning level.
func WithLogger(l logrus.FieldLogger) Option {
	return optionFunc(func(c *config) {
		if l != nil {
			c.logger = l
		}
	})
}

// WithErrorReporter registers a function that sees every PatchError before it
// is returned.
func WithErrorReporter(fn func(*PatchError)) Option {
	return optionFunc(func(c *config) {
		c.reporter = fn
	})
}
