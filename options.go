package paramcheck

import "net/http"

// DataFunc extracts the request data that parameters are looked up in.
// Path variables are merged underneath whatever it returns.
type DataFunc func(r *http.Request) (map[string]any, error)

// PathFunc returns the value of the named path variable, or "" when the
// route has none. See the pathvars package for router adapters.
type PathFunc func(r *http.Request, name string) string

// Option configures a Set or a permission middleware.
type Option func(*config)

type config struct {
	logger       Logger
	data         DataFunc
	path         PathFunc
	responder    Responder
	maxBodyBytes int64
	action       string
}

// defaultMaxBodyBytes caps how much of a request body is read when merging
// request data.
const defaultMaxBodyBytes = 10 << 20

func newConfig(opts []Option) *config {
	c := &config{
		logger:       NopLogger{},
		path:         func(r *http.Request, name string) string { return r.PathValue(name) },
		responder:    JSONResponder{},
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.data == nil {
		c.data = func(r *http.Request) (map[string]any, error) {
			return RequestData(r, c.maxBodyBytes)
		}
	}
	return c
}

// WithLogger sets the logger. Rejected requests are logged at debug level,
// recovered checker panics at error level.
func WithLogger(l Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithDataFunc replaces the default request data extraction.
func WithDataFunc(f DataFunc) Option {
	return func(c *config) { c.data = f }
}

// WithPathFunc sets how path variables are read. The default uses
// http.Request.PathValue.
func WithPathFunc(f PathFunc) Option {
	return func(c *config) {
		if f != nil {
			c.path = f
		}
	}
}

// WithResponder sets how 400 and 403 results are written.
func WithResponder(r Responder) Option {
	return func(c *config) {
		if r != nil {
			c.responder = r
		}
	}
}

// WithMaxBodyBytes limits how many body bytes the default data extraction
// reads.
func WithMaxBodyBytes(n int64) Option {
	return func(c *config) {
		if n > 0 {
			c.maxBodyBytes = n
		}
	}
}

// WithAction names the endpoint action ("list", "create", "update", ...).
// It decides where undeclared parameter locations default to.
func WithAction(action string) Option {
	return func(c *config) { c.action = action }
}
