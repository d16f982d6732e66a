package control

import (
	"github.com/go-logr/logr"

	"torctl/internal/procinfo"
)

// defaultProcessName is the process name used for the parse-time cookie
// path expansion, when nothing better than the daemon's conventional name
// is known yet.
const defaultProcessName = "tor"

// Option configures parsing and queries.
type Option func(*options)

type options struct {
	log         logr.Logger
	resolver    procinfo.Resolver
	processName string
	keepOpen    bool
}

func newOptions(opts []Option) *options {
	o := &options{
		log:         logr.Discard(),
		resolver:    procinfo.SystemResolver{},
		processName: defaultProcessName,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the diagnostics sink. Only best-effort paths log through
// it: cookie-path resolution failures, unexpected protocol versions, and
// ignored line types. Defaults to a discarding sink.
func WithLogger(log logr.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithResolver sets the process resolver used for cookie-path expansion.
// Defaults to the live process table.
func WithResolver(r procinfo.Resolver) Option {
	return func(o *options) { o.resolver = r }
}

// WithProcessName sets the daemon process name used for the parse-time
// cookie-path expansion. Defaults to "tor".
func WithProcessName(name string) Option {
	return func(o *options) { o.processName = name }
}

// KeepOpen keeps the query's transport open and attaches it to the
// returned ProtocolInfo for reuse (typically to authenticate next).
func KeepOpen() Option {
	return func(o *options) { o.keepOpen = true }
}
