package control

import (
	"path/filepath"

	"github.com/go-logr/logr"

	"torctl/internal/procinfo"
)

// expandCookiePath rewrites a relative cookie path to an absolute one by
// locating the daemon's process and joining the path onto its working
// directory. The daemon's control spec calls the reported path absolute,
// but in practice it is often relative to wherever the daemon started.
//
// This is best-effort: an absent or already-absolute path is a no-op, and
// every lookup failure leaves the path untouched and logs the strategy
// that failed. It may run twice for one reply (once by process name during
// parsing, once by port or socket file afterwards); the later result wins.
func expandCookiePath(info *ProtocolInfo, r procinfo.Resolver, lookup procinfo.Lookup, log logr.Logger) {
	if info.CookiePath == "" || filepath.IsAbs(info.CookiePath) {
		return
	}

	pid, err := lookup.Pid(r)
	if err != nil {
		log.V(1).Info("unable to expand relative cookie path: pid lookup failed",
			"strategy", lookup.Strategy().String(), "key", lookup.Key(), "cause", err)
		return
	}

	cwd, err := r.WorkingDirectory(pid)
	if err != nil {
		log.V(1).Info("unable to expand relative cookie path: cwd lookup failed",
			"strategy", lookup.Strategy().String(), "pid", pid, "cause", err)
		return
	}

	info.CookiePath = filepath.Join(cwd, info.CookiePath)
}
