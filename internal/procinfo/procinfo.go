// Package procinfo locates a daemon process in the process table and
// inspects its working directory. Lookups run with the querying process's
// own permissions and are inherently best-effort: callers must treat every
// failure as "unknown", never as fatal.
package procinfo

import (
	"errors"
	"fmt"

	gnet "github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"
)

// ErrProcessNotFound indicates that no process matched the lookup key.
var ErrProcessNotFound = errors.New("process not found")

// Resolver maps external identifiers to process IDs and process IDs to
// working directories.
type Resolver interface {
	// PidByName returns the pid of the single process with the given name.
	// Fails if no process or more than one process matches.
	PidByName(name string) (int32, error)

	// PidByPort returns the pid of the process listening on the given
	// local TCP port.
	PidByPort(port int) (int32, error)

	// PidByOpenFile returns the pid of a process holding the given path
	// open (typically a unix domain socket).
	PidByOpenFile(path string) (int32, error)

	// WorkingDirectory returns the current working directory of pid.
	WorkingDirectory(pid int32) (string, error)
}

// SystemResolver implements Resolver against the live process table.
type SystemResolver struct{}

var _ Resolver = SystemResolver{}

func (SystemResolver) PidByName(name string) (int32, error) {
	procs, err := process.Processes()
	if err != nil {
		return 0, err
	}

	var matches []int32
	for _, p := range procs {
		pname, err := p.Name()
		if err != nil {
			continue
		}
		if pname == name {
			matches = append(matches, p.Pid)
		}
	}

	switch len(matches) {
	case 0:
		return 0, fmt.Errorf("%w: no process named %q", ErrProcessNotFound, name)
	case 1:
		return matches[0], nil
	default:
		return 0, fmt.Errorf("%w: %d processes named %q", ErrProcessNotFound, len(matches), name)
	}
}

func (SystemResolver) PidByPort(port int) (int32, error) {
	conns, err := gnet.Connections("tcp")
	if err != nil {
		return 0, err
	}

	for _, conn := range conns {
		if conn.Status == "LISTEN" && int(conn.Laddr.Port) == port && conn.Pid != 0 {
			return conn.Pid, nil
		}
	}
	return 0, fmt.Errorf("%w: no listener on port %d", ErrProcessNotFound, port)
}

func (SystemResolver) PidByOpenFile(path string) (int32, error) {
	procs, err := process.Processes()
	if err != nil {
		return 0, err
	}

	for _, p := range procs {
		files, err := p.OpenFiles()
		if err != nil {
			continue
		}
		for _, f := range files {
			if f.Path == path {
				return p.Pid, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: no process holds %q open", ErrProcessNotFound, path)
}

func (SystemResolver) WorkingDirectory(pid int32) (string, error) {
	p, err := process.NewProcess(pid)
	if err != nil {
		return "", err
	}
	return p.Cwd()
}
