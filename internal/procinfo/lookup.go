package procinfo

import "strconv"

// Strategy identifies how a daemon's pid is located. Each strategy carries
// the human-readable label used when a best-effort lookup is logged.
type Strategy int

const (
	StrategyName Strategy = iota
	StrategyPort
	StrategyOpenFile
)

func (s Strategy) String() string {
	switch s {
	case StrategyName:
		return "by name"
	case StrategyPort:
		return "by port"
	case StrategyOpenFile:
		return "by socket file"
	default:
		return "unknown"
	}
}

// Lookup binds a resolution strategy to its key. It is a value: construct
// one with ByName, ByPort, or ByOpenFile and hand it to whatever performs
// the resolution.
type Lookup struct {
	strategy Strategy
	key      string
	resolve  func(Resolver) (int32, error)
}

// ByName looks the daemon up by its process name.
func ByName(name string) Lookup {
	return Lookup{
		strategy: StrategyName,
		key:      name,
		resolve:  func(r Resolver) (int32, error) { return r.PidByName(name) },
	}
}

// ByPort looks the daemon up by the local TCP port it listens on.
func ByPort(port int) Lookup {
	return Lookup{
		strategy: StrategyPort,
		key:      strconv.Itoa(port),
		resolve:  func(r Resolver) (int32, error) { return r.PidByPort(port) },
	}
}

// ByOpenFile looks the daemon up by an open file path, typically its
// control socket.
func ByOpenFile(path string) Lookup {
	return Lookup{
		strategy: StrategyOpenFile,
		key:      path,
		resolve:  func(r Resolver) (int32, error) { return r.PidByOpenFile(path) },
	}
}

// Strategy returns the lookup's strategy tag.
func (l Lookup) Strategy() Strategy {
	return l.strategy
}

// Key returns the lookup key as a string, for diagnostics.
func (l Lookup) Key() string {
	return l.key
}

// Pid resolves the daemon's pid using r.
func (l Lookup) Pid(r Resolver) (int32, error) {
	if l.resolve == nil {
		return 0, ErrProcessNotFound
	}
	return l.resolve(r)
}
