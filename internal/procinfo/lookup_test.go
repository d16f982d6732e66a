package procinfo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubResolver records which resolver method a Lookup dispatched to.
type stubResolver struct {
	called string
}

func (r *stubResolver) PidByName(name string) (int32, error) {
	r.called = "name"
	return 11, nil
}

func (r *stubResolver) PidByPort(port int) (int32, error) {
	r.called = "port"
	return 22, nil
}

func (r *stubResolver) PidByOpenFile(path string) (int32, error) {
	r.called = "file"
	return 33, nil
}

func (r *stubResolver) WorkingDirectory(pid int32) (string, error) {
	return "", errors.New("not implemented")
}

func TestStrategyString(t *testing.T) {
	tests := []struct {
		strategy Strategy
		want     string
	}{
		{StrategyName, "by name"},
		{StrategyPort, "by port"},
		{StrategyOpenFile, "by socket file"},
		{Strategy(99), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.strategy.String())
	}
}

func TestLookupDispatch(t *testing.T) {
	tests := []struct {
		name     string
		lookup   Lookup
		strategy Strategy
		key      string
		called   string
		pid      int32
	}{
		{"by name", ByName("tor"), StrategyName, "tor", "name", 11},
		{"by port", ByPort(9051), StrategyPort, "9051", "port", 22},
		{"by open file", ByOpenFile("/run/tor/control"), StrategyOpenFile, "/run/tor/control", "file", 33},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.strategy, tt.lookup.Strategy())
			assert.Equal(t, tt.key, tt.lookup.Key())

			r := &stubResolver{}
			pid, err := tt.lookup.Pid(r)
			require.NoError(t, err)
			assert.Equal(t, tt.pid, pid)
			assert.Equal(t, tt.called, r.called)
		})
	}
}

func TestZeroLookup(t *testing.T) {
	var l Lookup
	_, err := l.Pid(&stubResolver{})
	assert.ErrorIs(t, err, ErrProcessNotFound)
}
