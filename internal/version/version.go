// Package version parses the daemon's version strings. The grammar is the
// four-component Tor form
//
//	major.minor.micro[.patch][-status][ (extra)]
//
// which predates and does not fit semantic versioning (four numeric
// components, free-form status tag), so no semver library applies.
package version

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidVersion indicates a version string that does not follow the
// daemon's version grammar.
var ErrInvalidVersion = errors.New("invalid version string")

var versionPattern = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)(?:\.(\d+))?(?:-(\S+))?$`)

// Version is one parsed daemon version.
type Version struct {
	Major  int
	Minor  int
	Micro  int
	Patch  int    // fourth component, 0 when absent
	Status string // trailing status tag such as "alpha" or "rc", without the dash

	raw string
}

// Parse parses a daemon version string. A trailing parenthesized clause
// (for example "(git-73ff13ab3cc9570d)") is ignored.
func Parse(s string) (*Version, error) {
	base := s
	if i := strings.Index(base, " ("); i != -1 && strings.HasSuffix(base, ")") {
		base = base[:i]
	}

	m := versionPattern.FindStringSubmatch(base)
	if m == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}

	v := &Version{raw: base, Status: m[5]}
	v.Major, _ = strconv.Atoi(m[1])
	v.Minor, _ = strconv.Atoi(m[2])
	v.Micro, _ = strconv.Atoi(m[3])
	if m[4] != "" {
		v.Patch, _ = strconv.Atoi(m[4])
	}
	return v, nil
}

// String returns the version as it appeared on the wire, without any
// parenthesized clause.
func (v *Version) String() string {
	return v.raw
}
