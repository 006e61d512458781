package units

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// newer reports whether candidate should replace current. Versions that do
// not parse, including empty ones, rank below every valid version.
func newer(candidate, current string) bool {
	cv, cerr := parseSemver(candidate)
	if cerr != nil {
		return false
	}
	pv, perr := parseSemver(current)
	if perr != nil {
		return true
	}
	return cv.GreaterThan(pv)
}

func parseSemver(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(strings.TrimSpace(version), "v")
	return semver.NewVersion(version)
}
