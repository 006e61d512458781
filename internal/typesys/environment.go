package typesys

import "os"

// Environment reports which host features are available.
type Environment interface {
	Has(feature string) bool
}

// Features is a static Environment.
type Features map[string]bool

// Has implements Environment.
func (f Features) Has(feature string) bool { return f[feature] }

// FeatureDisplay is present when a windowing display is reachable.
const FeatureDisplay = "display"

// HostEnvironment probes the running process. The display feature is
// available when DISPLAY or WAYLAND_DISPLAY is set.
func HostEnvironment() Features {
	f := Features{}
	if os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != "" {
		f[FeatureDisplay] = true
	}
	return f
}
