package session

import "shaderbench/internal/dispatch"

const (
	// MinDimension and MaxDimension bound the requested resolution before
	// tile alignment.
	MinDimension = 1
	MaxDimension = 8192

	// RealtimeDelta marks the forced frame delta as unset: the elapsed
	// clock advances by measured wall-clock time between frames.
	RealtimeDelta = -1
)

// Config is the session configuration mutated by interpreter commands
// between runs and read-only during a run. It is an explicit value handed
// to the session, not process-global state, so test sessions stay
// isolated.
type Config struct {
	// Width and Height are always multiples of the tile size.
	Width  int
	Height int

	// ForcedDelta is the fixed per-frame advance of the elapsed clock in
	// seconds, or RealtimeDelta (any negative value) for wall-clock time.
	ForcedDelta float64

	// Multithreaded selects parallel tile dispatch.
	Multithreaded bool
}

// DefaultConfig matches the original viewer surface: 1280x720, realtime
// clock, sequential dispatch.
func DefaultConfig() Config {
	return Config{
		Width:       1280,
		Height:      720,
		ForcedDelta: RealtimeDelta,
	}
}

// SetResolution clamps each dimension to [MinDimension, MaxDimension] and
// rounds it up to the next tile-size multiple.
func (c *Config) SetResolution(width, height int) {
	c.Width = dispatch.AlignUp(clampDimension(width))
	c.Height = dispatch.AlignUp(clampDimension(height))
}

func clampDimension(dim int) int {
	if dim < MinDimension {
		return MinDimension
	}
	if dim > MaxDimension {
		return MaxDimension
	}
	return dim
}
