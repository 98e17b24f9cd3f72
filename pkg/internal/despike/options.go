package despike

// Boundary selects what happens to a spike at the first or last sample, where only one
// neighbor exists.
type Boundary int

const (
	// BoundaryClamp replaces a boundary spike with its single neighbor.
	BoundaryClamp Boundary = iota
	// BoundarySkip leaves boundary spikes untouched.
	BoundarySkip
)

// Mode selects which neighbor values a correction reads.
type Mode int

const (
	// ModeSequential walks indices in ascending order over the working copy, so a spike's left
	// neighbor may already be corrected while its right neighbor is not.
	ModeSequential Mode = iota
	// ModeIndependent reads both neighbors from the unmodified input.
	ModeIndependent
)

type settings struct {
	boundary Boundary
	mode     Mode
}

// Option configures RemoveSpikes.
type Option func(*settings)

// WithBoundary sets the boundary policy. Default BoundaryClamp.
func WithBoundary(b Boundary) Option {
	return func(s *settings) { s.boundary = b }
}

// WithMode sets the correction mode. Default ModeSequential.
func WithMode(m Mode) Option {
	return func(s *settings) { s.mode = m }
}

// ParseBoundary maps "clamp"/"skip" to a Boundary; anything else is clamp.
func ParseBoundary(s string) Boundary {
	if s == "skip" {
		return BoundarySkip
	}
	return BoundaryClamp
}

// ParseMode maps "sequential"/"independent" to a Mode; anything else is sequential.
func ParseMode(s string) Mode {
	if s == "independent" {
		return ModeIndependent
	}
	return ModeSequential
}

func resolve(opts []Option) settings {
	s := settings{boundary: BoundaryClamp, mode: ModeSequential}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}
