package beats

type settings struct {
	flipped     bool
	minDistance float64
}

// Option configures Find.
type Option func(*settings)

// WithFlipped negates the signal before searching, so troughs are reported as beats.
func WithFlipped(flipped bool) Option {
	return func(s *settings) { s.flipped = flipped }
}

// WithMinDistance drops peaks closer than seconds to a higher peak. Zero disables the check.
func WithMinDistance(seconds float64) Option {
	return func(s *settings) {
		if seconds > 0 {
			s.minDistance = seconds
		}
	}
}

func resolve(opts []Option) settings {
	var s settings
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}
