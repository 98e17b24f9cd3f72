package bandpower

// Method selects how the power spectrum is estimated.
type Method int

const (
	// MethodPeriodogram squares the magnitude of a single real FFT over the whole signal.
	MethodPeriodogram Method = iota
	// MethodWelch averages Hann-windowed, overlapping segment periodograms.
	MethodWelch
)

type settings struct {
	method   Method
	nfft     int
	noverlap int
}

// Option configures Analyze.
type Option func(*settings)

// WithWelch switches to Welch's method with segments of nfft samples overlapping by noverlap.
// An nfft of 0 or larger than the signal uses the whole signal as one segment.
func WithWelch(nfft, noverlap int) Option {
	return func(s *settings) {
		s.method = MethodWelch
		s.nfft = nfft
		s.noverlap = noverlap
	}
}

func resolve(opts []Option) settings {
	s := settings{method: MethodPeriodogram}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}
