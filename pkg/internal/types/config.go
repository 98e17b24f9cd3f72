package types

// PipelineConfig holds the numeric parameters of the ECG chain. Zero values are replaced by
// WithDefaults.
type PipelineConfig struct {
	SampleRate      float64            `yaml:"sample_rate"`      // Hz of the raw recordings.
	SpikeThreshold  float64            `yaml:"spike_threshold"`  // Raw ADC counts above which a sample is an artifact.
	SpikeBoundary   string             `yaml:"spike_boundary"`   // "clamp" or "skip".
	SpikeMode       string             `yaml:"spike_mode"`       // "sequential" or "independent".
	ScaleFactor     float64            `yaml:"scale_factor"`     // Multiplier applied after despiking (ADC counts to volts).
	MaxDurationSec  float64            `yaml:"max_duration_sec"` // Truncate recordings longer than this; 0 disables.
	Truncate        map[string]float64 `yaml:"truncate"`         // Per-recording limit in seconds, overrides MaxDurationSec.
	FilterLow       float64            `yaml:"filter_low"`
	FilterHigh      float64            `yaml:"filter_high"`
	FilterTaps      int                `yaml:"filter_taps"`
	BeatHeight      float64            `yaml:"beat_height"`
	BeatFlipped     bool               `yaml:"beat_flipped"`
	BeatMinDistance float64            `yaml:"beat_min_distance"` // Seconds; 0 disables.
	ResampleStep    float64            `yaml:"resample_step"`     // Seconds between resampled IBI points.
	LowBand         FrequencyBand      `yaml:"low_band"`
	HighBand        FrequencyBand      `yaml:"high_band"`
	WelchNFFT       int                `yaml:"welch_nfft"` // 0 selects the plain periodogram.
	TrialDuration   float64            `yaml:"trial_duration"`
	Concurrency     int                `yaml:"concurrency"`
}

// DefaultPipelineConfig returns the parameters used for chest-strap ECG recorded by a 10-bit
// ADC at 500 Hz.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		SampleRate:     500,
		SpikeThreshold: 1000,
		SpikeBoundary:  "clamp",
		SpikeMode:      "sequential",
		ScaleFactor:    5.0 / 1023.0,
		FilterLow:      0.67,
		FilterHigh:     40,
		FilterTaps:     501,
		BeatHeight:     0.5,
		BeatFlipped:    true,
		ResampleStep:   0.1,
		LowBand:        FrequencyBand{Low: 0.04, High: 0.15},
		HighBand:       FrequencyBand{Low: 0.15, High: 0.4},
		TrialDuration:  1,
	}
}

// WithDefaults returns c with every zero numeric field and empty policy string replaced by the
// matching default. A zero SpikeThreshold or BeatHeight therefore means "default", never 0.
// BeatFlipped is taken as given because false is a meaningful setting.
func (c PipelineConfig) WithDefaults() PipelineConfig {
	d := DefaultPipelineConfig()
	if c.SampleRate == 0 {
		c.SampleRate = d.SampleRate
	}
	if c.SpikeThreshold == 0 {
		c.SpikeThreshold = d.SpikeThreshold
	}
	if c.SpikeBoundary == "" {
		c.SpikeBoundary = d.SpikeBoundary
	}
	if c.SpikeMode == "" {
		c.SpikeMode = d.SpikeMode
	}
	if c.ScaleFactor == 0 {
		c.ScaleFactor = d.ScaleFactor
	}
	if c.FilterLow == 0 {
		c.FilterLow = d.FilterLow
	}
	if c.FilterHigh == 0 {
		c.FilterHigh = d.FilterHigh
	}
	if c.FilterTaps == 0 {
		c.FilterTaps = d.FilterTaps
	}
	if c.BeatHeight == 0 {
		c.BeatHeight = d.BeatHeight
	}
	if c.ResampleStep == 0 {
		c.ResampleStep = d.ResampleStep
	}
	if c.LowBand == (FrequencyBand{}) {
		c.LowBand = d.LowBand
	}
	if c.HighBand == (FrequencyBand{}) {
		c.HighBand = d.HighBand
	}
	if c.TrialDuration == 0 {
		c.TrialDuration = d.TrialDuration
	}
	return c
}

// TruncateFor returns the duration limit for the named recording, 0 for none.
func (c PipelineConfig) TruncateFor(name string) float64 {
	if s, ok := c.Truncate[name]; ok {
		return s
	}
	return c.MaxDurationSec
}
