package types

// Signal is an ordered sequence of real-valued samples taken at a fixed sampling rate.
// Index i corresponds to time i/fs.
type Signal []float64

// Clone returns a private copy of the signal.
func (s Signal) Clone() Signal {
	if s == nil {
		return nil
	}
	out := make(Signal, len(s))
	copy(out, s)
	return out
}

// Duration returns the length of the signal in seconds for the given sampling rate.
func (s Signal) Duration(fs float64) float64 {
	if fs <= 0 {
		return 0
	}
	return float64(len(s)) / fs
}

// NamedSignalSet maps a recording name to its signal.
type NamedSignalSet map[string]Signal

// Clone returns a deep copy of the set.
func (n NamedSignalSet) Clone() NamedSignalSet {
	out := make(NamedSignalSet, len(n))
	for k, v := range n {
		out[k] = v.Clone()
	}
	return out
}

// ImpulseResponse holds FIR filter taps.
type ImpulseResponse []float64

// BeatIndexSet holds strictly increasing sample indices of detected beats.
type BeatIndexSet []int

// IBISeries holds inter-beat intervals in seconds.
type IBISeries []float64

// FrequencyBand is a closed interval [Low, High] in Hz.
type FrequencyBand struct {
	Low  float64 `yaml:"low" json:"low"`
	High float64 `yaml:"high" json:"high"`
}

// Contains reports whether f lies inside the band, bounds included.
func (b FrequencyBand) Contains(f float64) bool {
	return f >= b.Low && f <= b.High
}

// Marker is a point on a time-domain plot, e.g. a detected beat.
type Marker struct {
	Time  float64
	Value float64
}

// FrequencyResponse is the magnitude spectrum of an impulse response.
type FrequencyResponse struct {
	Frequencies []float64
	Magnitude   []float64
}

// HRVResult is the output of the HRV estimator.
type HRVResult struct {
	IBI           IBISeries // Successive differences of beat times.
	IBITimes      []float64 // Time of the beat closing each interval.
	HRV           float64   // Population standard deviation of IBI.
	MeanIBI       float64
	MeanHeartRate float64 // Beats per minute derived from MeanIBI.
	RMSSD         float64 // Root mean square of successive IBI differences.
}

// BandPowerResult carries the LF/HF ratio together with the series a plotter needs.
type BandPowerResult struct {
	Frequencies   []float64 // Non-negative frequency axis in Hz.
	Power         []float64 // Squared magnitude per bin.
	LowBand       FrequencyBand
	HighBand      FrequencyBand
	LowFrequency  []float64 // Frequencies inside LowBand.
	LowPower      []float64 // Power inside LowBand.
	HighFrequency []float64
	HighPower     []float64
	MeanLowPower  float64
	MeanHighPower float64
	Ratio         float64
}

// EnsembleAverage is the per-sample mean and spread of beat-aligned trials.
type EnsembleAverage struct {
	Time   []float64
	Mean   []float64
	Std    []float64
	Trials int
}
