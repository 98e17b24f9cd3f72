package types

import "errors"

var (
	ErrEmptySignal        = errors.New("empty signal")
	ErrInvalidSampleRate  = errors.New("sampling rate must be positive")
	ErrInvalidTaps        = errors.New("invalid filter taps")
	ErrInvalidBand        = errors.New("invalid frequency band")
	ErrInsufficientBeats  = errors.New("insufficient beats: at least two are required")
	ErrUnsortedBeats      = errors.New("beat indices must be strictly increasing")
	ErrLengthMismatch     = errors.New("length mismatch")
	ErrEmptyBand          = errors.New("frequency band selects no spectral bins")
	ErrZeroPower          = errors.New("zero mean power in denominator band")
	ErrNoTrials           = errors.New("no trials to average")
	ErrUnknownCompression = errors.New("unknown compression")
)
