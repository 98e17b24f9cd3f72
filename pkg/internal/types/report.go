package types

import "context"

// RecordingReport is one row of the HRV table: the per-recording summary the pipeline
// persists.
type RecordingReport struct {
	Name          string  `parquet:"name" json:"name"`
	Samples       int64   `parquet:"samples" json:"samples"`
	DurationSec   float64 `parquet:"duration_sec" json:"duration_sec"`
	Spikes        int64   `parquet:"spikes" json:"spikes"`
	Beats         int64   `parquet:"beats" json:"beats"`
	MeanIBI       float64 `parquet:"mean_ibi" json:"mean_ibi"`
	MeanHeartRate float64 `parquet:"mean_heart_rate" json:"mean_heart_rate"`
	HRV           float64 `parquet:"hrv" json:"hrv"`
	RMSSD         float64 `parquet:"rmssd" json:"rmssd"`
	MeanLowPower  float64 `parquet:"mean_lf_power" json:"mean_lf_power"`
	MeanHighPower float64 `parquet:"mean_hf_power" json:"mean_hf_power"`
	LFHFRatio     float64 `parquet:"lf_hf_ratio" json:"lf_hf_ratio"`
}

// MeanBeatRow is one sample of a recording's ensemble-averaged beat.
type MeanBeatRow struct {
	Name string  `parquet:"name" json:"name"`
	Time float64 `parquet:"time" json:"time"`
	Mean float64 `parquet:"mean" json:"mean"`
	Std  float64 `parquet:"std" json:"std"`
}

// ReportSink receives finished reports. File, S3 and Kafka sinks implement it.
type ReportSink interface {
	Name() string
	Write(ctx context.Context, reports []RecordingReport) error
}
