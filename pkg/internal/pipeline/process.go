package pipeline

import (
	"context"
	"errors"

	"github.com/joeydtaylor/ecgflow/pkg/internal/bandpower"
	"github.com/joeydtaylor/ecgflow/pkg/internal/beats"
	"github.com/joeydtaylor/ecgflow/pkg/internal/despike"
	"github.com/joeydtaylor/ecgflow/pkg/internal/epoch"
	"github.com/joeydtaylor/ecgflow/pkg/internal/fir"
	"github.com/joeydtaylor/ecgflow/pkg/internal/hrv"
	"github.com/joeydtaylor/ecgflow/pkg/internal/recording"
	"github.com/joeydtaylor/ecgflow/pkg/internal/resample"
	"github.com/joeydtaylor/ecgflow/pkg/internal/types"
	"github.com/joeydtaylor/ecgflow/pkg/logschema"
)

// Stage names used for meter timings and log fields.
const (
	StageDesign    = "design"
	StageDespike   = "despike"
	StageFilter    = "filter"
	StageBeats     = "beats"
	StageHRV       = "hrv"
	StageResample  = "resample"
	StageBandPower = "bandpower"
	StageEpoch     = "epoch"
)

type step struct {
	stage string
	fn    func() error
}

// process runs the stage chain for one recording. ctx is checked between stages.
func (p *Pipeline) process(ctx context.Context, runID string, cfg types.PipelineConfig, ir types.ImpulseResponse, name string, raw types.Signal) (types.RecordingResult, error) {
	fs := cfg.SampleRate
	res := types.RecordingResult{Name: name, Raw: raw}

	steps := []step{
		{StageDespike, func() error {
			res.Despiked, res.SpikeIndex = despike.RemoveSpikesSignal(raw, cfg.SpikeThreshold,
				despike.WithBoundary(despike.ParseBoundary(cfg.SpikeBoundary)),
				despike.WithMode(despike.ParseMode(cfg.SpikeMode)),
			)
			scaled := recording.ScaleSignal(res.Despiked, cfg.ScaleFactor)
			res.Scaled = recording.Truncate(scaled, cfg.TruncateFor(name), fs)
			if len(res.Scaled) == 0 {
				return types.ErrEmptySignal
			}
			return nil
		}},
		{StageFilter, func() (err error) {
			res.Filtered, err = fir.Apply(res.Scaled, ir)
			return err
		}},
		{StageBeats, func() (err error) {
			res.Beats, err = beats.Find(res.Filtered, fs, cfg.BeatHeight,
				beats.WithFlipped(cfg.BeatFlipped),
				beats.WithMinDistance(cfg.BeatMinDistance),
			)
			if err != nil {
				return err
			}
			res.Markers, err = beats.Markers(res.Filtered, fs, res.Beats)
			return err
		}},
		{StageHRV, func() (err error) {
			res.HRV, err = hrv.Compute(res.Beats, fs)
			return err
		}},
		{StageResample, func() (err error) {
			res.Resampled, res.ResampleFs, err = resample.Uniform(res.HRV.IBITimes, res.HRV.IBI, res.Filtered.Duration(fs), cfg.ResampleStep)
			return err
		}},
		{StageBandPower, func() (err error) {
			var opts []bandpower.Option
			if cfg.WelchNFFT > 0 {
				opts = append(opts, bandpower.WithWelch(cfg.WelchNFFT, cfg.WelchNFFT/2))
			}
			res.Bands, err = bandpower.Analyze(res.Resampled, res.ResampleFs, cfg.LowBand, cfg.HighBand, opts...)
			return err
		}},
		{StageEpoch, func() error {
			avg, err := epoch.MeanBeat(res.Filtered, res.Beats, fs, cfg.TrialDuration)
			if errors.Is(err, types.ErrNoTrials) {
				p.NotifyLoggers(
					types.WarnLevel,
					"No complete beat windows to average",
					logschema.FieldComponent, p.componentMetadata,
					logschema.FieldEvent, "Process",
					logschema.FieldRecording, name,
					logschema.FieldStage, StageEpoch,
				)
				return nil
			}
			res.MeanBeat = avg
			return err
		}},
	}

	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := p.observe(s.stage, s.fn); err != nil {
			p.logFailure(runID, name, s.stage, err)
			return res, err
		}
	}

	p.count(types.MetricSpikesCorrected, len(res.SpikeIndex))
	p.count(types.MetricBeatsDetected, len(res.Beats))
	p.count(types.MetricSamplesProcessed, len(raw))

	res.Report = types.RecordingReport{
		Name:          name,
		Samples:       int64(len(res.Filtered)),
		DurationSec:   res.Filtered.Duration(fs),
		Spikes:        int64(len(res.SpikeIndex)),
		Beats:         int64(len(res.Beats)),
		MeanIBI:       res.HRV.MeanIBI,
		MeanHeartRate: res.HRV.MeanHeartRate,
		HRV:           res.HRV.HRV,
		RMSSD:         res.HRV.RMSSD,
		MeanLowPower:  res.Bands.MeanLowPower,
		MeanHighPower: res.Bands.MeanHighPower,
		LFHFRatio:     res.Bands.Ratio,
	}

	p.NotifyLoggers(
		types.DebugLevel,
		"Recording processed",
		logschema.FieldComponent, p.componentMetadata,
		logschema.FieldEvent, "Process",
		logschema.FieldResult, "SUCCESS",
		logschema.FieldRunID, runID,
		logschema.FieldRecording, name,
		"beats", len(res.Beats),
		"hrv", res.HRV.HRV,
		"lf_hf", res.Bands.Ratio,
	)
	return res, nil
}
