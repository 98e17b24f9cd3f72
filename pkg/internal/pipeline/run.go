package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/joeydtaylor/ecgflow/pkg/internal/fir"
	"github.com/joeydtaylor/ecgflow/pkg/internal/types"
	"github.com/joeydtaylor/ecgflow/pkg/logschema"
)

var nowFunc = time.Now

// Run processes every recording in set and returns results sorted by name. The band-pass filter
// is designed once per run. Any failed recording fails the run, and cancelling ctx stops the
// remaining work. The first call freezes the pipeline.
func (p *Pipeline) Run(ctx context.Context, set types.NamedSignalSet) (types.PipelineResult, error) {
	p.Freeze()

	cfg := p.GetConfig()
	p.configLock.Lock()
	concurrency := p.concurrency
	sinks := append([]types.ReportSink(nil), p.sinks...)
	p.configLock.Unlock()

	out := types.PipelineResult{RunID: uuid.NewString()}
	if cfg.SampleRate <= 0 {
		return out, types.ErrInvalidSampleRate
	}

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)

	p.NotifyLoggers(
		types.InfoLevel,
		"Run started",
		logschema.FieldComponent, p.componentMetadata,
		logschema.FieldEvent, "Run",
		logschema.FieldRunID, out.RunID,
		"recordings", len(names),
		"concurrency", concurrency,
	)
	p.count(types.MetricRecordingsSubmitted, len(names))

	err := p.observe(StageDesign, func() error {
		ir, err := fir.DesignBandPass(cfg.FilterLow, cfg.FilterHigh, cfg.FilterTaps, cfg.SampleRate)
		out.Filter = ir
		return err
	})
	if err != nil {
		p.logFailure(out.RunID, "", StageDesign, err)
		return out, fmt.Errorf("design filter: %w", err)
	}

	results := make([]types.RecordingResult, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := p.process(gctx, out.RunID, cfg, out.Filter, name, set[name])
			if err != nil {
				if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
					p.count(types.MetricRecordingsFailed, 1)
				}
				return fmt.Errorf("recording %s: %w", name, err)
			}
			results[i] = res
			p.count(types.MetricRecordingsProcessed, 1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		p.NotifyLoggers(
			types.ErrorLevel,
			"Run failed",
			logschema.FieldComponent, p.componentMetadata,
			logschema.FieldEvent, "Run",
			logschema.FieldResult, "FAILURE",
			logschema.FieldRunID, out.RunID,
			logschema.FieldError, err,
		)
		return out, err
	}

	out.Recordings = results
	out.Reports = make([]types.RecordingReport, len(results))
	for i, r := range results {
		out.Reports[i] = r.Report
	}

	for _, s := range sinks {
		if err := s.Write(ctx, out.Reports); err != nil {
			p.logFailure(out.RunID, "", "persist", err)
			return out, fmt.Errorf("sink %s: %w", s.Name(), err)
		}
		p.count(types.MetricReportsPersisted, len(out.Reports))
		p.NotifyLoggers(
			types.DebugLevel,
			"Reports persisted",
			logschema.FieldComponent, p.componentMetadata,
			logschema.FieldEvent, "Persist",
			logschema.FieldResult, "SUCCESS",
			logschema.FieldRunID, out.RunID,
			"sink", s.Name(),
			"reports", len(out.Reports),
		)
	}

	if m := p.currentMeter(); m != nil {
		out.Meter = m.Snapshot()
	}

	p.NotifyLoggers(
		types.InfoLevel,
		"Run completed",
		logschema.FieldComponent, p.componentMetadata,
		logschema.FieldEvent, "Run",
		logschema.FieldResult, "SUCCESS",
		logschema.FieldRunID, out.RunID,
		"recordings", len(out.Recordings),
	)
	return out, nil
}

func (p *Pipeline) logFailure(runID, recording, stage string, err error) {
	p.NotifyLoggers(
		types.ErrorLevel,
		"Stage failed",
		logschema.FieldComponent, p.componentMetadata,
		logschema.FieldEvent, "Process",
		logschema.FieldResult, "FAILURE",
		logschema.FieldRunID, runID,
		logschema.FieldRecording, recording,
		logschema.FieldStage, stage,
		logschema.FieldError, err,
	)
}
