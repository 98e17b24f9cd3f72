package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/joeydtaylor/ecgflow/pkg/builder"
)

const fs = 500.0

// synthesize builds a raw ADC trace: baseline 512, an R wave per beat, breathing-rate jitter
// on the intervals and an occasional dropout spike.
func synthesize(seconds, bpm float64, rng *rand.Rand) builder.Signal {
	n := int(seconds * fs)
	sig := make(builder.Signal, n)
	for i := range sig {
		sig[i] = 512 + rng.NormFloat64()*2
	}
	ibi := 60 / bpm
	for t := 0.5; t < seconds-0.5; t += ibi + 0.04*math.Sin(2*math.Pi*0.25*t) + 0.03*math.Sin(2*math.Pi*0.08*t) {
		b := int(t * fs)
		for i := b - 30; i <= b+30 && i < n; i++ {
			d := float64(i - b)
			// Inverted R wave, as recorded by the chest strap.
			sig[i] -= 350 * math.Exp(-d*d/32)
		}
	}
	for k := 0; k < 3; k++ {
		sig[1+rng.Intn(n-2)] = 1023 + 200*rng.Float64()
	}
	return sig
}

func main() {
	rng := rand.New(rand.NewSource(7))
	raw := builder.NamedSignalSet{
		"rest":     synthesize(120, 62, rng),
		"exercise": synthesize(120, 110, rng),
	}
	cfg := builder.DefaultPipelineConfig()

	// Stage by stage on one recording.
	clean, spikes, err := builder.RemoveSpikes(raw, cfg.SampleRate, cfg.SpikeThreshold, cfg.SpikeBoundary, cfg.SpikeMode)
	if err != nil {
		panic(err)
	}
	fmt.Printf("corrected %d spikes: %v\n", spikes.Total(), spikes.Times)

	ir, err := builder.DesignBandPass(cfg.FilterLow, cfg.FilterHigh, cfg.FilterTaps, cfg.SampleRate)
	if err != nil {
		panic(err)
	}
	resp, _ := builder.FilterResponse(ir, cfg.SampleRate)
	fmt.Printf("filter: %d taps, %d response bins\n", len(ir), len(resp.Frequencies))

	rest := clean["rest"]
	for i := range rest {
		rest[i] *= cfg.ScaleFactor
	}
	filtered, err := builder.ApplyFilter(rest, ir)
	if err != nil {
		panic(err)
	}
	beats, err := builder.FindBeats(filtered, cfg.SampleRate, cfg.BeatHeight, cfg.BeatFlipped, 0.25)
	if err != nil {
		panic(err)
	}
	h, err := builder.ComputeHRV(beats, cfg.SampleRate)
	if err != nil {
		panic(err)
	}
	fmt.Printf("rest: %d beats, %.1f bpm, HRV %.4f s\n", len(beats), h.MeanHeartRate, h.HRV)

	// Whole pipeline on both recordings.
	cfg.BeatMinDistance = 0.25
	logger := builder.NewLogger(builder.LoggerWithLevel("info"), builder.LoggerWithDevelopment(true))
	meter := builder.NewMeter(builder.MeterWithHostStats(false))
	p := builder.NewPipeline(
		builder.PipelineWithConfig(cfg),
		builder.PipelineWithLogger(logger),
		builder.PipelineWithMeter(meter),
	)
	res, err := p.Run(context.Background(), raw)
	if err != nil {
		panic(err)
	}
	for _, r := range res.Reports {
		fmt.Printf("%-9s beats=%3d bpm=%6.1f hrv=%.4f lf/hf=%.3f\n", r.Name, r.Beats, r.MeanHeartRate, r.HRV, r.LFHFRatio)
	}
	for stage, d := range res.Meter.StageDurations {
		fmt.Printf("  %-10s %s\n", stage, d)
	}
}
