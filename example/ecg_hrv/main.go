package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/joeydtaylor/ecgflow/pkg/builder"
)

func main() {
	configPath := flag.String("config", builder.EnvOr("ECGFLOW_CONFIG", ""), "YAML config file")
	envFile := flag.String("env", ".env", "dotenv file loaded before ECGFLOW_* overrides")
	monitorEvery := flag.Duration("monitor", 0, "log a meter snapshot at this interval (0 disables)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := builder.LoadConfig(*configPath, *envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	logger, err := builder.LoggerFromConfig(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(2)
	}
	defer logger.Flush()

	meter := builder.NewMeter(
		builder.MeterWithLogger(logger),
		builder.MeterWithComponentMetadata("ecg_hrv", "meter"),
	)
	if *monitorEvery > 0 {
		go meter.Monitor(ctx, *monitorEvery)
	}

	var (
		deps  builder.SinkDeps
		s3cli *s3.Client
	)
	if cfg.Input.S3Bucket != "" || cfg.Output.S3Bucket != "" {
		s3cli, err = builder.NewS3ClientFromConfig(ctx, cfg.AWS)
		if err != nil {
			logger.Fatal("S3 client", "error", err)
		}
		deps.S3 = s3cli
	}
	if len(cfg.Output.KafkaBrokers) > 0 {
		w, err := builder.NewKafkaWriterFromConfig(cfg.Output)
		if err != nil {
			logger.Fatal("Kafka writer", "error", err)
		}
		defer w.Close()
		deps.Kafka = w
	}

	set, err := builder.LoadRecordings(ctx, cfg.Input, s3cli)
	if err != nil {
		logger.Fatal("Load recordings", "error", err)
	}

	sinks, err := builder.SinksFromConfig(cfg.Output, deps)
	if err != nil {
		logger.Fatal("Build sinks", "error", err)
	}

	p := builder.NewPipeline(
		builder.PipelineWithConfig(cfg.Pipeline),
		builder.PipelineWithLogger(logger),
		builder.PipelineWithMeter(meter),
		builder.PipelineWithSink(sinks...),
		builder.PipelineWithComponentMetadata("ecg_hrv", ""),
	)

	start := time.Now()
	res, err := p.Run(ctx, set)
	if err != nil {
		logger.Error("Run failed", "error", err)
		os.Exit(1)
	}

	if cfg.Output.MeanBeats && cfg.Output.Dir != "" {
		f, _ := builder.ParseFormat(cfg.Output.Format)
		c, _ := builder.ParseCompression(cfg.Output.Compression)
		paths, err := builder.WriteMeanBeats(cfg.Output.Dir, res, f, c)
		if err != nil {
			logger.Error("Write mean beats", "error", err)
		}
		logger.Info("Mean beats written", "files", len(paths))
	}

	fmt.Printf("run %s: %d recordings in %s\n", res.RunID, len(res.Reports), time.Since(start).Round(time.Millisecond))
	fmt.Printf("%-16s %8s %8s %8s %8s %8s\n", "recording", "beats", "bpm", "hrv", "rmssd", "lf/hf")
	for _, r := range res.Reports {
		fmt.Printf("%-16s %8d %8.1f %8.4f %8.4f %8.3f\n", r.Name, r.Beats, r.MeanHeartRate, r.HRV, r.RMSSD, r.LFHFRatio)
	}
	meter.LogSnapshot("RunSummary")
}
