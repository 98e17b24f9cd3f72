package builder

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joeydtaylor/ecgflow/pkg/internal/config"
	"github.com/joeydtaylor/ecgflow/pkg/internal/persist"
	"github.com/joeydtaylor/ecgflow/pkg/internal/types"
)

type (
	Format      = persist.Format
	Compression = persist.Compression
	MeanBeatRow = types.MeanBeatRow
)

// ParseFormat accepts "parquet" and "ndjson"; "" is parquet.
func ParseFormat(s string) (persist.Format, error) {
	return persist.ParseFormat(s)
}

// ParseCompression accepts none, gzip, zstd, snappy, lz4 and brotli.
func ParseCompression(s string) (persist.Compression, error) {
	return persist.ParseCompression(s)
}

// NewFileSink writes each batch of reports to a new file in dir.
func NewFileSink(dir string, f persist.Format, c persist.Compression) *persist.FileSink {
	return persist.NewFileSink(dir, f, c)
}

// NewS3Sink uploads each batch of reports as one object.
func NewS3Sink(cli persist.ObjectPutter, bucket, prefixTemplate string, f persist.Format, c persist.Compression) *persist.S3Sink {
	return persist.NewS3Sink(cli, bucket, prefixTemplate, f, c)
}

// NewKafkaSink publishes one message per report keyed by recording name.
func NewKafkaSink(w persist.MessageWriter, topic string) *persist.KafkaSink {
	return persist.NewKafkaSink(w, topic)
}

// SinkDeps carries the clients sinks are built on. Nil clients disable the matching sink.
type SinkDeps struct {
	S3    persist.ObjectPutter
	Kafka persist.MessageWriter
}

// SinksFromConfig builds one sink per configured output destination.
func SinksFromConfig(out config.OutputConfig, deps SinkDeps) ([]types.ReportSink, error) {
	f, err := persist.ParseFormat(out.Format)
	if err != nil {
		return nil, err
	}
	c, err := persist.ParseCompression(out.Compression)
	if err != nil {
		return nil, err
	}

	var sinks []types.ReportSink
	if out.Dir != "" {
		sinks = append(sinks, persist.NewFileSink(out.Dir, f, c))
	}
	if out.S3Bucket != "" {
		if deps.S3 == nil {
			return nil, fmt.Errorf("output.s3_bucket set without an S3 client")
		}
		s := persist.NewS3Sink(deps.S3, out.S3Bucket, out.S3Prefix, f, c)
		s.SSEMode = out.SSEMode
		s.KMSKeyID = out.KMSKeyID
		sinks = append(sinks, s)
	}
	if out.KafkaTopic != "" && deps.Kafka != nil {
		sinks = append(sinks, persist.NewKafkaSink(deps.Kafka, ""))
	}
	return sinks, nil
}

// WriteMeanBeats writes one mean beat table per recording into dir and returns the paths.
func WriteMeanBeats(dir string, res types.PipelineResult, f persist.Format, c persist.Compression) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	var paths []string
	for _, r := range res.Recordings {
		if r.MeanBeat.Trials == 0 {
			continue
		}
		p, err := persist.Encode(f, c, persist.MeanBeatRows(r.Name, r.MeanBeat))
		if err != nil {
			return paths, err
		}
		full := filepath.Join(dir, "meanbeat-"+r.Name+p.Extension)
		if err := os.WriteFile(full, p.Body, 0o644); err != nil {
			return paths, err
		}
		paths = append(paths, full)
	}
	sort.Strings(paths)
	return paths, nil
}
