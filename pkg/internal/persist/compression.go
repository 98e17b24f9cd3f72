// Package persist encodes pipeline reports as Parquet or NDJSON and ships them to files, S3 or
// Kafka.
package persist

import (
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"

	"github.com/joeydtaylor/ecgflow/pkg/internal/types"
)

// Compression names a stream codec.
type Compression string

const (
	CompressionNone   Compression = "none"
	CompressionGzip   Compression = "gzip"
	CompressionZstd   Compression = "zstd"
	CompressionSnappy Compression = "snappy"
	CompressionLZ4    Compression = "lz4"
	CompressionBrotli Compression = "brotli"
)

// ParseCompression accepts the codec names above plus "" and "gz".
func ParseCompression(s string) (Compression, error) {
	switch c := Compression(strings.ToLower(strings.TrimSpace(s))); c {
	case "", CompressionNone:
		return CompressionNone, nil
	case "gz":
		return CompressionGzip, nil
	case CompressionGzip, CompressionZstd, CompressionSnappy, CompressionLZ4, CompressionBrotli:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", types.ErrUnknownCompression, s)
	}
}

// Extension is the file suffix appended for a compressed stream.
func (c Compression) Extension() string {
	switch c {
	case CompressionGzip:
		return ".gz"
	case CompressionZstd:
		return ".zst"
	case CompressionSnappy:
		return ".sz"
	case CompressionLZ4:
		return ".lz4"
	case CompressionBrotli:
		return ".br"
	default:
		return ""
	}
}

// ContentEncoding is the HTTP Content-Encoding for the codec, empty for none.
func (c Compression) ContentEncoding() string {
	switch c {
	case CompressionGzip:
		return "gzip"
	case CompressionZstd:
		return "zstd"
	case CompressionBrotli:
		return "br"
	case CompressionSnappy, CompressionLZ4:
		return string(c)
	default:
		return ""
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// NewWriter wraps w so bytes written are compressed with c. Close flushes the codec but does
// not close w.
func NewWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case "", CompressionNone:
		return nopWriteCloser{w}, nil
	case CompressionGzip:
		return gzip.NewWriter(w), nil
	case CompressionZstd:
		return zstd.NewWriter(w)
	case CompressionSnappy:
		return snappy.NewBufferedWriter(w), nil
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	case CompressionBrotli:
		return brotli.NewWriterLevel(w, brotli.DefaultCompression), nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownCompression, c)
	}
}

// NewReader returns a reader that decompresses r with c.
func NewReader(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case "", CompressionNone:
		return io.NopCloser(r), nil
	case CompressionGzip:
		return gzip.NewReader(r)
	case CompressionZstd:
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return d.IOReadCloser(), nil
	case CompressionSnappy:
		return io.NopCloser(snappy.NewReader(r)), nil
	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case CompressionBrotli:
		return io.NopCloser(brotli.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownCompression, c)
	}
}
