package persist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	parquet "github.com/parquet-go/parquet-go"
)

// Format names a table encoding.
type Format string

const (
	FormatParquet Format = "parquet"
	FormatNDJSON  Format = "ndjson"
)

// ParseFormat accepts "parquet" and "ndjson"/"jsonl"; "" is parquet.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "parquet":
		return FormatParquet, nil
	case "ndjson", "jsonl":
		return FormatNDJSON, nil
	default:
		return "", fmt.Errorf("persist: unknown format %q", s)
	}
}

// parquetCodec maps a stream codec onto a Parquet page codec. Parquet compresses pages itself,
// so the file is never wrapped in an outer stream.
func parquetCodec(c Compression) parquet.WriterOption {
	switch c {
	case CompressionNone:
		return parquet.Compression(&parquet.Uncompressed)
	case CompressionGzip:
		return parquet.Compression(&parquet.Gzip)
	case CompressionZstd:
		return parquet.Compression(&parquet.Zstd)
	case CompressionLZ4:
		return parquet.Compression(&parquet.Lz4Raw)
	case CompressionBrotli:
		return parquet.Compression(&parquet.Brotli)
	default:
		return parquet.Compression(&parquet.Snappy)
	}
}

// WriteParquet writes rows as one Parquet file with c as the page codec.
func WriteParquet[T any](w io.Writer, rows []T, c Compression) error {
	pw := parquet.NewGenericWriter[T](w, parquetCodec(c))
	if len(rows) > 0 {
		if _, err := pw.Write(rows); err != nil {
			return err
		}
	}
	return pw.Close()
}

// ReadParquet reads every row of a Parquet file.
func ReadParquet[T any](r io.ReaderAt, size int64) ([]T, error) {
	return parquet.Read[T](r, size)
}

// WriteNDJSON writes one JSON document per line through the c stream codec.
func WriteNDJSON[T any](w io.Writer, rows []T, c Compression) error {
	zw, err := NewWriter(w, c)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(zw)
	for i := range rows {
		if err := enc.Encode(rows[i]); err != nil {
			_ = zw.Close()
			return err
		}
	}
	return zw.Close()
}

// ReadNDJSON decodes a stream written by WriteNDJSON.
func ReadNDJSON[T any](r io.Reader, c Compression) ([]T, error) {
	zr, err := NewReader(r, c)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var out []T
	dec := json.NewDecoder(zr)
	for dec.More() {
		var v T
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Payload is an encoded table ready to be stored.
type Payload struct {
	Body            []byte
	Extension       string // e.g. ".parquet" or ".ndjson.zst"
	ContentType     string
	ContentEncoding string // empty when the body is not stream-compressed
}

// Encode renders rows in format f with compression c.
func Encode[T any](f Format, c Compression, rows []T) (Payload, error) {
	var buf bytes.Buffer
	switch f {
	case FormatNDJSON:
		if err := WriteNDJSON(&buf, rows, c); err != nil {
			return Payload{}, err
		}
		return Payload{
			Body:            buf.Bytes(),
			Extension:       ".ndjson" + c.Extension(),
			ContentType:     "application/x-ndjson",
			ContentEncoding: c.ContentEncoding(),
		}, nil
	case FormatParquet:
		if err := WriteParquet(&buf, rows, c); err != nil {
			return Payload{}, err
		}
		return Payload{
			Body:        buf.Bytes(),
			Extension:   ".parquet",
			ContentType: "application/parquet",
		}, nil
	default:
		return Payload{}, fmt.Errorf("persist: unknown format %q", f)
	}
}
