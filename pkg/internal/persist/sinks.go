package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	kafka "github.com/segmentio/kafka-go"

	"github.com/joeydtaylor/ecgflow/pkg/internal/types"
	"github.com/joeydtaylor/ecgflow/pkg/internal/utils"
)

// DefaultFileName is the object/file name template used when none is set.
const DefaultFileName = "hrv-{ts}-{uid}"

// FileSink writes each batch of reports to a new file under Dir.
type FileSink struct {
	Dir          string
	Format       Format
	Compression  Compression
	FileNameTmpl string
	Now          func() time.Time

	last string
}

// NewFileSink returns a sink writing format f with compression c into dir.
func NewFileSink(dir string, f Format, c Compression) *FileSink {
	return &FileSink{Dir: dir, Format: f, Compression: c, FileNameTmpl: DefaultFileName, Now: time.Now}
}

func (s *FileSink) Name() string { return "file:" + s.Dir }

// LastPath returns the path written by the most recent Write.
func (s *FileSink) LastPath() string { return s.last }

func (s *FileSink) Write(ctx context.Context, reports []types.RecordingReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := Encode(s.Format, s.Compression, reports)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	name := utils.RenderTemplate(nonEmpty(s.FileNameTmpl, DefaultFileName), now(s.Now), nil) + p.Extension
	full := filepath.Join(s.Dir, name)
	if err := os.WriteFile(full, p.Body, 0o644); err != nil {
		return err
	}
	s.last = full
	return nil
}

// ObjectPutter is the subset of *s3.Client the S3 sink needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads each batch of reports as one object.
type S3Sink struct {
	Client         ObjectPutter
	Bucket         string
	PrefixTemplate string // e.g. "ecg/{yyyy}/{MM}/{dd}/"
	FileNameTmpl   string
	Format         Format
	Compression    Compression
	SSEMode        string // "" | "AES256" | "aws:kms"
	KMSKeyID       string
	Now            func() time.Time
}

// NewS3Sink returns a sink writing into bucket under prefixTemplate.
func NewS3Sink(cli ObjectPutter, bucket, prefixTemplate string, f Format, c Compression) *S3Sink {
	return &S3Sink{
		Client:         cli,
		Bucket:         bucket,
		PrefixTemplate: prefixTemplate,
		FileNameTmpl:   DefaultFileName,
		Format:         f,
		Compression:    c,
		Now:            time.Now,
	}
}

func (s *S3Sink) Name() string { return "s3://" + s.Bucket + "/" + s.PrefixTemplate }

// Key renders the object key for time t and extension ext.
func (s *S3Sink) Key(t time.Time, ext string) string {
	prefix := utils.RenderTemplate(s.PrefixTemplate, t, nil)
	name := utils.RenderTemplate(nonEmpty(s.FileNameTmpl, DefaultFileName), t, nil)
	return strings.TrimPrefix(path.Join(prefix, name+ext), "/")
}

func (s *S3Sink) Write(ctx context.Context, reports []types.RecordingReport) error {
	if s.Client == nil || s.Bucket == "" {
		return fmt.Errorf("persist: S3 sink requires client and bucket")
	}
	p, err := Encode(s.Format, s.Compression, reports)
	if err != nil {
		return err
	}
	key := s.Key(now(s.Now), p.Extension)
	put := &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(p.Body),
		ContentType: aws.String(p.ContentType),
	}
	if p.ContentEncoding != "" {
		put.ContentEncoding = aws.String(p.ContentEncoding)
	}
	switch strings.ToLower(s.SSEMode) {
	case "aes256":
		put.ServerSideEncryption = s3types.ServerSideEncryptionAes256
	case "aws:kms":
		put.ServerSideEncryption = s3types.ServerSideEncryptionAwsKms
		if s.KMSKeyID != "" {
			put.SSEKMSKeyId = aws.String(s.KMSKeyID)
		}
	}
	if _, err := s.Client.PutObject(ctx, put); err != nil {
		return fmt.Errorf("persist: put s3://%s/%s: %w", s.Bucket, key, err)
	}
	return nil
}

// MessageWriter is the subset of *kafka.Writer the Kafka sink needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaSink publishes one JSON message per report, keyed by recording name.
type KafkaSink struct {
	Writer  MessageWriter
	Topic   string // empty when the writer carries the topic
	Headers map[string]string
}

// NewKafkaSink returns a sink producing through w.
func NewKafkaSink(w MessageWriter, topic string) *KafkaSink {
	return &KafkaSink{Writer: w, Topic: topic}
}

func (s *KafkaSink) Name() string { return "kafka:" + s.Topic }

func (s *KafkaSink) Write(ctx context.Context, reports []types.RecordingReport) error {
	if s.Writer == nil {
		return fmt.Errorf("persist: Kafka sink requires a writer")
	}
	if len(reports) == 0 {
		return nil
	}
	headers := make([]kafka.Header, 0, len(s.Headers)+1)
	headers = append(headers, kafka.Header{Key: "content-type", Value: []byte("application/json")})
	for k, v := range s.Headers {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}

	msgs := make([]kafka.Message, 0, len(reports))
	for _, r := range reports {
		b, err := json.Marshal(r)
		if err != nil {
			return err
		}
		msgs = append(msgs, kafka.Message{
			Topic:   s.Topic,
			Key:     []byte(r.Name),
			Value:   b,
			Headers: headers,
		})
	}
	return s.Writer.WriteMessages(ctx, msgs...)
}

// MeanBeatRows flattens an ensemble average into table rows.
func MeanBeatRows(name string, avg types.EnsembleAverage) []types.MeanBeatRow {
	rows := make([]types.MeanBeatRow, len(avg.Mean))
	for i := range rows {
		rows[i] = types.MeanBeatRow{Name: name, Time: avg.Time[i], Mean: avg.Mean[i], Std: avg.Std[i]}
	}
	return rows
}

func now(f func() time.Time) time.Time {
	if f == nil {
		return time.Now()
	}
	return f()
}

func nonEmpty(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
