// Package config loads ecgflow settings from YAML, a .env file and ECGFLOW_* environment
// variables, in that order of increasing precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/joeydtaylor/ecgflow/pkg/internal/types"
)

// EnvPrefix starts every environment override.
const EnvPrefix = "ECGFLOW_"

type Config struct {
	Pipeline types.PipelineConfig `yaml:"pipeline"`
	Input    InputConfig          `yaml:"input"`
	Output   OutputConfig         `yaml:"output"`
	AWS      AWSConfig            `yaml:"aws"`
	Log      LogConfig            `yaml:"log"`
}

// InputConfig selects where recordings are read from. Dir wins over Archive, which wins over
// S3Bucket.
type InputConfig struct {
	Dir      string `yaml:"dir"`
	Archive  string `yaml:"archive"`
	S3Bucket string `yaml:"s3_bucket"`
	S3Prefix string `yaml:"s3_prefix"`
}

// OutputConfig selects where reports go. Every non-empty destination gets a sink.
type OutputConfig struct {
	Dir          string      `yaml:"dir"`
	Format       string      `yaml:"format"`      // parquet | ndjson
	Compression  string      `yaml:"compression"` // none | gzip | zstd | snappy | lz4 | brotli
	MeanBeats    bool        `yaml:"mean_beats"`  // also write mean beat tables to Dir
	S3Bucket     string      `yaml:"s3_bucket"`
	S3Prefix     string      `yaml:"s3_prefix"`
	SSEMode      string      `yaml:"sse_mode"`
	KMSKeyID     string      `yaml:"kms_key_id"`
	KafkaBrokers []string    `yaml:"kafka_brokers"`
	KafkaTopic   string      `yaml:"kafka_topic"`
	Kafka        KafkaConfig `yaml:",inline"`
}

// KafkaConfig tunes the report writer. CAFiles enables TLS using the first file that exists;
// SASLUser enables SCRAM authentication.
type KafkaConfig struct {
	ClientID      string        `yaml:"kafka_client_id"`
	CAFiles       []string      `yaml:"kafka_ca_files"`
	ServerName    string        `yaml:"kafka_server_name"`
	SASLUser      string        `yaml:"kafka_sasl_user"`
	SASLPass      string        `yaml:"kafka_sasl_pass"`
	SASLMechanism string        `yaml:"kafka_sasl_mechanism"` // SCRAM-SHA-256 | SCRAM-SHA-512
	RequiredAcks  string        `yaml:"kafka_required_acks"`  // none | leader | all
	Balancer      string        `yaml:"kafka_balancer"`       // hash | round_robin | least_bytes
	BatchSize     int           `yaml:"kafka_batch_size"`
	BatchTimeout  time.Duration `yaml:"kafka_batch_timeout"`
}

// AWSConfig builds the S3 client. An empty AccessKey uses the default credential chain;
// RoleARN adds an STS assume-role hop.
type AWSConfig struct {
	Region         string `yaml:"region"`
	Endpoint       string `yaml:"endpoint"`
	AccessKey      string `yaml:"access_key"`
	SecretKey      string `yaml:"secret_key"`
	SessionToken   string `yaml:"session_token"`
	RoleARN        string `yaml:"role_arn"`
	SessionName    string `yaml:"session_name"`
	ExternalID     string `yaml:"external_id"`
	ForcePathStyle bool   `yaml:"force_path_style"`
	// WebIdentityTokenFile with RoleARN assumes the role through an OIDC token (EKS IRSA).
	WebIdentityTokenFile string `yaml:"web_identity_token_file"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
	File        string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Pipeline: types.DefaultPipelineConfig(),
		Output: OutputConfig{
			Format:      "parquet",
			Compression: "snappy",
		},
		AWS: AWSConfig{Region: "us-east-1", SessionName: "ecgflow"},
		Log: LogConfig{Level: "info"},
	}
}

// Load starts from Default, overlays the YAML file at path (skipped when empty), loads envFile
// into the process environment (skipped when empty or missing) and applies ECGFLOW_* overrides.
func Load(path, envFile string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := Decode(bytes.NewReader(data), &cfg); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	}
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("env file %s: %w", envFile, err)
		}
	}
	ApplyEnv(&cfg)
	return cfg, cfg.Validate()
}

// Decode overlays YAML from r onto cfg. Unknown keys are rejected.
func Decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv overrides cfg from ECGFLOW_* variables.
func ApplyEnv(cfg *Config) {
	p := &cfg.Pipeline
	p.SampleRate = EnvFloatOr(EnvPrefix+"SAMPLE_RATE", p.SampleRate)
	p.SpikeThreshold = EnvFloatOr(EnvPrefix+"SPIKE_THRESHOLD", p.SpikeThreshold)
	p.SpikeBoundary = EnvOr(EnvPrefix+"SPIKE_BOUNDARY", p.SpikeBoundary)
	p.SpikeMode = EnvOr(EnvPrefix+"SPIKE_MODE", p.SpikeMode)
	p.ScaleFactor = EnvFloatOr(EnvPrefix+"SCALE_FACTOR", p.ScaleFactor)
	p.MaxDurationSec = EnvFloatOr(EnvPrefix+"MAX_DURATION_SEC", p.MaxDurationSec)
	p.FilterLow = EnvFloatOr(EnvPrefix+"FILTER_LOW", p.FilterLow)
	p.FilterHigh = EnvFloatOr(EnvPrefix+"FILTER_HIGH", p.FilterHigh)
	p.FilterTaps = EnvIntOr(EnvPrefix+"FILTER_TAPS", p.FilterTaps)
	p.BeatHeight = EnvFloatOr(EnvPrefix+"BEAT_HEIGHT", p.BeatHeight)
	p.BeatFlipped = EnvBoolOr(EnvPrefix+"BEAT_FLIPPED", p.BeatFlipped)
	p.BeatMinDistance = EnvFloatOr(EnvPrefix+"BEAT_MIN_DISTANCE", p.BeatMinDistance)
	p.ResampleStep = EnvFloatOr(EnvPrefix+"RESAMPLE_STEP", p.ResampleStep)
	p.WelchNFFT = EnvIntOr(EnvPrefix+"WELCH_NFFT", p.WelchNFFT)
	p.TrialDuration = EnvFloatOr(EnvPrefix+"TRIAL_DURATION", p.TrialDuration)
	p.Concurrency = EnvIntOr(EnvPrefix+"CONCURRENCY", p.Concurrency)

	in := &cfg.Input
	in.Dir = EnvOr(EnvPrefix+"INPUT_DIR", in.Dir)
	in.Archive = EnvOr(EnvPrefix+"INPUT_ARCHIVE", in.Archive)
	in.S3Bucket = EnvOr(EnvPrefix+"INPUT_S3_BUCKET", in.S3Bucket)
	in.S3Prefix = EnvOr(EnvPrefix+"INPUT_S3_PREFIX", in.S3Prefix)

	out := &cfg.Output
	out.Dir = EnvOr(EnvPrefix+"OUTPUT_DIR", out.Dir)
	out.Format = EnvOr(EnvPrefix+"OUTPUT_FORMAT", out.Format)
	out.Compression = EnvOr(EnvPrefix+"OUTPUT_COMPRESSION", out.Compression)
	out.MeanBeats = EnvBoolOr(EnvPrefix+"OUTPUT_MEAN_BEATS", out.MeanBeats)
	out.S3Bucket = EnvOr(EnvPrefix+"OUTPUT_S3_BUCKET", out.S3Bucket)
	out.S3Prefix = EnvOr(EnvPrefix+"OUTPUT_S3_PREFIX", out.S3Prefix)
	out.SSEMode = EnvOr(EnvPrefix+"OUTPUT_SSE_MODE", out.SSEMode)
	out.KMSKeyID = EnvOr(EnvPrefix+"OUTPUT_KMS_KEY_ID", out.KMSKeyID)
	out.KafkaBrokers = EnvListOr(EnvPrefix+"KAFKA_BROKERS", out.KafkaBrokers)
	out.KafkaTopic = EnvOr(EnvPrefix+"KAFKA_TOPIC", out.KafkaTopic)
	k := &out.Kafka
	k.ClientID = EnvOr(EnvPrefix+"KAFKA_CLIENT_ID", k.ClientID)
	k.CAFiles = EnvListOr(EnvPrefix+"KAFKA_CA_FILES", k.CAFiles)
	k.ServerName = EnvOr(EnvPrefix+"KAFKA_SERVER_NAME", k.ServerName)
	k.SASLUser = EnvOr(EnvPrefix+"KAFKA_SASL_USER", k.SASLUser)
	k.SASLPass = EnvOr(EnvPrefix+"KAFKA_SASL_PASS", k.SASLPass)
	k.SASLMechanism = EnvOr(EnvPrefix+"KAFKA_SASL_MECHANISM", k.SASLMechanism)
	k.RequiredAcks = EnvOr(EnvPrefix+"KAFKA_REQUIRED_ACKS", k.RequiredAcks)
	k.Balancer = EnvOr(EnvPrefix+"KAFKA_BALANCER", k.Balancer)
	k.BatchSize = EnvIntOr(EnvPrefix+"KAFKA_BATCH_SIZE", k.BatchSize)
	k.BatchTimeout = EnvDurationOr(EnvPrefix+"KAFKA_BATCH_TIMEOUT", k.BatchTimeout)

	a := &cfg.AWS
	a.Region = EnvOr(EnvPrefix+"AWS_REGION", a.Region)
	a.Endpoint = EnvOr(EnvPrefix+"AWS_ENDPOINT", a.Endpoint)
	a.AccessKey = EnvOr(EnvPrefix+"AWS_ACCESS_KEY_ID", a.AccessKey)
	a.SecretKey = EnvOr(EnvPrefix+"AWS_SECRET_ACCESS_KEY", a.SecretKey)
	a.SessionToken = EnvOr(EnvPrefix+"AWS_SESSION_TOKEN", a.SessionToken)
	a.RoleARN = EnvOr(EnvPrefix+"AWS_ROLE_ARN", a.RoleARN)
	a.SessionName = EnvOr(EnvPrefix+"AWS_SESSION_NAME", a.SessionName)
	a.ExternalID = EnvOr(EnvPrefix+"AWS_EXTERNAL_ID", a.ExternalID)
	a.WebIdentityTokenFile = EnvOr(EnvPrefix+"AWS_WEB_IDENTITY_TOKEN_FILE", a.WebIdentityTokenFile)
	a.ForcePathStyle = EnvBoolOr(EnvPrefix+"AWS_FORCE_PATH_STYLE", a.ForcePathStyle)

	cfg.Log.Level = EnvOr(EnvPrefix+"LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Development = EnvBoolOr(EnvPrefix+"LOG_DEVELOPMENT", cfg.Log.Development)
	cfg.Log.File = EnvOr(EnvPrefix+"LOG_FILE", cfg.Log.File)
}

// Validate rejects settings the pipeline cannot run with.
func (c Config) Validate() error {
	p := c.Pipeline.WithDefaults()
	if p.SampleRate <= 0 {
		return fmt.Errorf("pipeline.sample_rate: %w", types.ErrInvalidSampleRate)
	}
	if p.FilterTaps < 3 || p.FilterTaps%2 == 0 {
		return fmt.Errorf("pipeline.filter_taps=%d: %w", p.FilterTaps, types.ErrInvalidTaps)
	}
	if !(p.FilterLow > 0 && p.FilterLow < p.FilterHigh && p.FilterHigh < p.SampleRate/2) {
		return fmt.Errorf("pipeline.filter_low/filter_high: %w", types.ErrInvalidBand)
	}
	if p.ResampleStep < 0 || p.TrialDuration < 0 || p.Concurrency < 0 {
		return errors.New("pipeline: negative step, duration or concurrency")
	}
	if c.Output.S3Bucket != "" && c.AWS.Region == "" {
		return errors.New("aws.region is required for S3 output")
	}
	if len(c.Output.KafkaBrokers) > 0 && c.Output.KafkaTopic == "" {
		return errors.New("output.kafka_topic is required with kafka_brokers")
	}
	if k := c.Output.Kafka; k.SASLUser != "" && k.SASLPass == "" {
		return errors.New("output.kafka_sasl_pass is required with kafka_sasl_user")
	}
	if c.Output.Kafka.BatchSize < 0 || c.Output.Kafka.BatchTimeout < 0 {
		return errors.New("output: negative kafka batch size or timeout")
	}
	if c.AWS.WebIdentityTokenFile != "" && c.AWS.RoleARN == "" {
		return errors.New("aws.role_arn is required with web_identity_token_file")
	}
	return nil
}
