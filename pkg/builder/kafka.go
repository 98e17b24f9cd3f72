package builder

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	kafka "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/scram"

	"github.com/joeydtaylor/ecgflow/pkg/internal/config"
)

type KafkaWriterOption func(*kafka.Writer)

// NewKafkaGoWriter builds a synchronous kafka-go Writer for report messages. The default hash
// balancer keeps every report for a recording on one partition.
func NewKafkaGoWriter(brokers []string, topic string, opts ...KafkaWriterOption) *kafka.Writer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           200 * time.Millisecond,
		BatchBytes:             1 << 20,
		BatchSize:              100,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	for _, o := range opts {
		if o != nil {
			o(w)
		}
	}
	return w
}

func KafkaWriterWithBalancer(b kafka.Balancer) KafkaWriterOption {
	return func(w *kafka.Writer) { w.Balancer = b }
}

// KafkaWriterWithBatching overrides batch size and flush interval; zero keeps the current value.
func KafkaWriterWithBatching(size int, timeout time.Duration) KafkaWriterOption {
	return func(w *kafka.Writer) {
		if size > 0 {
			w.BatchSize = size
		}
		if timeout > 0 {
			w.BatchTimeout = timeout
		}
	}
}

func KafkaWriterWithRequiredAcks(acks kafka.RequiredAcks) KafkaWriterOption {
	return func(w *kafka.Writer) { w.RequiredAcks = acks }
}

func KafkaWriterWithTransport(t *kafka.Transport) KafkaWriterOption {
	return func(w *kafka.Writer) { w.Transport = t }
}

// ParseKafkaBalancer maps "hash" (or ""), "round_robin" and "least_bytes" to a balancer.
func ParseKafkaBalancer(name string) (kafka.Balancer, error) {
	switch strings.ToLower(strings.ReplaceAll(name, "-", "_")) {
	case "", "hash":
		return &kafka.Hash{}, nil
	case "round_robin", "roundrobin":
		return &kafka.RoundRobin{}, nil
	case "least_bytes", "leastbytes":
		return &kafka.LeastBytes{}, nil
	}
	return nil, fmt.Errorf("unknown kafka balancer %q", name)
}

// ParseKafkaAcks maps none/0, leader/1 and all/-1 (or "") to a kafka-go ack mode.
func ParseKafkaAcks(mode string) (kafka.RequiredAcks, error) {
	switch strings.ToLower(mode) {
	case "", "all", "-1":
		return kafka.RequireAll, nil
	case "leader", "1":
		return kafka.RequireOne, nil
	case "none", "0":
		return kafka.RequireNone, nil
	}
	return kafka.RequireAll, fmt.Errorf("unknown kafka required acks %q", mode)
}

// TLSFromCAFiles trusts the first regular file among candidates. serverName, when set, is
// used for SNI and hostname verification.
func TLSFromCAFiles(candidates []string, serverName string) (*tls.Config, error) {
	for _, p := range candidates {
		st, err := os.Stat(p)
		if err != nil || st.IsDir() {
			continue
		}
		pem, err := os.ReadFile(filepath.Clean(p))
		if err != nil {
			return nil, fmt.Errorf("read CA %s: %w", p, err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates in CA file %s", p)
		}
		return &tls.Config{MinVersion: tls.VersionTLS12, RootCAs: pool, ServerName: serverName}, nil
	}
	return nil, fmt.Errorf("no CA file found among %v", candidates)
}

// SASLSCRAM returns a SCRAM mechanism. mech is SCRAM-SHA-256 (default) or SCRAM-SHA-512;
// underscores are accepted in place of dashes.
func SASLSCRAM(user, pass, mech string) (sasl.Mechanism, error) {
	switch strings.ToUpper(strings.ReplaceAll(mech, "_", "-")) {
	case "", "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, user, pass)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, user, pass)
	}
	return nil, fmt.Errorf("unsupported SASL mechanism %q", mech)
}

// NewKafkaWriterFromConfig builds the report writer from the output section. A custom
// transport is only installed when TLS, SASL or a client id is configured.
func NewKafkaWriterFromConfig(out config.OutputConfig) (*kafka.Writer, error) {
	if len(out.KafkaBrokers) == 0 || out.KafkaTopic == "" {
		return nil, fmt.Errorf("kafka writer needs brokers and a topic")
	}
	k := out.Kafka

	balancer, err := ParseKafkaBalancer(k.Balancer)
	if err != nil {
		return nil, err
	}
	acks, err := ParseKafkaAcks(k.RequiredAcks)
	if err != nil {
		return nil, err
	}
	opts := []KafkaWriterOption{
		KafkaWriterWithBalancer(balancer),
		KafkaWriterWithRequiredAcks(acks),
		KafkaWriterWithBatching(k.BatchSize, k.BatchTimeout),
	}

	var transport *kafka.Transport
	if len(k.CAFiles) > 0 {
		tlsCfg, err := TLSFromCAFiles(k.CAFiles, k.ServerName)
		if err != nil {
			return nil, err
		}
		transport = &kafka.Transport{TLS: tlsCfg}
	}
	if k.SASLUser != "" {
		mech, err := SASLSCRAM(k.SASLUser, k.SASLPass, k.SASLMechanism)
		if err != nil {
			return nil, err
		}
		if transport == nil {
			transport = &kafka.Transport{}
		}
		transport.SASL = mech
	}
	if k.ClientID != "" {
		if transport == nil {
			transport = &kafka.Transport{}
		}
		transport.ClientID = k.ClientID
	}
	if transport != nil {
		opts = append(opts, KafkaWriterWithTransport(transport))
	}
	return NewKafkaGoWriter(out.KafkaBrokers, out.KafkaTopic, opts...), nil
}
