//go:build integration

package integration_test

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/couchcryptid/xmrg-etl/internal/adapter/filesystem"
	"github.com/couchcryptid/xmrg-etl/internal/adapter/kafka"
	"github.com/couchcryptid/xmrg-etl/internal/config"
	"github.com/couchcryptid/xmrg-etl/internal/domain"
	"github.com/couchcryptid/xmrg-etl/internal/observability"
	"github.com/couchcryptid/xmrg-etl/internal/pipeline"
	"github.com/couchcryptid/xmrg-etl/internal/xmrg"
	"github.com/couchcryptid/xmrg-etl/internal/xmrg/xmrgtest"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const testSinkTopic = "test-sink"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("xmrg-etl-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close()

	ctrl, err := conn.Controller()
	require.NoError(t, err, "controller")

	c, err := kafkago.Dial("tcp", net.JoinHostPort(ctrl.Host, strconv.Itoa(ctrl.Port)))
	require.NoError(t, err, "dial controller")
	defer c.Close()

	require.NoError(t, c.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// sinkMessage holds a deserialized message read from the sink topic.
type sinkMessage struct {
	Observation domain.Observation
	Key         string
	Headers     map[string]string
}

func readSink(ctx context.Context, t *testing.T, consumer *kafkago.Reader) sinkMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var obs domain.Observation
	require.NoError(t, json.Unmarshal(msg.Value, &obs), "unmarshal sink message")

	return sinkMessage{Observation: obs, Key: string(msg.Key), Headers: headers}
}

// TestPipelineEndToEnd wires the scanner, decoder and Kafka writer against a
// real broker and checks every measured cell of a legacy file arrives once.
func TestPipelineEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSinkTopic)

	inDir, doneDir := t.TempDir(), t.TempDir()
	xmrgtest.WriteFile(t, inDir, "xmrg0506199516z.gz", xmrgtest.Gzip(t, xmrgtest.File{
		Order:   binary.LittleEndian,
		OriginX: 367,
		OriginY: 263,
		Samples: [][]int16{{0, 150, -1}, {-999, 320, 5000}},
	}.Bytes()))
	xmrgtest.WriteFile(t, inDir, "xmrg0506199517z", xmrgtest.File{
		Marker:  66,
		Payload: make([]byte, 66),
	}.Bytes())

	cfg := &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSinkTopic:     testSinkTopic,
		BatchSize:          2,
		BatchFlushInterval: 50 * time.Millisecond,
	}

	scanner, err := filesystem.NewScanner(inDir, "xmrg*", doneDir, discardLogger())
	require.NoError(t, err)

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(scanner, pipeline.NewDecoder(discardLogger()), writer, discardLogger(), metrics, pipeline.Options{
		BatchSize:    cfg.BatchSize,
		PollInterval: 100 * time.Millisecond,
		SkipNoData:   true,
	})

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	const measured = 4
	received := make(map[domain.HRAP]sinkMessage, measured)
	for len(received) < measured {
		m := readSink(ctx, t, consumer)
		received[m.Observation.HRAP] = m
	}

	// Nothing else: both no-data cells are dropped and the build5 file is skipped.
	readCtx, readCancel := context.WithTimeout(ctx, 3*time.Second)
	_, err = consumer.ReadMessage(readCtx)
	readCancel()
	assert.Error(t, err, "expected no further messages on sink topic")

	pipelineCancel()
	require.NoError(t, <-errCh)

	want := map[domain.HRAP]float64{
		{X: 367, Y: 263}: 0,
		{X: 368, Y: 263}: 1.5,
		{X: 368, Y: 264}: 3.2,
		{X: 369, Y: 264}: 50,
	}
	observedAt := time.Date(1995, time.May, 6, 16, 0, 0, 0, time.UTC)
	for cell, mm := range want {
		m, ok := received[cell]
		require.True(t, ok, "missing cell %+v", cell)
		assert.InDelta(t, mm, m.Observation.PrecipMM, 1e-9)
		assert.Equal(t, m.Observation.ID, m.Key)
		assert.Equal(t, observedAt, m.Observation.ObservedAt)
		assert.Equal(t, "xmrg0506199516z.gz", m.Headers["source_file"])
		assert.Equal(t, "legacy", m.Headers["format_version"])
		assert.Equal(t, "1995-05-06T16:00:00Z", m.Headers["observed_at"])

		pt := xmrg.HRAPToLatLon(float64(cell.X), float64(cell.Y))
		assert.InDelta(t, pt.Lat, m.Observation.Geo.Lat, 1e-9)
		assert.InDelta(t, pt.EastLongitude(), m.Observation.Geo.Lon, 1e-9)
	}
	assert.Equal(t, "violent", received[domain.HRAP{X: 369, Y: 264}].Observation.Intensity)

	summary, ok := p.LastRun()
	require.True(t, ok)
	assert.Equal(t, "xmrg0506199516z.gz", summary.Source)
	assert.Equal(t, measured, summary.Published)
	require.NoError(t, p.CheckReadiness(ctx))

	entries, err := os.ReadDir(doneDir)
	require.NoError(t, err)
	var done []string
	for _, e := range entries {
		done = append(done, e.Name())
	}
	assert.ElementsMatch(t, []string{"xmrg0506199516z.gz", "xmrg0506199517z"}, done)
}
