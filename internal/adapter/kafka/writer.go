package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/quake-map-service/internal/config"
	"github.com/couchcryptid/quake-map-service/internal/domain"
)

// Writer publishes rendered earthquake markers to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// MarkerMessage is the value of each published message.
type MarkerMessage struct {
	RunID  string              `json:"runId"`
	Layer  string              `json:"layer"`
	Marker domain.CircleMarker `json:"marker"`
}

// NewWriter creates a Kafka producer for the configured marker topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishMarkers writes one message per marker in a single WriteMessages
// call. It returns the number of markers handed to the broker.
func (w *Writer) PublishMarkers(ctx context.Context, runID string, layer domain.Layer) (int, error) {
	if len(layer.Markers) == 0 {
		return 0, nil
	}
	msgs := make([]kafkago.Message, len(layer.Markers))
	for i := range layer.Markers {
		msg, err := markerToMessage(runID, layer.Name, layer.Markers[i])
		if err != nil {
			return 0, err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return 0, fmt.Errorf("write markers: %w", err)
	}
	w.logger.Debug("markers written", "topic", w.writer.Topic, "count", len(msgs))
	return len(msgs), nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// markerToMessage keys the message by event ID so a given event always
// lands on the same partition.
func markerToMessage(runID, layer string, m domain.CircleMarker) (kafkago.Message, error) {
	data, err := json.Marshal(MarkerMessage{RunID: runID, Layer: layer, Marker: m})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize marker %s: %w", m.EventID, err)
	}
	return kafkago.Message{
		Key:   []byte(m.EventID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "run_id", Value: []byte(runID)},
			{Key: "fill_color", Value: []byte(m.Style.FillColor)},
			{Key: "radius", Value: []byte(strconv.FormatFloat(m.Style.Radius, 'f', -1, 64))},
		},
	}, nil
}
