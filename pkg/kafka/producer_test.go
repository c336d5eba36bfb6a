package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type coursePayload struct {
	CourseCode string `json:"course_code"`
	Title      string `json:"title"`
}

// ---------------------------------------------------------------------------
// event envelope
// ---------------------------------------------------------------------------

func TestNewEvent_Fields(t *testing.T) {
	data := coursePayload{CourseCode: "CS101", Title: "Introduction to Computer Science"}
	event, err := NewEvent("course.upserted", "CS101", "course", "catalog-service", data)
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID, "EventID should be a non-empty UUID")
	assert.Equal(t, "course.upserted", event.EventType)
	assert.Equal(t, "CS101", event.AggregateID)
	assert.Equal(t, "course", event.AggregateType)
	assert.Equal(t, "catalog-service", event.Source)
	assert.Equal(t, 1, event.Version)
	assert.WithinDuration(t, time.Now().UTC(), event.Timestamp, 2*time.Second)
	assert.NotNil(t, event.Metadata)

	var roundTripped coursePayload
	require.NoError(t, json.Unmarshal(event.Data, &roundTripped))
	assert.Equal(t, data, roundTripped)
}

func TestNewEvent_UnserializableData(t *testing.T) {
	_, err := NewEvent("test.event", "agg-1", "test", "test-service", make(chan int))
	require.Error(t, err)
}

func TestEvent_MarshalRoundTrip(t *testing.T) {
	original, err := NewEvent("course.upserted", "ML301", "course", "catalog-service",
		map[string]string{"title": "Machine Learning"})
	require.NoError(t, err)
	original.CorrelationID = "corr-abc"
	original.Metadata["actor"] = "batch-upload"

	raw, err := original.Marshal()
	require.NoError(t, err)

	restored, err := UnmarshalEvent(raw)
	require.NoError(t, err)

	assert.Equal(t, original.EventID, restored.EventID)
	assert.Equal(t, original.EventType, restored.EventType)
	assert.Equal(t, original.AggregateID, restored.AggregateID)
	assert.Equal(t, original.AggregateType, restored.AggregateType)
	assert.Equal(t, original.Version, restored.Version)
	assert.Equal(t, original.Source, restored.Source)
	assert.Equal(t, original.CorrelationID, restored.CorrelationID)
	assert.Equal(t, original.Metadata, restored.Metadata)
	assert.JSONEq(t, string(original.Data), string(restored.Data))
	assert.WithinDuration(t, original.Timestamp, restored.Timestamp, time.Millisecond)
}

func TestEvent_BuilderChaining(t *testing.T) {
	event, err := NewEvent("test.event", "agg-1", "test", "svc", nil)
	require.NoError(t, err)

	result := event.WithCorrelationID("corr-xyz").
		WithMetadata("key1", "value1").
		WithMetadata("key2", "value2")

	assert.Same(t, event, result, "builder methods should return the same event")
	assert.Equal(t, "corr-xyz", event.CorrelationID)
	assert.Equal(t, "value1", event.Metadata["key1"])
	assert.Equal(t, "value2", event.Metadata["key2"])
}

func TestEvent_WithMetadataInitializesNilMap(t *testing.T) {
	event := &Event{EventID: "test-id", EventType: "test"}

	event.WithMetadata("key", "value")

	assert.Equal(t, "value", event.Metadata["key"])
}

func TestEvent_UnmarshalData(t *testing.T) {
	payload := coursePayload{CourseCode: "CS201", Title: "Data Structures"}
	event, err := NewEvent("course.upserted", "CS201", "course", "catalog-service", payload)
	require.NoError(t, err)

	var target coursePayload
	require.NoError(t, event.UnmarshalData(&target))
	assert.Equal(t, payload, target)
}

func TestEvent_UnmarshalDataInvalid(t *testing.T) {
	event := &Event{Data: json.RawMessage(`not valid json`)}

	var target map[string]string
	require.Error(t, event.UnmarshalData(&target))
}

func TestUnmarshalEvent_BadInput(t *testing.T) {
	for _, raw := range [][]byte{[]byte(`{broken json`), {}} {
		_, err := UnmarshalEvent(raw)
		require.Error(t, err)
	}
}

func TestEvent_Validate(t *testing.T) {
	event, err := NewEvent("course.upserted", "CS101", "course", "catalog-service", map[string]string{"title": "Intro to CS"})
	require.NoError(t, err)
	require.NoError(t, event.Validate())

	tests := []struct {
		name   string
		mutate func(*Event)
	}{
		{"missing event id", func(e *Event) { e.EventID = "" }},
		{"missing event type", func(e *Event) { e.EventType = "" }},
		{"missing aggregate id", func(e *Event) { e.AggregateID = "" }},
		{"missing source", func(e *Event) { e.Source = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := *event
			tt.mutate(&bad)
			require.Error(t, bad.Validate())
		})
	}
}

// ---------------------------------------------------------------------------
// topics and config
// ---------------------------------------------------------------------------

func TestTopic_Format(t *testing.T) {
	assert.Equal(t, "catalog", TopicPrefix)

	tests := []struct {
		domain string
		action string
		want   string
	}{
		{"course", "upserted", "catalog.course.upserted"},
		{"course", "indexed", "catalog.course.indexed"},
		{"upload", "completed", "catalog.upload.completed"},
	}

	for _, tt := range tests {
		t.Run(tt.domain+"."+tt.action, func(t *testing.T) {
			assert.Equal(t, tt.want, Topic(tt.domain, tt.action))
		})
	}
}

func TestDefaultProducerConfig(t *testing.T) {
	brokers := []string{"broker1:9092", "broker2:9092"}
	cfg := DefaultProducerConfig(brokers)

	assert.Equal(t, brokers, cfg.Brokers)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 10*time.Millisecond, cfg.BatchTimeout)
	assert.False(t, cfg.Async)
}

// ---------------------------------------------------------------------------
// producer
// ---------------------------------------------------------------------------

func TestNewProducer_CreatesInstance(t *testing.T) {
	// The writer does not connect until the first publish, so construction
	// and close work without a broker.
	p := NewProducer(DefaultProducerConfig([]string{"localhost:19092"}), nil)
	require.NotNil(t, p)
	assert.Equal(t, []string{"localhost:19092"}, p.brokers)

	assert.NoError(t, p.Close())
}

func TestPingBrokers_NoBrokers(t *testing.T) {
	for _, brokers := range [][]string{nil, {}} {
		err := PingBrokers(t.Context(), brokers)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no brokers configured")
	}
}
