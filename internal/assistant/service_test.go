package assistant

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	key, value []byte
	headers    []kafkago.Header
}

type fakePublisher struct{ msgs []published }

func (p *fakePublisher) Publish(key, value []byte, headers ...kafkago.Header) {
	p.msgs = append(p.msgs, published{key: key, value: value, headers: headers})
}

type fakeDedup struct{ seen map[string]bool }

func (d *fakeDedup) First(_ context.Context, id string) (bool, error) {
	if d.seen[id] {
		return false, nil
	}
	d.seen[id] = true
	return true, nil
}

func newTestService(pub *fakePublisher, dedup Deduper) *Service {
	return &Service{
		Handler:     &Handler{Logger: log.New(io.Discard, "", 0)},
		Results:     pub,
		Dedup:       dedup,
		ServiceName: "test-assistant",
	}
}

func invokeMessage(t *testing.T, id string, ev Event) kafkago.Message {
	t.Helper()
	payload, err := json.Marshal(ev)
	require.NoError(t, err)
	b, err := json.Marshal(Envelope{
		EventID:      id,
		EventType:    EventInvoked,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     "test",
		TraceID:      "trace-1",
		Payload:      payload,
	})
	require.NoError(t, err)
	return kafkago.Message{Value: b}
}

func TestHandleInvokePublishesResult(t *testing.T) {
	pub := &fakePublisher{}
	svc := newTestService(pub, nil)

	err := svc.HandleInvoke(context.Background(), invokeMessage(t, "evt-1", Event{Query: "hello"}))
	require.NoError(t, err)
	require.Len(t, pub.msgs, 1)

	msg := pub.msgs[0]
	assert.Equal(t, []byte("evt-1"), msg.key)

	var out Envelope
	require.NoError(t, json.Unmarshal(msg.value, &out))
	assert.Equal(t, EventResult, out.EventType)
	assert.Equal(t, "evt-1", out.CorrelationID)
	assert.Equal(t, "trace-1", out.TraceID)
	assert.Equal(t, "test-assistant", out.Producer)
	assert.NotEmpty(t, out.EventID)

	var resp Response
	require.NoError(t, json.Unmarshal(out.Payload, &resp))
	assert.Equal(t, 200, resp.StatusCode)
	assert.JSONEq(t, `{"data":"success"}`, resp.Body)
}

func TestHandleInvokeSkipsDuplicates(t *testing.T) {
	pub := &fakePublisher{}
	svc := newTestService(pub, &fakeDedup{seen: map[string]bool{}})

	msg := invokeMessage(t, "evt-2", Event{})
	require.NoError(t, svc.HandleInvoke(context.Background(), msg))
	require.NoError(t, svc.HandleInvoke(context.Background(), msg))

	assert.Len(t, pub.msgs, 1)
}

func TestHandleInvokeIgnoresOtherEvents(t *testing.T) {
	pub := &fakePublisher{}
	svc := newTestService(pub, nil)

	b, err := json.Marshal(Envelope{EventID: "x", EventType: EventResult})
	require.NoError(t, err)

	require.NoError(t, svc.HandleInvoke(context.Background(), kafkago.Message{Value: b}))
	assert.Empty(t, pub.msgs)
}

func TestHandleInvokeRejectsBadJSON(t *testing.T) {
	svc := newTestService(&fakePublisher{}, nil)

	err := svc.HandleInvoke(context.Background(), kafkago.Message{Value: []byte("{nope")})
	assert.ErrorContains(t, err, "decode envelope")
}
