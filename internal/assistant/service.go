package assistant

import (
	"context"
	"encoding/json"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"
)

// Publisher is satisfied by *kafka.Producer.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// Deduper records processed event ids. First reports whether id was seen
// for the first time.
type Deduper interface {
	First(ctx context.Context, id string) (bool, error)
}

// Service answers invocation events read from Kafka.
type Service struct {
	Handler     *Handler
	Results     Publisher
	Dedup       Deduper // optional
	ServiceName string
}

// HandleInvoke is installed as the consumer handler for TopicInvoke.
func (s *Service) HandleInvoke(ctx context.Context, m kafkago.Message) error {
	var env Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	if env.EventType != EventInvoked {
		return nil
	}

	if s.Dedup != nil && env.EventID != "" {
		// redis errors fall through to processing; replies are idempotent
		if first, err := s.Dedup.First(ctx, env.EventID); err == nil && !first {
			return nil
		}
	}

	var ev Event
	if len(env.Payload) > 0 {
		if err := json.Unmarshal(env.Payload, &ev); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
	}

	resp, err := s.Handler.Handle(ctx, ev)
	if err != nil {
		return err
	}

	out, err := NewResultEnvelope(s.ServiceName, env, resp)
	if err != nil {
		return err
	}
	b, err := json.Marshal(out)
	if err != nil {
		return err
	}
	s.Results.Publish(PartitionKey(env.EventID), b,
		kafkago.Header{Key: "x-event-type", Value: []byte(EventResult)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
	return nil
}
