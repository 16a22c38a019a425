package assistant

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventInvoked = "AssistantInvoked"
	EventResult  = "AssistantResult"
)

const (
	TopicInvoke = "assistant.invoke"
	TopicResult = "assistant.result"
)

// PartitionKey keeps a request and its result on the same partition.
func PartitionKey(id string) []byte { return []byte(id) }

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // EventInvoked | EventResult
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // request event_id on results
	Payload       json.RawMessage `json:"payload"`
}

// NewResultEnvelope wraps resp as the reply to the request envelope req.
func NewResultEnvelope(producer string, req Envelope, resp Response) (Envelope, error) {
	payload, err := json.Marshal(resp)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventResult,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		TraceID:       req.TraceID,
		CorrelationID: req.EventID,
		Payload:       payload,
	}, nil
}
