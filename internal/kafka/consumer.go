package kafka

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// Handler must return nil only when the message was processed and its offset
// may be committed.
type Handler func(ctx context.Context, m kafka.Message) error

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Consumer struct {
	r            messageReader
	workers      int
	maxAttempts  int
	retryBackoff time.Duration
	offsets      *offsetTracker
}

func NewConsumer(brokers []string, group, topic string, workers int) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        group,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0, // commits are synchronous, issued per message
	})
	return newConsumer(r, workers)
}

func newConsumer(r messageReader, workers int) *Consumer {
	if workers <= 0 {
		workers = 1
	}
	return &Consumer{
		r:            r,
		workers:      workers,
		maxAttempts:  3,
		retryBackoff: 200 * time.Millisecond,
		offsets:      newOffsetTracker(),
	}
}

// Start fetches messages and fans them out to the worker pool until ctx is
// cancelled or the reader fails. A cancelled ctx is a clean exit.
//
// Offsets are committed only up to the lowest message still in flight on its
// partition. A message whose handler keeps failing after retries stops the
// consumer; it and everything after it are redelivered on the next start.
func (c *Consumer) Start(ctx context.Context, h Handler) error {
	defer c.r.Close()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		failOnce sync.Once
		failErr  error
	)
	fail := func(err error) {
		failOnce.Do(func() {
			failErr = err
			cancel()
		})
	}

	jobs := make(chan kafka.Message, c.workers*4)
	var wg sync.WaitGroup

	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for m := range jobs {
				if runCtx.Err() != nil {
					continue
				}
				if err := c.handle(runCtx, h, m); err != nil {
					if runCtx.Err() == nil {
						log.Printf("kafka: worker %d: partition=%d offset=%d: %v", id, m.Partition, m.Offset, err)
						fail(fmt.Errorf("partition %d offset %d: %w", m.Partition, m.Offset, err))
					}
					continue
				}
				if err := c.offsets.done(ctx, c.r, m); err != nil && ctx.Err() == nil {
					log.Printf("kafka: worker %d: commit offset=%d: %v", id, m.Offset, err)
				}
			}
		}(i)
	}

	err := c.dispatch(runCtx, jobs)
	close(jobs)
	wg.Wait()

	if failErr != nil {
		return failErr
	}
	if err != nil && ctx.Err() == nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (c *Consumer) dispatch(ctx context.Context, jobs chan<- kafka.Message) error {
	for {
		m, err := c.r.FetchMessage(ctx)
		if err != nil {
			return err
		}
		c.offsets.track(m)
		select {
		case jobs <- m:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Consumer) handle(ctx context.Context, h Handler, m kafka.Message) error {
	var err error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err = h(ctx, m); err == nil {
			return nil
		}
		if attempt == c.maxAttempts {
			break
		}
		select {
		case <-time.After(c.retryBackoff * time.Duration(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

// offsetTracker commits per partition in fetch order: an offset is committed
// once it and every offset fetched before it on the same partition are done.
type offsetTracker struct {
	mu    sync.Mutex
	parts map[int]*partitionOffsets
}

type partitionOffsets struct {
	pending []kafka.Message // fetch order
	done    map[int64]bool
}

func newOffsetTracker() *offsetTracker {
	return &offsetTracker{parts: map[int]*partitionOffsets{}}
}

func (t *offsetTracker) track(m kafka.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.parts[m.Partition]
	if !ok {
		p = &partitionOffsets{done: map[int64]bool{}}
		t.parts[m.Partition] = p
	}
	p.pending = append(p.pending, m)
}

// done marks m processed and commits the highest contiguous offset, if it
// advanced. Commits are serialized so they never move backwards.
func (t *offsetTracker) done(ctx context.Context, r messageReader, m kafka.Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.parts[m.Partition]
	if !ok {
		return nil
	}
	p.done[m.Offset] = true

	var last *kafka.Message
	for len(p.pending) > 0 && p.done[p.pending[0].Offset] {
		head := p.pending[0]
		delete(p.done, head.Offset)
		p.pending = p.pending[1:]
		last = &head
	}
	if last == nil {
		return nil
	}
	return r.CommitMessages(ctx, *last)
}
