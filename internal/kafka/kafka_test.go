package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func TestProducerFlushesOnClose(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "t", 8)
	p.Start(context.Background())

	p.Publish([]byte("k1"), []byte("v1"))
	p.Publish([]byte("k2"), []byte("v2"), kafka.Header{Key: "x-event-type", Value: []byte("e")})
	p.Close()
	p.Close()
	p.WaitClosed()

	require.Len(t, w.msgs, 2)
	assert.Equal(t, []byte("v1"), w.msgs[0].Value)
	assert.Equal(t, "x-event-type", w.msgs[1].Headers[0].Key)
	assert.True(t, w.closed)
}

func TestProducerStopsOnCancel(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "t", 8)
	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)

	p.Publish(nil, []byte("v"))
	cancel()
	p.WaitClosed()

	assert.True(t, w.closed)
	// after the loop stopped, Publish drops instead of blocking
	done := make(chan struct{})
	go func() {
		for i := 0; i < 20; i++ {
			p.Publish(nil, []byte("late"))
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked after producer stopped")
	}
	assert.Zero(t, len(p.inbox), "late messages must not be queued")
}

type fakeReader struct {
	mu        sync.Mutex
	msgs      []kafka.Message
	committed []int64
	err       error
	closed    bool
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.msgs) > 0 {
		m := r.msgs[0]
		r.msgs = r.msgs[1:]
		r.mu.Unlock()
		return m, nil
	}
	err := r.err
	r.mu.Unlock()
	if err != nil {
		return kafka.Message{}, err
	}
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func newTestConsumer(r messageReader, workers int) *Consumer {
	c := newConsumer(r, workers)
	c.retryBackoff = time.Millisecond
	return c
}

func TestConsumerStopsBeforeFailedOffset(t *testing.T) {
	r := &fakeReader{msgs: []kafka.Message{{Offset: 1}, {Offset: 2}, {Offset: 3}}}
	c := newTestConsumer(r, 1)

	var mu sync.Mutex
	attempts := map[int64]int{}
	err := c.Start(context.Background(), func(_ context.Context, m kafka.Message) error {
		mu.Lock()
		attempts[m.Offset]++
		mu.Unlock()
		if m.Offset == 2 {
			return errors.New("boom")
		}
		return nil
	})

	require.ErrorContains(t, err, "boom")
	assert.Equal(t, 3, attempts[2])
	// offset 2 and later stay uncommitted so the group redelivers them
	assert.Equal(t, []int64{1}, r.committed)
	assert.True(t, r.closed)
}

func TestConsumerRetriesTransientFailure(t *testing.T) {
	r := &fakeReader{
		msgs: []kafka.Message{{Offset: 1}, {Offset: 2}, {Offset: 3}},
		err:  errors.New("broker gone"),
	}
	c := newTestConsumer(r, 1)

	failed := false
	err := c.Start(context.Background(), func(_ context.Context, m kafka.Message) error {
		if m.Offset == 2 && !failed {
			failed = true
			return errors.New("flaky")
		}
		return nil
	})

	require.EqualError(t, err, "broker gone")
	assert.Equal(t, []int64{1, 2, 3}, r.committed)
}

func TestConsumerCommitsInOrderAcrossWorkers(t *testing.T) {
	r := &fakeReader{
		msgs: []kafka.Message{{Offset: 1}, {Offset: 2}, {Offset: 3}},
		err:  errors.New("broker gone"),
	}
	c := newTestConsumer(r, 3)

	var later sync.WaitGroup
	later.Add(2)
	err := c.Start(context.Background(), func(_ context.Context, m kafka.Message) error {
		if m.Offset == 1 {
			later.Wait()
			return nil
		}
		later.Done()
		return nil
	})

	require.EqualError(t, err, "broker gone")
	// 2 and 3 finish first but cannot commit past 1
	assert.Equal(t, []int64{3}, r.committed)
}

func TestConsumerTracksPartitionsSeparately(t *testing.T) {
	r := &fakeReader{
		msgs: []kafka.Message{{Partition: 0, Offset: 5}, {Partition: 1, Offset: 9}},
		err:  errors.New("broker gone"),
	}
	c := newTestConsumer(r, 1)

	err := c.Start(context.Background(), func(context.Context, kafka.Message) error { return nil })

	require.EqualError(t, err, "broker gone")
	assert.Equal(t, []int64{5, 9}, r.committed)
}

func TestConsumerCancelIsCleanExit(t *testing.T) {
	r := &fakeReader{}
	c := newConsumer(r, 0)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- c.Start(ctx, func(context.Context, kafka.Message) error { return nil })
	}()
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop")
	}
	assert.True(t, r.closed)
}
