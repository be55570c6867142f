package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ansi-niger/decree-portal/internal/core/domain"
	"github.com/ansi-niger/decree-portal/internal/core/ports"
)

type recordingService struct {
	mu      sync.Mutex
	entries []ports.ActivityInput
	err     error
	done    chan struct{}
}

func (s *recordingService) Record(_ context.Context, in ports.ActivityInput) error {
	s.mu.Lock()
	s.entries = append(s.entries, in)
	s.mu.Unlock()
	if s.done != nil {
		s.done <- struct{}{}
	}
	return s.err
}

func (s *recordingService) List(context.Context, string, int) ([]domain.ActivityLog, error) {
	return nil, nil
}

func waitFor(t *testing.T, ch <-chan struct{}, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after %d of %d entries", i, n)
		}
	}
}

func TestDispatcherPreservesOrderPerClient(t *testing.T) {
	svc := &recordingService{done: make(chan struct{}, 16)}
	d := NewDispatcher(3, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	descriptions := []string{"a", "b", "c", "d", "e"}
	for _, desc := range descriptions {
		d.Enqueue(ports.ActivityInput{Action: domain.ActionSearch, Description: desc, IPAddress: "10.0.0.1"})
	}
	waitFor(t, svc.done, len(descriptions))

	svc.mu.Lock()
	defer svc.mu.Unlock()
	for i, e := range svc.entries {
		if e.Description != descriptions[i] {
			t.Fatalf("entry %d: expected %q, got %q", i, descriptions[i], e.Description)
		}
	}
}

func TestDispatcherKeepsRunningAfterRecordError(t *testing.T) {
	svc := &recordingService{err: errors.New("mongo down"), done: make(chan struct{}, 4)}
	d := NewDispatcher(1, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue(ports.ActivityInput{Action: domain.ActionDownload, IPAddress: "1.2.3.4"})
	d.Enqueue(ports.ActivityInput{Action: domain.ActionDownload, IPAddress: "1.2.3.4"})
	waitFor(t, svc.done, 2)
}

func TestDispatcherDropsWhenQueueFull(t *testing.T) {
	svc := &recordingService{}
	d := NewDispatcher(1, svc, zerolog.Nop())

	for i := 0; i < channelBuffer+5; i++ {
		d.Enqueue(ports.ActivityInput{Action: domain.ActionSearch, IPAddress: "1.2.3.4"})
	}
	if got := len(d.workers[0]); got != channelBuffer {
		t.Fatalf("expected %d queued entries, got %d", channelBuffer, got)
	}
}

func TestDispatcherDrainsOnShutdown(t *testing.T) {
	svc := &recordingService{}
	d := NewDispatcher(1, svc, zerolog.Nop())

	for i := 0; i < 3; i++ {
		d.Enqueue(ports.ActivityInput{Action: domain.ActionConsultation, IPAddress: "1.2.3.4"})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.runWorker(ctx, 0, d.workers[0])

	if len(svc.entries) != 3 {
		t.Fatalf("expected 3 drained entries, got %d", len(svc.entries))
	}
}

func TestShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, &recordingService{}, zerolog.Nop())
	first := d.shardIndex("192.168.1.10")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("192.168.1.10"); got != first {
			t.Fatalf("expected shard %d, got %d", first, got)
		}
	}
	if first < 0 || first >= 8 {
		t.Fatalf("shard %d out of range", first)
	}
}

func TestDispatcherWaitReturnsAfterDrain(t *testing.T) {
	svc := &recordingService{}
	d := NewDispatcher(2, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	for i := 0; i < 5; i++ {
		d.Enqueue(ports.ActivityInput{Action: domain.ActionSearch, IPAddress: "10.0.0.1"})
	}
	cancel()
	d.Wait()

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if len(svc.entries) != 5 {
		t.Fatalf("expected 5 entries once stopped, got %d", len(svc.entries))
	}
}
