package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ram-us/internal/config"
	"github.com/ram-us/internal/metrics"
)

type stubCanceler struct {
	calls    int
	canceled int
	err      error
	limit    int
}

func (s *stubCanceler) CancelExpiredOrders(_ context.Context, _ time.Time, limit int) (int, error) {
	s.calls++
	s.limit = limit
	return s.canceled, s.err
}

func TestSweeperOnce(t *testing.T) {
	stub := &stubCanceler{canceled: 3}
	w := newSweeper(stub, metrics.New(nil), time.Hour)
	if got := w.once(context.Background()); got != 3 {
		t.Fatalf("canceled want 3 got %d", got)
	}
	if stub.limit != sweepBatch {
		t.Fatalf("batch want %d got %d", sweepBatch, stub.limit)
	}

	stub.err = errors.New("db locked")
	if got := w.once(context.Background()); got != 0 {
		t.Fatalf("failed sweep should report 0, got %d", got)
	}
}

func TestSweeperRunStopsOnCancel(t *testing.T) {
	stub := &stubCanceler{}
	w := newSweeper(stub, nil, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("sweeper did not stop")
	}
	if stub.calls < 1 {
		t.Fatalf("sweeper should run once on start")
	}
}

func TestNewServiceRequiresQueue(t *testing.T) {
	if _, err := NewService(&config.QueueConfig{Enabled: false}, &Consumer{}); err == nil {
		t.Fatalf("disabled queue should be rejected")
	}
	if _, err := NewService(&config.QueueConfig{Enabled: true}, nil); err == nil {
		t.Fatalf("nil consumer should be rejected")
	}
	var s *Service
	if err := s.Start(context.Background()); !errors.Is(err, errWorkerNotReady) {
		t.Fatalf("nil service start want errWorkerNotReady got %v", err)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("nil service stop should be a no-op, got %v", err)
	}
}

func TestNewServiceWiresSweeper(t *testing.T) {
	consumer, _ := setupConsumer(t)
	svc, err := NewService(&config.QueueConfig{Enabled: true}, consumer)
	if err != nil {
		t.Fatalf("new service failed: %v", err)
	}
	if svc.sweeper == nil || svc.Name() != "worker" {
		t.Fatalf("sweeper should be wired when order service exists")
	}
}
