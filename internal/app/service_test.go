package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type fakeService struct {
	name     string
	startErr error
	block    bool
	stopped  atomic.Bool
}

func (f *fakeService) Name() string { return f.name }

func (f *fakeService) Start(ctx context.Context) error {
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.startErr
}

func (f *fakeService) Stop(ctx context.Context) error {
	f.stopped.Store(true)
	return nil
}

func TestRunnerPropagatesServiceError(t *testing.T) {
	boom := errors.New("listen failed")
	failing := &fakeService{name: "api", startErr: boom}
	peer := &fakeService{name: "worker", block: true}

	runner := NewRunner(failing, peer, nil)
	err := runner.Run(context.Background(), time.Second, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("want start error, got %v", err)
	}
	if !failing.stopped.Load() || !peer.stopped.Load() {
		t.Fatalf("all services must be stopped after a failure")
	}
}

func TestRunnerCancelShutsDownCleanly(t *testing.T) {
	svc := &fakeService{name: "api", block: true}
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	if err := NewRunner(svc).Run(ctx, time.Second, nil); err != nil {
		t.Fatalf("cancel must shut down cleanly, got %v", err)
	}
	if !svc.stopped.Load() {
		t.Fatalf("service must be stopped on cancel")
	}
}

func TestRunnerRejectsEmptyServiceSet(t *testing.T) {
	if err := NewRunner(nil).Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("runner without services must refuse to run")
	}
}
