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
	release  chan struct{}
}

func newFakeService(name string, block bool, startErr error) *fakeService {
	return &fakeService{name: name, block: block, startErr: startErr, release: make(chan struct{})}
}

func (s *fakeService) Name() string { return s.name }

func (s *fakeService) Start(ctx context.Context) error {
	if !s.block {
		return s.startErr
	}
	select {
	case <-s.release:
	case <-ctx.Done():
	}
	return s.startErr
}

func (s *fakeService) Stop(context.Context) error {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.release)
	}
	return nil
}

func TestParseMode(t *testing.T) {
	cases := map[string]string{"": ModeAll, "API": ModeAPI, " worker ": ModeWorker, "all": ModeAll}
	for raw, want := range cases {
		got, err := ParseMode(raw)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) want %s got %s err=%v", raw, want, got, err)
		}
	}
	if _, err := ParseMode("cron"); err == nil {
		t.Fatalf("unknown mode should fail")
	}
}

func TestRunnerStopsAllWhenOneFails(t *testing.T) {
	boom := errors.New("listen failed")
	http := newFakeService("http", false, boom)
	worker := newFakeService("worker", true, nil)

	err := NewRunner(http, worker).Run(context.Background(), time.Second, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("run error want %v got %v", boom, err)
	}
	if !worker.stopped.Load() {
		t.Fatalf("worker should be stopped after http failure")
	}
}

func TestRunnerGracefulShutdownOnCancel(t *testing.T) {
	http := newFakeService("http", true, nil)
	worker := newFakeService("worker", true, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- NewRunner(http, worker).Run(ctx, time.Second, nil)
	}()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("graceful shutdown want nil got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("runner did not stop after cancel")
	}
	if !http.stopped.Load() || !worker.stopped.Load() {
		t.Fatalf("all services should be stopped")
	}
}

func TestRunnerRejectsEmpty(t *testing.T) {
	if err := NewRunner().Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("empty runner should fail")
	}
}

func TestBuildRunnerRejectsNilConfig(t *testing.T) {
	if _, _, err := BuildRunner(nil, ModeAll); err == nil {
		t.Fatalf("nil config should fail")
	}
}
