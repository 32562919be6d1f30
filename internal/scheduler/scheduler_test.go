package scheduler

import (
	"bytes"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestCronTimersEveryFiresAndCancels(t *testing.T) {
	s := NewCronTimers(zerolog.Nop())
	s.Start()
	defer s.Stop()

	var n atomic.Int32
	task := s.Every(time.Second, func() { n.Add(1) })

	deadline := time.Now().Add(3 * time.Second)
	for n.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if n.Load() == 0 {
		t.Fatal("recurring task never fired")
	}

	task.Cancel()
	task.Cancel()
	if len(s.Cron.Entries()) != 0 {
		t.Fatalf("expected cron entry removed, got %d", len(s.Cron.Entries()))
	}
}

func TestCronTimersAfterCancel(t *testing.T) {
	s := NewCronTimers(zerolog.Nop())
	var fired atomic.Bool
	task := s.After(20*time.Millisecond, func() { fired.Store(true) })
	task.Cancel()
	time.Sleep(60 * time.Millisecond)
	if fired.Load() {
		t.Fatal("cancelled one-shot task fired")
	}

	done := make(chan struct{})
	s.After(time.Millisecond, func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("one-shot task never fired")
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestCronTimersLogsRecoveredPanic(t *testing.T) {
	var out syncBuffer
	s := NewCronTimers(zerolog.New(&out))
	s.Start()
	defer s.Stop()

	var runs atomic.Int32
	task := s.Every(time.Second, func() {
		runs.Add(1)
		panic("boom")
	})
	defer task.Cancel()

	deadline := time.Now().Add(4 * time.Second)
	for runs.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if runs.Load() < 2 {
		t.Fatalf("job should keep running after a panic, ran %d times", runs.Load())
	}

	logged := out.String()
	for _, want := range []string{`"level":"error"`, `"error":"boom"`, `"component":"scheduler"`, `"message":"panic"`} {
		if !strings.Contains(logged, want) {
			t.Errorf("scheduler log missing %s: %s", want, logged)
		}
	}
}
