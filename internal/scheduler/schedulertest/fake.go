package schedulertest

import (
	"sync"
	"time"

	"SoftWork/internal/scheduler"
)

var _ scheduler.Timers = (*FakeTimers)(nil)

// FakeTimers is a manually driven scheduler.Timers for tests. Nothing fires
// until the test calls Tick, Flush or Pop.
type FakeTimers struct {
	mu    sync.Mutex
	tasks []*FakeTask
}

// FakeTask is a task armed on FakeTimers.
type FakeTask struct {
	Period    time.Duration
	Recurring bool
	fn        func()
	cancelled bool
	fired     bool
	owner     *FakeTimers
}

func (t *FakeTask) Cancel() {
	t.owner.mu.Lock()
	t.cancelled = true
	t.owner.mu.Unlock()
}

// Cancelled reports whether Cancel was called.
func (t *FakeTask) Cancelled() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	return t.cancelled
}

func (f *FakeTimers) Every(d time.Duration, fn func()) scheduler.Task {
	return f.add(d, true, fn)
}

func (f *FakeTimers) After(d time.Duration, fn func()) scheduler.Task {
	return f.add(d, false, fn)
}

func (f *FakeTimers) add(d time.Duration, recurring bool, fn func()) *FakeTask {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &FakeTask{Period: d, Recurring: recurring, fn: fn, owner: f}
	f.tasks = append(f.tasks, t)
	return t
}

// Tick fires every live recurring task once.
func (f *FakeTimers) Tick() {
	for _, fn := range f.due(true) {
		fn()
	}
}

// Flush fires every pending one-shot task, oldest first.
func (f *FakeTimers) Flush() {
	for _, fn := range f.due(false) {
		fn()
	}
}

func (f *FakeTimers) due(recurring bool) []func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	var fns []func()
	for _, t := range f.tasks {
		if t.cancelled || t.Recurring != recurring || t.fired {
			continue
		}
		if !recurring {
			t.fired = true
		}
		fns = append(fns, t.fn)
	}
	return fns
}

// Active returns the tasks of the given kind that are neither cancelled nor spent.
func (f *FakeTimers) Active(recurring bool) []*FakeTask {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*FakeTask
	for _, t := range f.tasks {
		if t.Recurring == recurring && !t.cancelled && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

// Pop fires only the oldest pending one-shot task. It reports false when none is pending.
func (f *FakeTimers) Pop() bool {
	f.mu.Lock()
	var fn func()
	for _, t := range f.tasks {
		if !t.Recurring && !t.cancelled && !t.fired {
			t.fired = true
			fn = t.fn
			break
		}
	}
	f.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}
