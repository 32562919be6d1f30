// Package rotation holds the active tip list and cycles through it on a timer.
package rotation

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"SoftWork/internal/metrics"
	"SoftWork/internal/model"
	"SoftWork/internal/scheduler"
	"SoftWork/internal/strategy"
)

// DefaultInterval is the rotation period.
const DefaultInterval = 5 * time.Second

// TipSource produces a batch of live tips. It must not fail; an empty batch
// means no live data.
type TipSource interface {
	Collect(ctx context.Context) []model.TipRecord
}

// State is a copy of the controller state.
type State struct {
	Tips    []model.TipRecord
	Index   int
	Loading bool
}

// Controller owns the tip list, the current index and the rotation task.
type Controller struct {
	mu       sync.Mutex
	tips     []model.TipRecord
	index    int
	loading  bool
	closed   bool
	rotation scheduler.Task

	source   TipSource
	timers   scheduler.Timers
	interval time.Duration
	log      zerolog.Logger
	initOnce sync.Once
	onChange func()
	onLoad   func(source string, tips []model.TipRecord)
}

// NewController creates a Controller in the loading state.
func NewController(source TipSource, timers scheduler.Timers, interval time.Duration, log zerolog.Logger) *Controller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Controller{
		loading:  true,
		source:   source,
		timers:   timers,
		interval: interval,
		log:      log.With().Str("component", "rotation").Logger(),
	}
}

// OnChange registers a callback run after every state change, outside the lock.
func (c *Controller) OnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// OnLoad registers a callback run once the initial tip list is chosen.
func (c *Controller) OnLoad(fn func(source string, tips []model.TipRecord)) {
	c.mu.Lock()
	c.onLoad = fn
	c.mu.Unlock()
}

// Initialize loads the tip list once. Later calls return immediately.
// If the controller is closed before the fetch completes the result is dropped.
func (c *Controller) Initialize(ctx context.Context) {
	c.initOnce.Do(func() {
		c.mu.Lock()
		c.loading = true
		c.mu.Unlock()
		c.notify()

		fetched := c.source.Collect(ctx)
		tips, src := strategy.SelectTips(fetched)
		metrics.TipSourceTotal.WithLabelValues(src).Inc()

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			c.log.Info().Msg("controller closed during fetch, discarding tips")
			return
		}
		c.loading = false
		c.replaceLocked(tips)
		onLoad := c.onLoad
		c.mu.Unlock()

		c.log.Info().Str("source", src).Int("count", len(tips)).Msg("tip list loaded")
		c.notify()
		if onLoad != nil {
			onLoad(src, tips)
		}
	})
}

// SetTips replaces the tip list wholesale and re-arms rotation. The index is
// left as is; Advance wraps it on the next tick.
func (c *Controller) SetTips(tips []model.TipRecord) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.replaceLocked(tips)
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) replaceLocked(tips []model.TipRecord) {
	c.tips = append([]model.TipRecord(nil), tips...)
	if c.rotation != nil {
		c.rotation.Cancel()
		c.rotation = nil
		c.log.Debug().Msg("clearing tip rotation")
	}
	if len(c.tips) > 1 {
		c.rotation = c.timers.Every(c.interval, c.tick)
		c.log.Info().Int("tips", len(c.tips)).Dur("interval", c.interval).Msg("tip rotation armed")
	} else {
		c.log.Info().Int("tips", len(c.tips)).Msg("not rotating, one or no tips available")
	}
}

func (c *Controller) tick() {
	metrics.TipRotationsTotal.Inc()
	c.Advance()
}

// Advance moves to the next tip, wrapping at the end of the list.
func (c *Controller) Advance() {
	c.mu.Lock()
	n := len(c.tips)
	if n == 0 || c.closed {
		c.mu.Unlock()
		return
	}
	prev := c.index
	c.index = ((c.index+1)%n + n) % n
	next := c.index
	c.mu.Unlock()

	c.log.Debug().Int("from", prev).Int("to", next).Msg("rotating tip")
	c.notify()
}

// Select jumps to index. No bounds check is applied; an out-of-range index
// shows no tip until the next Advance wraps it.
func (c *Controller) Select(index int) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.index = index
	c.mu.Unlock()
	c.notify()
}

// CurrentTip returns the tip at the current index, or false when there is none.
func (c *Controller) CurrentTip() (model.TipRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index < 0 || c.index >= len(c.tips) {
		return model.TipRecord{}, false
	}
	return c.tips[c.index], true
}

// State returns a copy of the controller state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Tips:    append([]model.TipRecord(nil), c.tips...),
		Index:   c.index,
		Loading: c.loading,
	}
}

// Rotating reports whether a rotation task is armed.
func (c *Controller) Rotating() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rotation != nil
}

// Close cancels the rotation task. Further mutations are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.rotation != nil {
		c.rotation.Cancel()
		c.rotation = nil
	}
}

func (c *Controller) notify() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}
