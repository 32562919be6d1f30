// Package app joins tip rotation and the subscription ledger into one view state.
package app

import (
	"sync"

	"SoftWork/internal/model"
	"SoftWork/internal/notifier"
	"SoftWork/internal/rotation"
	"SoftWork/internal/subscription"
)

// App is the state object read by every presentation surface.
type App struct {
	Tips   *rotation.Controller
	Ledger *subscription.Ledger

	mu        sync.Mutex
	listeners map[int]func(model.Snapshot)
	nextID    int
}

// New wires change notifications from both components into the App.
func New(tips *rotation.Controller, ledger *subscription.Ledger) *App {
	a := &App{Tips: tips, Ledger: ledger, listeners: make(map[int]func(model.Snapshot))}
	tips.OnChange(a.broadcast)
	ledger.OnChange(a.broadcast)
	return a
}

// Snapshot returns the current view state.
func (a *App) Snapshot() model.Snapshot {
	st := a.Tips.State()
	ls := a.Ledger.State()
	snap := model.Snapshot{
		Loading:      st.Loading,
		Tips:         st.Tips,
		CurrentIndex: st.Index,
		Emails:       ls.Emails,
		PendingInput: ls.PendingInput,
		Status:       ls.Status,
	}
	if snap.Tips == nil {
		snap.Tips = []model.TipRecord{}
	}
	if snap.Emails == nil {
		snap.Emails = []string{}
	}
	if st.Index >= 0 && st.Index < len(st.Tips) {
		tip := st.Tips[st.Index]
		snap.Current = &tip
	}
	return snap
}

// Subscribe registers fn for every state change and returns its removal func.
func (a *App) Subscribe(fn func(model.Snapshot)) (unsubscribe func()) {
	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.listeners[id] = fn
	a.mu.Unlock()
	return func() {
		a.mu.Lock()
		delete(a.listeners, id)
		a.mu.Unlock()
	}
}

func (a *App) broadcast() {
	a.mu.Lock()
	fns := make([]func(model.Snapshot), 0, len(a.listeners))
	for _, fn := range a.listeners {
		fns = append(fns, fn)
	}
	a.mu.Unlock()
	if len(fns) == 0 {
		return
	}
	snap := a.Snapshot()
	for _, fn := range fns {
		fn(snap)
	}
}

// HandleCommand answers an operator chat command.
func (a *App) HandleCommand(command string) string {
	switch command {
	case "/tip", "/start":
		snap := a.Snapshot()
		if snap.Loading {
			return "Loading market data..."
		}
		if snap.Current == nil {
			return "No tips available at the moment."
		}
		return notifier.FormatTip(*snap.Current, snap.CurrentIndex, len(snap.Tips))
	case "/subscribers":
		return notifier.FormatSubscribers(a.Ledger.Emails())
	default:
		return notifier.HelpText
	}
}

// Close tears down both components and their scheduled tasks.
func (a *App) Close() {
	a.Tips.Close()
	a.Ledger.Close()
}
