// Package subscription keeps the in-memory, append-only subscriber list.
package subscription

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"SoftWork/internal/metrics"
	"SoftWork/internal/scheduler"
)

var (
	ErrInvalidFormat = errors.New("invalid email format")
	ErrDuplicate     = errors.New("email already subscribed")
)

const (
	MsgInvalid   = "❌ Please enter a valid email address."
	MsgDuplicate = "📧 This email is already subscribed!!"
	MsgSuccess   = "✅ Successfully subscribed! You'll receive trading tips."
)

// DefaultStatusTTL is how long a status message stays visible.
const DefaultStatusTTL = 3 * time.Second

// Sink receives accepted subscriptions. Errors are logged and never reach the caller.
type Sink interface {
	Subscribed(email string, total int) error
}

// State is a copy of the ledger state.
type State struct {
	Emails       []string
	PendingInput string
	Status       string
}

// Ledger validates and stores subscriber emails in insertion order.
type Ledger struct {
	mu      sync.Mutex
	emails  []string
	seen    map[string]struct{}
	pending string
	status  string
	clears  map[*clearTask]struct{}
	closed  bool

	timers   scheduler.Timers
	ttl      time.Duration
	sinks    []Sink
	log      zerolog.Logger
	onChange func()
}

type clearTask struct {
	task scheduler.Task
}

// NewLedger creates an empty ledger.
func NewLedger(timers scheduler.Timers, ttl time.Duration, log zerolog.Logger, sinks ...Sink) *Ledger {
	if ttl <= 0 {
		ttl = DefaultStatusTTL
	}
	return &Ledger{
		seen:   make(map[string]struct{}),
		clears: make(map[*clearTask]struct{}),
		timers: timers,
		ttl:    ttl,
		sinks:  sinks,
		log:    log.With().Str("component", "subscription").Logger(),
	}
}

// OnChange registers a callback run after every state change, outside the lock.
func (l *Ledger) OnChange(fn func()) {
	l.mu.Lock()
	l.onChange = fn
	l.mu.Unlock()
}

// SetInput stores the text currently typed in the form.
func (l *Ledger) SetInput(s string) {
	l.mu.Lock()
	l.pending = s
	l.mu.Unlock()
	l.notify()
}

// Submit validates candidate and appends it. The only format rule is a
// non-empty value containing "@". Every call sets a status message and arms
// its own clear; a later submit does not cancel an earlier clear.
func (l *Ledger) Submit(candidate string) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return errors.New("ledger closed")
	}
	l.pending = candidate

	var err error
	switch {
	case candidate == "" || !strings.Contains(candidate, "@"):
		err = ErrInvalidFormat
		l.status = MsgInvalid
	case l.has(candidate):
		err = ErrDuplicate
		l.status = MsgDuplicate
	default:
		l.emails = append(l.emails, candidate)
		l.seen[candidate] = struct{}{}
		l.pending = ""
		l.status = MsgSuccess
	}
	total := len(l.emails)
	l.armClear()
	l.mu.Unlock()

	switch {
	case errors.Is(err, ErrInvalidFormat):
		metrics.SubscriptionsTotal.WithLabelValues("invalid").Inc()
		l.log.Info().Msg("rejected malformed email")
	case errors.Is(err, ErrDuplicate):
		metrics.SubscriptionsTotal.WithLabelValues("duplicate").Inc()
		l.log.Info().Str("email", candidate).Msg("rejected duplicate email")
	default:
		metrics.SubscriptionsTotal.WithLabelValues("accepted").Inc()
		l.log.Info().Str("email", candidate).Int("total", total).Msg("subscriber added")
		for _, s := range l.sinks {
			if serr := s.Subscribed(candidate, total); serr != nil {
				l.log.Error().Err(serr).Str("email", candidate).Msg("subscription sink failed")
			}
		}
	}
	l.notify()
	return err
}

func (l *Ledger) has(email string) bool {
	_, ok := l.seen[email]
	return ok
}

// armClear must be called with l.mu held.
func (l *Ledger) armClear() {
	ct := &clearTask{}
	ct.task = l.timers.After(l.ttl, func() {
		l.mu.Lock()
		if _, live := l.clears[ct]; !live {
			l.mu.Unlock()
			return
		}
		delete(l.clears, ct)
		l.status = ""
		l.mu.Unlock()
		l.notify()
	})
	l.clears[ct] = struct{}{}
}

// State returns a copy of the ledger state read under one lock.
func (l *Ledger) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return State{
		Emails:       append([]string(nil), l.emails...),
		PendingInput: l.pending,
		Status:       l.status,
	}
}

// Emails returns the subscribers in insertion order.
func (l *Ledger) Emails() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.emails...)
}

// Len returns the number of subscribers.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.emails)
}

// Status returns the transient status message, empty when none.
func (l *Ledger) Status() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

// PendingInput returns the text bound to the form input.
func (l *Ledger) PendingInput() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending
}

// Close cancels every outstanding status clear.
func (l *Ledger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	for ct := range l.clears {
		ct.task.Cancel()
		delete(l.clears, ct)
	}
}

func (l *Ledger) notify() {
	l.mu.Lock()
	fn := l.onChange
	l.mu.Unlock()
	if fn != nil {
		fn()
	}
}
