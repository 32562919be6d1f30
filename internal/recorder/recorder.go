package recorder

import (
	"time"

	"github.com/google/uuid"

	"SoftWork/internal/model"
)

// SubscriptionEvent records one accepted subscriber.
type SubscriptionEvent struct {
	ID    uuid.UUID
	Email string
	Total int // ledger size after the append
	At    time.Time
}

// TipBatchEvent records the tip list loaded at startup.
type TipBatchEvent struct {
	Source string // "live" or "fallback"
	Tips   []model.TipRecord
	At     time.Time
}

// Recorder journals subscriptions and tip loads for offline analysis.
// Nothing is ever read back into the running service.
type Recorder interface {
	RecordSubscription(evt *SubscriptionEvent) error
	RecordTipBatch(evt *TipBatchEvent) error
	Close() error
}

// LedgerSink adapts a Recorder to the subscription ledger.
type LedgerSink struct {
	Recorder Recorder
}

func (s LedgerSink) Subscribed(email string, total int) error {
	return s.Recorder.RecordSubscription(&SubscriptionEvent{
		ID:    uuid.New(),
		Email: email,
		Total: total,
		At:    time.Now(),
	})
}
