package recorder

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordSubscription(_ *SubscriptionEvent) error { return nil }
func (n *NoopRecorder) RecordTipBatch(_ *TipBatchEvent) error         { return nil }
func (n *NoopRecorder) Close() error                                  { return nil }
