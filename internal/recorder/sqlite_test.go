package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"SoftWork/internal/model"
)

func openTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "journal.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("open recorder: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestLedgerSinkJournalsSubscriptions(t *testing.T) {
	r := openTestRecorder(t)
	sink := LedgerSink{Recorder: r}

	if err := sink.Subscribed("a@example.com", 1); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := sink.Subscribed("b@example.com", 2); err != nil {
		t.Fatalf("record: %v", err)
	}

	subs, err := r.Subscriptions()
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(subs))
	}
	if subs[0].Email != "a@example.com" || subs[1].Email != "b@example.com" || subs[1].Total != 2 {
		t.Fatalf("unexpected rows: %+v", subs)
	}
	if subs[0].ID == subs[1].ID {
		t.Fatal("rows must carry distinct ids")
	}
}

func TestRecordTipBatch(t *testing.T) {
	r := openTestRecorder(t)
	err := r.RecordTipBatch(&TipBatchEvent{
		Source: "live",
		At:     time.Now(),
		Tips: []model.TipRecord{
			{Symbol: "AAPL", Tip: "up", Type: model.TipBuy, Confidence: model.ConfidenceMedium, Price: "150.25", Change: "+1.2%"},
			{Symbol: "TSLA", Tip: "down", Type: model.TipWatch, Confidence: model.ConfidenceMedium, Price: "198.00", Change: "-0.5%"},
		},
	})
	if err != nil {
		t.Fatalf("record batch: %v", err)
	}

	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM tips`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 tip rows, got %d", count)
	}
	var symbol string
	if err := r.db.QueryRow(`SELECT symbol FROM tips WHERE position = 1`).Scan(&symbol); err != nil {
		t.Fatalf("select: %v", err)
	}
	if symbol != "TSLA" {
		t.Fatalf("expected TSLA at position 1, got %s", symbol)
	}
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	if err := (LedgerSink{Recorder: r}).Subscribed("a@b", 1); err != nil {
		t.Fatalf("noop should never fail: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
}
