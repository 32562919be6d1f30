package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"SoftWork/internal/model"
)

type telegramStub struct {
	mu      sync.Mutex
	sent    []map[string]string
	fail    int
	updates string
}

func (s *telegramStub) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.fail > 0 {
				s.fail--
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			var payload map[string]string
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Errorf("decode payload: %v", err)
			}
			s.sent = append(s.sent, payload)
			_, _ = w.Write([]byte(`{"ok":true}`))
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			_, _ = w.Write([]byte(s.updates))
		default:
			http.NotFound(w, r)
		}
	}
}

func (s *telegramStub) messages() []map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]string(nil), s.sent...)
}

func newTestNotifier(srv *httptest.Server) *TelegramNotifier {
	n := NewTelegramNotifier("TOKEN", "42", "", zerolog.Nop())
	n.APIBase = srv.URL
	return n
}

func TestSendPostsToChat(t *testing.T) {
	stub := &telegramStub{}
	srv := httptest.NewServer(stub.handler(t))
	defer srv.Close()

	if err := newTestNotifier(srv).Send(context.Background(), "hello"); err != nil {
		t.Fatalf("send: %v", err)
	}
	msgs := stub.messages()
	if len(msgs) != 1 || msgs[0]["chat_id"] != "42" || msgs[0]["text"] != "hello" {
		t.Fatalf("unexpected messages %+v", msgs)
	}
}

func TestSendWithRetryRecovers(t *testing.T) {
	stub := &telegramStub{fail: 1}
	srv := httptest.NewServer(stub.handler(t))
	defer srv.Close()

	if err := newTestNotifier(srv).SendWithRetry(context.Background(), "retry", 2); err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}
	if len(stub.messages()) != 1 {
		t.Fatal("expected one delivered message")
	}
}

func TestSendWithRetryStopsOnCancel(t *testing.T) {
	stub := &telegramStub{fail: 10}
	srv := httptest.NewServer(stub.handler(t))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if err := newTestNotifier(srv).SendWithRetry(ctx, "x", 3); err == nil {
		t.Fatal("expected an error")
	}
}

func TestPollOnceDispatchesCommands(t *testing.T) {
	stub := &telegramStub{updates: `{"ok":true,"result":[{"update_id":7,"message":{"text":" /tip "}},{"update_id":8}]}`}
	srv := httptest.NewServer(stub.handler(t))
	defer srv.Close()
	n := newTestNotifier(srv)

	var got []string
	next, err := n.pollOnce(context.Background(), srv.Client(), 0, func(cmd string) string {
		got = append(got, cmd)
		return "reply to " + cmd
	})
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if next != 9 {
		t.Fatalf("expected offset 9, got %d", next)
	}
	if len(got) != 1 || got[0] != "/tip" {
		t.Fatalf("unexpected commands %v", got)
	}
	if msgs := stub.messages(); len(msgs) != 1 || msgs[0]["text"] != "reply to /tip" {
		t.Fatalf("unexpected replies %+v", msgs)
	}
}

func TestSubscriberAlertsSendsInBackground(t *testing.T) {
	stub := &telegramStub{}
	srv := httptest.NewServer(stub.handler(t))
	defer srv.Close()

	alerts := SubscriberAlerts{Notifier: newTestNotifier(srv), Ctx: context.Background()}
	if err := alerts.Subscribed("a@example.com", 3); err != nil {
		t.Fatalf("subscribed: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for len(stub.messages()) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	msgs := stub.messages()
	if len(msgs) != 1 || !strings.Contains(msgs[0]["text"], "a@example.com") {
		t.Fatalf("unexpected alert %+v", msgs)
	}
}

func TestFormatters(t *testing.T) {
	tip := model.TipRecord{Symbol: "AAPL", Tip: "up <fast>", Type: model.TipBuy, Confidence: model.ConfidenceMedium, Price: "150.25", Change: "+1.2%"}
	out := FormatTip(tip, 0, 2)
	for _, want := range []string{"AAPL", "BUY", "Confidence: Medium", "up &lt;fast&gt;", "$150.25", "+1.2%", "Tip 1 of 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatTip missing %q in %q", want, out)
		}
	}
	if got := FormatSubscribers(nil); !strings.Contains(got, "No subscribers") {
		t.Errorf("unexpected empty list text %q", got)
	}
	list := FormatSubscribers([]string{"a@b", "c@d"})
	if !strings.Contains(list, "(2)") || !strings.Contains(list, "c@d") {
		t.Errorf("unexpected list %q", list)
	}
	if got := FormatNewSubscriber("x@y", 5); !strings.Contains(got, fmt.Sprint(5)) {
		t.Errorf("unexpected alert %q", got)
	}
}
