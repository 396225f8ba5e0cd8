package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"StonksPoller/internal/model"
)

func newTestNotifier(serverURL string) *TelegramNotifier {
	n := NewTelegramNotifier("TOKEN", "42", "", slog.New(slog.NewTextHandler(io.Discard, nil)))
	n.APIBase = serverURL
	n.backoff = func(int) time.Duration { return time.Millisecond }
	return n
}

func TestSend(t *testing.T) {
	var got map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/botTOKEN/sendMessage" {
			t.Errorf("path = %s, want /botTOKEN/sendMessage", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	if err := newTestNotifier(server.URL).Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if got["chat_id"] != "42" || got["text"] != "hello" || got["parse_mode"] != "HTML" {
		t.Errorf("payload = %v", got)
	}
}

func TestSendWithRetry(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "flood", http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := newTestNotifier(server.URL)
	if err := n.SendWithRetry(context.Background(), "x", 3); err != nil {
		t.Fatalf("SendWithRetry() error = %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestSendWithRetry_Exhausted(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad token", http.StatusUnauthorized)
	}))
	defer server.Close()

	err := newTestNotifier(server.URL).SendWithRetry(context.Background(), "x", 2)
	if err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
	if !strings.Contains(err.Error(), "status 401") {
		t.Errorf("error = %v, want status 401", err)
	}
}

func TestSendWithRetry_Cancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer server.Close()

	n := newTestNotifier(server.URL)
	n.backoff = func(int) time.Duration { return time.Hour }

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := n.SendWithRetry(ctx, "x", 3); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want deadline exceeded", err)
	}
}

func TestStartPolling(t *testing.T) {
	var (
		mu      sync.Mutex
		replies []string
		polls   atomic.Int32
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/botTOKEN/getUpdates":
			if polls.Add(1) == 1 {
				_, _ = w.Write([]byte(`{"ok":true,"result":[
					{"update_id":10,"message":{"text":" /status ","chat":{"id":42}}},
					{"update_id":11,"message":{"text":"/status","chat":{"id":99}}}
				]}`))
				return
			}
			if got := r.URL.Query().Get("offset"); got != "12" {
				t.Errorf("offset = %s, want 12", got)
			}
			_, _ = w.Write([]byte(`{"ok":true,"result":[]}`))
		case "/botTOKEN/sendMessage":
			var p map[string]string
			_ = json.NewDecoder(r.Body).Decode(&p)
			mu.Lock()
			replies = append(replies, p["text"])
			mu.Unlock()
		}
	}))
	defer server.Close()

	n := newTestNotifier(server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var commands []string
	done := make(chan error, 1)
	go func() {
		done <- n.StartPolling(ctx, func(cmd string) string {
			commands = append(commands, cmd)
			return "ok " + cmd
		})
	}()

	deadline := time.After(5 * time.Second)
	for polls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("polling did not advance")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("StartPolling() error = %v", err)
	}

	if len(commands) != 1 || commands[0] != "/status" {
		t.Errorf("commands = %v, want [/status]", commands)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(replies) != 1 || replies[0] != "ok /status" {
		t.Errorf("replies = %v", replies)
	}
}

func TestFormatters(t *testing.T) {
	target := model.Target{Namespace: "financialdata", Table: "financial_data"}
	out := model.UploadOutcome{
		Target:      target,
		CompletedAt: time.Date(2024, 2, 3, 4, 5, 6, 0, time.Local),
		Err:         errors.New("dial tcp: <refused>"),
	}
	msg := FormatUploadFailure("tick-1", out)
	for _, want := range []string{"financialdata.financial_data", "2024-02-03 04:05:06", "tick-1", "&lt;refused&gt;"} {
		if !strings.Contains(msg, want) {
			t.Errorf("FormatUploadFailure() missing %q in %q", want, msg)
		}
	}

	status := FormatStatus(model.TickStats{Ticks: 3, Dropped: 2, RowsUploaded: 13}, target)
	for _, want := range []string{"Ticks: 3", "Symbols dropped: 2", "Rows uploaded: 13", "Last tick: never"} {
		if !strings.Contains(status, want) {
			t.Errorf("FormatStatus() missing %q in %q", want, status)
		}
	}

	if got := FormatSymbols([]model.Symbol{"TSLA", "AAPL"}); !strings.Contains(got, "TSLA, AAPL") {
		t.Errorf("FormatSymbols() = %q", got)
	}
}
