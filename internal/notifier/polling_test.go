package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestNormalizeCommand(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"/run", "/run"},
		{"  /Status   aapl ", "/status aapl"},
		{"/status@SignalDeskBot MSFT", "/status MSFT"},
		{"hello", ""},
		{"/", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeCommand(tt.text); got != tt.want {
			t.Errorf("NormalizeCommand(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestStartPolling_AnswersConfiguredChat(t *testing.T) {
	var mu sync.Mutex
	var offsets []string
	replies := make(chan string, 4)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/botTOKEN/getUpdates":
			offset := r.URL.Query().Get("offset")
			mu.Lock()
			offsets = append(offsets, offset)
			mu.Unlock()
			if offset != "0" {
				time.Sleep(10 * time.Millisecond)
				w.Write([]byte(`{"ok":true,"result":[]}`))
				return
			}
			w.Write([]byte(`{"ok":true,"result":[
				{"update_id":1,"message":{"text":"/run","chat":{"id":99}}},
				{"update_id":2,"message":{"text":"/Status@SignalDeskBot aapl","chat":{"id":42}}},
				{"update_id":3,"message":{"text":"good morning","chat":{"id":42}}},
				{"update_id":4}
			]}`))
		case "/botTOKEN/sendMessage":
			var payload map[string]string
			json.NewDecoder(r.Body).Decode(&payload)
			replies <- payload["text"]
			w.Write([]byte(`{"ok":true}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", "")
	tn.BaseURL = srv.URL
	tn.PollTimeout = 0

	var handled []string
	handler := func(cmd string) string {
		handled = append(handled, cmd)
		return "ok " + cmd
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		tn.StartPolling(ctx, handler)
		close(done)
	}()

	select {
	case got := <-replies:
		if got != "ok /status aapl" {
			t.Errorf("reply = %q", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reply sent")
	}
	// Let the loop come back for the next batch before stopping it.
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("polling did not stop after cancel")
	}

	if len(handled) != 1 || handled[0] != "/status aapl" {
		t.Errorf("handled = %q, want only the command from chat 42", handled)
	}
	if len(replies) != 0 {
		t.Errorf("%d extra replies sent", len(replies))
	}
	mu.Lock()
	defer mu.Unlock()
	if len(offsets) < 2 || offsets[1] != "5" {
		t.Errorf("offsets = %v, want the second poll to acknowledge update 4", offsets)
	}
}

func TestStartPolling_StopsDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"ok":false,"description":"Unauthorized"}`))
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", "")
	tn.BaseURL = srv.URL
	tn.PollTimeout = 0

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	start := time.Now()
	tn.StartPolling(ctx, func(string) string { return "" })
	if elapsed := time.Since(start); elapsed > 900*time.Millisecond {
		t.Errorf("polling kept backing off for %s after cancel", elapsed)
	}
}
