package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// CommandHandler answers one normalized bot command. An empty reply sends nothing.
type CommandHandler func(command string) string

const (
	minPollBackoff = time.Second
	maxPollBackoff = 30 * time.Second
)

type chatMessage struct {
	Text string `json:"text"`
	Chat struct {
		ID int64 `json:"id"`
	} `json:"chat"`
}

type update struct {
	UpdateID int          `json:"update_id"`
	Message  *chatMessage `json:"message"`
}

type updatesResponse struct {
	OK          bool     `json:"ok"`
	Description string   `json:"description"`
	Result      []update `json:"result"`
}

// NormalizeCommand turns "/Status@SignalDeskBot aapl" into "/status aapl". Text that is not a
// slash command yields "".
func NormalizeCommand(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return ""
	}
	name := strings.ToLower(fields[0])
	if at := strings.IndexByte(name, '@'); at > 0 {
		name = name[:at]
	}
	if name == "/" {
		return ""
	}
	return strings.Join(append([]string{name}, fields[1:]...), " ")
}

// StartPolling long-polls getUpdates and answers commands from the configured chat. Transport
// failures back off exponentially; it returns when ctx is cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	client := &http.Client{Timeout: t.PollTimeout + 5*time.Second, Transport: t.Client.Transport}
	offset := 0
	backoff := minPollBackoff

	for ctx.Err() == nil {
		updates, err := t.getUpdates(ctx, client, offset)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Printf("[WARN] telegram polling: %v (retry in %s)", err, backoff)
			if !sleepCtx(ctx, backoff) {
				break
			}
			backoff = min(backoff*2, maxPollBackoff)
			continue
		}
		backoff = minPollBackoff

		for _, u := range updates {
			offset = u.UpdateID + 1
			t.dispatch(u.Message, handler)
		}
	}
	log.Println("[INFO] Telegram polling stopped")
}

func (t *TelegramNotifier) getUpdates(ctx context.Context, client *http.Client, offset int) ([]update, error) {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(offset))
	q.Set("timeout", strconv.Itoa(int(t.PollTimeout/time.Second)))
	q.Set("allowed_updates", `["message"]`)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.endpoint("getUpdates")+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body updatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode getUpdates (status %d): %w", resp.StatusCode, err)
	}
	if !body.OK {
		return nil, fmt.Errorf("getUpdates rejected: status %d: %s", resp.StatusCode, body.Description)
	}
	return body.Result, nil
}

func (t *TelegramNotifier) dispatch(msg *chatMessage, handler CommandHandler) {
	if msg == nil {
		return
	}
	if strconv.FormatInt(msg.Chat.ID, 10) != t.ChatID {
		log.Printf("[WARN] ignoring message from chat %d", msg.Chat.ID)
		return
	}
	cmd := NormalizeCommand(msg.Text)
	if cmd == "" {
		return
	}
	log.Printf("[INFO] command %q", cmd)
	reply := handler(cmd)
	if reply == "" {
		return
	}
	if err := t.Send(reply); err != nil {
		log.Printf("[ERROR] reply to %q: %v", cmd, err)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
