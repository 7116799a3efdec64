package notify

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Telegram delivers pass notifications through the Telegram bot API. Sends
// happen on their own goroutine with a bounded client timeout so a slow or
// unreachable API can never stall the control loop.
type Telegram struct {
	baseURL string
	token   string
	chatID  string
	client  *http.Client
	log     *slog.Logger
}

func NewTelegram(token, chatID string, logger *slog.Logger) *Telegram {
	return &Telegram{
		baseURL: "https://api.telegram.org",
		token:   token,
		chatID:  chatID,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     logger,
	}
}

func (t *Telegram) OnWaitStart(object string, wake time.Time) {
	t.send(fmt.Sprintf("Waiting for %s, tracking starts at %s", object, wake.UTC().Format(time.RFC3339)))
}

func (t *Telegram) OnTrackingStart(object string) {
	t.send(fmt.Sprintf("Tracking %s", object))
}

func (t *Telegram) OnTrackingEnd(object string) {
	t.send(fmt.Sprintf("Pass of %s ended, antenna parked", object))
}

func (t *Telegram) send(text string) {
	go func() {
		endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)
		resp, err := t.client.PostForm(endpoint, url.Values{
			"chat_id": {t.chatID},
			"text":    {text},
		})
		if err != nil {
			t.log.Warn("Telegram notification failed", "error", err)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.log.Warn("Telegram notification rejected", "status", resp.StatusCode)
		}
	}()
}
