package notify

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestTelegramSendsMessage(t *testing.T) {
	var mu sync.Mutex
	var gotPath, gotChat, gotText string
	done := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		mu.Lock()
		gotPath = r.URL.Path
		gotChat = r.PostFormValue("chat_id")
		gotText = r.PostFormValue("text")
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
		close(done)
	}))
	defer server.Close()

	tg := NewTelegram("token123", "-100500", testLogger)
	tg.baseURL = server.URL

	tg.OnTrackingStart("NOAA-19")

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("notification never reached the server")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "/bottoken123/sendMessage", gotPath)
	assert.Equal(t, "-100500", gotChat)
	assert.Contains(t, gotText, "NOAA-19")
}

func TestTelegramDoesNotBlockOnSlowServer(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	tg := NewTelegram("token", "chat", testLogger)
	tg.baseURL = server.URL

	start := time.Now()
	tg.OnWaitStart("ISS", time.Now().UTC())
	tg.OnTrackingEnd("ISS")
	assert.Less(t, time.Since(start), time.Second, "notification calls must return immediately")
}

func TestMultiFansOut(t *testing.T) {
	a := &recordingNotifier{}
	b := &recordingNotifier{}
	m := Multi{a, b}

	m.OnWaitStart("X", time.Now())
	m.OnTrackingStart("X")
	m.OnTrackingEnd("X")

	assert.Equal(t, []string{"wait", "start", "end"}, a.calls)
	assert.Equal(t, []string{"wait", "start", "end"}, b.calls)
}

type recordingNotifier struct {
	calls []string
}

func (r *recordingNotifier) OnWaitStart(object string, wake time.Time) { r.calls = append(r.calls, "wait") }
func (r *recordingNotifier) OnTrackingStart(object string)             { r.calls = append(r.calls, "start") }
func (r *recordingNotifier) OnTrackingEnd(object string)               { r.calls = append(r.calls, "end") }
