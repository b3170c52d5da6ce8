package notify_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/notify"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/observability"
	"github.com/equipe-feedtrack/feedtrack/internal/port"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var _ port.Notifier = (*notify.Hub)(nil)

func TestRecent_NewestFirstAndBounded(t *testing.T) {
	hub := notify.NewHub(3, nil, observability.NewMetrics(), zap.NewNop())
	for _, msg := range []string{"a", "b", "c", "d"} {
		hub.Notify(domain.Notification{Level: domain.NotificationSuccess, Message: msg})
	}

	got := hub.Recent(0)
	require.Len(t, got, 3)
	assert.Equal(t, "d", got[0].Message)
	assert.Equal(t, "b", got[2].Message)
	assert.NotEmpty(t, got[0].ID)
	assert.False(t, got[0].CreatedAt.IsZero())

	assert.Len(t, hub.Recent(2), 2)
}

func TestRecent_Empty(t *testing.T) {
	hub := notify.NewHub(5, nil, nil, zap.NewNop())
	assert.Empty(t, hub.Recent(10))
}

func TestServeWS_Broadcasts(t *testing.T) {
	hub := notify.NewHub(10, nil, nil, zap.NewNop())
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, time.Second, 10*time.Millisecond)

	hub.Notify(domain.Notification{Level: domain.NotificationError, Resource: "customers", Message: "falhou"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got domain.Notification
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "falhou", got.Message)
	assert.Equal(t, domain.NotificationError, got.Level)

	hub.Close()
	assert.Equal(t, 0, hub.Subscribers())
}

func TestNotify_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := notify.NewHub(10, nil, nil, zap.NewNop())
	defer hub.Close()
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	// The client never reads, so its socket buffers fill up.
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, time.Second, 10*time.Millisecond)

	big := strings.Repeat("x", 64<<10)
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			hub.Notify(domain.Notification{Level: domain.NotificationSuccess, Message: big})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Notify blocked on a subscriber that does not read")
	}
	require.Eventually(t, func() bool { return hub.Subscribers() == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Len(t, hub.Recent(0), 10)
}
