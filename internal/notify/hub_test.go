package notify

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, string) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)

	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return hub.running
	}, time.Second, 10*time.Millisecond)

	server := httptest.NewServer(hub)
	t.Cleanup(server.Close)
	return hub, "ws" + strings.TrimPrefix(server.URL, "http")
}

func subscribe(t *testing.T, url string) *websocket.Conn {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func receive(t *testing.T, conn *websocket.Conn) Message {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(payload, &msg))
	return msg
}

func TestHubBroadcastsToSubscribers(t *testing.T) {
	hub, url := startHub(t)
	first := subscribe(t, url)
	second := subscribe(t, url)
	require.Eventually(t, func() bool { return hub.Subscribers() == 2 }, time.Second, 10*time.Millisecond)

	msg, err := ComposePriceChange(utrecht(), event("price_drop", "1.899", "1.859"))
	require.NoError(t, err)
	require.NoError(t, hub.Send(context.Background(), msg))

	for _, conn := range []*websocket.Conn{first, second} {
		received := receive(t, conn)
		assert.Equal(t, KindPriceDrop, received.Kind)
		assert.Equal(t, msg.Text, received.Text)
		assert.Equal(t, "1.859", received.Station.Price.String())
	}
}

func TestHubReplaysLatestMessageOnConnect(t *testing.T) {
	hub, url := startHub(t)

	msg, err := ComposeDailyReport(utrecht(), dailyCycle())
	require.NoError(t, err)
	require.NoError(t, hub.Send(context.Background(), msg))

	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return hub.latest != nil
	}, time.Second, 10*time.Millisecond)

	conn := subscribe(t, url)
	assert.Equal(t, KindDailyReport, receive(t, conn).Kind)
}

func TestHubDropsSubscribersOnDisconnect(t *testing.T) {
	hub, url := startHub(t)
	conn := subscribe(t, url)
	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Subscribers() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestSendToStoppedHub(t *testing.T) {
	hub := NewHub()
	assert.ErrorIs(t, hub.Send(context.Background(), Message{Kind: KindDailyReport}), ErrHubStopped)
}
