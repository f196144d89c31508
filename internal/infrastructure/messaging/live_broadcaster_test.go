package messaging

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/observability/logging"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startBroadcaster(t *testing.T) (*LiveBroadcaster, context.CancelFunc) {
	t.Helper()
	b := NewLiveBroadcaster(logging.NewNopLogger(), 4)
	ctx, cancel := context.WithCancel(context.Background())
	go b.Run(ctx)
	t.Cleanup(cancel)
	return b, cancel
}

func receive(t *testing.T, ch <-chan []byte) ([]byte, bool) {
	t.Helper()
	select {
	case msg, ok := <-ch:
		return msg, ok
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil, false
	}
}

func TestLiveBroadcaster_PublishesPerSession(t *testing.T) {
	b, _ := startBroadcaster(t)
	a := b.NewClient(nil, "s1")
	other := b.NewClient(nil, "s2")
	b.Register(a)
	b.Register(other)
	require.Eventually(t, func() bool { return b.ClientCount("s1") == 1 && b.ClientCount("s2") == 1 }, time.Second, time.Millisecond)

	b.Publish("s1", []byte("render"))
	msg, ok := receive(t, a.Send)
	require.True(t, ok)
	assert.Equal(t, "render", string(msg))

	select {
	case <-other.Send:
		t.Fatal("message leaked to another session")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestLiveBroadcaster_UnregisterAndCloseSession(t *testing.T) {
	b, _ := startBroadcaster(t)
	a := b.NewClient(nil, "s1")
	c := b.NewClient(nil, "s1")
	b.Register(a)
	b.Register(c)
	require.Eventually(t, func() bool { return b.ClientCount("s1") == 2 }, time.Second, time.Millisecond)

	b.Unregister(a)
	_, ok := receive(t, a.Send)
	assert.False(t, ok, "unregister closes the queue")
	require.Eventually(t, func() bool { return b.ClientCount("s1") == 1 }, time.Second, time.Millisecond)

	b.CloseSession("s1")
	_, ok = receive(t, c.Send)
	assert.False(t, ok)
	assert.Zero(t, b.ClientCount("s1"))
}

func TestLiveBroadcaster_StopClosesClients(t *testing.T) {
	b, cancel := startBroadcaster(t)
	a := b.NewClient(nil, "s1")
	b.Register(a)
	require.Eventually(t, func() bool { return b.ClientCount("s1") == 1 }, time.Second, time.Millisecond)

	cancel()
	_, ok := receive(t, a.Send)
	assert.False(t, ok)

	late := b.NewClient(nil, "s1")
	b.Register(late)
	_, ok = receive(t, late.Send)
	assert.False(t, ok, "registering after stop closes the client")
}

func TestLiveBroadcaster_FullQueueDrops(t *testing.T) {
	b, _ := startBroadcaster(t)
	slow := b.NewClient(nil, "s1")
	b.Register(slow)
	require.Eventually(t, func() bool { return b.ClientCount("s1") == 1 }, time.Second, time.Millisecond)

	for i := 0; i < 10; i++ {
		b.Publish("s1", []byte("x"))
	}
	assert.Eventually(t, func() bool { return len(slow.Send) == cap(slow.Send) }, time.Second, time.Millisecond)
}

func TestLiveClient_OverWebsocket(t *testing.T) {
	b, _ := startBroadcaster(t)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := b.NewClient(conn, "s1")
		b.Register(client)
		go client.WritePump()
		client.ReadPump(b)
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return b.ClientCount("s1") == 1 }, time.Second, time.Millisecond)

	b.Publish("s1", []byte(`{"html":"<div></div>"}`))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	kind, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.TextMessage, kind)
	assert.JSONEq(t, `{"html":"<div></div>"}`, string(msg))

	conn.Close()
	assert.Eventually(t, func() bool { return b.ClientCount("s1") == 0 }, time.Second, 5*time.Millisecond)
}
