package ws_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bridgeart/backend/pkg/ws"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, handler func(conn *websocket.Conn)) *ws.Client {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		handler(conn)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)

	return ws.NewClient(conn)
}

func drained(c *ws.Client) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range c.R {
		}
	}()
	return done
}

func TestClient_Read(t *testing.T) {
	c := dial(t, func(conn *websocket.Conn) {
		_ = conn.WriteMessage(websocket.BinaryMessage, []byte("skipped"))
		_ = conn.WriteMessage(websocket.TextMessage, []byte("hello"))
		_, _, _ = conn.ReadMessage()
	})
	defer c.Close()

	select {
	case msg := <-c.R:
		require.Equal(t, "hello", string(msg))
	case <-time.After(5 * time.Second):
		t.Fatal("no message received")
	}
}

func TestClient_CloseUnblocksFullReader(t *testing.T) {
	sent := make(chan struct{})
	c := dial(t, func(conn *websocket.Conn) {
		for i := 0; i < 200; i++ {
			if err := conn.WriteMessage(websocket.TextMessage, []byte("status")); err != nil {
				return
			}
		}
		close(sent)
		_, _, _ = conn.ReadMessage()
	})

	select {
	case <-sent:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not send")
	}

	require.Eventually(t, func() bool { return len(c.R) == cap(c.R) }, 5*time.Second, 10*time.Millisecond)

	c.Close()
	c.Close()

	select {
	case <-drained(c):
	case <-time.After(5 * time.Second):
		t.Fatal("reader did not stop after close")
	}
}

func TestClient_Write(t *testing.T) {
	received := make(chan string, 1)
	c := dial(t, func(conn *websocket.Conn) {
		_, msg, err := conn.ReadMessage()
		if err == nil {
			received <- string(msg)
		}
	})
	defer c.Close()

	require.NoError(t, c.Write(map[string]string{"status": "completed"}))
	require.Equal(t, `{"status":"completed"}`, <-received)
}
