package api

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/mini-market/internal/economy"
)

func TestStreamPushesSnapshots(t *testing.T) {
	s := newTestServer(t, 0)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return s.Hub.Subscribers() == 1 }, 2*time.Second, 10*time.Millisecond)

	for i := 0; i < 3; i++ {
		s.Eng.Step()
		s.Publish(s.Sim.Snapshot())
	}

	for want := uint64(1); want <= 3; want++ {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)

		var snap economy.Snapshot
		require.NoError(t, json.Unmarshal(msg, &snap))
		assert.Equal(t, want, snap.Tick)
		assert.Equal(t, 10, snap.Agents)
	}

	conn.Close()
	require.Eventually(t, func() bool { return s.Hub.Subscribers() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHubDropsForSlowSubscribers(t *testing.T) {
	h := NewHub()
	ch := h.subscribe()

	for i := 0; i < streamBuffer+5; i++ {
		h.Publish(economy.Snapshot{Tick: uint64(i)})
	}

	assert.Len(t, ch, streamBuffer)
	assert.Equal(t, uint64(5), h.Dropped())

	h.unsubscribe(ch)
	assert.Equal(t, 0, h.Subscribers())
	h.Publish(economy.Snapshot{})
	assert.Equal(t, uint64(5), h.Dropped(), "no subscribers, nothing to drop")
}
