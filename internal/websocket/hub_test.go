package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendToDroppedClientIsDiscarded(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := NewClient(hub, nil, "u1", false)
	hub.Register <- client

	// Saturate the outbound buffer so the next fan-out hits backpressure
	// and the hub drops the connection, closing its Send channel.
	for i := 0; i < cap(client.Send); i++ {
		client.Send <- []byte("backlog")
	}
	hub.BroadcastToUser("u1", []byte("overflow"))

	// A reply landing after the drop must be discarded, not written to the
	// closed channel.
	require.NotPanics(t, func() {
		hub.SendTo(client, []byte("reply"))
	})
}

func TestSendToDeliversToLiveClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := NewClient(hub, nil, "u1", false)
	hub.Register <- client

	hub.SendTo(client, []byte("reply"))
	assert.Equal(t, []byte("reply"), <-client.Send)
}

func TestBroadcastToUserReachesOnlyThatUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	a := NewClient(hub, nil, "user-a", false)
	b := NewClient(hub, nil, "user-b", false)
	hub.Register <- a
	hub.Register <- b

	hub.BroadcastToUser("user-a", []byte("record"))
	assert.Equal(t, []byte("record"), <-a.Send)
	assert.Empty(t, b.Send)
}

func TestBroadcastAdminsSkipsStandardConnections(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	standard := NewClient(hub, nil, "user-a", false)
	admin := NewClient(hub, nil, "local-admin", true)
	hub.Register <- standard
	hub.Register <- admin

	hub.BroadcastAdmins([]byte("snapshot"))
	assert.Equal(t, []byte("snapshot"), <-admin.Send)
	assert.Empty(t, standard.Send)
}
