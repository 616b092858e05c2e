package sse

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/basetishop/shop_api/internal/models"
)

func recv(t *testing.T, c *Client) *Event {
	t.Helper()
	select {
	case raw := <-c.Events:
		var e Event
		require.NoError(t, json.Unmarshal(raw, &e))
		return &e
	default:
		return nil
	}
}

func TestHub_RoutesByTenantAndUser(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := NewHub()
	a := hub.Register("a", "user-a", "tenant-1")
	b := hub.Register("b", "user-b", "tenant-2")
	defer hub.Unregister("a")
	defer hub.Unregister("b")

	n := NewHubNotifier(hub)
	n.NotifyProduct(EventProductCreated, "tenant-1", &models.Product{ID: 1, Name: "Mug"}, "Product created successfully")

	got := recv(t, a)
	require.NotNil(t, got)
	assert.Equal(t, EventProductCreated, got.Event)
	assert.Equal(t, "Product created successfully", got.Message)
	assert.Nil(t, recv(t, b))

	n.NotifySignedOut("user-b")
	got = recv(t, b)
	require.NotNil(t, got)
	assert.Equal(t, EventSignedOut, got.Event)
	assert.Equal(t, "/auth", got.Redirect)
	assert.Nil(t, recv(t, a))
}

func TestHub_TenantSwitchRetargets(t *testing.T) {
	hub := NewHub()
	admin := hub.Register("adm", "admin", "admin")
	defer hub.Unregister("adm")

	n := NewHubNotifier(hub)
	n.NotifyTenantSwitched("admin", &models.TenantContext{TenantID: "tenant-7", TenantName: "Shop 7"})
	got := recv(t, admin)
	require.NotNil(t, got)
	assert.Equal(t, EventTenantSwitched, got.Event)

	n.NotifyProduct(EventProductDeleted, "tenant-7", &models.Product{ID: 3}, "Product deleted successfully")
	got = recv(t, admin)
	require.NotNil(t, got)
	assert.Equal(t, EventProductDeleted, got.Event)
}

func TestHub_DropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	c := hub.Register("c", "u", "t")
	for i := 0; i < 70; i++ {
		hub.Publish(&Event{Event: EventProductUpdated, TenantID: "t"})
	}
	assert.Len(t, c.Events, 64)

	hub.Unregister("c")
	assert.Equal(t, 0, hub.ClientCount())
	_, open := <-c.Events
	assert.True(t, open, "buffered events remain readable after close")
}
