package sse

import (
	"time"

	"github.com/basetishop/shop_api/internal/models"
)

// Notifier is the interface services use to emit dashboard events.
type Notifier interface {
	NotifyProduct(event EventType, tenantID string, product *models.Product, message string)
	NotifySignedOut(userID string)
	NotifyTenantSwitched(userID string, tc *models.TenantContext)
	NotifySubscription(tenantID string, status *models.SubscriptionStatus)
}

// HubNotifier implements Notifier using the SSE Hub.
type HubNotifier struct {
	hub *Hub
	now func() time.Time
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub, now: time.Now}
}

func (n *HubNotifier) NotifyProduct(event EventType, tenantID string, product *models.Product, message string) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Publish(&Event{Event: event, TenantID: tenantID, Message: message, Data: product, Timestamp: n.now()})
}

// NotifySignedOut tells every open tab of the user to leave the dashboard.
func (n *HubNotifier) NotifySignedOut(userID string) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Publish(&Event{Event: EventSignedOut, UserID: userID, Redirect: "/auth", Timestamp: n.now()})
}

func (n *HubNotifier) NotifyTenantSwitched(userID string, tc *models.TenantContext) {
	n.hub.Retarget(userID, tc.TenantID)
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Publish(&Event{Event: EventTenantSwitched, UserID: userID, Data: tc, Timestamp: n.now()})
}

func (n *HubNotifier) NotifySubscription(tenantID string, status *models.SubscriptionStatus) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Publish(&Event{Event: EventSubscription, TenantID: tenantID, Data: status, Timestamp: n.now()})
}

// NopNotifier is a no-op implementation for when SSE is not needed.
type NopNotifier struct{}

func (NopNotifier) NotifyProduct(EventType, string, *models.Product, string) {}
func (NopNotifier) NotifySignedOut(string) {}
func (NopNotifier) NotifyTenantSwitched(string, *models.TenantContext) {}
func (NopNotifier) NotifySubscription(string, *models.SubscriptionStatus) {}
