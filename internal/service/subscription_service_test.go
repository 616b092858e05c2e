package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basetishop/shop_api/internal/models"
	"github.com/basetishop/shop_api/internal/utils"
	"github.com/basetishop/shop_api/pkg/payfast"
)

type fakeSubscriptions struct {
	mu       sync.Mutex
	records  []models.Subscription
	profiles *fakeProfiles
	// failActivations makes the next n activations fail and roll back.
	failActivations int
}

func (f *fakeSubscriptions) RecordPayment(ctx context.Context, s *models.Subscription, a *models.SubscriptionActivation) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.PaymentID != nil && s.PaymentID != nil && *r.PaymentID == *s.PaymentID {
			return false, nil
		}
	}
	if a != nil {
		if f.failActivations > 0 {
			f.failActivations--
			return false, errors.New("activate subscription: db down")
		}
		if err := f.profiles.ActivateSubscription(ctx, s.BusinessID, a.Tier, a.EndDate, a.ProductLimit); err != nil {
			return false, err
		}
	}
	f.records = append(f.records, *s)
	return true, nil
}

func (f *fakeSubscriptions) ListByBusiness(_ context.Context, tenantID string) ([]models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Subscription{}
	for _, r := range f.records {
		if r.BusinessID == tenantID {
			out = append(out, r)
		}
	}
	return out, nil
}

const testPassphrase = "jt7NOE43FZPn"

type subscriptionFixture struct {
	svc      *SubscriptionService
	profiles *fakeProfiles
	records  *fakeSubscriptions
	notifier *fakeNotifier
	pf       *payfast.Client
}

func newSubscriptionFixture() *subscriptionFixture {
	profiles := newFakeProfiles(&models.BusinessProfile{ID: "biz-1", SubscriptionTier: models.TierFree})
	records := &fakeSubscriptions{profiles: profiles}
	n := &fakeNotifier{}
	pf := payfast.NewClient(payfast.Config{MerchantID: "10000100", MerchantKey: "46f0cd694581a", Passphrase: testPassphrase})
	svc := NewSubscriptionService(profiles, records, pf, newTestCache(), n,
		SubscriptionURLs{SiteURL: "https://shop.example.com/", APIURL: "https://api.example.com"}, "ZAR")
	svc.now = func() time.Time { return time.UnixMilli(1767225600000) }
	return &subscriptionFixture{svc: svc, profiles: profiles, records: records, notifier: n, pf: pf}
}

func fieldMap(fields []payfast.Field) map[string]string {
	m := map[string]string{}
	for _, f := range fields {
		m[f.Name] = f.Value
	}
	return m
}

// itnBody encodes fields in order and signs them like PayFast does, blank
// fields included.
func itnBody(fields []payfast.Field) []byte {
	fields = append(fields, payfast.Field{Name: "signature", Value: payfast.NotificationSignature(fields, testPassphrase)})
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, url.QueryEscape(f.Name)+"="+url.QueryEscape(f.Value))
	}
	return []byte(strings.Join(parts, "&"))
}

func completeITN(amount string, tier string) []payfast.Field {
	return []payfast.Field{
		{Name: "m_payment_id", Value: "biz-1_1767225600000"},
		{Name: "pf_payment_id", Value: "1089250"},
		{Name: "payment_status", Value: payfast.StatusComplete},
		{Name: "item_name", Value: "Pro Subscription"},
		{Name: "item_description", Value: ""},
		{Name: "amount_gross", Value: amount},
		{Name: "name_first", Value: "thandi"},
		{Name: "name_last", Value: ""},
		{Name: "custom_str1", Value: "biz-1"},
		{Name: "custom_str2", Value: ""},
		{Name: "custom_int1", Value: tier},
		{Name: "merchant_id", Value: "10000100"},
	}
}

func TestSubscriptionService_CheckoutForm(t *testing.T) {
	f := newSubscriptionFixture()

	form, err := f.svc.Checkout("biz-1", "thandi@example.com", "Pro")
	require.NoError(t, err)

	assert.Equal(t, payfast.SandboxProcessURL, form.Action)
	assert.Equal(t, "POST", form.Method)
	fields := fieldMap(form.Fields)
	assert.Equal(t, "599.00", fields["amount"])
	assert.Equal(t, "2", fields["custom_int1"])
	assert.Equal(t, "biz-1", fields["custom_str1"])
	assert.Equal(t, "Pro Subscription", fields["item_name"])
	assert.Equal(t, "thandi", fields["name_first"])
	assert.Equal(t, "biz-1_1767225600000", fields["m_payment_id"])
	assert.Equal(t, "https://shop.example.com/dashboard", fields["return_url"])
	assert.Equal(t, "https://api.example.com/webhook/payfast", fields["notify_url"])
	assert.NotEmpty(t, fields["signature"])
	assert.Equal(t, "merchant_id", form.Fields[0].Name)
	assert.Equal(t, "signature", form.Fields[len(form.Fields)-1].Name)
}

func TestSubscriptionService_CheckoutUnknownPlan(t *testing.T) {
	f := newSubscriptionFixture()

	_, err := f.svc.Checkout("biz-1", "a@b.c", "platinum")
	assert.ErrorIs(t, err, utils.ErrUnknownPlan)
}

func TestSubscriptionService_CheckoutNameFallback(t *testing.T) {
	f := newSubscriptionFixture()

	form, err := f.svc.Checkout("biz-1", "", "basic")
	require.NoError(t, err)
	assert.Equal(t, "User", fieldMap(form.Fields)["name_first"])
}

func TestRenderCheckoutPage(t *testing.T) {
	f := newSubscriptionFixture()
	form, err := f.svc.Checkout("biz-1", "a@b.c", "basic")
	require.NoError(t, err)

	page, err := RenderCheckoutPage(form)
	require.NoError(t, err)

	html := string(page)
	assert.Contains(t, html, `action="https://sandbox.payfast.co.za/eng/process"`)
	assert.Contains(t, html, `name="amount" value="299.00"`)
	assert.Contains(t, html, "document.forms[0].submit()")
}

func TestSubscriptionService_CompleteNotificationActivates(t *testing.T) {
	f := newSubscriptionFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.HandleNotification(ctx, itnBody(completeITN("599.00", "2"))))

	assert.Equal(t, models.TierPro, f.profiles.activated["biz-1"])
	require.Len(t, f.records.records, 1)
	assert.Equal(t, models.SubscriptionActive, f.records.records[0].Status)

	status, err := f.svc.Status(ctx, "biz-1")
	require.NoError(t, err)
	assert.Equal(t, models.TierPro, status.Tier)
	require.NotNil(t, status.ProductLimit)
	assert.Equal(t, 500, *status.ProductLimit)
	assert.Equal(t, time.UnixMilli(1767225600000).UTC().Add(SubscriptionPeriod), *status.EndDate)

	require.Len(t, f.notifier.all(), 1)
}

func TestSubscriptionService_DuplicateNotificationIgnored(t *testing.T) {
	f := newSubscriptionFixture()
	ctx := context.Background()
	body := itnBody(completeITN("599.00", "2"))

	require.NoError(t, f.svc.HandleNotification(ctx, body))
	require.NoError(t, f.svc.HandleNotification(ctx, body))

	assert.Len(t, f.records.records, 1)
	assert.Len(t, f.notifier.all(), 1)
}

func TestSubscriptionService_RedeliveryAfterFailedActivation(t *testing.T) {
	f := newSubscriptionFixture()
	f.records.failActivations = 1
	ctx := context.Background()
	body := itnBody(completeITN("599.00", "2"))

	require.Error(t, f.svc.HandleNotification(ctx, body))
	assert.Empty(t, f.records.records)
	assert.Empty(t, f.profiles.activated)

	require.NoError(t, f.svc.HandleNotification(ctx, body))
	assert.Equal(t, models.TierPro, f.profiles.activated["biz-1"])
	assert.Len(t, f.records.records, 1)
	assert.Len(t, f.notifier.all(), 1)
}

func TestSubscriptionService_RejectsBadSignature(t *testing.T) {
	f := newSubscriptionFixture()
	body := itnBody(completeITN("599.00", "2"))
	tampered := strings.Replace(string(body), "amount_gross=599.00", "amount_gross=5.00", 1)

	err := f.svc.HandleNotification(context.Background(), []byte(tampered))
	assert.ErrorIs(t, err, utils.ErrInvalidSignature)
	assert.Empty(t, f.records.records)
}

func TestSubscriptionService_RejectsAmountMismatch(t *testing.T) {
	f := newSubscriptionFixture()

	err := f.svc.HandleNotification(context.Background(), itnBody(completeITN("299.00", "3")))
	assert.ErrorIs(t, err, utils.ErrPaymentMismatch)
	assert.Empty(t, f.profiles.activated)
}

func TestSubscriptionService_FailedPaymentRecordedOnly(t *testing.T) {
	f := newSubscriptionFixture()
	fields := completeITN("299.00", "1")
	fields[2].Value = payfast.StatusFailed

	require.NoError(t, f.svc.HandleNotification(context.Background(), itnBody(fields)))

	require.Len(t, f.records.records, 1)
	assert.Equal(t, models.SubscriptionFailed, f.records.records[0].Status)
	assert.Empty(t, f.profiles.activated)
}

func TestSubscriptionService_ExpireDue(t *testing.T) {
	f := newSubscriptionFixture()
	past := time.UnixMilli(1767225600000).Add(-time.Hour)
	f.profiles.profiles["biz-2"] = &models.BusinessProfile{ID: "biz-2", SubscriptionTier: models.TierBasic, SubscriptionEndDate: &past}

	n, err := f.svc.ExpireDue(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, n)
	assert.Equal(t, models.TierFree, f.profiles.profiles["biz-2"].SubscriptionTier)
	assert.Equal(t, models.FreeProductLimit, *f.profiles.profiles["biz-2"].ProductLimit)
	require.Len(t, f.notifier.all(), 1)
	assert.Equal(t, "biz-2", f.notifier.all()[0].TenantID)
}
