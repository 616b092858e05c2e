package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/basetishop/shop_api/internal/cache"
	"github.com/basetishop/shop_api/internal/models"
	"github.com/basetishop/shop_api/internal/utils"
	"github.com/basetishop/shop_api/pkg/payfast"
)

// SubscriptionPeriod is how long one payment keeps a tier active.
const SubscriptionPeriod = 30 * 24 * time.Hour

func intPtr(v int) *int { return &v }

var plans = []models.Plan{
	{
		Key: "basic", Name: "Basic", Price: 299, Tier: models.TierBasic, TierNumber: 1,
		ProductLimit: intPtr(100),
		Features:     []string{"Up to 100 products", "Online storefront", "Order management", "AI content ideas"},
	},
	{
		Key: "pro", Name: "Pro", Price: 599, Tier: models.TierPro, TierNumber: 2,
		ProductLimit: intPtr(500),
		Features:     []string{"Up to 500 products", "Everything in Basic", "Social media captions", "Content calendar"},
	},
	{
		Key: "enterprise", Name: "Enterprise", Price: 999, Tier: models.TierEnterprise, TierNumber: 3,
		Features: []string{"Unlimited products", "Everything in Pro", "Competitor analysis", "Priority support"},
	},
}

// PlanByKey looks a plan up by its key, case-insensitively.
func PlanByKey(key string) (models.Plan, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, p := range plans {
		if p.Key == key {
			return p, true
		}
	}
	return models.Plan{}, false
}

// PlanByTierNumber looks a plan up by the number sent in custom_int1.
func PlanByTierNumber(n int) (models.Plan, bool) {
	for _, p := range plans {
		if p.TierNumber == n {
			return p, true
		}
	}
	return models.Plan{}, false
}

type subscriptionProfiles interface {
	profileReader
	ExpireSubscriptions(ctx context.Context, now time.Time, freeLimit int) ([]string, error)
}

type subscriptionStore interface {
	RecordPayment(ctx context.Context, s *models.Subscription, activation *models.SubscriptionActivation) (bool, error)
	ListByBusiness(ctx context.Context, tenantID string) ([]models.Subscription, error)
}

type subscriptionNotifier interface {
	NotifySubscription(tenantID string, status *models.SubscriptionStatus)
}

// SubscriptionURLs are the public addresses PayFast redirects and posts to.
type SubscriptionURLs struct {
	SiteURL string
	APIURL  string
}

// SubscriptionService sells plans through PayFast and applies their notifications.
type SubscriptionService struct {
	profiles subscriptionProfiles
	records  subscriptionStore
	payfast  *payfast.Client
	cache    *cache.QueryCache
	notifier subscriptionNotifier
	urls     SubscriptionURLs
	currency string
	now      func() time.Time
}

// NewSubscriptionService creates a new SubscriptionService.
func NewSubscriptionService(profiles subscriptionProfiles, records subscriptionStore, pf *payfast.Client, qc *cache.QueryCache, notifier subscriptionNotifier, urls SubscriptionURLs, currency string) *SubscriptionService {
	urls.SiteURL = strings.TrimSuffix(urls.SiteURL, "/")
	urls.APIURL = strings.TrimSuffix(urls.APIURL, "/")
	return &SubscriptionService{
		profiles: profiles,
		records:  records,
		payfast:  pf,
		cache:    qc,
		notifier: notifier,
		urls:     urls,
		currency: currency,
		now:      time.Now,
	}
}

// Plans lists the purchasable plans.
func (s *SubscriptionService) Plans() []models.Plan {
	return append([]models.Plan(nil), plans...)
}

// Status returns the tenant's current tier.
func (s *SubscriptionService) Status(ctx context.Context, tenantID string) (*models.SubscriptionStatus, error) {
	return cache.Fetch(ctx, s.cache, cache.ResourceSubscription, tenantID, func(ctx context.Context) (*models.SubscriptionStatus, error) {
		p, err := s.profiles.GetByID(ctx, tenantID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrTenantNotFound
		}
		if err != nil {
			return nil, err
		}
		return statusOf(p), nil
	})
}

// History lists the tenant's payments, newest first.
func (s *SubscriptionService) History(ctx context.Context, tenantID string) ([]models.Subscription, error) {
	return s.records.ListByBusiness(ctx, tenantID)
}

func statusOf(p *models.BusinessProfile) *models.SubscriptionStatus {
	tier := p.SubscriptionTier
	if tier == "" {
		tier = models.TierFree
	}
	return &models.SubscriptionStatus{
		Tier:         tier,
		Status:       p.SubscriptionStatus,
		EndDate:      p.SubscriptionEndDate,
		ProductLimit: p.ProductLimit,
	}
}

// Checkout builds the PayFast redirect form for a plan.
func (s *SubscriptionService) Checkout(tenantID, email, planKey string) (*payfast.Form, error) {
	plan, ok := PlanByKey(planKey)
	if !ok {
		return nil, utils.ErrUnknownPlan
	}

	form := s.payfast.BuildForm(payfast.Checkout{
		ReturnURL:    s.urls.SiteURL + "/dashboard",
		CancelURL:    s.urls.SiteURL + "/dashboard",
		NotifyURL:    s.urls.APIURL + "/webhook/payfast",
		NameFirst:    firstName(email),
		EmailAddress: email,
		PaymentID:    fmt.Sprintf("%s_%d", tenantID, s.now().UnixMilli()),
		Amount:       plan.Price,
		ItemName:     plan.Name + " Subscription",
		CustomStr1:   tenantID,
		CustomInt1:   plan.TierNumber,
	})
	log.Info().Str("tenant_id", tenantID).Str("plan", plan.Key).Msg("payfast checkout created")
	return form, nil
}

func firstName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return "User"
	}
	return local
}

var checkoutPage = template.Must(template.New("checkout").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Redirecting to PayFast</title></head>
<body onload="document.forms[0].submit()">
<form action="{{.Action}}" method="{{.Method}}">
{{range .Fields}}<input type="hidden" name="{{.Name}}" value="{{.Value}}">
{{end}}<noscript><button type="submit">Continue to PayFast</button></noscript>
</form>
</body>
</html>
`))

// RenderCheckoutPage renders a form that submits itself to PayFast on load.
func RenderCheckoutPage(form *payfast.Form) ([]byte, error) {
	var buf bytes.Buffer
	if err := checkoutPage.Execute(&buf, form); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// HandleNotification applies a PayFast ITN body. It returns ErrInvalidSignature
// for forged or malformed posts and ErrPaymentMismatch when the amount does
// not match the plan; replays of an already recorded payment are ignored.
func (s *SubscriptionService) HandleNotification(ctx context.Context, body []byte) error {
	n, err := payfast.ParseNotification(body)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrInvalidSignature, err)
	}
	if err := s.payfast.Verify(n); err != nil {
		log.Warn().Err(err).Str("payment_id", n.PaymentID()).Msg("payfast notification rejected")
		return fmt.Errorf("%w: %v", utils.ErrInvalidSignature, err)
	}

	tenantID := n.CustomStr1()
	plan, ok := PlanByTierNumber(n.CustomInt1())
	if tenantID == "" || !ok {
		log.Warn().Str("payment_id", n.PaymentID()).Int("tier", n.CustomInt1()).Msg("payfast notification for unknown plan")
		return utils.ErrUnknownPlan
	}
	amount, err := n.AmountGross()
	if err != nil || !payfast.AmountMatches(amount, plan.Price) {
		log.Warn().Str("payment_id", n.PaymentID()).Str("tenant_id", tenantID).Float64("amount", amount).Msg("payfast amount mismatch")
		return utils.ErrPaymentMismatch
	}

	now := s.now().UTC()
	paymentID := n.PaymentID()
	record := &models.Subscription{
		BusinessID:  tenantID,
		Amount:      amount,
		Currency:    s.currency,
		PaymentID:   &paymentID,
		PaymentDate: &now,
		Status:      recordStatus(n.PaymentStatus()),
		Tier:        plan.Tier,
	}
	var activation *models.SubscriptionActivation
	if n.PaymentStatus() == payfast.StatusComplete {
		activation = &models.SubscriptionActivation{
			Tier:         plan.Tier,
			EndDate:      now.Add(SubscriptionPeriod),
			ProductLimit: plan.ProductLimit,
		}
	}

	inserted, err := s.records.RecordPayment(ctx, record, activation)
	if err != nil {
		return fmt.Errorf("record subscription: %w", err)
	}
	if !inserted {
		log.Info().Str("payment_id", paymentID).Msg("duplicate payfast notification ignored")
		return nil
	}
	if activation == nil {
		log.Info().Str("payment_id", paymentID).Str("status", n.PaymentStatus()).Msg("payfast payment not complete")
		return nil
	}
	log.Info().Str("tenant_id", tenantID).Str("tier", string(plan.Tier)).Time("end_date", activation.EndDate).Msg("subscription activated")

	active := models.SubscriptionActive
	endDate := activation.EndDate
	s.afterChange(ctx, tenantID, &models.SubscriptionStatus{
		Tier:         plan.Tier,
		Status:       &active,
		EndDate:      &endDate,
		ProductLimit: plan.ProductLimit,
	})
	return nil
}

func recordStatus(paymentStatus string) string {
	switch paymentStatus {
	case payfast.StatusComplete:
		return models.SubscriptionActive
	case payfast.StatusFailed:
		return models.SubscriptionFailed
	case payfast.StatusCancelled:
		return models.SubscriptionCancelled
	default:
		return models.SubscriptionPending
	}
}

// ExpireDue downgrades every lapsed subscription to the free tier and
// returns how many tenants were affected.
func (s *SubscriptionService) ExpireDue(ctx context.Context) (int, error) {
	ids, err := s.profiles.ExpireSubscriptions(ctx, s.now().UTC(), models.FreeProductLimit)
	if err != nil {
		return 0, err
	}

	expired := models.SubscriptionExpired
	for _, id := range ids {
		s.afterChange(ctx, id, &models.SubscriptionStatus{
			Tier:         models.TierFree,
			Status:       &expired,
			ProductLimit: intPtr(models.FreeProductLimit),
		})
	}
	return len(ids), nil
}

func (s *SubscriptionService) afterChange(ctx context.Context, tenantID string, status *models.SubscriptionStatus) {
	s.cache.Invalidate(ctx, tenantID, cache.ResourceSubscription, cache.ResourceProfile, cache.ResourceDashboard)
	s.notifier.NotifySubscription(tenantID, status)
}
