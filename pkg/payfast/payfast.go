// Package payfast builds PayFast redirect checkouts and verifies their
// instant transaction notifications (ITN).
package payfast

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// SandboxProcessURL is the PayFast sandbox checkout endpoint.
const SandboxProcessURL = "https://sandbox.payfast.co.za/eng/process"

// Payment statuses sent in notifications.
const (
	StatusComplete  = "COMPLETE"
	StatusFailed    = "FAILED"
	StatusCancelled = "CANCELLED"
)

var (
	ErrInvalidSignature = errors.New("payfast: invalid signature")
	ErrMerchantMismatch = errors.New("payfast: merchant id mismatch")
	ErrMalformed        = errors.New("payfast: malformed notification")
)

// Field is one name/value pair. Order matters for signatures.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Form is a hidden HTML form that redirects the shopper to PayFast.
type Form struct {
	Action string  `json:"action"`
	Method string  `json:"method"`
	Fields []Field `json:"fields"`
}

// Config holds merchant credentials.
type Config struct {
	MerchantID  string
	MerchantKey string
	Passphrase  string
	ProcessURL  string
}

// Checkout describes one payment.
type Checkout struct {
	ReturnURL    string
	CancelURL    string
	NotifyURL    string
	NameFirst    string
	EmailAddress string
	PaymentID    string
	Amount       float64
	ItemName     string
	CustomStr1   string
	CustomInt1   int
}

// Client builds forms and verifies notifications for one merchant.
type Client struct {
	cfg Config
}

// NewClient constructs a Client. An empty ProcessURL selects the sandbox.
func NewClient(cfg Config) *Client {
	if cfg.ProcessURL == "" {
		cfg.ProcessURL = SandboxProcessURL
	}
	return &Client{cfg: cfg}
}

// MerchantID returns the configured merchant id.
func (c *Client) MerchantID() string {
	return c.cfg.MerchantID
}

// BuildForm returns the checkout form in PayFast's documented field order.
// A signature is appended when a passphrase is configured.
func (c *Client) BuildForm(co Checkout) *Form {
	fields := []Field{
		{"merchant_id", c.cfg.MerchantID},
		{"merchant_key", c.cfg.MerchantKey},
		{"return_url", co.ReturnURL},
		{"cancel_url", co.CancelURL},
		{"notify_url", co.NotifyURL},
		{"name_first", co.NameFirst},
		{"email_address", co.EmailAddress},
		{"m_payment_id", co.PaymentID},
		{"amount", FormatAmount(co.Amount)},
		{"item_name", co.ItemName},
		{"custom_str1", co.CustomStr1},
		{"custom_int1", strconv.Itoa(co.CustomInt1)},
	}
	if c.cfg.Passphrase != "" {
		fields = append(fields, Field{"signature", Signature(fields, c.cfg.Passphrase)})
	}
	return &Form{Action: c.cfg.ProcessURL, Method: "POST", Fields: fields}
}

// FormatAmount renders an amount with two decimals as PayFast expects.
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

// Signature = md5(name=urlencode(value)&...[&passphrase=urlencode(pass)]) over
// non-empty fields in order, excluding any signature field. It signs checkout
// forms; notifications use NotificationSignature.
func Signature(fields []Field, passphrase string) string {
	parts := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		v := strings.TrimSpace(f.Value)
		if f.Name == "signature" || v == "" {
			continue
		}
		parts = append(parts, f.Name+"="+encode(v))
	}
	return digest(parts, passphrase)
}

// NotificationSignature signs an ITN the way PayFast does: every posted field
// in the order received, blank values included and nothing trimmed.
func NotificationSignature(fields []Field, passphrase string) string {
	parts := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		if f.Name == "signature" {
			continue
		}
		parts = append(parts, f.Name+"="+encode(f.Value))
	}
	return digest(parts, passphrase)
}

func digest(parts []string, passphrase string) string {
	if passphrase != "" {
		parts = append(parts, "passphrase="+encode(strings.TrimSpace(passphrase)))
	}
	sum := md5.Sum([]byte(strings.Join(parts, "&")))
	return hex.EncodeToString(sum[:])
}

// encode matches PHP urlencode, which PayFast uses: spaces become '+' and
// '~' is escaped.
func encode(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "~", "%7E")
}

// Notification is a parsed ITN post.
type Notification struct {
	Fields []Field
	values map[string]string
}

// ParseNotification decodes an application/x-www-form-urlencoded body,
// keeping field order for signature checks.
func ParseNotification(body []byte) (*Notification, error) {
	n := &Notification{values: make(map[string]string)}
	for _, pair := range strings.Split(string(body), "&") {
		if pair == "" {
			continue
		}
		rawKey, rawVal, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		val, err := url.QueryUnescape(rawVal)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		n.Fields = append(n.Fields, Field{key, val})
		n.values[key] = val
	}
	if n.Get("m_payment_id") == "" || n.Get("payment_status") == "" {
		return nil, fmt.Errorf("%w: missing m_payment_id or payment_status", ErrMalformed)
	}
	return n, nil
}

// Get returns the value of a field or "".
func (n *Notification) Get(name string) string {
	return n.values[name]
}

// PaymentStatus is COMPLETE, FAILED or CANCELLED.
func (n *Notification) PaymentStatus() string { return n.Get("payment_status") }

// PaymentID is our m_payment_id.
func (n *Notification) PaymentID() string { return n.Get("m_payment_id") }

// GatewayPaymentID is PayFast's pf_payment_id.
func (n *Notification) GatewayPaymentID() string { return n.Get("pf_payment_id") }

// CustomStr1 returns custom_str1.
func (n *Notification) CustomStr1() string { return n.Get("custom_str1") }

// CustomInt1 returns custom_int1, or 0 if absent or invalid.
func (n *Notification) CustomInt1() int {
	v, _ := strconv.Atoi(n.Get("custom_int1"))
	return v
}

// AmountGross parses amount_gross.
func (n *Notification) AmountGross() (float64, error) {
	return strconv.ParseFloat(n.Get("amount_gross"), 64)
}

// Verify checks the notification signature and merchant id.
func (c *Client) Verify(n *Notification) error {
	if n.Get("merchant_id") != c.cfg.MerchantID {
		return ErrMerchantMismatch
	}
	want := NotificationSignature(n.Fields, c.cfg.Passphrase)
	if got := n.Get("signature"); got == "" || !strings.EqualFold(got, want) {
		return ErrInvalidSignature
	}
	return nil
}

// AmountMatches compares a notified amount to the expected price within a cent.
func AmountMatches(got, want float64) bool {
	return math.Abs(got-want) < 0.01
}
