package models

import (
	"fmt"
	"strings"
)

// MethodType is the closed set of payment method kinds the registry knows.
type MethodType string

const (
	MethodCash   MethodType = "CASH"
	MethodOnline MethodType = "ONLINE"
	MethodCard   MethodType = "CARD"
)

// ParseMethodType matches a raw type string case-insensitively against the
// known kinds. The second return value is false for unrecognized types.
func ParseMethodType(raw string) (MethodType, bool) {
	switch MethodType(strings.ToUpper(raw)) {
	case MethodCash:
		return MethodCash, true
	case MethodOnline:
		return MethodOnline, true
	case MethodCard:
		return MethodCard, true
	}
	return "", false
}

// PaymentMethodConfig is a registry row as persisted. ConfigData is an opaque
// serialized blob interpreted per Type; CASH carries none, ONLINE decodes to
// an OnlineConfig.
type PaymentMethodConfig struct {
	MethodID   string `json:"methodId"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Enabled    bool   `json:"enabled"`
	ConfigData string `json:"configData,omitempty"`
}

// PaymentMethod is the typed view of a registry row: either Cash or Online.
type PaymentMethod interface {
	ID() string
	Name() string
	Enabled() bool
	Type() MethodType
}

// Cash is the built-in cash method.
type Cash struct {
	MethodID   string
	MethodName string
	IsEnabled  bool
}

func (c Cash) ID() string       { return c.MethodID }
func (c Cash) Name() string     { return c.MethodName }
func (c Cash) Enabled() bool    { return c.IsEnabled }
func (c Cash) Type() MethodType { return MethodCash }

// OnlineConfig configures an online payment request method. BaseURL is a
// template with %d for the amount in cents and %s for the description.
type OnlineConfig struct {
	Name        string `json:"name"`
	BaseURL     string `json:"baseUrl"`
	Description string `json:"description"`
}

const (
	defaultOnlineDescription = "Inventra Payment Request"
	defaultOnlineURL         = "tikkie://payment_request?totalAmountInCents=%d&description=%s"
)

// Online is a payment-request method backed by an external payment URL.
type Online struct {
	MethodID   string
	MethodName string
	IsEnabled  bool
	Config     *OnlineConfig
}

func (o Online) ID() string       { return o.MethodID }
func (o Online) Name() string     { return o.MethodName }
func (o Online) Enabled() bool    { return o.IsEnabled }
func (o Online) Type() MethodType { return MethodOnline }

// PaymentURL fills the configured URL template with the amount (converted to
// cents) and a description. An empty description falls back to the configured
// one, then to the default.
func (o Online) PaymentURL(amount float64, description string) string {
	baseURL := defaultOnlineURL
	if o.Config != nil && o.Config.BaseURL != "" {
		baseURL = o.Config.BaseURL
	}
	if description == "" && o.Config != nil {
		description = o.Config.Description
	}
	if description == "" {
		description = defaultOnlineDescription
	}
	cents := int64(amount * 100)
	url := strings.Replace(baseURL, "%d", fmt.Sprintf("%d", cents), 1)
	return strings.Replace(url, "%s", description, 1)
}
