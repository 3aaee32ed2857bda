package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/quotakeeper/quotakeeper/internal/domain/payment"
	"github.com/quotakeeper/quotakeeper/internal/domain/user"
	"github.com/quotakeeper/quotakeeper/internal/shared/config"
	"github.com/quotakeeper/quotakeeper/internal/shared/logger"
)

const (
	defaultAuthorityTimeout = 10 * time.Second
	maxAuthorityBodyBytes   = 1 << 20
	userAgent               = "quotakeeper"
)

// paymentEnvelope is the body returned by GET /api/v1/users/{id}/payment.
type paymentEnvelope struct {
	Payment *paymentBody `json:"payment"`
}

type paymentBody struct {
	SubscriptionID *string `json:"subscription_id"`
	MidtransID     *string `json:"midtrans_id"`
	Plan           *string `json:"plan"`
}

// HTTPAuthority queries one regional payment service over HTTP.
type HTTPAuthority struct {
	name         string
	baseURL      string
	secretHeader string
	secret       string
	timeout      time.Duration
	httpClient   *http.Client
	logger       logger.Interface
}

// AuthorityOptions configures an HTTPAuthority.
type AuthorityOptions struct {
	Name         string
	BaseURL      string
	SecretHeader string
	Secret       string
	// Timeout bounds a single query, independently of the caller's deadline.
	Timeout    time.Duration
	HTTPClient *http.Client
}

// NewHTTPAuthority creates an authority client. A nil HTTPClient uses a
// dedicated client without its own timeout; the per-query context carries it.
func NewHTTPAuthority(opts AuthorityOptions, log logger.Interface) *HTTPAuthority {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultAuthorityTimeout
	}
	return &HTTPAuthority{
		name:         opts.Name,
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		secretHeader: opts.SecretHeader,
		secret:       opts.Secret,
		timeout:      timeout,
		httpClient:   client,
		logger:       log.With("authority", opts.Name),
	}
}

// NewAuthoritiesFromConfig builds the authority chain in configured order.
func NewAuthoritiesFromConfig(cfg config.PaymentConfig, client *http.Client, log logger.Interface) []payment.Authority {
	authorities := make([]payment.Authority, 0, len(cfg.Authorities))
	for _, a := range cfg.Authorities {
		authorities = append(authorities, NewHTTPAuthority(AuthorityOptions{
			Name:         a.Name,
			BaseURL:      a.BaseURL,
			SecretHeader: cfg.SecretHeader,
			Secret:       cfg.Secret,
			Timeout:      cfg.AuthorityTimeout,
			HTTPClient:   client,
		}, log))
	}
	return authorities
}

func (a *HTTPAuthority) Name() string {
	return a.name
}

// FetchEntitlement implements payment.Authority.
func (a *HTTPAuthority) FetchEntitlement(ctx context.Context, externalUserID int64) (*user.PaymentEntitlement, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/api/v1/users/%s/payment", a.baseURL, url.PathEscape(strconv.FormatInt(externalUserID, 10)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if a.secretHeader != "" {
		req.Header.Set(a.secretHeader, a.secret)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch payment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxAuthorityBodyBytes))
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var envelope paymentEnvelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxAuthorityBodyBytes)).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if envelope.Payment == nil {
		return nil, fmt.Errorf("decode response: missing payment object")
	}

	a.logger.Debugw("fetched payment from authority", "external_user_id", externalUserID)

	return envelope.Payment.toEntitlement(), nil
}

func (b *paymentBody) toEntitlement() *user.PaymentEntitlement {
	e := &user.PaymentEntitlement{
		SubscriptionID:     b.SubscriptionID,
		PaymentProcessorID: b.MidtransID,
	}
	if b.Plan != nil {
		e.Plan = user.Plan(*b.Plan)
	}
	return e
}
