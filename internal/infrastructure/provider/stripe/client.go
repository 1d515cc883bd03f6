package stripe

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/provider"
	"go.uber.org/zap"
)

// DefaultTimeout bounds every provider call when Config.Timeout is unset.
const DefaultTimeout = 30 * time.Second

// Config configures the Stripe client. Credentials are held by the client instance;
// the package level stripe.Key is never touched.
type Config struct {
	SecretKey string
	PublicKey string
	// BaseURL overrides the Stripe API endpoint, e.g. for stripe-mock or tests.
	BaseURL string
	Timeout time.Duration
	// HTTPClient overrides the transport. Its Timeout is replaced by Timeout.
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client implements provider.Client against the Stripe API. It holds no state other
// than its credentials and is safe for concurrent use.
type Client struct {
	api       *client.API
	publicKey string
	timeout   time.Duration
	logger    *zap.Logger
}

var _ provider.Client = (*Client)(nil)

// NewClient builds a Stripe client. Network retries are disabled so that every
// remote operation is attempted exactly once.
func NewClient(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("stripe")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := &http.Client{}
	if cfg.HTTPClient != nil {
		clone := *cfg.HTTPClient
		httpClient = &clone
	}
	httpClient.Timeout = timeout

	backendConfig := &stripe.BackendConfig{
		HTTPClient:        httpClient,
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     logger.Sugar(),
	}
	if cfg.BaseURL != "" {
		backendConfig.URL = stripe.String(strings.TrimRight(cfg.BaseURL, "/"))
	}

	backends := &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, backendConfig),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, backendConfig),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, backendConfig),
	}

	return &Client{
		api:       client.New(strings.TrimSpace(cfg.SecretKey), backends),
		publicKey: strings.TrimSpace(cfg.PublicKey),
		timeout:   timeout,
		logger:    logger,
	}
}

func (c *Client) ProviderName() provider.ProviderType {
	return provider.ProviderTypeStripe
}

// PublicKey returns the publishable key handed to clients confirming intents.
func (c *Client) PublicKey() string {
	return c.publicKey
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// listIter is the part of the stripe list iterators used by collect.
type listIter interface {
	Next() bool
	Current() interface{}
	Err() error
}

// collect drains it, stopping after limit items when limit is positive so that no
// further pages are requested.
func collect[T any](it listIter, limit int64) ([]*T, error) {
	var items []*T
	for it.Next() {
		item, ok := it.Current().(*T)
		if !ok {
			continue
		}
		items = append(items, item)
		if limit > 0 && int64(len(items)) >= limit {
			break
		}
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
