package provider

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wekeepgrowing/payments-gateway/internal/config"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/provider"
	stripeProvider "github.com/wekeepgrowing/payments-gateway/internal/infrastructure/provider/stripe"
)

// Factory creates provider clients from configuration
type Factory struct {
	config *config.Config
	logger *zap.Logger
}

func NewFactory(config *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		config: config,
		logger: logger,
	}
}

// GetClient returns the client for providerType.
func (f *Factory) GetClient(providerType provider.ProviderType) (provider.Client, error) {
	switch providerType {
	case provider.ProviderTypeStripe:
		return f.createStripeClient(), nil
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}

// GetClientFromString defaults to Stripe when providerStr is empty.
func (f *Factory) GetClientFromString(providerStr string) (provider.Client, error) {
	if providerStr == "" {
		providerStr = string(provider.ProviderTypeStripe)
	}
	return f.GetClient(provider.ProviderType(providerStr))
}

// createStripeClient builds the client even without credentials; calls then fail
// with a provider error and the missing keys are reported at startup.
func (f *Factory) createStripeClient() *stripeProvider.Client {
	return stripeProvider.NewClient(stripeProvider.Config{
		SecretKey: f.config.Stripe.SecretKey,
		PublicKey: f.config.Stripe.PublicKey,
		BaseURL:   f.config.Stripe.BaseURL,
		Timeout:   f.config.Stripe.RequestTimeout,
		Logger:    f.logger,
	})
}
