package config

import "time"

type ServiceConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
	// Provider selects the payment provider client; only "stripe" is supported.
	Provider string `mapstructure:"provider"`
	// CatalogPath is the desired catalog used by POST /api/customers/populate.
	// The built-in basic/premium catalog is used when empty.
	CatalogPath string `mapstructure:"catalog_path"`
}

// StripeConfig carries the provider credentials handed to the Stripe adapter.
type StripeConfig struct {
	SecretKey string `mapstructure:"secret_key"`
	PublicKey string `mapstructure:"public_key"`
	// BaseURL overrides the API endpoint, e.g. for stripe-mock.
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// MissingKeys names the credentials that are not configured.
func (c StripeConfig) MissingKeys() []string {
	var missing []string
	if c.SecretKey == "" {
		missing = append(missing, "stripe.secret_key")
	}
	if c.PublicKey == "" {
		missing = append(missing, "stripe.public_key")
	}
	return missing
}

// JWTConfig protects the administrative routes. They are refused while Secret is empty.
type JWTConfig struct {
	Secret    string `mapstructure:"secret"`
	AdminRole string `mapstructure:"admin_role"`
}

// RedisConfig enables gateway event publishing. An empty address disables it.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`
}

type SubscriptionConfig struct {
	// CompensateOnFailure detaches a freshly attached payment method when a later
	// workflow step fails.
	CompensateOnFailure bool `mapstructure:"compensate_on_failure"`
}
