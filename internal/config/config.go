package config

import (
	"fmt"

	"github.com/wekeepgrowing/payments-gateway/pkg/config"
	"github.com/wekeepgrowing/payments-gateway/pkg/logger"
)

// ServiceName selects configs/{env}/payments.yaml and the PAYMENTS_ env prefix.
const ServiceName = "payments"

type Config struct {
	Service      ServiceConfig      `mapstructure:"service"`
	Stripe       StripeConfig       `mapstructure:"stripe"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Server       ServerConfig       `mapstructure:"server"`
	Log          logger.Config      `mapstructure:"log"`
	JWT          JWTConfig          `mapstructure:"jwt"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Subscription SubscriptionConfig `mapstructure:"subscription"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"service.name":               "payments-gateway",
		"stripe.request_timeout":     "30s",
		"server.http.port":           8080,
		"server.grpc.port":           9090,
		"log.level":                  "info",
		"log.format":                 "json",
		"redis.channel":              "payments.events",
		"database.max_open_conns":    10,
		"database.max_idle_conns":    5,
		"database.conn_max_lifetime": "30m",
	}
}

// LoadConfig reads the payments configuration. Stripe keys may also come from
// STRIPE_SECRET_KEY and STRIPE_PUBLIC_KEY.
func LoadConfig() (*Config, error) {
	loaded, err := config.Load(ServiceName, config.Options{
		Defaults: defaults(),
		EnvBindings: map[string]string{
			"stripe.secret_key": "STRIPE_SECRET_KEY",
			"stripe.public_key": "STRIPE_PUBLIC_KEY",
		},
	})
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := loaded.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
