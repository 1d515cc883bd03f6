package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Example(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join("..", "..", "configs", "example"))
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "payments-gateway", cfg.Service.Name)
	assert.Equal(t, "stripe", cfg.Service.Provider)
	assert.Equal(t, 30*time.Second, cfg.Stripe.RequestTimeout)
	assert.Equal(t, "sk_test_123", cfg.Stripe.SecretKey)
	assert.Equal(t, []string{"stripe.public_key"}, cfg.Stripe.MissingKeys())
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.HTTP.Address())
	assert.Equal(t, "admin", cfg.JWT.AdminRole)
	assert.False(t, cfg.Database.Enabled())
	assert.False(t, cfg.Subscription.CompensateOnFailure)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "payments"}

	assert.Equal(t, "host=db port=5432 user=u password=p dbname=payments sslmode=disable", cfg.DSN())
}
