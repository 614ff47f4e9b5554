package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	v.Set("app.env", "dev")
	v.Set("server.port", 8080)
	v.Set("database.dsn", "care.db")
	v.Set("auth.jwt_secret", defaultJWTSecret)
	v.Set("auth.jwt_ttl", "12h")
	v.Set("eligibility.window_months", 13)
	v.Set("eligibility.recency_days", 60)
	v.Set("eligibility.top_customers", 20)
	v.Set("notification.mode", "log")
	v.Set("notification.form_base_url", defaultFormBaseURL)
	v.Set("redis.rvp_ttl", "10m")
	v.Set("redis.lock_ttl", "30s")
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(newTestViper())
	require.NoError(t, err)

	assert.Equal(t, 13, cfg.Eligibility.WindowMonths)
	assert.Equal(t, 60, cfg.Eligibility.RecencyDays)
	assert.True(t, cfg.Eligibility.ReferenceDate.IsZero())
	assert.Equal(t, 12*time.Hour, cfg.Auth.JWTTTL)
	assert.Equal(t, 10*time.Minute, cfg.Redis.RVPTTL)
}

func TestFromViper_ReferenceDate(t *testing.T) {
	v := newTestViper()
	v.Set("eligibility.reference_date", "2024-10-01")

	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC), cfg.Eligibility.ReferenceDate)
}

func TestFromViper_InvalidReferenceDate(t *testing.T) {
	v := newTestViper()
	v.Set("eligibility.reference_date", "10/01/2024")

	_, err := FromViper(v)
	assert.Error(t, err)
}

func TestFromViper_WebhookRequiresURL(t *testing.T) {
	v := newTestViper()
	v.Set("notification.mode", "webhook")

	_, err := FromViper(v)
	assert.ErrorContains(t, err, "webhook_url")
}

func TestFromViper_ProdRequiresSecret(t *testing.T) {
	v := newTestViper()
	v.Set("app.env", "production")

	_, err := FromViper(v)
	assert.ErrorContains(t, err, "jwt_secret")

	v.Set("auth.jwt_secret", "a-real-secret")
	_, err = FromViper(v)
	assert.NoError(t, err)
}

func TestFromViper_RejectsNonPositiveWindow(t *testing.T) {
	v := newTestViper()
	v.Set("eligibility.window_months", 0)

	_, err := FromViper(v)
	assert.Error(t, err)
}
