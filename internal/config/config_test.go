package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Database: DatabaseConfig{Driver: DatabaseDriverMongo, MongoURI: "mongodb://localhost:27017"},
		JWT: JWTConfig{
			Secret:              "access",
			RefreshSecret:       "refresh",
			AccessExpiryMinutes: 60,
			RefreshExpiryHours:  168,
		},
		Auth: AuthConfig{
			VerificationMode:       VerificationOTP,
			OTPTTLMinutes:          20,
			ResetTTLMinutes:        10,
			OutboundTimeoutSeconds: 5,
			CleanupIntervalMinutes: 60,
		},
		Google: GoogleConfig{ClientID: "client.apps.googleusercontent.com"},
		SMTP:   SMTPConfig{Host: "smtp.example.com", User: "mailer", Password: "secret"},
		Storage: StorageConfig{
			Driver:            StorageDriverLocal,
			LocalDir:          "uploads",
			PropertyDir:       "uploads/properties",
			MaxImageBytes:     5 << 20,
			MaxPropertyImages: 10,
		},
		RateLimit: RateLimitConfig{GeneralRPS: 20, GeneralBurst: 40, AuthRPS: 1, AuthBurst: 10},
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("JWT_SECRET", "access")
	t.Setenv("JWT_REFRESH_SECRET", "refresh")
	t.Setenv("SMTP_USER", "mailer@example.com")
	t.Setenv("APP_FRONTEND_URL", "https://estate.example.com/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3030", cfg.Server.Port)
	assert.Equal(t, DatabaseDriverMongo, cfg.Database.Driver)
	assert.Equal(t, VerificationOTP, cfg.Auth.VerificationMode)
	assert.Equal(t, time.Hour, cfg.JWT.AccessTTL())
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTTL())
	assert.Equal(t, 20*time.Minute, cfg.Auth.OTPTTL())
	assert.Equal(t, 10*time.Minute, cfg.Auth.ResetTTL())
	assert.Equal(t, 5*time.Second, cfg.Auth.OutboundTimeout())
	assert.Equal(t, time.Hour, cfg.Auth.CleanupInterval())
	assert.Equal(t, int64(5<<20), cfg.Storage.MaxImageBytes)
	assert.Equal(t, 465, cfg.SMTP.Port)
	assert.Equal(t, "mailer@example.com", cfg.SMTP.From)
	assert.Equal(t, "https://estate.example.com", cfg.Auth.FrontendURL)
	assert.False(t, cfg.JWT.RotateRefreshTokens)
	assert.Zero(t, cfg.Auth.PasswordMinLength)
	assert.False(t, cfg.Auth.PasswordRequireLetters)
	assert.Equal(t, "uploads/properties", cfg.Storage.PropertyDir)
	assert.Equal(t, 10, cfg.Storage.MaxPropertyImages)
}

func TestLoadOverrides(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("DB_DRIVER", "POSTGRES")
	t.Setenv("AUTH_VERIFICATION_MODE", "none")
	t.Setenv("JWT_ROTATE_REFRESH", "true")
	t.Setenv("AUTH_OTP_TTL_MINUTES", "15")
	t.Setenv("AUTH_PASSWORD_MIN_LENGTH", "8")
	t.Setenv("AUTH_PASSWORD_REQUIRE_LETTERS_DIGITS", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DatabaseDriverPostgres, cfg.Database.Driver)
	assert.Equal(t, VerificationNone, cfg.Auth.VerificationMode)
	assert.False(t, cfg.Auth.RequiresVerification())
	assert.True(t, cfg.JWT.RotateRefreshTokens)
	assert.Equal(t, 15*time.Minute, cfg.Auth.OTPTTL())
	assert.Equal(t, 8, cfg.Auth.PasswordMinLength)
	assert.True(t, cfg.Auth.PasswordRequireLetters)
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("missing secrets are listed", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWT = JWTConfig{}
		cfg.Google.ClientID = ""

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET")
		assert.Contains(t, err.Error(), "JWT_REFRESH_SECRET")
		assert.Contains(t, err.Error(), "GOOGLE_CLIENT_ID")
	})

	t.Run("missing smtp", func(t *testing.T) {
		cfg := validConfig()
		cfg.SMTP.Password = ""

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SMTP_PASSWORD")
	})

	t.Run("identical secrets", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWT.RefreshSecret = cfg.JWT.Secret

		assert.Error(t, cfg.Validate())
	})

	t.Run("postgres needs host and name", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database = DatabaseConfig{Driver: DatabaseDriverPostgres}

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_HOST")
		assert.Contains(t, err.Error(), "DB_NAME")
	})

	t.Run("s3 needs a bucket", func(t *testing.T) {
		cfg := validConfig()
		cfg.Storage = StorageConfig{Driver: StorageDriverS3}

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "S3_BUCKET")
	})

	t.Run("unknown drivers and modes", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database.Driver = "sqlite"
		assert.Error(t, cfg.Validate())

		cfg = validConfig()
		cfg.Storage.Driver = "ftp"
		assert.Error(t, cfg.Validate())

		cfg = validConfig()
		cfg.Auth.VerificationMode = "sms"
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive durations and limits", func(t *testing.T) {
		cases := map[string]func(*Config){
			"AUTH_CLEANUP_INTERVAL_MINUTES": func(c *Config) { c.Auth.CleanupIntervalMinutes = 0 },
			"AUTH_OTP_TTL_MINUTES":          func(c *Config) { c.Auth.OTPTTLMinutes = 0 },
			"AUTH_RESET_TTL_MINUTES":        func(c *Config) { c.Auth.ResetTTLMinutes = -1 },
			"AUTH_OUTBOUND_TIMEOUT_SECONDS": func(c *Config) { c.Auth.OutboundTimeoutSeconds = 0 },
			"JWT_ACCESS_EXPIRY_MINUTES":     func(c *Config) { c.JWT.AccessExpiryMinutes = 0 },
			"JWT_REFRESH_EXPIRY_HOURS":      func(c *Config) { c.JWT.RefreshExpiryHours = 0 },
			"STORAGE_MAX_IMAGE_BYTES":       func(c *Config) { c.Storage.MaxImageBytes = 0 },
			"STORAGE_MAX_PROPERTY_IMAGES":   func(c *Config) { c.Storage.MaxPropertyImages = 0 },
			"RATE_LIMIT_GENERAL_RPS":        func(c *Config) { c.RateLimit.GeneralRPS = 0 },
			"RATE_LIMIT_AUTH_BURST":         func(c *Config) { c.RateLimit.AuthBurst = 0 },
			"AUTH_PASSWORD_MIN_LENGTH":      func(c *Config) { c.Auth.PasswordMinLength = 100 },
		}
		for key, mutate := range cases {
			t.Run(key, func(t *testing.T) {
				cfg := validConfig()
				mutate(cfg)

				err := cfg.Validate()
				require.Error(t, err)
				assert.Contains(t, err.Error(), key)
			})
		}
	})
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: "5432", User: "estate", Password: "pw", DBName: "estate", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=estate password=pw dbname=estate sslmode=disable", db.DSN())
}
