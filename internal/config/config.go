package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DatabaseDriverMongo    = "mongo"
	DatabaseDriverPostgres = "postgres"

	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"

	// bcrypt ignores input past 72 bytes.
	maxPasswordBytes = 72
)

// VerificationMode selects how Register proves email ownership.
type VerificationMode string

const (
	VerificationOTP        VerificationMode = "otp"
	VerificationEmailToken VerificationMode = "email_token"
	VerificationNone       VerificationMode = "none"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Auth      AuthConfig
	Google    GoogleConfig
	SMTP      SMTPConfig
	Storage   StorageConfig
	MQTT      MQTTConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Port        string
	Host        string
	Environment string
	LogLevel    string
}

type DatabaseConfig struct {
	Driver string

	MongoURI      string
	MongoDatabase string

	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	Secret              string
	RefreshSecret       string
	AccessExpiryMinutes int
	RefreshExpiryHours  int
	RotateRefreshTokens bool
}

type AuthConfig struct {
	VerificationMode       VerificationMode
	OTPTTLMinutes          int
	ResetTTLMinutes        int
	OutboundTimeoutSeconds int
	FrontendURL            string
	CleanupIntervalMinutes int

	// Password policy for signup and reset. The zero value accepts any
	// non-empty password up to the bcrypt limit.
	PasswordMinLength      int
	PasswordRequireLetters bool
}

type GoogleConfig struct {
	ClientID string
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type StorageConfig struct {
	Driver        string
	LocalDir      string
	PropertyDir   string
	MaxImageBytes int64

	// MaxPropertyImages caps the photos attached to one listing.
	MaxPropertyImages int

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
}

type MQTTConfig struct {
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
}

type RateLimitConfig struct {
	GeneralRPS   float64 // Requests per second for general endpoints
	GeneralBurst int     // Burst size for general endpoints
	AuthRPS      float64 // Requests per second for credential endpoints
	AuthBurst    int
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "3030")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENVIRONMENT", "development")

	viper.SetDefault("DB_DRIVER", DatabaseDriverMongo)
	viper.SetDefault("MONGODB_DATABASE", "estate")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")

	viper.SetDefault("JWT_ACCESS_EXPIRY_MINUTES", 60)
	viper.SetDefault("JWT_REFRESH_EXPIRY_HOURS", 7*24)
	viper.SetDefault("JWT_ROTATE_REFRESH", false)

	viper.SetDefault("AUTH_VERIFICATION_MODE", string(VerificationOTP))
	viper.SetDefault("AUTH_OTP_TTL_MINUTES", 20)
	viper.SetDefault("AUTH_RESET_TTL_MINUTES", 10)
	viper.SetDefault("AUTH_OUTBOUND_TIMEOUT_SECONDS", 5)
	viper.SetDefault("AUTH_CLEANUP_INTERVAL_MINUTES", 60)
	viper.SetDefault("APP_FRONTEND_URL", "http://localhost:3000")
	viper.SetDefault("AUTH_PASSWORD_MIN_LENGTH", 0)
	viper.SetDefault("AUTH_PASSWORD_REQUIRE_LETTERS_DIGITS", false)

	viper.SetDefault("SMTP_PORT", 465)

	viper.SetDefault("STORAGE_DRIVER", StorageDriverLocal)
	viper.SetDefault("STORAGE_LOCAL_DIR", "uploads/profile-pictures")
	viper.SetDefault("STORAGE_PROPERTY_DIR", "uploads/properties")
	viper.SetDefault("STORAGE_MAX_IMAGE_BYTES", 5<<20)
	viper.SetDefault("STORAGE_MAX_PROPERTY_IMAGES", 10)
	viper.SetDefault("S3_REGION", "us-east-1")

	viper.SetDefault("MQTT_CLIENT_ID", "estate-brokerage")
	viper.SetDefault("MQTT_TOPIC_PREFIX", "estate/identity")

	viper.SetDefault("RATE_LIMIT_GENERAL_RPS", 20)
	viper.SetDefault("RATE_LIMIT_GENERAL_BURST", 40)
	viper.SetDefault("RATE_LIMIT_AUTH_RPS", 1)
	viper.SetDefault("RATE_LIMIT_AUTH_BURST", 10)

	viper.SetDefault("CORS_ALLOWED_ORIGINS", []string{"*"})
	viper.SetDefault("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"})
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin"})
	viper.SetDefault("CORS_MAX_AGE", 86400)
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AddConfigPath(".")
	if homeDir, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(homeDir)
	}
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		log.Printf("Warning: config file not found: %v. Falling back to environment variables only.", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:        viper.GetString("SERVER_PORT"),
			Host:        viper.GetString("SERVER_HOST"),
			Environment: viper.GetString("ENVIRONMENT"),
			LogLevel:    viper.GetString("LOG_LEVEL"),
		},
		Database: DatabaseConfig{
			Driver:        strings.ToLower(viper.GetString("DB_DRIVER")),
			MongoURI:      viper.GetString("MONGODB_URI"),
			MongoDatabase: viper.GetString("MONGODB_DATABASE"),
			Host:          viper.GetString("DB_HOST"),
			Port:          viper.GetString("DB_PORT"),
			User:          viper.GetString("DB_USER"),
			Password:      viper.GetString("DB_PASSWORD"),
			DBName:        viper.GetString("DB_NAME"),
			SSLMode:       viper.GetString("DB_SSLMODE"),
		},
		JWT: JWTConfig{
			Secret:              viper.GetString("JWT_SECRET"),
			RefreshSecret:       viper.GetString("JWT_REFRESH_SECRET"),
			AccessExpiryMinutes: viper.GetInt("JWT_ACCESS_EXPIRY_MINUTES"),
			RefreshExpiryHours:  viper.GetInt("JWT_REFRESH_EXPIRY_HOURS"),
			RotateRefreshTokens: viper.GetBool("JWT_ROTATE_REFRESH"),
		},
		Auth: AuthConfig{
			VerificationMode:       VerificationMode(strings.ToLower(viper.GetString("AUTH_VERIFICATION_MODE"))),
			OTPTTLMinutes:          viper.GetInt("AUTH_OTP_TTL_MINUTES"),
			ResetTTLMinutes:        viper.GetInt("AUTH_RESET_TTL_MINUTES"),
			OutboundTimeoutSeconds: viper.GetInt("AUTH_OUTBOUND_TIMEOUT_SECONDS"),
			FrontendURL:            strings.TrimRight(viper.GetString("APP_FRONTEND_URL"), "/"),
			CleanupIntervalMinutes: viper.GetInt("AUTH_CLEANUP_INTERVAL_MINUTES"),
			PasswordMinLength:      viper.GetInt("AUTH_PASSWORD_MIN_LENGTH"),
			PasswordRequireLetters: viper.GetBool("AUTH_PASSWORD_REQUIRE_LETTERS_DIGITS"),
		},
		Google: GoogleConfig{
			ClientID: viper.GetString("GOOGLE_CLIENT_ID"),
		},
		SMTP: SMTPConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			User:     viper.GetString("SMTP_USER"),
			Password: viper.GetString("SMTP_PASSWORD"),
			From:     viper.GetString("SMTP_FROM"),
		},
		Storage: StorageConfig{
			Driver:            strings.ToLower(viper.GetString("STORAGE_DRIVER")),
			LocalDir:          viper.GetString("STORAGE_LOCAL_DIR"),
			PropertyDir:       viper.GetString("STORAGE_PROPERTY_DIR"),
			MaxImageBytes:     viper.GetInt64("STORAGE_MAX_IMAGE_BYTES"),
			MaxPropertyImages: viper.GetInt("STORAGE_MAX_PROPERTY_IMAGES"),
			S3Bucket:          viper.GetString("S3_BUCKET"),
			S3Region:          viper.GetString("S3_REGION"),
			S3Endpoint:        viper.GetString("S3_ENDPOINT"),
			S3AccessKey:       viper.GetString("S3_ACCESS_KEY"),
			S3SecretKey:       viper.GetString("S3_SECRET_KEY"),
		},
		MQTT: MQTTConfig{
			Broker:      viper.GetString("MQTT_BROKER"),
			ClientID:    viper.GetString("MQTT_CLIENT_ID"),
			Username:    viper.GetString("MQTT_USERNAME"),
			Password:    viper.GetString("MQTT_PASSWORD"),
			TopicPrefix: viper.GetString("MQTT_TOPIC_PREFIX"),
		},
		RateLimit: RateLimitConfig{
			GeneralRPS:   viper.GetFloat64("RATE_LIMIT_GENERAL_RPS"),
			GeneralBurst: viper.GetInt("RATE_LIMIT_GENERAL_BURST"),
			AuthRPS:      viper.GetFloat64("RATE_LIMIT_AUTH_RPS"),
			AuthBurst:    viper.GetInt("RATE_LIMIT_AUTH_BURST"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods:   viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders:   viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
			ExposedHeaders:   viper.GetStringSlice("CORS_EXPOSED_HEADERS"),
			AllowCredentials: viper.GetBool("CORS_ALLOW_CREDENTIALS"),
			MaxAge:           viper.GetInt("CORS_MAX_AGE"),
		},
	}

	if config.SMTP.From == "" {
		config.SMTP.From = config.SMTP.User
	}

	return config, nil
}

// Validate reports every missing setting the service cannot start without.
func (c *Config) Validate() error {
	var missing []string
	require := func(value, key string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, key)
		}
	}

	require(c.JWT.Secret, "JWT_SECRET")
	require(c.JWT.RefreshSecret, "JWT_REFRESH_SECRET")
	require(c.Google.ClientID, "GOOGLE_CLIENT_ID")
	require(c.SMTP.Host, "SMTP_HOST")
	require(c.SMTP.User, "SMTP_USER")
	require(c.SMTP.Password, "SMTP_PASSWORD")

	switch c.Database.Driver {
	case DatabaseDriverMongo:
		require(c.Database.MongoURI, "MONGODB_URI")
	case DatabaseDriverPostgres:
		require(c.Database.Host, "DB_HOST")
		require(c.Database.DBName, "DB_NAME")
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	switch c.Storage.Driver {
	case StorageDriverLocal:
		require(c.Storage.LocalDir, "STORAGE_LOCAL_DIR")
		require(c.Storage.PropertyDir, "STORAGE_PROPERTY_DIR")
	case StorageDriverS3:
		require(c.Storage.S3Bucket, "S3_BUCKET")
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}

	switch c.Auth.VerificationMode {
	case VerificationOTP, VerificationEmailToken, VerificationNone:
	default:
		return fmt.Errorf("unsupported AUTH_VERIFICATION_MODE %q", c.Auth.VerificationMode)
	}

	if c.JWT.Secret != "" && c.JWT.Secret == c.JWT.RefreshSecret {
		return errors.New("JWT_SECRET and JWT_REFRESH_SECRET must differ")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	return c.validateBounds()
}

// validateBounds rejects durations, limits and rates that would leave the
// service unable to issue codes, schedule cleanup or accept requests.
func (c *Config) validateBounds() error {
	var invalid []string
	positive := func(value float64, key string) {
		if value <= 0 {
			invalid = append(invalid, key)
		}
	}

	positive(float64(c.JWT.AccessExpiryMinutes), "JWT_ACCESS_EXPIRY_MINUTES")
	positive(float64(c.JWT.RefreshExpiryHours), "JWT_REFRESH_EXPIRY_HOURS")
	positive(float64(c.Auth.OTPTTLMinutes), "AUTH_OTP_TTL_MINUTES")
	positive(float64(c.Auth.ResetTTLMinutes), "AUTH_RESET_TTL_MINUTES")
	positive(float64(c.Auth.OutboundTimeoutSeconds), "AUTH_OUTBOUND_TIMEOUT_SECONDS")
	positive(float64(c.Auth.CleanupIntervalMinutes), "AUTH_CLEANUP_INTERVAL_MINUTES")
	positive(float64(c.Storage.MaxImageBytes), "STORAGE_MAX_IMAGE_BYTES")
	positive(float64(c.Storage.MaxPropertyImages), "STORAGE_MAX_PROPERTY_IMAGES")
	positive(c.RateLimit.GeneralRPS, "RATE_LIMIT_GENERAL_RPS")
	positive(float64(c.RateLimit.GeneralBurst), "RATE_LIMIT_GENERAL_BURST")
	positive(c.RateLimit.AuthRPS, "RATE_LIMIT_AUTH_RPS")
	positive(float64(c.RateLimit.AuthBurst), "RATE_LIMIT_AUTH_BURST")

	if c.Auth.PasswordMinLength < 0 || c.Auth.PasswordMinLength > maxPasswordBytes {
		invalid = append(invalid, "AUTH_PASSWORD_MIN_LENGTH")
	}

	if len(invalid) > 0 {
		return fmt.Errorf("configuration values out of range: %s", strings.Join(invalid, ", "))
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *JWTConfig) AccessTTL() time.Duration {
	return time.Duration(c.AccessExpiryMinutes) * time.Minute
}

func (c *JWTConfig) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshExpiryHours) * time.Hour
}

func (c *AuthConfig) OTPTTL() time.Duration {
	return time.Duration(c.OTPTTLMinutes) * time.Minute
}

func (c *AuthConfig) ResetTTL() time.Duration {
	return time.Duration(c.ResetTTLMinutes) * time.Minute
}

func (c *AuthConfig) OutboundTimeout() time.Duration {
	return time.Duration(c.OutboundTimeoutSeconds) * time.Second
}

func (c *AuthConfig) CleanupInterval() time.Duration {
	return time.Duration(c.CleanupIntervalMinutes) * time.Minute
}

// RequiresVerification reports whether Signin must refuse unverified identities.
func (c *AuthConfig) RequiresVerification() bool {
	return c.VerificationMode != VerificationNone
}
