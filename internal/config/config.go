package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Log       LogConfig       `yaml:"log"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	SendGrid  SendGridConfig  `yaml:"sendgrid"`
	Payment   PaymentConfig   `yaml:"payment"`
	Booking   BookingConfig   `yaml:"booking"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Catalog   CatalogConfig   `yaml:"catalog"`
}

// ServerConfig contains listener settings. The HTTP API listens on Port+1.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings for the booking journal
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type SendGridConfig struct {
	Enabled   bool   `yaml:"enabled"`
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

// PaymentConfig selects the payment authorizer. "approve" accepts every
// booking, "decline" rejects every booking.
type PaymentConfig struct {
	Mode string `yaml:"mode"`
}

type BookingConfig struct {
	IDScheme                string `yaml:"id_scheme"` // "uuid" or "sequence"
	ReleaseOnPaymentFailure bool   `yaml:"release_on_payment_failure"`
	QuoteTTLMinutes         int    `yaml:"quote_ttl_minutes"`
}

// SchedulerConfig contains cron schedule settings (with seconds field)
type SchedulerConfig struct {
	ExecutePickups     string `yaml:"execute_pickups"`
	ExecuteDropoffs    string `yaml:"execute_dropoffs"`
	PurgeExpiredQuotes string `yaml:"purge_expired_quotes"`
}

// CatalogConfig seeds bike types and providers at startup
type CatalogConfig struct {
	BikeTypes []BikeTypeConfig `yaml:"bike_types"`
	Providers []ProviderConfig `yaml:"providers"`
}

type BikeTypeConfig struct {
	Key              string `yaml:"key"`
	Name             string `yaml:"name"`
	ReplacementValue string `yaml:"replacement_value"`
}

type ProviderConfig struct {
	Key      string         `yaml:"key"`
	Name     string         `yaml:"name"`
	Postcode string         `yaml:"postcode"`
	Address  string         `yaml:"address"`
	Pricing  PricingConfig  `yaml:"pricing"`
	Stock    map[string]int `yaml:"stock"`
	Partners []string       `yaml:"partners"`
}

type PricingConfig struct {
	Kind       string            `yaml:"kind"` // "flat" or "discounted"
	DailyRates map[string]string `yaml:"daily_rates"`
	Discounts  []DiscountConfig  `yaml:"discounts"`
}

type DiscountConfig struct {
	MinDays   int    `yaml:"min_days"`
	MaxDays   int    `yaml:"max_days"`
	OpenEnded bool   `yaml:"open_ended"`
	Percent   string `yaml:"percent"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	// .env is optional; real environment variables win over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration, applies environment overrides and validates it
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Kafka
	if val := os.Getenv("KAFKA_BROKERS"); val != "" {
		c.Kafka.Brokers = strings.Split(val, ",")
	}

	// SendGrid
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.SendGrid.APIKey = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and fills defaults
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65534 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Enabled {
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
		if c.Database.SSLMode == "" {
			c.Database.SSLMode = "disable"
		}
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60
	}

	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka brokers are required")
		}
		if c.Kafka.Topic == "" {
			c.Kafka.Topic = "booking-events"
		}
	}

	if c.SendGrid.Enabled {
		if c.SendGrid.APIKey == "" {
			return fmt.Errorf("sendgrid api key is required")
		}
		if c.SendGrid.FromEmail == "" {
			return fmt.Errorf("sendgrid from email is required")
		}
	}

	switch c.Payment.Mode {
	case "":
		c.Payment.Mode = "approve"
	case "approve", "decline":
	default:
		return fmt.Errorf("unknown payment mode: %s", c.Payment.Mode)
	}

	switch c.Booking.IDScheme {
	case "":
		c.Booking.IDScheme = "uuid"
	case "uuid", "sequence":
	default:
		return fmt.Errorf("unknown booking id scheme: %s", c.Booking.IDScheme)
	}
	if c.Booking.QuoteTTLMinutes == 0 {
		c.Booking.QuoteTTLMinutes = 30
	}

	// Scheduler defaults
	if c.Scheduler.ExecutePickups == "" {
		c.Scheduler.ExecutePickups = "0 0 7 * * *" // 7 AM UTC
	}
	if c.Scheduler.ExecuteDropoffs == "" {
		c.Scheduler.ExecuteDropoffs = "0 0 18 * * *" // 6 PM UTC
	}
	if c.Scheduler.PurgeExpiredQuotes == "" {
		c.Scheduler.PurgeExpiredQuotes = "0 */5 * * * *" // every 5 minutes
	}

	return c.Catalog.validate()
}

func (c CatalogConfig) validate() error {
	types := make(map[string]bool, len(c.BikeTypes))
	for _, bt := range c.BikeTypes {
		if bt.Key == "" {
			return fmt.Errorf("bike type key is required")
		}
		if types[bt.Key] {
			return fmt.Errorf("duplicate bike type key: %s", bt.Key)
		}
		types[bt.Key] = true
	}

	providers := make(map[string]bool, len(c.Providers))
	for _, p := range c.Providers {
		if p.Key == "" {
			return fmt.Errorf("provider key is required")
		}
		if providers[p.Key] {
			return fmt.Errorf("duplicate provider key: %s", p.Key)
		}
		providers[p.Key] = true

		switch p.Pricing.Kind {
		case "flat", "discounted":
		default:
			return fmt.Errorf("provider %s: unknown pricing kind %q", p.Key, p.Pricing.Kind)
		}
		for key := range p.Pricing.DailyRates {
			if !types[key] {
				return fmt.Errorf("provider %s: rate for unknown bike type %s", p.Key, key)
			}
		}
		for key := range p.Stock {
			if !types[key] {
				return fmt.Errorf("provider %s: stock for unknown bike type %s", p.Key, key)
			}
		}
	}

	for _, p := range c.Providers {
		for _, partner := range p.Partners {
			if !providers[partner] {
				return fmt.Errorf("provider %s: unknown partner %s", p.Key, partner)
			}
		}
	}
	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the gRPC health endpoint address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetHTTPAddress returns the HTTP API address
func (c *Config) GetHTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port+1)
}
