package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Log      LogConfig
	Pricing  PricingConfig
	Gateway  GatewayConfig
	Order    OrderConfig
}

type ServerConfig struct {
	Port    int
	BaseURL string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	MigrationsPath  string
}

type LogConfig struct {
	Level string
}

// PricingConfig drives order totals: a flat two-tier shipping fee with a
// free-shipping threshold, and a flat tax rate.
type PricingConfig struct {
	FreeShippingThreshold float64
	LocalRegion           string
	LocalShippingFee      float64
	RemoteShippingFee     float64
	TaxRate               float64
}

type GatewayConfig struct {
	StoreID       string
	StorePassword string
	Sandbox       bool
	Timeout       time.Duration
}

type OrderConfig struct {
	NumberMaxAttempts int
}

func Load() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("SERVER_BASE_URL", "http://localhost:8080")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 3306)
	viper.SetDefault("DB_USER", "fitstore")
	viper.SetDefault("DB_PASSWORD", "secret")
	viper.SetDefault("DB_NAME", "fitstore")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("DB_MIGRATIONS_PATH", "migrations")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("PRICING_FREE_SHIPPING_THRESHOLD", 2000.0)
	viper.SetDefault("PRICING_LOCAL_REGION", "Dhaka")
	viper.SetDefault("PRICING_LOCAL_SHIPPING_FEE", 60.0)
	viper.SetDefault("PRICING_REMOTE_SHIPPING_FEE", 120.0)
	viper.SetDefault("PRICING_TAX_RATE", 0.05)
	viper.SetDefault("GATEWAY_STORE_ID", "")
	viper.SetDefault("GATEWAY_STORE_PASSWORD", "")
	viper.SetDefault("GATEWAY_SANDBOX", true)
	viper.SetDefault("GATEWAY_TIMEOUT", "15s")
	viper.SetDefault("ORDER_NUMBER_MAX_ATTEMPTS", 3)

	connMaxLifetime, err := time.ParseDuration(viper.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		return nil, err
	}

	gatewayTimeout, err := time.ParseDuration(viper.GetString("GATEWAY_TIMEOUT"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:    viper.GetInt("SERVER_PORT"),
			BaseURL: viper.GetString("SERVER_BASE_URL"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			Name:            viper.GetString("DB_NAME"),
			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connMaxLifetime,
			MigrationsPath:  viper.GetString("DB_MIGRATIONS_PATH"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Pricing: PricingConfig{
			FreeShippingThreshold: viper.GetFloat64("PRICING_FREE_SHIPPING_THRESHOLD"),
			LocalRegion:           viper.GetString("PRICING_LOCAL_REGION"),
			LocalShippingFee:      viper.GetFloat64("PRICING_LOCAL_SHIPPING_FEE"),
			RemoteShippingFee:     viper.GetFloat64("PRICING_REMOTE_SHIPPING_FEE"),
			TaxRate:               viper.GetFloat64("PRICING_TAX_RATE"),
		},
		Gateway: GatewayConfig{
			StoreID:       viper.GetString("GATEWAY_STORE_ID"),
			StorePassword: viper.GetString("GATEWAY_STORE_PASSWORD"),
			Sandbox:       viper.GetBool("GATEWAY_SANDBOX"),
			Timeout:       gatewayTimeout,
		},
		Order: OrderConfig{
			NumberMaxAttempts: viper.GetInt("ORDER_NUMBER_MAX_ATTEMPTS"),
		},
	}

	return cfg, nil
}
