package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

const envPrefix = "MEDPOINT"

type JWTConfig struct {
	SecretKey string        `mapstructure:"secretKey"`
	Issuer    string        `mapstructure:"issuer"`
	Audience  string        `mapstructure:"audience"`
	TokenTTL  time.Duration `mapstructure:"tokenTTL"`
}

type RegulatoryConfig struct {
	// Mode is either "simulated" or "http".
	Mode             string        `mapstructure:"mode"`
	BaseURL          string        `mapstructure:"baseURL"`
	Timeout          time.Duration `mapstructure:"timeout"`
	SimulatedLatency time.Duration `mapstructure:"simulatedLatency"`
}

// NormalizedMode is Mode trimmed and lower-cased.
func (r RegulatoryConfig) NormalizedMode() string {
	return strings.ToLower(strings.TrimSpace(r.Mode))
}

type RateLimitConfig struct {
	AuthenticateRequests int           `mapstructure:"authenticateRequests"`
	Window               time.Duration `mapstructure:"window"`
}

type SeedConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	AdminUsername string `mapstructure:"adminUsername"`
	AdminPassword string `mapstructure:"adminPassword"`
	AdminEmail    string `mapstructure:"adminEmail"`
	DemoDrugs     bool   `mapstructure:"demoDrugs"`
}

type Config struct {
	Mode     string `mapstructure:"mode"`
	Dotenv   string `mapstructure:"dotenv"`
	Handlers struct {
		Prometheus struct {
			Port string `mapstructure:"port"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Repositories struct {
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
			MaxConns          int32  `mapstructure:"maxConns"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort        string        `mapstructure:"HTTPPort"`
		Timeout         time.Duration `mapstructure:"HTTPTimeout"`
		ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
		AllowedOrigins  []string      `mapstructure:"allowedOrigins"`
	} `mapstructure:"server"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Regulatory RegulatoryConfig `mapstructure:"regulatory"`
	RateLimit  RateLimitConfig  `mapstructure:"rateLimit"`
	Security   struct {
		BcryptCost int `mapstructure:"bcryptCost"`
	} `mapstructure:"security"`
	Seed SeedConfig `mapstructure:"seed"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// MEDPOINT_JWT_SECRETKEY overrides jwt.secretKey, and so on.
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err = config.validate(); err != nil {
		return Config{}, err
	}
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}

func (c *Config) validate() error {
	if c.JWT.SecretKey == "" {
		return fmt.Errorf("invalid config: jwt.secretKey must be set")
	}
	if c.JWT.TokenTTL <= 0 {
		return fmt.Errorf("invalid config: jwt.tokenTTL must be positive")
	}
	if c.Regulatory.Timeout <= 0 {
		return fmt.Errorf("invalid config: regulatory.timeout must be positive")
	}
	switch c.Regulatory.NormalizedMode() {
	case "simulated", "http":
	default:
		return fmt.Errorf("invalid config: unknown regulatory.mode %q", c.Regulatory.Mode)
	}
	return nil
}
