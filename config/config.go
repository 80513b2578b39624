package config

import (
	"time"
	_ "time/tzdata"

	"petshop/pkg/logger"

	"github.com/spf13/viper"
)

const (
	DefaultBusinessTimezone = "America/Sao_Paulo"
	DefaultAddressLookupURL = "https://brasilapi.com.br"
	DefaultAuthTokenTTL     = 12
)

type Config struct {
	GeneralVersion       string `mapstructure:"GENERAL_VERSION"`
	Environment          string `mapstructure:"ENVIRONMENT"`
	ServerPort           int    `mapstructure:"SERVER_PORT"`
	DatabaseHost         string `mapstructure:"DB_HOST"`
	DatabasePort         int    `mapstructure:"DB_PORT"`
	DatabaseName         string `mapstructure:"DB_NAME"`
	DatabaseUser         string `mapstructure:"DB_USER"`
	DatabasePassword     string `mapstructure:"DB_PASSWORD"`
	DatabaseCacheAddress string `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DB_CACHE_PORT"`
	DatabaseCacheReset   int    `mapstructure:"DB_CACHE_RESET"`
	CorsAllowOrigins     string `mapstructure:"CORS_ALLOW_ORIGINS"`
	AuthTokenSecret      string `mapstructure:"AUTH_TOKEN_SECRET"`
	AuthTokenTTLHours    int    `mapstructure:"AUTH_TOKEN_TTL_HOURS"`
	BusinessTimezone     string `mapstructure:"BUSINESS_TIMEZONE"`
	AddressLookupURL     string `mapstructure:"ADDRESS_LOOKUP_URL"`
	SchedulerEnabled     bool   `mapstructure:"SCHEDULER_ENABLED"`
	AdminEmail           string `mapstructure:"ADMIN_EMAIL"`
	AdminName            string `mapstructure:"ADMIN_NAME"`
}

var envVars = []string{
	"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT",
	"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
	"DB_CACHE_ADDRESS", "DB_CACHE_PORT", "DB_CACHE_RESET",
	"CORS_ALLOW_ORIGINS",
	"AUTH_TOKEN_SECRET", "AUTH_TOKEN_TTL_HOURS",
	"BUSINESS_TIMEZONE", "ADDRESS_LOOKUP_URL",
	"SCHEDULER_ENABLED", "ADMIN_EMAIL", "ADMIN_NAME",
}

func New() (Config, error) {
	log := logger.New("config").Function("New")
	log.Info("Initializing config")

	v := viper.New()
	v.AutomaticEnv()

	for _, env := range envVars {
		if err := v.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	v.SetDefault("BUSINESS_TIMEZONE", DefaultBusinessTimezone)
	v.SetDefault("ADDRESS_LOOKUP_URL", DefaultAddressLookupURL)
	v.SetDefault("AUTH_TOKEN_TTL_HOURS", DefaultAuthTokenTTL)
	v.SetDefault("DB_CACHE_RESET", -1)

	if v.IsSet("SERVER_PORT") && v.IsSet("DB_HOST") {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		v.SetConfigFile(".env")
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		v.SetConfigFile(".env.local")
		if err := v.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	if err := Validate(config); err != nil {
		return Config{}, err
	}

	log.Info("Successfully initialized config",
		"environment", config.Environment,
		"port", config.ServerPort,
		"timezone", config.BusinessTimezone,
	)
	return config, nil
}

// Validate checks the settings the server cannot start without.
func Validate(config Config) error {
	log := logger.New("config").Function("Validate")

	if config.ServerPort <= 0 {
		return log.Error("Fatal error: invalid server port", "port", config.ServerPort)
	}

	if config.AuthTokenSecret == "" {
		return log.ErrMsg("Fatal error: AUTH_TOKEN_SECRET is required")
	}

	if _, err := config.Location(); err != nil {
		return log.Err("Fatal error: invalid BUSINESS_TIMEZONE", err, "timezone", config.BusinessTimezone)
	}

	return nil
}

// Location resolves the business timezone used for scheduling rules.
func (c Config) Location() (*time.Location, error) {
	name := c.BusinessTimezone
	if name == "" {
		name = DefaultBusinessTimezone
	}
	return time.LoadLocation(name)
}

func (c Config) AuthTokenTTL() time.Duration {
	if c.AuthTokenTTLHours <= 0 {
		return DefaultAuthTokenTTL * time.Hour
	}
	return time.Duration(c.AuthTokenTTLHours) * time.Hour
}

func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}
