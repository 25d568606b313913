package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// JWTConfig holds session token settings
type JWTConfig struct {
	Secret     string
	Issuer     string
	Audience   string
	Expiration time.Duration
}

// RedisConfig points at the optional rate-limit store. Empty Addr disables limiting.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RateLimitConfig bounds login and password-reset attempts per email
type RateLimitConfig struct {
	MaxAttempts int
	Window      time.Duration
}

// SMTPConfig holds mail delivery settings. Empty Host selects the log mailer.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Config is the application configuration. It is built once at startup
// and passed by value or pointer into constructors; nothing mutates it afterwards.
type Config struct {
	ServerPort       string
	GinMode          string
	LogLevel         string
	DB               DBConfig
	JWT              JWTConfig
	OTPTTL           time.Duration
	BcryptCost       int
	APIKey           string
	AESKey           string
	Redis            RedisConfig
	RateLimit        RateLimitConfig
	SMTP             SMTPConfig
	SeedAccountsPath string
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	dbCfg, err := LoadDBConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ServerPort:       getenv("SERVER_PORT", "8080"),
		GinMode:          os.Getenv("GIN_MODE"),
		LogLevel:         getenv("LOG_LEVEL", "info"),
		DB:               *dbCfg,
		APIKey:           os.Getenv("API_KEY"),
		AESKey:           os.Getenv("AES_KEY"),
		SeedAccountsPath: os.Getenv("SEED_ACCOUNTS_PATH"),
		JWT: JWTConfig{
			Secret:   os.Getenv("JWT_SECRET_KEY"),
			Issuer:   getenv("JWT_ISSUER", "member-directory"),
			Audience: getenv("JWT_AUDIENCE", "member-directory-clients"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET_KEY not set in environment")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("API_KEY not set in environment")
	}
	if cfg.AESKey == "" {
		return nil, errors.New("AES_KEY not set in environment")
	}

	var jwtMinutes, otpMinutes, windowMinutes int
	ints := []struct {
		key  string
		def  int
		dest *int
	}{
		{"JWT_EXPIRATION_MINUTES", 60, &jwtMinutes},
		{"OTP_TTL_MINUTES", 10, &otpMinutes},
		{"BCRYPT_COST", 12, &cfg.BcryptCost},
		{"REDIS_DB", 0, &cfg.Redis.DB},
		{"RESET_MAX_ATTEMPTS", 5, &cfg.RateLimit.MaxAttempts},
		{"RESET_WINDOW_MINUTES", 15, &windowMinutes},
		{"SMTP_PORT", 587, &cfg.SMTP.Port},
	}
	for _, v := range ints {
		n, err := getenvInt(v.key, v.def)
		if err != nil {
			return nil, err
		}
		*v.dest = n
	}

	if jwtMinutes <= 0 {
		return nil, fmt.Errorf("JWT_EXPIRATION_MINUTES must be positive, got %d", jwtMinutes)
	}
	if otpMinutes <= 0 {
		return nil, fmt.Errorf("OTP_TTL_MINUTES must be positive, got %d", otpMinutes)
	}
	cfg.JWT.Expiration = time.Duration(jwtMinutes) * time.Minute
	cfg.OTPTTL = time.Duration(otpMinutes) * time.Minute
	cfg.RateLimit.Window = time.Duration(windowMinutes) * time.Minute

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return n, nil
}
