// internal/config/config.go
package config

import (
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"customer-portal/internal/domain"
	"customer-portal/pkg/db"
)

// Storage drivers.
const (
	DriverJSON     = "json"
	DriverPostgres = "postgres"
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort          string
	LogLevel            string
	Storage             StorageConfig
	DB                  db.Config
	Session             SessionConfig
	BcryptCost          int
	RequireStaffSession bool
	RateLimitPerMinute  int
	AllowedOrigins      []string
	TrustedProxies      []netip.Prefix
	Limits              domain.SystemSettings
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Driver   string
	DataFile string
}

// SessionConfig configures the session cookie. An empty Secret makes the
// application generate an ephemeral one at start-up.
type SessionConfig struct {
	Secret       string
	MaxAge       time.Duration
	CookieName   string
	CookieSecure bool
}

// raw mirrors the configuration keys. Keys are matched case-insensitively
// against environment variables and the optional config file.
type raw struct {
	ServerPort           string        `mapstructure:"server_port"`
	LogLevel             string        `mapstructure:"log_level"`
	StorageDriver        string        `mapstructure:"storage_driver"`
	DataFile             string        `mapstructure:"data_file"`
	DBHost               string        `mapstructure:"db_host"`
	DBPort               int           `mapstructure:"db_port"`
	DBUser               string        `mapstructure:"db_user"`
	DBPassword           string        `mapstructure:"db_password"`
	DBName               string        `mapstructure:"db_name"`
	DBSSLMode            string        `mapstructure:"db_sslmode"`
	SessionSecret        string        `mapstructure:"session_secret"`
	SessionMaxAge        time.Duration `mapstructure:"session_max_age"`
	SessionCookieName    string        `mapstructure:"session_cookie_name"`
	CookieSecure         bool          `mapstructure:"cookie_secure"`
	BcryptCost           int           `mapstructure:"bcrypt_cost"`
	RequireStaffSession  bool          `mapstructure:"require_staff_session"`
	RateLimitPerMinute   int           `mapstructure:"rate_limit_per_minute"`
	CORSAllowedOrigins   []string      `mapstructure:"cors_allowed_origins"`
	TrustedProxies       []string      `mapstructure:"trusted_proxies"`
	MinTransactionAmount string        `mapstructure:"min_transaction_amount"`
	MaxTransactionAmount string        `mapstructure:"max_transaction_amount"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("storage_driver", DriverJSON)
	v.SetDefault("data_file", "data/db.json")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", 5432)
	v.SetDefault("db_user", "portal")
	v.SetDefault("db_password", "password")
	v.SetDefault("db_name", "portal")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("session_secret", "")
	v.SetDefault("session_max_age", "30m")
	v.SetDefault("session_cookie_name", "secureSessionId")
	v.SetDefault("cookie_secure", false)
	v.SetDefault("bcrypt_cost", 12)
	v.SetDefault("require_staff_session", false)
	v.SetDefault("rate_limit_per_minute", 120)
	v.SetDefault("cors_allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("trusted_proxies", []string{})
	v.SetDefault("min_transaction_amount", "0.01")
	v.SetDefault("max_transaction_amount", "1000000.00")
}

// LoadConfig loads configuration from the environment (seeded from an
// optional .env file) and an optional config file named by CONFIG_FILE.
// Environment variables take precedence over the file, which takes
// precedence over the defaults.
func LoadConfig() (*AppConfig, error) {
	// A missing .env file is normal outside development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path := v.GetString("config_file"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	var r raw
	if err := v.Unmarshal(&r); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return r.build()
}

func (r raw) build() (*AppConfig, error) {
	driver := strings.ToLower(strings.TrimSpace(r.StorageDriver))
	if driver != DriverJSON && driver != DriverPostgres {
		return nil, fmt.Errorf("invalid STORAGE_DRIVER %q: want %q or %q", r.StorageDriver, DriverJSON, DriverPostgres)
	}
	if r.SessionMaxAge <= 0 {
		return nil, fmt.Errorf("invalid SESSION_MAX_AGE %s: must be positive", r.SessionMaxAge)
	}

	minAmount, err := parseAmount("MIN_TRANSACTION_AMOUNT", r.MinTransactionAmount)
	if err != nil {
		return nil, err
	}
	maxAmount, err := parseAmount("MAX_TRANSACTION_AMOUNT", r.MaxTransactionAmount)
	if err != nil {
		return nil, err
	}
	if maxAmount.IsPositive() && minAmount.GreaterThan(maxAmount) {
		return nil, fmt.Errorf("MIN_TRANSACTION_AMOUNT %s exceeds MAX_TRANSACTION_AMOUNT %s", minAmount, maxAmount)
	}

	origins := make([]string, 0, len(r.CORSAllowedOrigins))
	for _, o := range r.CORSAllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	proxies, err := parseProxies(r.TrustedProxies)
	if err != nil {
		return nil, err
	}

	return &AppConfig{
		ServerPort: r.ServerPort,
		LogLevel:   r.LogLevel,
		Storage: StorageConfig{
			Driver:   driver,
			DataFile: r.DataFile,
		},
		DB: db.Config{
			Host:     r.DBHost,
			Port:     r.DBPort,
			User:     r.DBUser,
			Password: r.DBPassword,
			DBName:   r.DBName,
			SSLMode:  r.DBSSLMode,
		},
		Session: SessionConfig{
			Secret:       r.SessionSecret,
			MaxAge:       r.SessionMaxAge,
			CookieName:   r.SessionCookieName,
			CookieSecure: r.CookieSecure,
		},
		BcryptCost:          r.BcryptCost,
		RequireStaffSession: r.RequireStaffSession,
		RateLimitPerMinute:  r.RateLimitPerMinute,
		AllowedOrigins:      origins,
		TrustedProxies:      proxies,
		Limits: domain.SystemSettings{
			MinTransactionAmount: minAmount,
			MaxTransactionAmount: maxAmount,
		},
	}, nil
}

func parseAmount(key, value string) (decimal.Decimal, error) {
	if strings.TrimSpace(value) == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}

// parseProxies accepts CIDR ranges and bare addresses.
func parseProxies(values []string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if p, err := netip.ParsePrefix(v); err == nil {
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q", v)
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}
