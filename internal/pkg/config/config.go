package config

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,           default=8080"`
	Env       string        `env:"ENV,            default=development"`
	LogLevel  string        `env:"LOG_LEVEL,      default=info"`
	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_EXPIRES_IN, default=24h"`

	// TrustedProxies lists CIDRs allowed to set X-Forwarded-For.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Uploads  UploadConfig
	Auth     AuthConfig
	Activity ActivityConfig
	Roster   RosterConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=decree_portal"`
}

type RedisConfig struct {
	Addr          string        `env:"REDIS_ADDR,      default=localhost:6379"`
	Password      string        `env:"REDIS_PASSWORD"`
	DB            int           `env:"REDIS_DB,        default=0"`
	StatsCacheTTL time.Duration `env:"STATS_CACHE_TTL, default=5m"`
}

type UploadConfig struct {
	Dir         string `env:"UPLOADS_DIR,      default=./uploads"`
	BaseURL     string `env:"UPLOADS_BASE_URL, default=/uploads"`
	MaxUploadMB int64  `env:"MAX_UPLOAD_MB,    default=10"`
}

// MaxBytes is the upload size limit in bytes.
func (u UploadConfig) MaxBytes() int64 {
	return u.MaxUploadMB << 20
}

type AuthConfig struct {
	EmailDomain string  `env:"AUTH_EMAIL_DOMAIN, default=ansi.ne"`
	LoginRate   float64 `env:"LOGIN_RATE,        default=0.2"`
	LoginBurst  int     `env:"LOGIN_BURST,       default=5"`
}

type ActivityConfig struct {
	Workers int `env:"ACTIVITY_WORKERS, default=4"`
}

type RosterConfig struct {
	AliasesFile string `env:"ROSTER_ALIASES_FILE"`
}

// IsDevelopment reports whether the service runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// TrustedNetworks parses TRUSTED_PROXIES. Bare addresses are taken as /32
// or /128.
func (c *Config) TrustedNetworks() ([]*net.IPNet, error) {
	nets := make([]*net.IPNet, 0, len(c.TrustedProxies))
	for _, raw := range c.TrustedProxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if !strings.Contains(raw, "/") {
			ip := net.ParseIP(raw)
			if ip == nil {
				return nil, fmt.Errorf("TRUSTED_PROXIES: invalid address %q", raw)
			}
			bits := 128
			if ip.To4() != nil {
				ip, bits = ip.To4(), 32
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, n, err := net.ParseCIDR(raw)
		if err != nil {
			return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
		}
		nets = append(nets, n)
	}
	return nets, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" && !c.IsDevelopment() {
		errs = append(errs, errors.New("JWT_SECRET is required outside development"))
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRES_IN must be positive"))
	}
	if c.Uploads.MaxUploadMB <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_MB must be positive"))
	}
	if c.Auth.LoginRate <= 0 || c.Auth.LoginBurst <= 0 {
		errs = append(errs, errors.New("LOGIN_RATE and LOGIN_BURST must be positive"))
	}
	if _, err := c.TrustedNetworks(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// LoadFrom reads configuration through lookuper and validates it.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = devJWTSecret
	}
	return &cfg, nil
}

// devJWTSecret signs tokens in development when JWT_SECRET is unset.
const devJWTSecret = "dev-secret-change-me"
